// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"
	"strings"

	"github.com/33cn/rps/types"
)

// Move 出拳
type Move int32

// 出拳的取值, MoveNone 表示还没有出或者无法识别
const (
	MoveNone Move = iota
	Rock
	Paper
	Scissors
)

var moveNames = map[Move]string{
	Rock:     "Rock",
	Paper:    "Paper",
	Scissors: "Scissors",
}

// ParseMove 不区分大小写, 无法识别的返回 MoveNone
func ParseMove(s string) Move {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock":
		return Rock
	case "paper":
		return Paper
	case "scissors":
		return Scissors
	}
	return MoveNone
}

// Valid 是否是三种出拳之一
func (m Move) Valid() bool {
	_, ok := moveNames[m]
	return ok
}

func (m Move) String() string {
	return moveNames[m]
}

// MarshalJSON 没有出拳编码成 null
func (m Move) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON 无法识别的名字解码成 MoveNone, 由调用方拒绝
func (m *Move) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = MoveNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = ParseMove(s)
	return nil
}

// Outcome 比赛结果
type Outcome int32

// 结果的取值
const (
	OutcomeNone Outcome = iota
	HostWins
	OpponentWins
	Draw
)

var outcomeNames = map[Outcome]string{
	HostWins:     "HostWins",
	OpponentWins: "OpponentWins",
	Draw:         "Draw",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// MarshalJSON 没有结果编码成 null
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o == OutcomeNone {
		return []byte("null"), nil
	}
	return json.Marshal(o.String())
}

// UnmarshalJSON 兼容旧数据的 "Tie"
func (o *Outcome) UnmarshalJSON(data []byte) error {
	*o = OutcomeNone
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "hostwins", "host_wins":
		*o = HostWins
	case "opponentwins", "opponent_wins":
		*o = OpponentWins
	case "draw", "tie":
		*o = Draw
	}
	return nil
}

// Status 游戏状态, 只会从 AwaitingOpponent 变成 Resolved
type Status int32

// 状态的取值
const (
	StatusNone Status = iota
	AwaitingOpponent
	Resolved
)

func (s Status) String() string {
	switch s {
	case AwaitingOpponent:
		return "AwaitingOpponent"
	case Resolved:
		return "Resolved"
	}
	return ""
}

// MarshalJSON json
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON json
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch strings.ToLower(str) {
	case "awaitingopponent":
		*s = AwaitingOpponent
	case "resolved":
		*s = Resolved
	default:
		*s = StatusNone
	}
	return nil
}

// GameRecord 一局游戏
type GameRecord struct {
	ID             uint64      `json:"id"`
	Host           string      `json:"host"`
	Opponent       string      `json:"opponent"`
	HostMove       Move        `json:"host_move"`
	OpponentMove   Move        `json:"opp_move"`
	HostWager      types.Coin  `json:"host_wager"`
	OpponentWager  *types.Coin `json:"opp_wager"`
	Status         Status      `json:"status"`
	Result         Outcome     `json:"result"`
	CreatedHeight  int64       `json:"created_height,omitempty"`
	CreatedTime    int64       `json:"created_time,omitempty"`
	ResolvedHeight int64       `json:"resolved_height,omitempty"`
	ResolvedTime   int64       `json:"resolved_time,omitempty"`
	Schema         int32       `json:"schema"`
}

// Winner 赢家, 平局或者还没有结果时为空
func (g *GameRecord) Winner() string {
	switch g.Result {
	case HostWins:
		return g.Host
	case OpponentWins:
		return g.Opponent
	}
	return ""
}

// Hold 一笔托管的押注
type Hold struct {
	Payer  string `json:"payer"`
	Amount int64  `json:"amount"`
}

// EscrowEntry 一局游戏托管的资金, 只在有资金托管时存在
type EscrowEntry struct {
	GameID uint64  `json:"game_id"`
	Denom  string  `json:"denom"`
	Holds  []*Hold `json:"holds"`
}

// Total 托管的总额
func (e *EscrowEntry) Total() int64 {
	if e == nil {
		return 0
	}
	var total int64
	for _, h := range e.Holds {
		total += h.Amount
	}
	return total
}

// HeldBy payer 是否已经托管
func (e *EscrowEntry) HeldBy(payer string) bool {
	if e == nil {
		return false
	}
	for _, h := range e.Holds {
		if h.Payer == payer {
			return true
		}
	}
	return false
}

// Payout 一笔支付
type Payout struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// PairScore 一对玩家的战绩, A < B
type PairScore struct {
	A     string `json:"a"`
	B     string `json:"b"`
	WinsA int64  `json:"wins_a"`
	WinsB int64  `json:"wins_b"`
	Draws int64  `json:"draws"`
}

// Record 记录一局的结果
func (p *PairScore) Record(g *GameRecord) {
	switch g.Winner() {
	case "":
		p.Draws++
	case p.A:
		p.WinsA++
	case p.B:
		p.WinsB++
	}
}

// Oriented 按 host, opponent 的顺序给出战绩
func (p *PairScore) Oriented(host, opponent string) *Leaderboard {
	lb := &Leaderboard{Host: host, Opponent: opponent}
	if p == nil {
		return lb
	}
	lb.Ties = p.Draws
	if host == p.A {
		lb.HostScore, lb.OppScore = p.WinsA, p.WinsB
	} else {
		lb.HostScore, lb.OppScore = p.WinsB, p.WinsA
	}
	return lb
}

// Leaderboard 查询返回的战绩
type Leaderboard struct {
	Host      string `json:"host"`
	Opponent  string `json:"opponent"`
	HostScore int64  `json:"host_score"`
	OppScore  int64  `json:"opp_score"`
	Ties      int64  `json:"ties"`
}

// ContractInfo 合约信息
type ContractInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
	Schema   int32  `json:"schema"`
	Admin    string `json:"admin,omitempty"`
}
