// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"
	"strconv"

	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

//存储编码
//v2: 第一个字节是 schema 版本, 后面是 protobuf wire 格式, 字段按编号顺序写入, 零值不写
//v1: 升级之前的 json 格式, 金额是字符串, 没有状态字段, 只用于读取和升级

const schemaV2Byte = byte(SchemaV2)

// SchemaOf 数据的存储版本, 无法识别返回 0
func SchemaOf(data []byte) int32 {
	if len(data) == 0 {
		return 0
	}
	switch data[0] {
	case schemaV2Byte:
		return SchemaV2
	case '{':
		return SchemaV1
	}
	return 0
}

func encodeCoin(c types.Coin) []byte {
	return types.NewEncoder().String(1, c.Denom).Int64(2, c.Amount).Buffer()
}

func decodeCoin(data []byte) (types.Coin, error) {
	var c types.Coin
	err := types.DecodeFields(data, func(f *types.Field) error {
		switch f.Num {
		case 1:
			c.Denom = f.String()
		case 2:
			c.Amount = f.Int64()
		}
		return nil
	})
	return c, err
}

// EncodeGameRecord v2 编码
func EncodeGameRecord(g *GameRecord) []byte {
	enc := types.NewEncoder(schemaV2Byte).
		Uint64(1, g.ID).
		String(2, g.Host).
		String(3, g.Opponent).
		Int32(4, int32(g.HostMove)).
		Int32(5, int32(g.OpponentMove)).
		Bytes(6, encodeCoin(g.HostWager))
	if g.OpponentWager != nil {
		enc.Bytes(7, encodeCoin(*g.OpponentWager))
	}
	return enc.Int32(8, int32(g.Status)).
		Int32(9, int32(g.Result)).
		Int64(10, g.CreatedHeight).
		Int64(11, g.CreatedTime).
		Int64(12, g.ResolvedHeight).
		Int64(13, g.ResolvedTime).
		Buffer()
}

// DecodeGameRecord 解码 v1 或者 v2
func DecodeGameRecord(data []byte) (*GameRecord, error) {
	switch SchemaOf(data) {
	case SchemaV2:
		return decodeGameRecordV2(data[1:])
	case SchemaV1:
		return decodeGameRecordV1(data)
	}
	return nil, errors.Wrap(types.ErrDecode, "unknown game record schema")
}

func decodeGameRecordV2(data []byte) (*GameRecord, error) {
	g := &GameRecord{Schema: SchemaV2}
	err := types.DecodeFields(data, func(f *types.Field) error {
		var err error
		switch f.Num {
		case 1:
			g.ID = f.Varint
		case 2:
			g.Host = f.String()
		case 3:
			g.Opponent = f.String()
		case 4:
			g.HostMove = Move(f.Int32())
		case 5:
			g.OpponentMove = Move(f.Int32())
		case 6:
			g.HostWager, err = decodeCoin(f.Data)
		case 7:
			var c types.Coin
			c, err = decodeCoin(f.Data)
			g.OpponentWager = &c
		case 8:
			g.Status = Status(f.Int32())
		case 9:
			g.Result = Outcome(f.Int32())
		case 10:
			g.CreatedHeight = f.Int64()
		case 11:
			g.CreatedTime = f.Int64()
		case 12:
			g.ResolvedHeight = f.Int64()
		case 13:
			g.ResolvedTime = f.Int64()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

type coinV1 struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type gameV1 struct {
	ID        uint64   `json:"id"`
	Host      string   `json:"host"`
	Opponent  string   `json:"opponent"`
	HostWager []coinV1 `json:"host_wager"`
	OppWager  []coinV1 `json:"opp_wager"`
	HostMove  Move     `json:"host_move"`
	OppMove   Move     `json:"opp_move"`
	Result    Outcome  `json:"result"`
}

func toCoinV1(c types.Coin) []coinV1 {
	return []coinV1{{Denom: c.Denom, Amount: strconv.FormatInt(c.Amount, 10)}}
}

func fromCoinV1(cs []coinV1) (types.Coin, error) {
	if len(cs) != 1 {
		return types.Coin{}, errors.Wrapf(types.ErrDecode, "v1 wager has %d coins", len(cs))
	}
	amount, err := strconv.ParseInt(cs[0].Amount, 10, 64)
	if err != nil {
		return types.Coin{}, errors.Wrap(types.ErrDecode, err.Error())
	}
	return types.Coin{Denom: cs[0].Denom, Amount: amount}, nil
}

// EncodeGameRecordV1 升级之前的格式, 高度和时间不会写入
func EncodeGameRecordV1(g *GameRecord) []byte {
	v1 := &gameV1{
		ID:        g.ID,
		Host:      g.Host,
		Opponent:  g.Opponent,
		HostWager: toCoinV1(g.HostWager),
		HostMove:  g.HostMove,
		OppMove:   g.OpponentMove,
		Result:    g.Result,
	}
	if g.OpponentWager != nil {
		v1.OppWager = toCoinV1(*g.OpponentWager)
	}
	data, err := json.Marshal(v1)
	if err != nil {
		panic(err)
	}
	return data
}

func decodeGameRecordV1(data []byte) (*GameRecord, error) {
	var v1 gameV1
	if err := json.Unmarshal(data, &v1); err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	g := &GameRecord{
		ID:           v1.ID,
		Host:         v1.Host,
		Opponent:     v1.Opponent,
		HostMove:     v1.HostMove,
		OpponentMove: v1.OppMove,
		Result:       v1.Result,
		Status:       AwaitingOpponent,
		Schema:       SchemaV1,
	}
	var err error
	if g.HostWager, err = fromCoinV1(v1.HostWager); err != nil {
		return nil, err
	}
	if len(v1.OppWager) > 0 {
		c, err := fromCoinV1(v1.OppWager)
		if err != nil {
			return nil, err
		}
		g.OpponentWager = &c
	}
	if g.Result != OutcomeNone {
		g.Status = Resolved
	}
	return g, nil
}

// EncodeEscrowEntry v2 编码
func EncodeEscrowEntry(e *EscrowEntry) []byte {
	enc := types.NewEncoder(schemaV2Byte).Uint64(1, e.GameID).String(2, e.Denom)
	for _, h := range e.Holds {
		enc.Bytes(3, types.NewEncoder().String(1, h.Payer).Int64(2, h.Amount).Buffer())
	}
	return enc.Buffer()
}

// EncodeEscrowEntryV1 升级之前的格式
func EncodeEscrowEntryV1(e *EscrowEntry) []byte {
	data, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return data
}

// DecodeEscrowEntry 解码 v1 或者 v2
func DecodeEscrowEntry(data []byte) (*EscrowEntry, error) {
	e := &EscrowEntry{}
	switch SchemaOf(data) {
	case SchemaV1:
		if err := json.Unmarshal(data, e); err != nil {
			return nil, errors.Wrap(types.ErrDecode, err.Error())
		}
		return e, nil
	case SchemaV2:
	default:
		return nil, errors.Wrap(types.ErrDecode, "unknown escrow schema")
	}
	err := types.DecodeFields(data[1:], func(f *types.Field) error {
		switch f.Num {
		case 1:
			e.GameID = f.Varint
		case 2:
			e.Denom = f.String()
		case 3:
			h := &Hold{}
			err := types.DecodeFields(f.Data, func(hf *types.Field) error {
				switch hf.Num {
				case 1:
					h.Payer = hf.String()
				case 2:
					h.Amount = hf.Int64()
				}
				return nil
			})
			if err != nil {
				return err
			}
			e.Holds = append(e.Holds, h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EncodePairScore v2 编码
func EncodePairScore(p *PairScore) []byte {
	return types.NewEncoder(schemaV2Byte).
		String(1, p.A).
		String(2, p.B).
		Int64(3, p.WinsA).
		Int64(4, p.WinsB).
		Int64(5, p.Draws).
		Buffer()
}

// v1 的战绩按 host, opponent 保存
type boardV1 struct {
	Host      string `json:"host"`
	Opponent  string `json:"opponent"`
	HostScore int64  `json:"host_score"`
	OppScore  int64  `json:"opp_score"`
	Ties      int64  `json:"ties"`
}

// EncodePairScoreV1 升级之前的格式
func EncodePairScoreV1(p *PairScore) []byte {
	data, err := json.Marshal(&boardV1{Host: p.A, Opponent: p.B, HostScore: p.WinsA, OppScore: p.WinsB, Ties: p.Draws})
	if err != nil {
		panic(err)
	}
	return data
}

// DecodePairScore 解码 v1 或者 v2, 结果总是 A < B
func DecodePairScore(data []byte) (*PairScore, error) {
	p := &PairScore{}
	switch SchemaOf(data) {
	case SchemaV1:
		var v1 boardV1
		if err := json.Unmarshal(data, &v1); err != nil {
			return nil, errors.Wrap(types.ErrDecode, err.Error())
		}
		p.A, p.B, p.WinsA, p.WinsB, p.Draws = v1.Host, v1.Opponent, v1.HostScore, v1.OppScore, v1.Ties
	case SchemaV2:
		err := types.DecodeFields(data[1:], func(f *types.Field) error {
			switch f.Num {
			case 1:
				p.A = f.String()
			case 2:
				p.B = f.String()
			case 3:
				p.WinsA = f.Int64()
			case 4:
				p.WinsB = f.Int64()
			case 5:
				p.Draws = f.Int64()
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrap(types.ErrDecode, "unknown leaderboard schema")
	}
	if p.A > p.B {
		p.A, p.B = p.B, p.A
		p.WinsA, p.WinsB = p.WinsB, p.WinsA
	}
	return p, nil
}

// SortPair 无序的一对玩家, 小的在前
func SortPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
