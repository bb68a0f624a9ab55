// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "github.com/33cn/rps/types"

// InstantiateMsg 初始化合约, admin 可以为空
type InstantiateMsg struct {
	Admin string `json:"admin,omitempty"`
}

// MigrateMsg 升级存储, 没有参数
type MigrateMsg struct{}

// StartGame host 发起游戏, 调用者是 host, 附带押注
type StartGame struct {
	Opponent string `json:"opponent"`
	HostMove Move   `json:"host_move"`
}

// OpponentResponse 对手应战, 调用者是 opponent, 附带同样的押注
type OpponentResponse struct {
	Host    string `json:"host"`
	OppMove Move   `json:"opp_move"`
}

// RpsAction 执行消息
//
//	{"start_game":{"opponent":"...","host_move":"Rock"}}
//	{"opponent_response":{"host":"...","opp_move":"Paper"}}
type RpsAction struct {
	StartGame        *StartGame        `json:"start_game,omitempty"`
	OpponentResponse *OpponentResponse `json:"opponent_response,omitempty"`
}

// GetActionName 动作名称, 同时设置了两个动作时不支持
func (a *RpsAction) GetActionName() string {
	switch {
	case a.StartGame != nil && a.OpponentResponse != nil:
		return ""
	case a.StartGame != nil:
		return ActionStartGame
	case a.OpponentResponse != nil:
		return ActionOpponentResponse
	}
	return ""
}

// GetValue 动作参数
func (a *RpsAction) GetValue() interface{} {
	switch a.GetActionName() {
	case ActionStartGame:
		return a.StartGame
	case ActionOpponentResponse:
		return a.OpponentResponse
	}
	return nil
}

// ReqGamesByPair 一对玩家的历史, 参数顺序无关
type ReqGamesByPair struct {
	Host      string `json:"host"`
	Opponent  string `json:"opponent"`
	Cursor    uint64 `json:"cursor,omitempty"`
	Count     int32  `json:"count,omitempty"`
	Direction int32  `json:"direction,omitempty"`
}

// ReqGamesByHost host 发起的所有游戏
type ReqGamesByHost struct {
	Host      string `json:"host"`
	Cursor    uint64 `json:"cursor,omitempty"`
	Count     int32  `json:"count,omitempty"`
	Direction int32  `json:"direction,omitempty"`
}

// ReqGameID 按 id 查询
type ReqGameID struct {
	ID uint64 `json:"id"`
}

// ReqPair 一对玩家
type ReqPair struct {
	Host     string `json:"host"`
	Opponent string `json:"opponent"`
}

// ReqNil 没有参数的查询
type ReqNil struct{}

// ReplyGames 游戏列表, cursor 是最后一条的 id, 用于查询下一页
type ReplyGames struct {
	Games  []*GameRecord `json:"games"`
	Cursor uint64        `json:"cursor,omitempty"`
}

// ReplyStats 合约的统计
type ReplyStats struct {
	Games    uint64      `json:"games"`
	Awaiting int64       `json:"awaiting"`
	Escrowed types.Coins `json:"escrowed"`
}

// ReceiptRpsInstantiate 初始化日志
type ReceiptRpsInstantiate struct {
	Admin   string `json:"admin,omitempty"`
	Version string `json:"version"`
	Schema  int32  `json:"schema"`
}

// ReceiptRpsStart 发起游戏的日志
type ReceiptRpsStart struct {
	GameID   uint64     `json:"game_id"`
	Host     string     `json:"host"`
	Opponent string     `json:"opponent"`
	Wager    types.Coin `json:"wager"`
}

// ReceiptRpsResolve 结算日志
type ReceiptRpsResolve struct {
	GameID   uint64    `json:"game_id"`
	Host     string    `json:"host"`
	Opponent string    `json:"opponent"`
	Result   Outcome   `json:"result"`
	Winner   string    `json:"winner,omitempty"`
	Denom    string    `json:"denom"`
	Payouts  []*Payout `json:"payouts"`
}

// ReceiptRpsMigrate 升级日志
type ReceiptRpsMigrate struct {
	FromSchema int32  `json:"from_schema"`
	ToSchema   int32  `json:"to_schema"`
	Version    string `json:"version"`
	Games      int    `json:"games"`
	Escrows    int    `json:"escrows"`
	Boards     int    `json:"boards"`
}

// Config 执行器的子配置 [exec.sub.rps]
type Config struct {
	// Denoms 允许的币种, 为空表示不限制
	Denoms   []string `json:"denoms"`
	// MaxWager 单局押注上限, 0 不限制
	MaxWager int64    `json:"maxWager"`
	// RakeBps 分出胜负时从奖池中抽取的万分比, 付给 FeeCollector
	RakeBps  int64    `json:"rakeBps"`

	FeeCollector string `json:"feeCollector"`
	DefaultCount int32  `json:"defaultCount"`
	MaxCount     int32  `json:"maxCount"`
	CacheSize    int    `json:"cacheSize"`
}

// DenomAllowed 币种是否允许
func (c *Config) DenomAllowed(denom string) bool {
	if len(c.Denoms) == 0 {
		return true
	}
	for _, d := range c.Denoms {
		if d == denom {
			return true
		}
	}
	return false
}
