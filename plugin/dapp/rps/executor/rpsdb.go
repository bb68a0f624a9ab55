// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"encoding/json"

	"github.com/33cn/rps/common/address"
	dbm "github.com/33cn/rps/common/db"
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Action 一次调用的上下文
type Action struct {
	db        dbm.KV
	localdb   dbm.KVDB
	fromaddr  string
	funds     types.Coins
	height    int64
	blocktime int64
	txhash    string
	execaddr  string
	escrow    *Escrow
	conf      *rt.Config
}

// NewAction new
func NewAction(r *rps) *Action {
	env := r.GetEnv()
	return &Action{
		db:        r.GetStateDB(),
		localdb:   r.GetLocalDB(),
		fromaddr:  env.From,
		funds:     env.Funds,
		height:    env.Height,
		blocktime: env.BlockTime,
		txhash:    env.TxHash,
		execaddr:  r.GetExecAddr(),
		escrow:    NewEscrow(r.GetStateDB(), r.GetExecAddr(), r.GetCoinsAccount),
		conf:      getConfig(),
	}
}

func loadInfo(db dbm.KV) (*rt.ContractInfo, error) {
	data, err := db.Get(infoKey())
	if err == dbm.ErrNotFoundInDb {
		return nil, rt.ErrNotInstantiated
	}
	if err != nil {
		return nil, err
	}
	var info rt.ContractInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	if info.Schema == 0 {
		info.Schema = rt.SchemaV1
	}
	return &info, nil
}

func saveInfo(kv *drivers.KVCreator, info *rt.ContractInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		panic(err)
	}
	kv.Add(infoKey(), data)
}

func readGame(db dbm.KV, id uint64) (*rt.GameRecord, error) {
	data, err := db.Get(gameKey(id))
	if err == dbm.ErrNotFoundInDb {
		return nil, rt.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt.DecodeGameRecord(data)
}

// activeGame 一对玩家当前未结束的游戏
func activeGame(db dbm.KV, a, b string) (*rt.GameRecord, error) {
	v, err := db.Get(activeKey(a, b))
	if err == dbm.ErrNotFoundInDb {
		return nil, rt.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	id, err := parseID(v)
	if err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	return readGame(db, id)
}

func (action *Action) nextID() (uint64, error) {
	v, err := action.db.Get(countKey())
	if err == dbm.ErrNotFoundInDb {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := parseID(v)
	if err != nil {
		return 0, errors.Wrap(types.ErrDecode, err.Error())
	}
	return id + 1, nil
}

// checkWager 调用只能附带一种币
func (action *Action) checkWager() (types.Coin, error) {
	if len(action.funds) == 0 {
		return types.Coin{}, rt.ErrZeroWager
	}
	if len(action.funds) > 1 {
		return types.Coin{}, rt.ErrMultipleDenoms
	}
	wager := action.funds[0]
	if wager.Amount <= 0 {
		return types.Coin{}, rt.ErrZeroWager
	}
	if !action.conf.DenomAllowed(wager.Denom) {
		return types.Coin{}, errors.Wrapf(rt.ErrDenomNotAllowed, "denom %s", wager.Denom)
	}
	if action.conf.MaxWager > 0 && wager.Amount > action.conf.MaxWager {
		return types.Coin{}, errors.Wrapf(rt.ErrWagerTooLarge, "max %d", action.conf.MaxWager)
	}
	return wager, nil
}

// StartGame host 发起游戏, 押注进入托管
func (action *Action) StartGame(start *rt.StartGame) (*types.Receipt, error) {
	if _, err := loadInfo(action.db); err != nil {
		return nil, err
	}
	host := action.fromaddr
	if err := address.CheckAddress(start.Opponent); err != nil {
		return nil, errors.Wrapf(types.ErrInvalidAddress, "opponent %q", start.Opponent)
	}
	if start.Opponent == host {
		return nil, rt.ErrHostIsOpponent
	}
	if !start.HostMove.Valid() {
		return nil, rt.ErrInvalidMove
	}
	wager, err := action.checkWager()
	if err != nil {
		return nil, err
	}
	if _, err := action.db.Get(activeKey(host, start.Opponent)); err == nil {
		glog.Error("StartGame", "host", host, "opponent", start.Opponent, "err", rt.ErrGameAlreadyExists)
		return nil, rt.ErrGameAlreadyExists
	}
	id, err := action.nextID()
	if err != nil {
		return nil, err
	}
	game := &rt.GameRecord{
		ID:            id,
		Host:          host,
		Opponent:      start.Opponent,
		HostMove:      start.HostMove,
		HostWager:     wager,
		Status:        rt.AwaitingOpponent,
		CreatedHeight: action.height,
		CreatedTime:   action.blocktime,
		Schema:        rt.SchemaVersion,
	}
	kv := drivers.NewKVCreator(action.db).
		Add(countKey(), idValue(id)).
		Add(gameKey(id), rt.EncodeGameRecord(game)).
		Add(activeKey(game.Host, game.Opponent), idValue(id))
	kv.AddList(gameIndexKVs(game))
	if err := kv.Err(); err != nil {
		return nil, err
	}
	receipt, err := action.escrow.Hold(id, host, wager)
	if err != nil {
		return nil, err
	}
	log := types.JSONLog(rt.TyLogRpsStart, &rt.ReceiptRpsStart{
		GameID:   id,
		Host:     game.Host,
		Opponent: game.Opponent,
		Wager:    wager,
	})
	r, err := kv.Receipt(log)
	if err != nil {
		return nil, err
	}
	glog.Debug("StartGame", "id", id, "host", host, "opponent", game.Opponent, "wager", wager.String())
	return types.MergeReceipt(r, receipt), nil
}

// gameIndexKVs 查询用的索引, 值是游戏 id
func gameIndexKVs(game *rt.GameRecord) []*types.KeyValue {
	return []*types.KeyValue{
		{Key: pairIndexKey(game.Host, game.Opponent, game.ID), Value: idValue(game.ID)},
		{Key: hostIndexKey(game.Host, game.ID), Value: idValue(game.ID)},
	}
}

// OpponentResponse 对手应战, 同一次调用中托管, 结算并支付
func (action *Action) OpponentResponse(resp *rt.OpponentResponse) (*types.Receipt, error) {
	if _, err := loadInfo(action.db); err != nil {
		return nil, err
	}
	if !resp.OppMove.Valid() {
		return nil, rt.ErrInvalidMove
	}
	game, err := activeGame(action.db, resp.Host, action.fromaddr)
	if err != nil {
		return nil, err
	}
	if game.Host == action.fromaddr {
		return nil, rt.ErrUnauthorized
	}
	if len(action.funds) != 1 || !action.funds[0].Equal(game.HostWager) {
		glog.Error("OpponentResponse", "id", game.ID, "want", game.HostWager.String(), "got", action.funds.String())
		return nil, rt.ErrWagerMismatch
	}
	wager := action.funds[0]
	receipt, err := action.escrow.Hold(game.ID, action.fromaddr, wager)
	if err != nil {
		return nil, err
	}
	game.OpponentMove = resp.OppMove
	game.OpponentWager = &wager
	game.Result, err = Resolve(game.HostMove, game.OpponentMove)
	if err != nil {
		return nil, err
	}
	payouts := Payouts(game, action.conf)
	r, err := action.escrow.Release(game.ID, payouts)
	if err != nil {
		return nil, err
	}
	receipt = types.MergeReceipt(receipt, r)

	game.Status = rt.Resolved
	game.ResolvedHeight = action.height
	game.ResolvedTime = action.blocktime
	game.Schema = rt.SchemaVersion
	score, err := loadScore(action.db, game.Host, game.Opponent)
	if err != nil {
		return nil, err
	}
	score.Record(game)
	kv := drivers.NewKVCreator(action.db).
		Add(gameKey(game.ID), rt.EncodeGameRecord(game)).
		Del(activeKey(game.Host, game.Opponent)).
		Add(boardKey(game.Host, game.Opponent), rt.EncodePairScore(score))
	log := types.JSONLog(rt.TyLogRpsResolve, &rt.ReceiptRpsResolve{
		GameID:   game.ID,
		Host:     game.Host,
		Opponent: game.Opponent,
		Result:   game.Result,
		Winner:   game.Winner(),
		Denom:    wager.Denom,
		Payouts:  payouts,
	})
	r, err = kv.Receipt(log)
	if err != nil {
		return nil, err
	}
	glog.Debug("OpponentResponse", "id", game.ID, "result", game.Result.String(), "winner", game.Winner())
	return types.MergeReceipt(receipt, r), nil
}

func loadScore(db dbm.KV, a, b string) (*rt.PairScore, error) {
	data, err := db.Get(boardKey(a, b))
	if err == dbm.ErrNotFoundInDb {
		lo, hi := rt.SortPair(a, b)
		return &rt.PairScore{A: lo, B: hi}, nil
	}
	if err != nil {
		return nil, err
	}
	return rt.DecodePairScore(data)
}

// Payouts 赢家拿走双方的押注, 平局各自退回; 配置了抽成时从奖池中扣除
func Payouts(game *rt.GameRecord, cfg *rt.Config) []*rt.Payout {
	hostAmount := game.HostWager.Amount
	var oppAmount int64
	if game.OpponentWager != nil {
		oppAmount = game.OpponentWager.Amount
	}
	winner := game.Winner()
	if winner == "" {
		return []*rt.Payout{
			{Recipient: game.Host, Amount: hostAmount},
			{Recipient: game.Opponent, Amount: oppAmount},
		}
	}
	pot := hostAmount + oppAmount
	var fee int64
	if cfg != nil && cfg.RakeBps > 0 && cfg.FeeCollector != "" {
		fee = types.MulDivFloor(pot, cfg.RakeBps, rt.BasisPoints)
	}
	payouts := []*rt.Payout{{Recipient: winner, Amount: pot - fee}}
	if fee > 0 {
		payouts = append(payouts, &rt.Payout{Recipient: cfg.FeeCollector, Amount: fee})
	}
	return payouts
}
