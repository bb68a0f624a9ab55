// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"sort"

	"github.com/33cn/rps/common"
	"github.com/33cn/rps/common/address"
	dbm "github.com/33cn/rps/common/db"
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Query_GetGameByHostAndOpponent 一对玩家的历史, 参数顺序无关
func (r *rps) Query_GetGameByHostAndOpponent(req *rt.ReqGamesByPair) (types.Message, error) {
	if _, err := loadInfo(r.GetStateDB()); err != nil {
		return nil, err
	}
	if err := checkAddrs(req.Host, req.Opponent); err != nil {
		return nil, err
	}
	var key []byte
	if req.Cursor > 0 {
		key = pairIndexKey(req.Host, req.Opponent, req.Cursor)
	}
	return listGames(r.GetStateDB(), r.GetLocalDB(), pairIndexPrefix(req.Host, req.Opponent), key, req.Count, req.Direction)
}

// Query_GetGamesByHost host 发起的游戏
func (r *rps) Query_GetGamesByHost(req *rt.ReqGamesByHost) (types.Message, error) {
	if _, err := loadInfo(r.GetStateDB()); err != nil {
		return nil, err
	}
	if err := checkAddrs(req.Host); err != nil {
		return nil, err
	}
	var key []byte
	if req.Cursor > 0 {
		key = hostIndexKey(req.Host, req.Cursor)
	}
	return listGames(r.GetStateDB(), r.GetLocalDB(), hostIndexPrefix(req.Host), key, req.Count, req.Direction)
}

// Query_GetGameByID 按 id 查询
func (r *rps) Query_GetGameByID(req *rt.ReqGameID) (types.Message, error) {
	if _, err := loadInfo(r.GetStateDB()); err != nil {
		return nil, err
	}
	return readGameCached(r.GetStateDB(), req.ID)
}

// Query_GetLeaderboard 战绩, 按参数的顺序给出
func (r *rps) Query_GetLeaderboard(req *rt.ReqPair) (types.Message, error) {
	if _, err := loadInfo(r.GetStateDB()); err != nil {
		return nil, err
	}
	if err := checkAddrs(req.Host, req.Opponent); err != nil {
		return nil, err
	}
	score, err := loadScore(r.GetStateDB(), req.Host, req.Opponent)
	if err != nil {
		return nil, err
	}
	return score.Oriented(req.Host, req.Opponent), nil
}

// Query_GetEscrow 托管中的资金
func (r *rps) Query_GetEscrow(req *rt.ReqGameID) (types.Message, error) {
	if _, err := loadInfo(r.GetStateDB()); err != nil {
		return nil, err
	}
	entry, err := NewEscrow(r.GetStateDB(), r.GetExecAddr(), r.GetCoinsAccount).Entry(req.ID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, rt.ErrGameNotFound
	}
	return entry, nil
}

// Query_GetContractInfo 合约信息
func (r *rps) Query_GetContractInfo(req *rt.ReqNil) (types.Message, error) {
	return loadInfo(r.GetStateDB())
}

// Query_GetStats 游戏数量以及托管的总额
func (r *rps) Query_GetStats(req *rt.ReqNil) (types.Message, error) {
	if _, err := loadInfo(r.GetStateDB()); err != nil {
		return nil, err
	}
	reply := &rt.ReplyStats{}
	if v, err := r.GetStateDB().Get(countKey()); err == nil {
		if reply.Games, err = parseID(v); err != nil {
			return nil, errors.Wrap(types.ErrDecode, err.Error())
		}
	}
	ldb := r.GetLocalDB()
	reply.Awaiting = ldb.PrefixCount(activePrefix())
	held := make(map[string]int64)
	var decodeErr error
	err := ldb.PrefixScan(escrowPrefix(), func(key, value []byte) bool {
		entry, err := rt.DecodeEscrowEntry(value)
		if err != nil {
			decodeErr = errors.Wrapf(err, "escrow %s", string(key))
			return false
		}
		held[entry.Denom] += entry.Total()
		return true
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	for denom, amount := range held {
		reply.Escrowed = append(reply.Escrowed, types.Coin{Denom: denom, Amount: amount})
	}
	sort.Slice(reply.Escrowed, func(i, j int) bool { return reply.Escrowed[i].Denom < reply.Escrowed[j].Denom })
	r.GetMetrics().Gauge("rps.game.awaiting", reply.Awaiting)
	return reply, nil
}

func checkAddrs(addrs ...string) error {
	for _, addr := range addrs {
		if err := address.CheckAddress(addr); err != nil {
			return errors.Wrapf(types.ErrInvalidAddress, "%q", addr)
		}
	}
	return nil
}

// pageSize 默认 DefaultCount, 不超过 MaxCount
func pageSize(count int32) int32 {
	cfg := getConfig()
	if count <= 0 {
		return cfg.DefaultCount
	}
	if count > cfg.MaxCount {
		return cfg.MaxCount
	}
	return count
}

func listGames(statedb dbm.KV, ldb dbm.Lister, prefix, key []byte, count, direction int32) (types.Message, error) {
	if direction != rt.ListASC {
		direction = rt.ListDESC
	}
	values, err := ldb.List(prefix, key, pageSize(count), direction)
	if err != nil {
		return nil, err
	}
	reply := &rt.ReplyGames{Games: make([]*rt.GameRecord, 0, len(values))}
	for _, value := range values {
		id, err := parseID(value)
		if err != nil {
			glog.Error("listGames", "index", string(value), "err", err)
			continue
		}
		game, err := readGameCached(statedb, id)
		if err != nil {
			//跳过脏数据, 不影响整个查询
			glog.Error("listGames", "id", id, "err", err)
			continue
		}
		reply.Games = append(reply.Games, game)
		reply.Cursor = id
	}
	return reply, nil
}

// readGameCached 按编码后数据的哈希缓存解码结果, 返回的是副本
func readGameCached(db dbm.KV, id uint64) (*rt.GameRecord, error) {
	data, err := db.Get(gameKey(id))
	if err == dbm.ErrNotFoundInDb {
		return nil, rt.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	c := getCache()
	if c == nil {
		return rt.DecodeGameRecord(data)
	}
	key := string(common.Sha3(data))
	if v, ok := c.Get(key); ok {
		game := *v.(*rt.GameRecord)
		return &game, nil
	}
	game, err := rt.DecodeGameRecord(data)
	if err != nil {
		return nil, err
	}
	c.Add(key, game)
	cp := *game
	return &cp, nil
}
