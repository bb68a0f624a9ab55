// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"encoding/json"

	dbm "github.com/33cn/rps/common/db"
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Migrate 只有 admin 可以调用, 把所有数据转换成当前的存储格式
func (r *rps) Migrate(payload []byte) (*types.Receipt, error) {
	var msg rt.MigrateMsg
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, errors.Wrap(types.ErrDecode, err.Error())
		}
	}
	info, err := loadInfo(r.GetStateDB())
	if err != nil {
		return nil, err
	}
	from := r.GetEnv().From
	if info.Admin == "" || info.Admin != from {
		glog.Error("Migrate", "from", from, "admin", info.Admin, "err", rt.ErrUnauthorized)
		return nil, rt.ErrUnauthorized
	}
	if info.Contract != rt.ContractName {
		return nil, errors.Wrapf(rt.ErrContractMismatch, "stored contract %q", info.Contract)
	}
	if info.Schema > rt.SchemaVersion {
		return nil, errors.Wrapf(rt.ErrSchemaDowngrade, "stored schema %d, code schema %d", info.Schema, rt.SchemaVersion)
	}
	kv := drivers.NewKVCreator(r.GetStateDB())
	stat := &rt.ReceiptRpsMigrate{FromSchema: info.Schema, ToSchema: rt.SchemaVersion, Version: rt.ContractVersion}
	if info.Schema < rt.SchemaVersion {
		if err := migrateGames(r.GetLocalDB(), kv, stat); err != nil {
			return nil, err
		}
		if err := migrateEscrows(r.GetLocalDB(), kv, stat); err != nil {
			return nil, err
		}
		if err := migrateBoards(r.GetLocalDB(), kv, stat); err != nil {
			return nil, err
		}
	}
	info.Version = rt.ContractVersion
	info.Schema = rt.SchemaVersion
	saveInfo(kv, info)
	glog.Info("Migrate", "from", stat.FromSchema, "to", stat.ToSchema, "games", stat.Games, "escrows", stat.Escrows, "boards", stat.Boards)
	return kv.Receipt(types.JSONLog(rt.TyLogRpsMigrate, stat))
}

// scan 先读出全部数据再写入, 遍历时不能写
func scan(ldb dbm.Lister, prefix []byte) (keys, values [][]byte, err error) {
	err = ldb.PrefixScan(prefix, func(key, value []byte) bool {
		keys = append(keys, key)
		values = append(values, value)
		return true
	})
	return keys, values, err
}

func migrateGames(ldb dbm.Lister, kv *drivers.KVCreator, stat *rt.ReceiptRpsMigrate) error {
	keys, values, err := scan(ldb, gamePrefix())
	if err != nil {
		return err
	}
	for i, value := range values {
		game, err := rt.DecodeGameRecord(value)
		if err != nil {
			return errors.Wrapf(err, "game %s", string(keys[i]))
		}
		game.Schema = rt.SchemaVersion
		kv.Add(keys[i], rt.EncodeGameRecord(game))
		//v1 没有 host 索引
		kv.AddList(gameIndexKVs(game))
		stat.Games++
	}
	return kv.Err()
}

func migrateEscrows(ldb dbm.Lister, kv *drivers.KVCreator, stat *rt.ReceiptRpsMigrate) error {
	keys, values, err := scan(ldb, escrowPrefix())
	if err != nil {
		return err
	}
	for i, value := range values {
		entry, err := rt.DecodeEscrowEntry(value)
		if err != nil {
			return errors.Wrapf(err, "escrow %s", string(keys[i]))
		}
		kv.Add(keys[i], rt.EncodeEscrowEntry(entry))
		stat.Escrows++
	}
	return kv.Err()
}

func migrateBoards(ldb dbm.Lister, kv *drivers.KVCreator, stat *rt.ReceiptRpsMigrate) error {
	keys, values, err := scan(ldb, boardPrefix())
	if err != nil {
		return err
	}
	for i, value := range values {
		score, err := rt.DecodePairScore(value)
		if err != nil {
			return errors.Wrapf(err, "leaderboard %s", string(keys[i]))
		}
		kv.Add(keys[i], rt.EncodePairScore(score))
		stat.Boards++
	}
	return kv.Err()
}
