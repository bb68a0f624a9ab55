// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"encoding/json"

	"github.com/33cn/rps/common/address"
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Instantiate 初始化合约, 每个存储只能执行一次
func (r *rps) Instantiate(payload []byte) (*types.Receipt, error) {
	var msg rt.InstantiateMsg
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, errors.Wrap(types.ErrDecode, err.Error())
		}
	}
	if _, err := loadInfo(r.GetStateDB()); err == nil {
		return nil, rt.ErrAlreadyInstantiated
	} else if err != rt.ErrNotInstantiated {
		return nil, err
	}
	if msg.Admin != "" {
		if err := address.CheckAddress(msg.Admin); err != nil {
			return nil, errors.Wrapf(types.ErrInvalidAddress, "admin %q", msg.Admin)
		}
	}
	info := &rt.ContractInfo{
		Contract: rt.ContractName,
		Version:  rt.ContractVersion,
		Schema:   rt.SchemaVersion,
		Admin:    msg.Admin,
	}
	kv := drivers.NewKVCreator(r.GetStateDB())
	saveInfo(kv, info)
	glog.Info("Instantiate", "admin", msg.Admin, "version", info.Version)
	return kv.Receipt(types.JSONLog(rt.TyLogRpsInstantiate, &rt.ReceiptRpsInstantiate{
		Admin:   msg.Admin,
		Version: info.Version,
		Schema:  info.Schema,
	}))
}

// Exec_StartGame 发起游戏
func (r *rps) Exec_StartGame(payload *rt.StartGame) (*types.Receipt, error) {
	action := NewAction(r)
	receipt, err := action.StartGame(payload)
	if err != nil {
		return nil, err
	}
	m := r.GetMetrics()
	m.Inc("rps.game.start", 1)
	m.GaugeAdd("rps.game.awaiting", 1)
	m.GaugeAdd("rps.escrow.held", action.funds[0].Amount)
	return receipt, nil
}

// Exec_OpponentResponse 应战并结算
func (r *rps) Exec_OpponentResponse(payload *rt.OpponentResponse) (*types.Receipt, error) {
	action := NewAction(r)
	receipt, err := action.OpponentResponse(payload)
	if err != nil {
		return nil, err
	}
	m := r.GetMetrics()
	m.Inc("rps.game.resolve", 1)
	m.GaugeAdd("rps.game.awaiting", -1)
	// 结算时双方的押注都已经支付
	m.GaugeAdd("rps.escrow.held", -action.funds[0].Amount)
	return receipt, nil
}
