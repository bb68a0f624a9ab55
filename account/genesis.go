// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/rps/types"
)

func safeAdd(balance, amount int64) (int64, error) {
	if balance+amount < amount || balance+amount > types.MaxTokenBalance {
		return balance, types.ErrAmount
	}
	return balance + amount, nil
}

// GenesisInit 生成创世地址账户收据
func (acc *DB) GenesisInit(addr string, amount int64) (receipt *types.Receipt, err error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	accTo := acc.LoadAccount(addr)
	copyto := *accTo
	accTo.Balance, err = safeAdd(accTo.GetBalance(), amount)
	if err != nil {
		return nil, err
	}
	receiptBalanceTo := &types.ReceiptAccountTransfer{
		Prev:    &copyto,
		Current: accTo,
	}
	if err := acc.SaveAccount(accTo); err != nil {
		return nil, err
	}
	return acc.genesisReceipt(accTo, receiptBalanceTo), nil
}

func (acc *DB) genesisReceipt(accTo *types.Account, receiptTo *types.ReceiptAccountTransfer) *types.Receipt {
	ty := int32(types.TyLogGenesisTransfer)
	log2 := &types.ReceiptLog{
		Ty:  ty,
		Log: receiptTo.Marshal(),
	}
	kv := acc.GetKVSet(accTo)
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   kv,
		Logs: []*types.ReceiptLog{log2},
	}
}
