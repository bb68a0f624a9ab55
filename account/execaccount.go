// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/rps/common/address"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// LoadExecAccount 载入 addr 在执行器 execaddr 中的账户
func (acc *DB) LoadExecAccount(addr, execaddr string) *types.Account {
	value, err := acc.db.Get(acc.execAccountKey(addr, execaddr))
	if err != nil || len(value) == 0 {
		return &types.Account{Denom: acc.denom, Addr: addr}
	}
	var acc1 types.Account
	err = acc1.Unmarshal(value)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return &acc1
}

// SaveExecAccount 保存执行器账户
func (acc *DB) SaveExecAccount(execaddr string, acc1 *types.Account) error {
	set := acc.GetExecKVSet(execaddr, acc1)
	for i := 0; i < len(set); i++ {
		if err := acc.db.Set(set[i].Key, set[i].Value); err != nil {
			alog.Error("SaveExecAccount", "addr", acc1.Addr, "execaddr", execaddr, "err", err)
			return errors.Wrapf(err, "save exec account %s", acc1.Addr)
		}
	}
	return nil
}

// GetExecKVSet 执行器账户对应的 kv
func (acc *DB) GetExecKVSet(execaddr string, acc1 *types.Account) (kvset []*types.KeyValue) {
	acc1.Denom = acc.denom
	kvset = append(kvset, &types.KeyValue{
		Key:   acc.execAccountKey(acc1.Addr, execaddr),
		Value: acc1.Marshal(),
	})
	return kvset
}

func (acc *DB) execAccountKey(address, execaddr string) (key []byte) {
	key = make([]byte, 0, len(acc.execAccountKeyPerfix)+len(execaddr)+len(address)+1)
	key = append(key, acc.execAccountKeyPerfix...)
	key = append(key, []byte(execaddr)...)
	key = append(key, []byte(":")...)
	key = append(key, []byte(address)...)
	return key
}

// ExecAddress 根据执行器名称获取执行器地址
func (acc *DB) ExecAddress(name string) string {
	return address.ExecAddress(name)
}

// TransferToExec transfer coins from address to exec address
func (acc *DB) TransferToExec(from, to string, amount int64) (*types.Receipt, error) {
	receipt, err := acc.Transfer(from, to, amount)
	if err != nil {
		return nil, err
	}
	receipt2, err := acc.ExecDeposit(from, to, amount)
	if err != nil {
		//存款不应该出任何问题
		panic(err)
	}
	return types.MergeReceipt(receipt, receipt2), nil
}

// TransferWithdraw 撤回转帐, 从执行器 to 中取回 from 的活动资金
func (acc *DB) TransferWithdraw(from, to string, amount int64) (*types.Receipt, error) {
	//先判断可以取款
	if err := acc.CheckTransfer(to, from, amount); err != nil {
		return nil, err
	}
	receipt, err := acc.ExecWithdraw(to, from, amount)
	if err != nil {
		return nil, err
	}
	//然后执行transfer
	receipt2, err := acc.Transfer(to, from, amount)
	if err != nil {
		panic(err) //在withdraw
	}
	return types.MergeReceipt(receipt, receipt2), nil
}

//ExecFrozen 执行冻结资金
func (acc *DB) ExecFrozen(addr, execaddr string, amount int64) (*types.Receipt, error) {
	if addr == execaddr {
		return nil, types.ErrSendSameToRecv
	}
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	acc1 := acc.LoadExecAccount(addr, execaddr)
	if acc1.Balance-amount < 0 {
		alog.Error("ExecFrozen", "balance", acc1.Balance, "amount", amount)
		return nil, types.ErrNoBalance
	}
	copyacc := *acc1
	acc1.Balance -= amount
	acc1.Frozen += amount
	return acc.saveExecReceipt(types.TyLogExecFrozen, execaddr, &copyacc, acc1)
}

// ExecActive 执行激活资金
func (acc *DB) ExecActive(addr, execaddr string, amount int64) (*types.Receipt, error) {
	if addr == execaddr {
		return nil, types.ErrSendSameToRecv
	}
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	acc1 := acc.LoadExecAccount(addr, execaddr)
	if acc1.Frozen-amount < 0 {
		return nil, types.ErrNoBalance
	}
	copyacc := *acc1
	acc1.Balance += amount
	acc1.Frozen -= amount
	return acc.saveExecReceipt(types.TyLogExecActive, execaddr, &copyacc, acc1)
}

// ExecTransfer 执行器内活动资金转帐
func (acc *DB) ExecTransfer(from, to, execaddr string, amount int64) (*types.Receipt, error) {
	if from == to {
		return nil, types.ErrSendSameToRecv
	}
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	accFrom := acc.LoadExecAccount(from, execaddr)
	accTo := acc.LoadExecAccount(to, execaddr)
	if accFrom.GetBalance()-amount < 0 {
		return nil, types.ErrNoBalance
	}
	copyaccFrom := *accFrom
	copyaccTo := *accTo

	var err error
	accTo.Balance, err = safeAdd(accTo.Balance, amount)
	if err != nil {
		return nil, err
	}
	accFrom.Balance -= amount
	return acc.saveExecReceipt2(execaddr, &copyaccFrom, accFrom, &copyaccTo, accTo)
}

// ExecTransferFrozen 从自己冻结的钱里面扣除，转移到别人的活动钱包里面去
func (acc *DB) ExecTransferFrozen(from, to, execaddr string, amount int64) (*types.Receipt, error) {
	if from == to {
		return nil, types.ErrSendSameToRecv
	}
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	accFrom := acc.LoadExecAccount(from, execaddr)
	accTo := acc.LoadExecAccount(to, execaddr)
	b := accFrom.GetFrozen() - amount
	if b < 0 {
		return nil, types.ErrNoBalance
	}
	copyaccFrom := *accFrom
	copyaccTo := *accTo

	var err error
	accTo.Balance, err = safeAdd(accTo.Balance, amount)
	if err != nil {
		return nil, err
	}
	accFrom.Frozen -= amount
	return acc.saveExecReceipt2(execaddr, &copyaccFrom, accFrom, &copyaccTo, accTo)
}

// ExecDeposit  在当前addr的execaddr地址中存款
func (acc *DB) ExecDeposit(addr, execaddr string, amount int64) (*types.Receipt, error) {
	if addr == execaddr {
		return nil, types.ErrSendSameToRecv
	}
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	acc1 := acc.LoadExecAccount(addr, execaddr)
	copyacc := *acc1
	var err error
	acc1.Balance, err = safeAdd(acc1.Balance, amount)
	if err != nil {
		return nil, err
	}
	return acc.saveExecReceipt(types.TyLogExecDeposit, execaddr, &copyacc, acc1)
}

// ExecWithdraw 执行撤回转帐
func (acc *DB) ExecWithdraw(execaddr, addr string, amount int64) (*types.Receipt, error) {
	if addr == execaddr {
		return nil, types.ErrSendSameToRecv
	}
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	acc1 := acc.LoadExecAccount(addr, execaddr)
	if acc1.Balance-amount < 0 {
		return nil, types.ErrNoBalance
	}
	copyacc := *acc1
	acc1.Balance -= amount
	return acc.saveExecReceipt(types.TyLogExecWithdraw, execaddr, &copyacc, acc1)
}

func (acc *DB) saveExecReceipt(ty int32, execaddr string, prev, current *types.Account) (*types.Receipt, error) {
	if err := acc.SaveExecAccount(execaddr, current); err != nil {
		return nil, err
	}
	r := &types.ReceiptExecAccountTransfer{
		ExecAddr: execaddr,
		Prev:     prev,
		Current:  current,
	}
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   acc.GetExecKVSet(execaddr, current),
		Logs: []*types.ReceiptLog{{Ty: ty, Log: r.Marshal()}},
	}, nil
}

func (acc *DB) saveExecReceipt2(execaddr string, prev1, acc1, prev2, acc2 *types.Account) (*types.Receipt, error) {
	if err := acc.SaveExecAccount(execaddr, acc1); err != nil {
		return nil, err
	}
	if err := acc.SaveExecAccount(execaddr, acc2); err != nil {
		return nil, err
	}
	ty := int32(types.TyLogExecTransfer)
	r1 := &types.ReceiptExecAccountTransfer{ExecAddr: execaddr, Prev: prev1, Current: acc1}
	r2 := &types.ReceiptExecAccountTransfer{ExecAddr: execaddr, Prev: prev2, Current: acc2}
	kv := acc.GetExecKVSet(execaddr, acc1)
	kv = append(kv, acc.GetExecKVSet(execaddr, acc2)...)
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   kv,
		Logs: []*types.ReceiptLog{{Ty: ty, Log: r1.Marshal()}, {Ty: ty, Log: r2.Marshal()}},
	}, nil
}
