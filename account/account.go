// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package account 按币种管理账户余额以及执行器账户
*/
package account

//package for account manger
//1. load from db
//2. save to db
//3. KVSet
//4. Transfer
//5. exec account: deposit, withdraw, frozen, active

import (
	"fmt"

	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var alog = log.New("module", "account")

// DB for account
type DB struct {
	db                   dbm.KV
	accountKeyPerfix     []byte
	execAccountKeyPerfix []byte
	denom                string
}

// NewAccountDB 创建某个币种的账户数据库, denom 不能包含 "-"
func NewAccountDB(denom string, db dbm.KV) (*DB, error) {
	if err := types.CheckDenom(denom); err != nil {
		return nil, err
	}
	acc := &DB{denom: denom}
	acc.accountKeyPerfix = []byte(DenomPrefix(denom))
	acc.execAccountKeyPerfix = []byte(DenomExecPrefix(denom))
	acc.SetDB(db)
	return acc, nil
}

// SetDB set db
func (acc *DB) SetDB(db dbm.KV) *DB {
	acc.db = db
	return acc
}

// Denom 币种
func (acc *DB) Denom() string {
	return acc.denom
}

// LoadAccount 读取账户, 不存在的账户余额为 0
func (acc *DB) LoadAccount(addr string) *types.Account {
	value, err := acc.db.Get(acc.AccountKey(addr))
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

// LoadAccounts 批量读取
func (acc *DB) LoadAccounts(addrs []string) []*types.Account {
	accs := make([]*types.Account, 0, len(addrs))
	for _, addr := range addrs {
		accs = append(accs, acc.LoadAccount(addr))
	}
	return accs
}

// CheckTransfer 检查余额是否足够转帐
func (acc *DB) CheckTransfer(from, to string, amount int64) error {
	if !types.CheckAmount(amount) {
		return types.ErrAmount
	}
	if from == to {
		return types.ErrSendSameToRecv
	}
	accFrom := acc.LoadAccount(from)
	b := accFrom.GetBalance() - amount
	if b < 0 {
		return types.ErrNoBalance
	}
	return nil
}

// Transfer 转帐
func (acc *DB) Transfer(from, to string, amount int64) (*types.Receipt, error) {
	if err := acc.CheckTransfer(from, to, amount); err != nil {
		return nil, err
	}
	accFrom := acc.LoadAccount(from)
	accTo := acc.LoadAccount(to)
	copyfrom := *accFrom
	copyto := *accTo

	var err error
	accTo.Balance, err = safeAdd(accTo.GetBalance(), amount)
	if err != nil {
		return nil, err
	}
	accFrom.Balance = accFrom.GetBalance() - amount

	receiptBalanceFrom := &types.ReceiptAccountTransfer{
		Prev:    &copyfrom,
		Current: accFrom,
	}
	receiptBalanceTo := &types.ReceiptAccountTransfer{
		Prev:    &copyto,
		Current: accTo,
	}
	if err := acc.SaveAccount(accFrom); err != nil {
		return nil, err
	}
	if err := acc.SaveAccount(accTo); err != nil {
		return nil, err
	}
	return acc.transferReceipt(accFrom, accTo, receiptBalanceFrom, receiptBalanceTo), nil
}

func (acc *DB) transferReceipt(accFrom, accTo *types.Account, receiptFrom, receiptTo *types.ReceiptAccountTransfer) *types.Receipt {
	ty := int32(types.TyLogTransfer)
	log1 := &types.ReceiptLog{
		Ty:  ty,
		Log: receiptFrom.Marshal(),
	}
	log2 := &types.ReceiptLog{
		Ty:  ty,
		Log: receiptTo.Marshal(),
	}
	kv := acc.GetKVSet(accFrom)
	kv = append(kv, acc.GetKVSet(accTo)...)
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   kv,
		Logs: []*types.ReceiptLog{log1, log2},
	}
}

// SaveAccount 保存账户
func (acc *DB) SaveAccount(acc1 *types.Account) error {
	set := acc.GetKVSet(acc1)
	for i := 0; i < len(set); i++ {
		if err := acc.db.Set(set[i].Key, set[i].Value); err != nil {
			alog.Error("SaveAccount", "addr", acc1.Addr, "err", err)
			return errors.Wrapf(err, "save account %s", acc1.Addr)
		}
	}
	return nil
}

// GetKVSet 账户对应的 kv
func (acc *DB) GetKVSet(acc1 *types.Account) (kvset []*types.KeyValue) {
	acc1.Denom = acc.denom
	kvset = append(kvset, &types.KeyValue{
		Key:   acc.AccountKey(acc1.Addr),
		Value: acc1.Marshal(),
	})
	return kvset
}

// AccountKey return the key of address in DB
func (acc *DB) AccountKey(address string) (key []byte) {
	key = append(key, acc.accountKeyPerfix...)
	key = append(key, []byte(address)...)
	return key
}

// DenomPrefix 币种账户的 key 前缀
func DenomPrefix(denom string) string {
	return fmt.Sprintf("mavl-coins-%s-", denom)
}

// DenomExecPrefix 币种执行器账户的 key 前缀
func DenomExecPrefix(denom string) string {
	return fmt.Sprintf("mavl-coins-%s-exec-", denom)
}
