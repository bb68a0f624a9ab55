// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dapp 执行器(合约)的驱动接口以及公共实现
package dapp

//package dapp 合约的公共部分
//具体的合约嵌入 DriverBase, 实现 Exec_xxx 以及 Query_xxx 函数
//Exec_xxx 由 DriverBase.Exec 按照 payload 中的动作名字分发
//Query_xxx 由 DriverBase.Query 按照查询名字分发

import (
	"encoding/json"
	"reflect"

	"github.com/33cn/rps/account"
	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/metrics"
	"github.com/33cn/rps/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var blog = log.New("module", "execs.base")

// Action 执行消息, 同一时刻只有一个动作被设置
type Action interface {
	GetActionName() string
	GetValue() interface{}
}

// Driver 合约驱动接口
type Driver interface {
	SetStateDB(dbm.KV)
	GetStateDB() dbm.KV
	SetLocalDB(dbm.KVDB)
	GetLocalDB() dbm.KVDB
	GetCoinsAccount(denom string) (*account.DB, error)
	//驱动的名字，这个名称是固定的
	GetDriverName() string
	//执行器的名称
	GetName() string
	SetName(string)
	GetExecAddr() string
	SetEnv(env *types.ExecEnv)
	GetEnv() *types.ExecEnv
	SetMetrics(*metrics.Registry)
	GetMetrics() *metrics.Registry
	Allow(execer string) error
	Instantiate(payload []byte) (*types.Receipt, error)
	Exec(payload []byte) (*types.Receipt, error)
	Migrate(payload []byte) (*types.Receipt, error)
	Query(funcName string, params []byte) (types.Message, error)
	GetPayloadValue() Action
	GetFuncMap() map[string]reflect.Method
}

// DriverBase 合约的公共实现
type DriverBase struct {
	statedb    dbm.KV
	localdb    dbm.KVDB
	accounts   map[string]*account.DB
	env        *types.ExecEnv
	metrics    *metrics.Registry
	name       string
	child      Driver
	childValue reflect.Value
	funcmap    map[string]reflect.Method
}

// SetChild 设置具体的合约
func (d *DriverBase) SetChild(e Driver) {
	d.child = e
	d.childValue = reflect.ValueOf(e)
	d.funcmap = ListMethod(e)
}

// GetFuncMap 合约导出的所有函数
func (d *DriverBase) GetFuncMap() map[string]reflect.Method {
	return d.funcmap
}

// GetPayloadValue 没有执行动作的合约返回 nil
func (d *DriverBase) GetPayloadValue() Action {
	return nil
}

// SetEnv 设置本次调用的上下文
func (d *DriverBase) SetEnv(env *types.ExecEnv) {
	d.env = env
}

// GetEnv get
func (d *DriverBase) GetEnv() *types.ExecEnv {
	if d.env == nil {
		return &types.ExecEnv{}
	}
	return d.env
}

// SetMetrics 设置统计
func (d *DriverBase) SetMetrics(r *metrics.Registry) {
	d.metrics = r
}

// GetMetrics 没有设置的时候返回一个独立的 registry
func (d *DriverBase) GetMetrics() *metrics.Registry {
	if d.metrics == nil {
		d.metrics = metrics.NewRegistry()
	}
	return d.metrics
}

// GetHeight 区块高度
func (d *DriverBase) GetHeight() int64 {
	return d.GetEnv().Height
}

// GetBlockTime 区块时间
func (d *DriverBase) GetBlockTime() int64 {
	return d.GetEnv().BlockTime
}

// SetStateDB set db
func (d *DriverBase) SetStateDB(db dbm.KV) {
	d.statedb = db
	d.accounts = nil
}

// GetStateDB get
func (d *DriverBase) GetStateDB() dbm.KV {
	return d.statedb
}

// SetLocalDB set
func (d *DriverBase) SetLocalDB(db dbm.KVDB) {
	d.localdb = db
}

// GetLocalDB get
func (d *DriverBase) GetLocalDB() dbm.KVDB {
	return d.localdb
}

// GetCoinsAccount 某个币种的账户, 同一次调用内复用
func (d *DriverBase) GetCoinsAccount(denom string) (*account.DB, error) {
	if acc, ok := d.accounts[denom]; ok {
		return acc, nil
	}
	acc, err := account.NewAccountDB(denom, d.statedb)
	if err != nil {
		return nil, err
	}
	if d.accounts == nil {
		d.accounts = make(map[string]*account.DB)
	}
	d.accounts[denom] = acc
	return acc, nil
}

// GetName 执行器名称, 没有设置的时候就是驱动名称
func (d *DriverBase) GetName() string {
	if d.name == "" {
		return d.child.GetDriverName()
	}
	return d.name
}

// SetName set
func (d *DriverBase) SetName(name string) {
	d.name = name
}

// GetExecAddr 执行器地址
func (d *DriverBase) GetExecAddr() string {
	return ExecAddress(d.GetName())
}

// Instantiate 默认不支持
func (d *DriverBase) Instantiate(payload []byte) (*types.Receipt, error) {
	return nil, types.ErrActionNotSupport
}

// Migrate 默认不支持
func (d *DriverBase) Migrate(payload []byte) (*types.Receipt, error) {
	return nil, types.ErrActionNotSupport
}

// Exec 解码 payload, 调用子类的 Exec_xxx
func (d *DriverBase) Exec(payload []byte) (receipt *types.Receipt, err error) {
	action := d.child.GetPayloadValue()
	if action == nil {
		return nil, types.ErrActionNotSupport
	}
	defer func() {
		if r := recover(); r != nil {
			blog.Error("call exec error", "exec", d.GetName(), "info", r)
			err = errors.Wrapf(types.ErrActionNotSupport, "panic: %v", r)
			receipt = nil
		}
	}()
	if err := json.Unmarshal(payload, action); err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	name := action.GetActionName()
	value := action.GetValue()
	if name == "" || value == nil {
		return nil, types.ErrActionNotSupport
	}
	funcname := "Exec_" + name
	method, ok := d.funcmap[funcname]
	if !ok {
		return nil, types.ErrActionNotSupport
	}
	ret, err := callMethod(d.childValue, method, value)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, nil
	}
	if r, ok := ret.(*types.Receipt); ok {
		return r, nil
	}
	return nil, types.ErrMethodReturnType
}
