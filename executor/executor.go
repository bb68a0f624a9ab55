// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 合约的运行时: 每次调用在一个内存事务中执行, 成功后作为一个 batch 写入存储
package executor

import (
	"strconv"
	"sync"
	"time"

	"github.com/33cn/rps/account"
	"github.com/33cn/rps/common/address"
	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/common/db/local"
	"github.com/33cn/rps/metrics"
	"github.com/33cn/rps/pluginmgr"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var elog = log.New("module", "execs")

var (
	heightKey   = []byte("Executor:Height")
	genesisKey  = []byte("Executor:Genesis")
	txKeyPerfix = []byte("Executor:Tx:")
)

// Executor 运行时
type Executor struct {
	mu      sync.RWMutex
	maindb  dbm.DB
	ldb     *local.DB
	qdb     *local.DB
	metrics *metrics.Registry
}

// New 在 db 上创建运行时, sub 是各个执行器的子配置
func New(db dbm.DB, sub *types.ConfigSubModule) *Executor {
	var subcfg map[string][]byte
	if sub != nil {
		subcfg = sub.Exec
	}
	pluginmgr.InitExec(subcfg)
	return &Executor{
		maindb:  db,
		ldb:     local.NewLocalDB(db, false),
		qdb:     local.NewLocalDB(db, true),
		metrics: metrics.NewRegistry(),
	}
}

// NewFromConfig 按配置打开存储
func NewFromConfig(cfg *types.Config, sub *types.ConfigSubModule) (*Executor, error) {
	db, err := dbm.NewDB(cfg.Store.Name, cfg.Store.Driver, cfg.Store.DbPath, int(cfg.Store.DbCache))
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", cfg.Store.Driver)
	}
	return New(db, sub), nil
}

// Close 关闭存储
func (exec *Executor) Close() {
	exec.maindb.Close()
}

// Metrics 调用统计
func (exec *Executor) Metrics() *metrics.Registry {
	return exec.metrics
}

// Height 已经执行成功的调用个数
func (exec *Executor) Height() int64 {
	exec.mu.RLock()
	defer exec.mu.RUnlock()
	return exec.height()
}

func (exec *Executor) height() int64 {
	v, err := exec.maindb.Get(heightKey)
	if err != nil {
		return 0
	}
	h, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return h
}

// Instantiate 初始化合约
func (exec *Executor) Instantiate(execer string, env *types.ExecEnv, payload []byte) (*types.Receipt, error) {
	return exec.call("instantiate", execer, env, func(d drivers.Driver) (*types.Receipt, error) {
		return d.Instantiate(payload)
	})
}

// Migrate 升级合约的存储
func (exec *Executor) Migrate(execer string, env *types.ExecEnv, payload []byte) (*types.Receipt, error) {
	return exec.call("migrate", execer, env, func(d drivers.Driver) (*types.Receipt, error) {
		return d.Migrate(payload)
	})
}

// Execute 执行一笔交易
func (exec *Executor) Execute(tx *Tx) (*types.Receipt, error) {
	env := &types.ExecEnv{
		From:      tx.From,
		Funds:     tx.Funds,
		BlockTime: tx.BlockTime,
		TxHash:    tx.HashHex(),
	}
	return exec.call("execute", tx.Execer, env, func(d drivers.Driver) (*types.Receipt, error) {
		return d.Exec(tx.Payload)
	})
}

func (exec *Executor) call(action, execer string, env *types.ExecEnv, fn func(d drivers.Driver) (*types.Receipt, error)) (receipt *types.Receipt, err error) {
	start := time.Now()
	defer func() {
		exec.metrics.Call(execer+"."+action, start, err)
		if err != nil {
			elog.Error("call", "execer", execer, "action", action, "from", env.From, "err", err)
		}
	}()
	if err := address.CheckAddress(env.From); err != nil {
		return nil, errors.Wrapf(types.ErrInvalidAddress, "from %s", env.From)
	}
	if err := env.Funds.Validate(); err != nil {
		return nil, err
	}

	exec.mu.Lock()
	defer exec.mu.Unlock()
	height := exec.height() + 1
	driver, err := drivers.LoadDriverAllow(execer, height)
	if err != nil {
		return nil, err
	}
	callEnv := *env
	callEnv.Height = height
	callEnv.Funds = env.Funds.NonZero()
	if callEnv.BlockTime == 0 {
		callEnv.BlockTime = start.Unix()
	}

	exec.ldb.Begin()
	receipt, err = exec.execTx(driver, &callEnv, fn)
	if err != nil {
		exec.ldb.Rollback()
		return nil, err
	}
	if err := exec.ldb.Commit(); err != nil {
		return nil, err
	}
	elog.Debug("call", "execer", execer, "action", action, "height", height, "kvs", len(receipt.KV))
	return receipt, nil
}

func (exec *Executor) execTx(driver drivers.Driver, env *types.ExecEnv, fn func(d drivers.Driver) (*types.Receipt, error)) (*types.Receipt, error) {
	if env.TxHash != "" {
		txkey := append(append([]byte{}, txKeyPerfix...), env.TxHash...)
		if _, err := exec.ldb.Get(txkey); err == nil {
			return nil, types.ErrTxDup
		}
		if err := exec.ldb.Set(txkey, []byte(strconv.FormatInt(env.Height, 10))); err != nil {
			return nil, err
		}
	}
	driver.SetStateDB(exec.ldb)
	driver.SetLocalDB(exec.ldb)
	driver.SetEnv(env)
	driver.SetMetrics(exec.metrics)

	receipt, err := exec.attachFunds(driver, env)
	if err != nil {
		return nil, err
	}
	r, err := fn(driver)
	if err != nil {
		return nil, err
	}
	receipt = types.MergeReceipt(receipt, r)
	if receipt == nil {
		receipt = &types.Receipt{}
	}
	if err := exec.ldb.Set(heightKey, []byte(strconv.FormatInt(env.Height, 10))); err != nil {
		return nil, err
	}
	receipt.Ty = types.ExecOk
	receipt.KV = pendingKV(exec.ldb)
	return receipt, nil
}

// attachFunds 把调用附带的资金转入执行器
func (exec *Executor) attachFunds(driver drivers.Driver, env *types.ExecEnv) (*types.Receipt, error) {
	var receipt *types.Receipt
	for _, coin := range env.Funds {
		acc, err := driver.GetCoinsAccount(coin.Denom)
		if err != nil {
			return nil, err
		}
		r, err := acc.TransferToExec(env.From, driver.GetExecAddr(), coin.Amount)
		if err != nil {
			elog.Error("attachFunds", "from", env.From, "coin", coin.String(), "err", err)
			return nil, errors.Wrapf(err, "attach %s", coin.String())
		}
		receipt = types.MergeReceipt(receipt, r)
	}
	return receipt, nil
}

// pendingKV 本次调用实际写入的 kv, 按 key 排序
func pendingKV(ldb *local.DB) []*types.KeyValue {
	keys, values := ldb.Pending()
	kvs := make([]*types.KeyValue, 0, len(keys))
	for i := range keys {
		kvs = append(kvs, &types.KeyValue{Key: keys[i], Value: values[i]})
	}
	return kvs
}

// Query 只读查询, 读取已经提交的数据
func (exec *Executor) Query(execer, funcName string, params []byte) (msg types.Message, err error) {
	start := time.Now()
	defer func() {
		exec.metrics.Call(execer+".query."+funcName, start, err)
	}()
	exec.mu.RLock()
	defer exec.mu.RUnlock()
	driver, err := drivers.LoadDriverAllow(execer, exec.height())
	if err != nil {
		return nil, err
	}
	driver.SetStateDB(exec.qdb)
	driver.SetLocalDB(exec.qdb)
	driver.SetEnv(&types.ExecEnv{Height: exec.height()})
	driver.SetMetrics(exec.metrics)
	return driver.Query(funcName, params)
}

// GetBalance 账户余额
func (exec *Executor) GetBalance(denom string, addrs []string) ([]*types.Account, error) {
	exec.mu.RLock()
	defer exec.mu.RUnlock()
	acc, err := account.NewAccountDB(denom, exec.qdb)
	if err != nil {
		return nil, err
	}
	return acc.LoadAccounts(addrs), nil
}

// GetExecBalance addr 在执行器中的余额
func (exec *Executor) GetExecBalance(denom, execer, addr string) (*types.Account, error) {
	exec.mu.RLock()
	defer exec.mu.RUnlock()
	acc, err := account.NewAccountDB(denom, exec.qdb)
	if err != nil {
		return nil, err
	}
	return acc.LoadExecAccount(addr, drivers.ExecAddress(execer)), nil
}

// Genesis 创世分配, 一个存储只能执行一次
func (exec *Executor) Genesis(allocs []*types.Genesis) (*types.Receipt, error) {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	if _, err := exec.maindb.Get(genesisKey); err == nil {
		return nil, types.ErrGenesisInitialized
	}
	exec.ldb.Begin()
	receipt, err := exec.genesis(allocs)
	if err != nil {
		exec.ldb.Rollback()
		elog.Error("Genesis", "err", err)
		return nil, err
	}
	if err := exec.ldb.Commit(); err != nil {
		return nil, err
	}
	elog.Info("Genesis", "allocs", len(allocs))
	return receipt, nil
}

func (exec *Executor) genesis(allocs []*types.Genesis) (*types.Receipt, error) {
	receipt := &types.Receipt{Ty: types.ExecOk}
	for _, alloc := range allocs {
		if err := address.CheckAddress(alloc.Addr); err != nil {
			return nil, errors.Wrapf(types.ErrInvalidAddress, "genesis %s", alloc.Addr)
		}
		acc, err := account.NewAccountDB(alloc.Denom, exec.ldb)
		if err != nil {
			return nil, err
		}
		r, err := acc.GenesisInit(alloc.Addr, alloc.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "genesis %s %d%s", alloc.Addr, alloc.Amount, alloc.Denom)
		}
		receipt = types.MergeReceipt(receipt, r)
	}
	if err := exec.ldb.Set(genesisKey, []byte("true")); err != nil {
		return nil, err
	}
	receipt.KV = pendingKV(exec.ldb)
	return receipt, nil
}
