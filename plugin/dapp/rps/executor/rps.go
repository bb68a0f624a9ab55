// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 石头剪刀布合约: 双方押注托管在合约中, 对手应战时立即结算
package executor

import (
	"sync"

	"github.com/33cn/rps/common/address"
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/inconshreveable/log15"
)

var glog = log.New("module", "execs.rps")

var driverName = rt.RpsX

var (
	initOnce sync.Once
	confMu   sync.RWMutex
	conf     = defaultConfig()
	cache    *lru.Cache
)

func defaultConfig() *rt.Config {
	return &rt.Config{
		DefaultCount: rt.DefaultCount,
		MaxCount:     rt.MaxCount,
		CacheSize:    1024,
	}
}

// Init 注册执行器, 每次调用都会重新加载子配置
func Init(name string, sub []byte) {
	cfg := defaultConfig()
	if sub != nil {
		types.MustDecode(sub, cfg)
	}
	setConfig(cfg)
	initOnce.Do(func() {
		drivers.Register(GetName(), newRps, 0)
	})
}

func setConfig(cfg *rt.Config) {
	if cfg.RakeBps < 0 || cfg.RakeBps >= rt.BasisPoints {
		panic("rps: rakeBps out of range")
	}
	if cfg.RakeBps > 0 {
		if err := address.CheckAddress(cfg.FeeCollector); err != nil {
			panic("rps: feeCollector " + err.Error())
		}
	}
	for _, denom := range cfg.Denoms {
		if err := types.CheckDenom(denom); err != nil {
			panic("rps: " + err.Error())
		}
	}
	if cfg.MaxCount <= 0 || cfg.MaxCount > rt.MaxCount {
		cfg.MaxCount = rt.MaxCount
	}
	if cfg.DefaultCount <= 0 || cfg.DefaultCount > cfg.MaxCount {
		cfg.DefaultCount = rt.DefaultCount
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}
	c, err := lru.New(cfg.CacheSize)
	if err != nil {
		panic(err)
	}
	confMu.Lock()
	conf, cache = cfg, c
	confMu.Unlock()
	glog.Debug("Init", "denoms", cfg.Denoms, "maxWager", cfg.MaxWager, "rakeBps", cfg.RakeBps)
}

func getConfig() *rt.Config {
	confMu.RLock()
	defer confMu.RUnlock()
	return conf
}

func getCache() *lru.Cache {
	confMu.RLock()
	defer confMu.RUnlock()
	return cache
}

// GetName 执行器名称
func GetName() string {
	return newRps().GetName()
}

type rps struct {
	drivers.DriverBase
}

func newRps() drivers.Driver {
	r := &rps{}
	r.SetChild(r)
	return r
}

// GetDriverName 驱动名称
func (r *rps) GetDriverName() string {
	return driverName
}

// GetPayloadValue 执行消息
func (r *rps) GetPayloadValue() drivers.Action {
	return &rt.RpsAction{}
}
