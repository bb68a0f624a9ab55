// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"github.com/33cn/rps/common/db"
	"github.com/33cn/rps/types"
)

// KVCreator 写入状态数据库的同时记录写入的 kv, 用于生成 receipt
type KVCreator struct {
	kvs  []*types.KeyValue
	kvdb db.KV
	err  error
}

// NewKVCreator new
func NewKVCreator(kv db.KV) *KVCreator {
	return &KVCreator{kvdb: kv}
}

func (c *KVCreator) add(key, value []byte, set bool) *KVCreator {
	if c.err != nil {
		return c
	}
	if set {
		if err := c.kvdb.Set(key, value); err != nil {
			c.err = err
			return c
		}
	}
	c.kvs = append(c.kvs, &types.KeyValue{Key: key, Value: value})
	return c
}

// Add 写入并记录
func (c *KVCreator) Add(key, value []byte) *KVCreator {
	return c.add(key, value, true)
}

// AddKV 只记录, 不写入
func (c *KVCreator) AddKV(key, value []byte) *KVCreator {
	return c.add(key, value, false)
}

// Del 删除, value 为空表示删除
func (c *KVCreator) Del(key []byte) *KVCreator {
	return c.add(key, nil, true)
}

// AddList 批量写入
func (c *KVCreator) AddList(list []*types.KeyValue) *KVCreator {
	for _, kv := range list {
		c.Add(kv.Key, kv.Value)
	}
	return c
}

// Get 读取, 包括本次已经写入的数据
func (c *KVCreator) Get(key []byte) ([]byte, error) {
	return c.kvdb.Get(key)
}

// Err 第一个写入错误
func (c *KVCreator) Err() error {
	return c.err
}

// KVList 已经记录的 kv
func (c *KVCreator) KVList() []*types.KeyValue {
	return c.kvs
}

// Receipt 生成 receipt
func (c *KVCreator) Receipt(logs ...*types.ReceiptLog) (*types.Receipt, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &types.Receipt{Ty: types.ExecOk, KV: c.kvs, Logs: logs}, nil
}
