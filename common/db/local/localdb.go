// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local 带内存事务的 kv 数据库，执行器的所有写操作先进 txcache，
// Commit 时作为一个 batch 原子写入 maindb，Rollback 直接丢弃
package local

import (
	"errors"
	"sync"

	comdb "github.com/33cn/rps/common/db"
	log "github.com/inconshreveable/log15"
)

var llog = log.New("module", "db.local")

// ErrNotInTx 不在事务中写入
var ErrNotInTx = errors.New("ErrNotInTx")

// DB local db for store key value in local
type DB struct {
	txcache  *comdb.GoMemDB
	maindb   comdb.DB
	intx     bool
	mu       sync.RWMutex
	readOnly bool
}

func newMemDB() *comdb.GoMemDB {
	memdb, err := comdb.NewGoMemDB("", "", 0)
	if err != nil {
		panic(err)
	}
	return memdb
}

// NewLocalDB new local db
func NewLocalDB(maindb comdb.DB, readOnly bool) *DB {
	return &DB{
		maindb:   maindb,
		readOnly: readOnly,
	}
}

// Get get value from local db
func (l *DB) Get(key []byte) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.intx && l.txcache != nil {
		if value, err := l.txcache.Get(key); err == nil {
			if isdeleted(value) {
				//表示已经删除了(空值是删除标记)
				return nil, comdb.ErrNotFoundInDb
			}
			return value, nil
		}
	}
	return l.maindb.Get(key)
}

// Set set key value to local db, 只能在事务中调用
func (l *DB) Set(key []byte, value []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readOnly {
		panic("set local db in read only mode")
	}
	if !l.intx {
		llog.Error("Set", "key", string(key), "err", ErrNotInTx)
		return ErrNotInTx
	}
	if l.txcache == nil {
		l.txcache = newMemDB()
	}
	if value == nil {
		value = []byte{}
	}
	return l.txcache.Set(key, value)
}

// Delete 在事务中标记删除
func (l *DB) Delete(key []byte) error {
	return l.Set(key, nil)
}

// List 从 maindb 中查询数据列表，事务中未提交的数据不会出现在结果中
func (l *DB) List(prefix, key []byte, count, direction int32) ([][]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return comdb.NewListHelper(l.maindb).List(prefix, key, count, direction), nil
}

// PrefixCount 从数据库中查询指定前缀的key的数量
func (l *DB) PrefixCount(prefix []byte) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return comdb.NewListHelper(l.maindb).PrefixCount(prefix)
}

// PrefixScan 遍历 maindb 中某个前缀下的所有 key value
func (l *DB) PrefixScan(prefix []byte, fn func(key, value []byte) bool) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return comdb.NewListHelper(l.maindb).PrefixScanKV(prefix, fn)
}

//Begin 开启内存事务处理
func (l *DB) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intx = true
	l.txcache = nil
}

// Rollback reset tx
func (l *DB) Rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetTx()
}

// Pending 事务中待写入的 key value，按 key 排序, 删除的 key 对应的 value 为空
func (l *DB) Pending() (keys, values [][]byte) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.txcache == nil {
		return nil, nil
	}
	it := l.txcache.Iterator(nil, nil, false)
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, comdb.CloneByte(it.Key()))
		values = append(values, it.ValueCopy())
	}
	return keys, values
}

// Commit 把 txcache 作为一个 batch 写入 maindb
func (l *DB) Commit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.resetTx()
	if l.txcache == nil {
		return nil
	}
	batch := l.maindb.NewBatch(true)
	it := l.txcache.Iterator(nil, nil, false)
	for it.Rewind(); it.Valid(); it.Next() {
		if isdeleted(it.Value()) {
			batch.Delete(it.Key())
		} else {
			batch.Set(it.Key(), it.Value())
		}
	}
	it.Close()
	if err := batch.Write(); err != nil {
		llog.Error("Commit", "err", err)
		return err
	}
	return nil
}

func (l *DB) resetTx() {
	l.intx = false
	l.txcache = nil
}

func isdeleted(d []byte) bool {
	return len(d) == 0
}
