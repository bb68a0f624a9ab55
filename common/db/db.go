// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db 数据库接口以及各个存储后端的实现
package db

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	log "github.com/inconshreveable/log15"
)

var dlog = log.New("module", "db")

// ErrNotFoundInDb key 不存在
var ErrNotFoundInDb = errors.New("ErrNotFoundInDb")

// KV 读写接口，执行器看到的状态数据库只需要这两个操作
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
}

// KVDB KV with delete and listing
type KVDB interface {
	KV
	Lister
	Begin()
	Rollback()
	Commit() error
}

// Lister 列表接口
type Lister interface {
	List(prefix, key []byte, count, direction int32) ([][]byte, error)
	PrefixCount(prefix []byte) int64
	PrefixScan(prefix []byte, fn func(key, value []byte) bool) error
}

// IteratorDB 迭代
type IteratorDB interface {
	Iterator(start []byte, end []byte, reserver bool) Iterator
}

// DB 存储后端需要实现的接口
type DB interface {
	KV
	IteratorDB
	SetSync([]byte, []byte) error
	Delete([]byte) error
	DeleteSync([]byte) error
	Close()
	NewBatch(sync bool) Batch
	Stats() map[string]string
}

// Batch 批量写，Write 是原子的
type Batch interface {
	Set(key, value []byte)
	Delete(key []byte)
	Write() error
	ValueSize() int
	ValueLen() int
	Reset()
}

// Iterator 迭代器接口
type Iterator interface {
	Rewind() bool
	Next() bool
	Valid() bool
	Key() []byte
	Value() []byte
	ValueCopy() []byte
	Error() error
	Close()
}

// IteratorSeeker 支持 Seek 的迭代器
type IteratorSeeker interface {
	Iterator
	Seek(key []byte) bool
}

// ItBase 迭代器的公共区间判断
type ItBase struct {
	Start   []byte
	End     []byte
	Reverse bool
}

// IsReverse 是否逆序
func (it *ItBase) IsReverse() bool {
	return it.Reverse
}

func (it *ItBase) checkKey(key []byte) bool {
	//key must in [start, end)
	if it.Start != nil && bytes.Compare(key, it.Start) < 0 {
		return false
	}
	if it.End != nil && bytes.Compare(key, it.End) >= 0 {
		return false
	}
	return true
}

const (
	// GoLevelDBBackendStr goleveldb 文件存储
	GoLevelDBBackendStr = "leveldb"
	// MemDBBackendStr 内存存储
	MemDBBackendStr = "memdb"
	// GoBadgerDBBackendStr badger 存储
	GoBadgerDBBackendStr = "gobadgerdb"
	// SQLiteBackendStr sqlite 存储
	SQLiteBackendStr = "sqlite"
)

type dbCreator func(name string, dir string, cache int) (DB, error)

var (
	backends  = map[string]dbCreator{}
	backendMu sync.Mutex
)

// RegisterDBCreator 注册存储后端
func RegisterDBCreator(backend string, creator dbCreator, force bool) {
	backendMu.Lock()
	defer backendMu.Unlock()
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// NewDB 按照后端名称创建数据库
func NewDB(name string, backend string, dir string, cache int) (DB, error) {
	backendMu.Lock()
	creator, ok := backends[backend]
	backendMu.Unlock()
	if !ok {
		dlog.Error("NewDB", "backend", backend, "err", "not registered")
		return nil, fmt.Errorf("db backend %s not registered", backend)
	}
	db, err := creator(name, dir, cache)
	if err != nil {
		dlog.Error("NewDB", "backend", backend, "dir", dir, "err", err)
		return nil, err
	}
	return db, nil
}

// CloneByte copy bytes
func CloneByte(v []byte) []byte {
	if v == nil {
		return nil
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value
}

// BytesPrefix returns the smallest key greater than every key with the given prefix.
func BytesPrefix(prefix []byte) []byte {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return limit
}
