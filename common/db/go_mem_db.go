// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"strconv"

	log "github.com/inconshreveable/log15"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var mlog = log.New("module", "db.memdb")

// memdb 应该无需区分同步与异步操作

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoMemDB(name, dir, cache)
	}
	RegisterDBCreator(MemDBBackendStr, dbCreator, false)
}

// GoMemDB db
type GoMemDB struct {
	db *memdb.DB
}

// NewGoMemDB new
func NewGoMemDB(name string, dir string, cache int) (*GoMemDB, error) {
	return &GoMemDB{
		db: memdb.New(comparer.DefaultComparer, 0),
	}, nil
}

// Get get
func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	v, err := db.db.Get(key)
	if err != nil {
		return nil, ErrNotFoundInDb
	}
	return CloneByte(v), nil
}

// Set set
func (db *GoMemDB) Set(key []byte, value []byte) error {
	err := db.db.Put(key, value)
	if err != nil {
		mlog.Error("Set", "error", err)
		return err
	}
	return nil
}

// SetSync 设置同步
func (db *GoMemDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

// Delete 删除
func (db *GoMemDB) Delete(key []byte) error {
	// 删除不存在的 key 不算错误
	_ = db.db.Delete(key)
	return nil
}

// DeleteSync 删除同步
func (db *GoMemDB) DeleteSync(key []byte) error {
	return db.Delete(key)
}

// Close 关闭
func (db *GoMemDB) Close() {
}

// Stats 统计
func (db *GoMemDB) Stats() map[string]string {
	return map[string]string{
		"memdb.len":  strconv.Itoa(db.db.Len()),
		"memdb.size": strconv.Itoa(db.db.Size()),
	}
}

// Iterator 迭代器
func (db *GoMemDB) Iterator(start []byte, end []byte, reverse bool) Iterator {
	if end == nil {
		end = BytesPrefix(start)
	}
	r := &util.Range{Start: start, Limit: end}
	it := db.db.NewIterator(r)
	return &GoLevelDBIt{Iterator: it, ItBase: ItBase{Start: start, End: end, Reverse: reverse}}
}

type kv struct {
	k, v []byte
	del  bool
}

type memBatch struct {
	db     *GoMemDB
	writes []kv
	size   int
}

// NewBatch new
func (db *GoMemDB) NewBatch(sync bool) Batch {
	return &memBatch{db: db}
}

func (b *memBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kv{k: CloneByte(key), v: CloneByte(value)})
	b.size += len(value) + len(key)
}

func (b *memBatch) Delete(key []byte) {
	b.writes = append(b.writes, kv{k: CloneByte(key), del: true})
	b.size += len(key)
}

func (b *memBatch) Write() error {
	for _, kv := range b.writes {
		var err error
		if kv.del {
			err = b.db.Delete(kv.k)
		} else {
			err = b.db.Set(kv.k, kv.v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *memBatch) ValueSize() int {
	return b.size
}

//ValueLen  batch数量
func (b *memBatch) ValueLen() int {
	return len(b.writes)
}

func (b *memBatch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}
