// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"bytes"
	"path"

	log "github.com/inconshreveable/log15"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var llog = log.New("module", "db.goleveldb")

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoLevelDB(name, dir, cache)
	}
	RegisterDBCreator(GoLevelDBBackendStr, dbCreator, false)
}

// GoLevelDB db
type GoLevelDB struct {
	db *leveldb.DB
}

// NewGoLevelDB new
func NewGoLevelDB(name string, dir string, cache int) (*GoLevelDB, error) {
	dbPath := path.Join(dir, name+".db")
	if cache <= 0 {
		cache = 64
	}
	handles := cache
	if handles < 16 {
		handles = 16
	}
	db, err := leveldb.OpenFile(dbPath, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		llog.Warn("NewGoLevelDB", "path", dbPath, "recover", err)
		db, err = leveldb.RecoverFile(dbPath, nil)
	}
	if err != nil {
		return nil, err
	}
	return &GoLevelDB{db: db}, nil
}

// Get get
func (db *GoLevelDB) Get(key []byte) ([]byte, error) {
	res, err := db.db.Get(key, nil)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, ErrNotFoundInDb
		}
		llog.Error("Get", "error", err)
		return nil, err
	}
	return res, nil
}

// Set set
func (db *GoLevelDB) Set(key []byte, value []byte) error {
	err := db.db.Put(key, value, nil)
	if err != nil {
		llog.Error("Set", "error", err)
		return err
	}
	return nil
}

// SetSync 同步写
func (db *GoLevelDB) SetSync(key []byte, value []byte) error {
	err := db.db.Put(key, value, &opt.WriteOptions{Sync: true})
	if err != nil {
		llog.Error("SetSync", "error", err)
		return err
	}
	return nil
}

// Delete 删除
func (db *GoLevelDB) Delete(key []byte) error {
	err := db.db.Delete(key, nil)
	if err != nil {
		llog.Error("Delete", "error", err)
		return err
	}
	return nil
}

// DeleteSync 同步删除
func (db *GoLevelDB) DeleteSync(key []byte) error {
	err := db.db.Delete(key, &opt.WriteOptions{Sync: true})
	if err != nil {
		llog.Error("DeleteSync", "error", err)
		return err
	}
	return nil
}

// DB 底层 leveldb
func (db *GoLevelDB) DB() *leveldb.DB {
	return db.db
}

// Close 关闭
func (db *GoLevelDB) Close() {
	err := db.db.Close()
	if err != nil {
		llog.Error("Close", "error", err)
	}
}

// Stats leveldb 统计信息
func (db *GoLevelDB) Stats() map[string]string {
	keys := []string{
		"leveldb.stats",
		"leveldb.sstables",
		"leveldb.blockpool",
		"leveldb.cachedblock",
		"leveldb.openedtables",
		"leveldb.alivesnaps",
		"leveldb.aliveiters",
	}
	stats := make(map[string]string)
	for _, key := range keys {
		str, err := db.db.GetProperty(key)
		if err == nil {
			stats[key] = str
		}
	}
	return stats
}

// Iterator 迭代器, end 为 nil 时迭代 start 前缀
func (db *GoLevelDB) Iterator(start []byte, end []byte, reverse bool) Iterator {
	if end == nil {
		end = BytesPrefix(start)
	}
	r := &util.Range{Start: start, Limit: end}
	it := db.db.NewIterator(r, nil)
	return &GoLevelDBIt{Iterator: it, ItBase: ItBase{Start: start, End: end, Reverse: reverse}}
}

// GoLevelDBIt goleveldb 以及 memdb 共用的迭代器
type GoLevelDBIt struct {
	iterator.Iterator
	ItBase
}

// Close 关闭
func (dbit *GoLevelDBIt) Close() {
	dbit.Iterator.Release()
}

// Rewind 回到起点
func (dbit *GoLevelDBIt) Rewind() bool {
	if dbit.Reverse {
		return dbit.Iterator.Last() && dbit.Valid()
	}
	return dbit.Iterator.First() && dbit.Valid()
}

// Next 下一个
func (dbit *GoLevelDBIt) Next() bool {
	if dbit.Reverse {
		return dbit.Iterator.Prev() && dbit.Valid()
	}
	return dbit.Iterator.Next() && dbit.Valid()
}

// Seek 正序定位到 >= key 的第一个，逆序定位到 <= key 的最后一个
func (dbit *GoLevelDBIt) Seek(key []byte) bool {
	if !dbit.Iterator.Seek(key) {
		if dbit.Reverse {
			return dbit.Iterator.Last() && dbit.Valid()
		}
		return false
	}
	if dbit.Reverse && !bytes.Equal(dbit.Iterator.Key(), key) {
		return dbit.Iterator.Prev() && dbit.Valid()
	}
	return dbit.Valid()
}

// Valid 是否有效
func (dbit *GoLevelDBIt) Valid() bool {
	return dbit.Iterator.Valid() && dbit.checkKey(dbit.Key())
}

// ValueCopy copy
func (dbit *GoLevelDBIt) ValueCopy() []byte {
	return CloneByte(dbit.Value())
}

// NewBatch new
func (db *GoLevelDB) NewBatch(sync bool) Batch {
	batch := new(leveldb.Batch)
	wop := &opt.WriteOptions{Sync: sync}
	return &goLevelDBBatch{db: db, batch: batch, wop: wop}
}

type goLevelDBBatch struct {
	db    *GoLevelDB
	batch *leveldb.Batch
	wop   *opt.WriteOptions
	size  int
	len   int
}

func (mBatch *goLevelDBBatch) Set(key, value []byte) {
	mBatch.batch.Put(key, value)
	mBatch.size += len(key) + len(value)
	mBatch.len++
}

func (mBatch *goLevelDBBatch) Delete(key []byte) {
	mBatch.batch.Delete(key)
	mBatch.size += len(key)
	mBatch.len++
}

func (mBatch *goLevelDBBatch) Write() error {
	err := mBatch.db.db.Write(mBatch.batch, mBatch.wop)
	if err != nil {
		llog.Error("Write", "error", err)
		return err
	}
	return nil
}

func (mBatch *goLevelDBBatch) ValueSize() int {
	return mBatch.size
}

func (mBatch *goLevelDBBatch) ValueLen() int {
	return mBatch.len
}

func (mBatch *goLevelDBBatch) Reset() {
	mBatch.batch.Reset()
	mBatch.len = 0
	mBatch.size = 0
}
