// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"bytes"
	"path"
	"strconv"

	"github.com/dgraph-io/badger"
	log "github.com/inconshreveable/log15"
)

var blog = log.New("module", "db.gobadgerdb")

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewGoBadgerDB(name, dir, cache)
	}
	RegisterDBCreator(GoBadgerDBBackendStr, dbCreator, false)
}

// GoBadgerDB db
type GoBadgerDB struct {
	db *badger.DB
}

// NewGoBadgerDB new
func NewGoBadgerDB(name string, dir string, cache int) (*GoBadgerDB, error) {
	opts := badger.DefaultOptions(path.Join(dir, name+".badger"))
	if cache > 0 {
		opts.MaxTableSize = int64(cache) << 20
	}
	db, err := badger.Open(opts)
	if err != nil {
		blog.Error("NewGoBadgerDB", "error", err)
		return nil, err
	}
	return &GoBadgerDB{db: db}, nil
}

// Get get
func (db *GoBadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, ErrNotFoundInDb
		}
		blog.Error("Get", "error", err)
		return nil, err
	}
	return val, nil
}

// Set set
func (db *GoBadgerDB) Set(key []byte, value []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		blog.Error("Set", "error", err)
	}
	return err
}

// SetSync badger 的 Update 在返回前已经写入 value log
func (db *GoBadgerDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

// Delete 删除
func (db *GoBadgerDB) Delete(key []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		blog.Error("Delete", "error", err)
	}
	return err
}

// DeleteSync 删除
func (db *GoBadgerDB) DeleteSync(key []byte) error {
	return db.Delete(key)
}

// DB 底层 badger
func (db *GoBadgerDB) DB() *badger.DB {
	return db.db
}

// Close 关闭
func (db *GoBadgerDB) Close() {
	err := db.db.Close()
	if err != nil {
		blog.Error("Close", "error", err)
	}
}

// Stats 统计
func (db *GoBadgerDB) Stats() map[string]string {
	lsm, vlog := db.db.Size()
	return map[string]string{
		"badger.lsm":  strconv.FormatInt(lsm, 10),
		"badger.vlog": strconv.FormatInt(vlog, 10),
	}
}

// Iterator 迭代器
func (db *GoBadgerDB) Iterator(start, end []byte, reverse bool) Iterator {
	if end == nil {
		end = BytesPrefix(start)
	}
	opts := badger.DefaultIteratorOptions
	opts.Reverse = reverse
	txn := db.db.NewTransaction(false)
	it := txn.NewIterator(opts)
	return &goBadgerDBIt{
		ItBase: ItBase{Start: start, End: end, Reverse: reverse},
		txn:    txn,
		it:     it,
	}
}

type goBadgerDBIt struct {
	ItBase
	txn *badger.Txn
	it  *badger.Iterator
	err error
}

func (it *goBadgerDBIt) Rewind() bool {
	if it.Reverse {
		if it.End == nil {
			it.it.Rewind()
			return it.Valid()
		}
		it.it.Seek(it.End)
		if it.it.Valid() && bytes.Equal(it.it.Item().Key(), it.End) {
			it.it.Next()
		}
		return it.Valid()
	}
	if it.Start == nil {
		it.it.Rewind()
	} else {
		it.it.Seek(it.Start)
	}
	return it.Valid()
}

// Seek badger 的逆序迭代器 Seek 本身就是定位到 <= key
func (it *goBadgerDBIt) Seek(key []byte) bool {
	it.it.Seek(key)
	return it.Valid()
}

func (it *goBadgerDBIt) Next() bool {
	it.it.Next()
	return it.Valid()
}

func (it *goBadgerDBIt) Valid() bool {
	return it.it.Valid() && it.checkKey(it.it.Item().Key())
}

func (it *goBadgerDBIt) Key() []byte {
	return it.it.Item().Key()
}

func (it *goBadgerDBIt) Value() []byte {
	value, err := it.it.Item().ValueCopy(nil)
	if err != nil {
		it.err = err
	}
	return value
}

func (it *goBadgerDBIt) ValueCopy() []byte {
	return it.Value()
}

func (it *goBadgerDBIt) Error() error {
	return it.err
}

func (it *goBadgerDBIt) Close() {
	it.it.Close()
	it.txn.Discard()
}

// NewBatch badger 的写事务，Write 时一次提交
func (db *GoBadgerDB) NewBatch(sync bool) Batch {
	return &goBadgerDBBatch{db: db, txn: db.db.NewTransaction(true)}
}

type goBadgerDBBatch struct {
	db   *GoBadgerDB
	txn  *badger.Txn
	err  error
	size int
	len  int
}

func (b *goBadgerDBBatch) Set(key, value []byte) {
	if b.err != nil {
		return
	}
	b.err = b.txn.Set(CloneByte(key), CloneByte(value))
	b.size += len(key) + len(value)
	b.len++
}

func (b *goBadgerDBBatch) Delete(key []byte) {
	if b.err != nil {
		return
	}
	b.err = b.txn.Delete(CloneByte(key))
	b.size += len(key)
	b.len++
}

func (b *goBadgerDBBatch) Write() error {
	defer b.txn.Discard()
	if b.err != nil {
		blog.Error("Write", "error", b.err)
		return b.err
	}
	if err := b.txn.Commit(); err != nil {
		blog.Error("Write", "error", err)
		return err
	}
	return nil
}

func (b *goBadgerDBBatch) ValueSize() int {
	return b.size
}

func (b *goBadgerDBBatch) ValueLen() int {
	return b.len
}

func (b *goBadgerDBBatch) Reset() {
	b.txn.Discard()
	b.txn = b.db.db.NewTransaction(true)
	b.err = nil
	b.size = 0
	b.len = 0
}
