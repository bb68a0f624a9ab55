// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"bytes"
	"database/sql"
	"path"
	"strconv"

	log "github.com/inconshreveable/log15"
	_ "modernc.org/sqlite" // sqlite driver
)

var sqlog = log.New("module", "db.sqlite")

func init() {
	dbCreator := func(name string, dir string, cache int) (DB, error) {
		return NewSQLiteDB(name, dir, cache)
	}
	RegisterDBCreator(SQLiteBackendStr, dbCreator, false)
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	k BLOB PRIMARY KEY,
	v BLOB NOT NULL
) WITHOUT ROWID`

// SQLiteDB 用单表 kv 实现的存储，BLOB 按字节序比较，可以做前缀迭代
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB new, dir 为 ":memory:" 时使用内存库
func NewSQLiteDB(name string, dir string, cache int) (*SQLiteDB, error) {
	dsn := ":memory:"
	if dir != ":memory:" {
		dsn = path.Join(dir, name+".sqlite")
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// 一个连接，保证 :memory: 下所有操作看到同一个库
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if cache > 0 {
		if _, err := sqlDB.Exec("PRAGMA cache_size = -" + strconv.Itoa(cache*1024)); err != nil {
			sqlog.Warn("NewSQLiteDB", "cache", cache, "err", err)
		}
	}
	return &SQLiteDB{db: sqlDB}, nil
}

// Get get
func (db *SQLiteDB) Get(key []byte) ([]byte, error) {
	var value []byte
	err := db.db.QueryRow("SELECT v FROM kv WHERE k = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFoundInDb
	}
	if err != nil {
		sqlog.Error("Get", "error", err)
		return nil, err
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set set
func (db *SQLiteDB) Set(key []byte, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := db.db.Exec("INSERT INTO kv(k, v) VALUES(?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v", key, value)
	if err != nil {
		sqlog.Error("Set", "error", err)
	}
	return err
}

// SetSync sqlite 每次写都是一个事务
func (db *SQLiteDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

// Delete 删除
func (db *SQLiteDB) Delete(key []byte) error {
	_, err := db.db.Exec("DELETE FROM kv WHERE k = ?", key)
	if err != nil {
		sqlog.Error("Delete", "error", err)
	}
	return err
}

// DeleteSync 删除
func (db *SQLiteDB) DeleteSync(key []byte) error {
	return db.Delete(key)
}

// Close 关闭
func (db *SQLiteDB) Close() {
	if err := db.db.Close(); err != nil {
		sqlog.Error("Close", "error", err)
	}
}

// Stats 统计
func (db *SQLiteDB) Stats() map[string]string {
	var count int64
	if err := db.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		return nil
	}
	return map[string]string{"sqlite.keys": strconv.Itoa(int(count))}
}

// Iterator 区间内的数据一次性读入内存，结果集由调用方的前缀限定
func (db *SQLiteDB) Iterator(start []byte, end []byte, reverse bool) Iterator {
	if end == nil {
		end = BytesPrefix(start)
	}
	it := &sqliteIt{ItBase: ItBase{Start: start, End: end, Reverse: reverse}, pos: -1}
	query := "SELECT k, v FROM kv WHERE k >= ?"
	args := []interface{}{start}
	if start == nil {
		args[0] = []byte{}
	}
	if end != nil {
		query += " AND k < ?"
		args = append(args, end)
	}
	query += " ORDER BY k"
	if reverse {
		query += " DESC"
	}
	rows, err := db.db.Query(query, args...)
	if err != nil {
		it.err = err
		return it
	}
	defer rows.Close()
	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			it.err = err
			return it
		}
		it.keys = append(it.keys, k)
		it.values = append(it.values, v)
	}
	it.err = rows.Err()
	return it
}

type sqliteIt struct {
	ItBase
	keys   [][]byte
	values [][]byte
	pos    int
	err    error
}

func (it *sqliteIt) Rewind() bool {
	it.pos = 0
	return it.Valid()
}

func (it *sqliteIt) Next() bool {
	it.pos++
	return it.Valid()
}

// Seek 正序定位到 >= key 的第一个，逆序定位到 <= key 的第一个
func (it *sqliteIt) Seek(key []byte) bool {
	for it.pos = 0; it.pos < len(it.keys); it.pos++ {
		c := bytes.Compare(it.keys[it.pos], key)
		if (!it.Reverse && c >= 0) || (it.Reverse && c <= 0) {
			break
		}
	}
	return it.Valid()
}

func (it *sqliteIt) Valid() bool {
	return it.err == nil && it.pos >= 0 && it.pos < len(it.keys)
}

func (it *sqliteIt) Key() []byte {
	return it.keys[it.pos]
}

func (it *sqliteIt) Value() []byte {
	return it.values[it.pos]
}

func (it *sqliteIt) ValueCopy() []byte {
	return CloneByte(it.values[it.pos])
}

func (it *sqliteIt) Error() error {
	return it.err
}

func (it *sqliteIt) Close() {
	it.keys = nil
	it.values = nil
}

// NewBatch 在一个 sql 事务里提交
func (db *SQLiteDB) NewBatch(sync bool) Batch {
	return &sqliteBatch{db: db}
}

type sqliteBatch struct {
	db     *SQLiteDB
	writes []kv
	size   int
}

func (b *sqliteBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kv{k: CloneByte(key), v: CloneByte(value)})
	b.size += len(key) + len(value)
}

func (b *sqliteBatch) Delete(key []byte) {
	b.writes = append(b.writes, kv{k: CloneByte(key), del: true})
	b.size += len(key)
}

func (b *sqliteBatch) Write() error {
	tx, err := b.db.db.Begin()
	if err != nil {
		return err
	}
	for _, w := range b.writes {
		if w.del {
			_, err = tx.Exec("DELETE FROM kv WHERE k = ?", w.k)
		} else {
			v := w.v
			if v == nil {
				v = []byte{}
			}
			_, err = tx.Exec("INSERT INTO kv(k, v) VALUES(?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v", w.k, v)
		}
		if err != nil {
			_ = tx.Rollback()
			sqlog.Error("Write", "error", err)
			return err
		}
	}
	return tx.Commit()
}

func (b *sqliteBatch) ValueSize() int {
	return b.size
}

func (b *sqliteBatch) ValueLen() int {
	return len(b.writes)
}

func (b *sqliteBatch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}
