// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackends(t *testing.T) map[string]DB {
	dir := t.TempDir()
	ldb, err := NewGoLevelDB("level", dir, 16)
	require.NoError(t, err)
	t.Cleanup(ldb.Close)
	bdb, err := NewGoBadgerDB("badger", dir, 16)
	require.NoError(t, err)
	t.Cleanup(bdb.Close)
	sdb, err := NewSQLiteDB("sqlite", ":memory:", 16)
	require.NoError(t, err)
	t.Cleanup(sdb.Close)
	mdb, err := NewGoMemDB("mem", "", 0)
	require.NoError(t, err)
	return map[string]DB{
		GoLevelDBBackendStr:  ldb,
		GoBadgerDBBackendStr: bdb,
		SQLiteBackendStr:     sdb,
		MemDBBackendStr:      mdb,
	}
}

func TestBackends(t *testing.T) {
	for name, db := range newTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			testDBGetSet(t, db)
			testDBIterator(t, db)
			testDBBatch(t, db)
		})
	}
}

func testDBGetSet(t *testing.T, db DB) {
	_, err := db.Get([]byte("nokey"))
	assert.Equal(t, ErrNotFoundInDb, err)

	require.NoError(t, db.Set([]byte("k"), []byte("v1")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	require.NoError(t, db.SetSync([]byte("k"), []byte("v2")))
	v, err = db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	require.NoError(t, db.Delete([]byte("k")))
	_, err = db.Get([]byte("k"))
	assert.Equal(t, ErrNotFoundInDb, err)
}

// 迭代测试
func testDBIterator(t *testing.T, db DB) {
	keys := []string{"aaaaaa/1", "my_key/1", "my_key/2", "my_key/3", "my_key/4", "my", "my_", "zzzzzz/1"}
	for _, k := range keys {
		require.NoError(t, db.Set([]byte(k), []byte(k)))
	}
	require.NoError(t, db.Set([]byte{0xff}, []byte("0xff")))

	it := NewListHelper(db)
	list := it.PrefixScan(nil)
	assert.Equal(t, bs("aaaaaa/1", "my", "my_", "my_key/1", "my_key/2", "my_key/3", "my_key/4", "zzzzzz/1", "0xff"), list)

	list = it.IteratorScanFromFirst([]byte("my"), 2)
	assert.Equal(t, bs("my", "my_"), list)

	list = it.IteratorScanFromLast([]byte("my"), 100)
	assert.Equal(t, bs("my_key/4", "my_key/3", "my_key/2", "my_key/1", "my_", "my"), list)

	list = it.IteratorScan([]byte("my"), []byte("my_key/3"), 100, ListASC)
	assert.Equal(t, bs("my_key/4"), list)

	list = it.IteratorScan([]byte("my"), []byte("my_key/3"), 100, ListDESC)
	assert.Equal(t, bs("my_key/2", "my_key/1", "my_", "my"), list)

	list = it.IteratorScan([]byte("my"), []byte("my_key/3"), 2, ListDESC)
	assert.Equal(t, bs("my_key/2", "my_key/1"), list)

	assert.Equal(t, int64(6), it.PrefixCount([]byte("my")))
	assert.Equal(t, int64(4), it.PrefixCount([]byte("my_key/")))
}

func testDBBatch(t *testing.T, db DB) {
	batch := db.NewBatch(true)
	batch.Set([]byte("batch/1"), []byte("1"))
	batch.Set([]byte("batch/2"), []byte("2"))
	batch.Delete([]byte("aaaaaa/1"))
	assert.Equal(t, 3, batch.ValueLen())
	require.NoError(t, batch.Write())

	v, err := db.Get([]byte("batch/2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
	_, err = db.Get([]byte("aaaaaa/1"))
	assert.Equal(t, ErrNotFoundInDb, err)
}

func TestBytesPrefix(t *testing.T) {
	assert.Equal(t, []byte("my`"), BytesPrefix([]byte("my_")))
	assert.Equal(t, []byte{0x01}, BytesPrefix([]byte{0x00, 0xff}))
	assert.Nil(t, BytesPrefix([]byte{0xff, 0xff}))
	assert.Nil(t, BytesPrefix(nil))
}

func TestNewDB(t *testing.T) {
	db, err := NewDB("test", MemDBBackendStr, "", 0)
	require.NoError(t, err)
	assert.IsType(t, &GoMemDB{}, db)

	_, err = NewDB("test", "nosuchdb", "", 0)
	assert.Error(t, err)
}

func bs(values ...string) [][]byte {
	out := make([][]byte, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}
	return out
}
