// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"testing"

	"github.com/33cn/rps/common/address"
	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/common/db/local"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	addr1    = address.SeedToAddress("account1")
	addr2    = address.SeedToAddress("account2")
	execAddr = address.ExecAddress("rps")
)

func newTestAccountDB(t *testing.T) (*DB, *local.DB) {
	mdb, err := dbm.NewGoMemDB("", "", 0)
	require.NoError(t, err)
	ldb := local.NewLocalDB(mdb, false)
	ldb.Begin()
	acc, err := NewAccountDB("urps", ldb)
	require.NoError(t, err)
	return acc, ldb
}

func TestNewAccountDB(t *testing.T) {
	mdb, err := dbm.NewGoMemDB("", "", 0)
	require.NoError(t, err)
	_, err = NewAccountDB("u-rps", mdb)
	assert.Equal(t, types.ErrDenomNameNotAllow, err)
	acc, err := NewAccountDB("urps", mdb)
	require.NoError(t, err)
	assert.Equal(t, "urps", acc.Denom())
	assert.Equal(t, []byte("mavl-coins-urps-"+addr1), acc.AccountKey(addr1))
	assert.Equal(t, []byte("mavl-coins-urps-exec-"+execAddr+":"+addr1), acc.execAccountKey(addr1, execAddr))
}

func TestLoadAccountEmpty(t *testing.T) {
	acc, _ := newTestAccountDB(t)
	a := acc.LoadAccount(addr1)
	assert.Equal(t, addr1, a.Addr)
	assert.Equal(t, "urps", a.Denom)
	assert.Equal(t, int64(0), a.Balance)
}

func TestTransfer(t *testing.T) {
	acc, _ := newTestAccountDB(t)
	_, err := acc.GenesisInit(addr1, 1000)
	require.NoError(t, err)

	_, err = acc.Transfer(addr1, addr2, 1001)
	assert.Equal(t, types.ErrNoBalance, err)
	_, err = acc.Transfer(addr1, addr1, 10)
	assert.Equal(t, types.ErrSendSameToRecv, err)
	_, err = acc.Transfer(addr1, addr2, 0)
	assert.Equal(t, types.ErrAmount, err)

	receipt, err := acc.Transfer(addr1, addr2, 400)
	require.NoError(t, err)
	assert.Len(t, receipt.KV, 2)
	require.Len(t, receipt.Logs, 2)
	assert.Equal(t, int32(types.TyLogTransfer), receipt.Logs[0].Ty)

	var r types.ReceiptAccountTransfer
	require.NoError(t, r.Unmarshal(receipt.Logs[0].Log))
	assert.Equal(t, int64(1000), r.Prev.Balance)
	assert.Equal(t, int64(600), r.Current.Balance)

	accs := acc.LoadAccounts([]string{addr1, addr2})
	assert.Equal(t, int64(600), accs[0].Balance)
	assert.Equal(t, int64(400), accs[1].Balance)
}

func TestTransferOverflow(t *testing.T) {
	acc, _ := newTestAccountDB(t)
	_, err := acc.GenesisInit(addr1, 10)
	require.NoError(t, err)
	_, err = acc.GenesisInit(addr2, types.MaxTokenBalance-1)
	require.NoError(t, err)
	_, err = acc.Transfer(addr1, addr2, 5)
	assert.Equal(t, types.ErrAmount, err)
	assert.Equal(t, int64(10), acc.LoadAccount(addr1).Balance)
}

func TestSaveAccountOutsideTx(t *testing.T) {
	acc, ldb := newTestAccountDB(t)
	ldb.Rollback()
	err := acc.SaveAccount(&types.Account{Addr: addr1, Balance: 1})
	assert.Equal(t, local.ErrNotInTx, errors.Cause(err))
}

func TestGenesisInit(t *testing.T) {
	acc, ldb := newTestAccountDB(t)
	receipt, err := acc.GenesisInit(addr1, 100)
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, int32(types.TyLogGenesisTransfer), receipt.Logs[0].Ty)
	_, err = acc.GenesisInit(addr1, -1)
	assert.Equal(t, types.ErrAmount, err)

	require.NoError(t, ldb.Commit())
	assert.Equal(t, int64(100), acc.LoadAccount(addr1).Balance)
}
