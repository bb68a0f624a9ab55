// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"errors"
	"sync"
	"testing"

	"github.com/33cn/rps/common/address"
	"github.com/33cn/rps/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errEcho = errors.New("errEcho")

type echoMsg struct {
	Text string `json:"text"`
}

type echoAction struct {
	Echo *echoMsg `json:"echo,omitempty"`
	Fail *echoMsg `json:"fail,omitempty"`
}

func (a *echoAction) GetActionName() string {
	switch {
	case a.Echo != nil:
		return "Echo"
	case a.Fail != nil:
		return "Fail"
	}
	return ""
}

func (a *echoAction) GetValue() interface{} {
	switch {
	case a.Echo != nil:
		return a.Echo
	case a.Fail != nil:
		return a.Fail
	}
	return nil
}

type echo struct {
	DriverBase
}

func newEcho() Driver {
	e := &echo{}
	e.SetChild(e)
	return e
}

func (e *echo) GetDriverName() string { return "echo" }

func (e *echo) GetPayloadValue() Action { return &echoAction{} }

func (e *echo) Exec_Echo(msg *echoMsg) (*types.Receipt, error) {
	return NewKVCreator(e.GetStateDB()).Add([]byte("echo"), []byte(msg.Text)).Receipt()
}

func (e *echo) Exec_Fail(msg *echoMsg) (*types.Receipt, error) {
	return nil, errEcho
}

func (e *echo) Query_Echo(msg *echoMsg) (types.Message, error) {
	return msg, nil
}

var registerOnce sync.Once

func registerEcho() {
	registerOnce.Do(func() {
		Register("echo", newEcho, 10)
	})
}

func TestListMethod(t *testing.T) {
	methods := ListMethod(&echo{})
	assert.Contains(t, methods, "Exec_Echo")
	assert.Contains(t, methods, "Query_Echo")
	assert.Contains(t, methods, "GetName")
}

func TestLoadDriver(t *testing.T) {
	registerEcho()
	_, err := LoadDriver("echo", 9)
	assert.Equal(t, types.ErrExecNotFound, err)
	_, err = LoadDriver("nope", -1)
	assert.Equal(t, types.ErrExecNotFound, err)

	d, err := LoadDriverAllow("user.echo", 10)
	require.NoError(t, err)
	assert.Equal(t, "user.echo", d.GetName())
	assert.Equal(t, "echo", d.GetDriverName())
	assert.Equal(t, address.ExecAddress("user.echo"), d.GetExecAddr())

	d, err = LoadDriver("echo", 10)
	require.NoError(t, err)
	assert.Equal(t, types.ErrExecNameNotAllow, d.Allow("echo.x"))
	assert.True(t, IsDriverAddress(ExecAddress("echo"), 10))
	assert.False(t, IsDriverAddress(ExecAddress("echo"), 1))
	assert.Nil(t, CheckAddress(ExecAddress("echo"), -1))
	assert.Contains(t, DriverNames(), "echo")
}

func TestDriverExec(t *testing.T) {
	registerEcho()
	d, err := LoadDriver("echo", -1)
	require.NoError(t, err)
	ldb := newTestLocalDB(t)
	d.SetStateDB(ldb)

	receipt, err := d.Exec([]byte(`{"echo":{"text":"hi"}}`))
	require.NoError(t, err)
	require.Len(t, receipt.KV, 1)
	assert.Equal(t, []byte("hi"), receipt.KV[0].Value)

	_, err = d.Exec([]byte(`{"fail":{}}`))
	assert.Equal(t, errEcho, err)
	_, err = d.Exec([]byte(`{}`))
	assert.Equal(t, types.ErrActionNotSupport, err)
	_, err = d.Exec([]byte(`{`))
	assert.True(t, errors.Is(err, types.ErrDecode))

	_, err = d.Instantiate(nil)
	assert.Equal(t, types.ErrActionNotSupport, err)
}

func TestDriverQuery(t *testing.T) {
	d := newEcho()
	msg, err := d.Query("Echo", []byte(`{"text":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, &echoMsg{Text: "hi"}, msg)

	_, err = d.Query("Nope", nil)
	assert.Equal(t, types.ErrQueryNotSupport, err)
	_, err = d.Query("Echo", []byte(`[`))
	assert.NotNil(t, err)
	assert.Equal(t, []string{"Echo"}, d.(*echo).QueryNames())
}
