// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

// 执行器框架以及账户相关的错误
var (
	ErrNotFound           = errors.New("ErrNotFound")
	ErrNoBalance          = errors.New("ErrNoBalance")
	ErrAmount             = errors.New("ErrAmount")
	ErrSendSameToRecv     = errors.New("ErrSendSameToRecv")
	ErrInvalidAddress     = errors.New("ErrInvalidAddress")
	ErrInvalidParam       = errors.New("ErrInvalidParam")
	ErrActionNotSupport   = errors.New("ErrActionNotSupport")
	ErrQueryNotSupport    = errors.New("ErrQueryNotSupport")
	ErrExecNotFound       = errors.New("ErrExecNotFound")
	ErrExecNameNotAllow   = errors.New("ErrExecNameNotAllow")
	ErrDenomNameNotAllow  = errors.New("ErrDenomNameNotAllow")
	ErrDecode             = errors.New("ErrDecode")
	ErrEmpty              = errors.New("ErrEmpty")
	ErrGenesisInitialized = errors.New("ErrGenesisInitialized")
	ErrTxDup              = errors.New("ErrTxDup")
	ErrMethodReturnType   = errors.New("ErrMethodReturnType")
)
