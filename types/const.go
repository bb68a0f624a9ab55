// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// EmptyValue 查询结果为空时的占位
var EmptyValue = []byte("FFFFFFFFemptyBVBiCj5jvE15pEiwro8TQRGnJSNsJF")

// coin conversation
const (
	TokenPrecision  int64 = 1e8
	MaxTokenBalance int64 = 900 * 1e8 * TokenPrecision //900亿
	// DefaultCoinPrecision 命令行输入输出金额的默认小数位数
	DefaultCoinPrecision int32 = 6
	// MaxDenomLength 币种名字的最大长度
	MaxDenomLength = 64
)

// receipt type
const (
	ExecErr  = 0
	ExecPack = 1
	ExecOk   = 2
)

//log type
const (
	TyLogErr = 1
	//coins
	TyLogTransfer        = 3
	TyLogGenesis         = 4
	TyLogDeposit         = 5
	TyLogExecTransfer    = 6
	TyLogExecWithdraw    = 7
	TyLogExecDeposit     = 8
	TyLogExecFrozen      = 9
	TyLogExecActive      = 10
	TyLogGenesisTransfer = 11
	TyLogGenesisDeposit  = 12
)

// 查询分页
const (
	DefaultCount = int32(20)
	MaxCount     = int32(100)
)

// UserKey 用户自定义执行器名称的前缀
const UserKey = "user."
