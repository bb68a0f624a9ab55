// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// RpsX 执行器名称
const RpsX = "rps"

// 合约版本信息
const (
	ContractName    = "rps"
	ContractVersion = "1.1.0"
)

// 存储格式版本
const (
	SchemaV1 = int32(1)
	SchemaV2 = int32(2)
	// SchemaVersion 当前代码写入的版本
	SchemaVersion = SchemaV2
)

// action name
const (
	ActionStartGame        = "StartGame"
	ActionOpponentResponse = "OpponentResponse"
)

// log type
const (
	TyLogRpsInstantiate = 1001
	TyLogRpsStart       = 1002
	TyLogRpsResolve     = 1003
	TyLogRpsMigrate     = 1004
)

// query func name
const (
	FuncNameGetGameByHostAndOpponent = "GetGameByHostAndOpponent"
	FuncNameGetGamesByHost           = "GetGamesByHost"
	FuncNameGetGameByID              = "GetGameByID"
	FuncNameGetLeaderboard           = "GetLeaderboard"
	FuncNameGetEscrow                = "GetEscrow"
	FuncNameGetContractInfo          = "GetContractInfo"
	FuncNameGetStats                 = "GetStats"
)

// 分页
const (
	ListDESC = int32(0)
	ListASC  = int32(1)

	DefaultCount = int32(20)
	MaxCount     = int32(100)
)

// BasisPoints 抽成的分母
const BasisPoints = int64(10000)
