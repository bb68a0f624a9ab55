// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types 执行器框架的公共类型, 配置以及编码
package types

import (
	"encoding/json"
	"fmt"
)

// Message 查询接口的返回值, 序列化成 json 返回给调用方
type Message interface{}

// KeyValue 状态数据库的一次写入, Value 为空表示删除
type KeyValue struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// ReceiptLog 执行日志
type ReceiptLog struct {
	Ty  int32  `json:"ty"`
	Log []byte `json:"log"`
}

// Receipt 执行结果
type Receipt struct {
	Ty   int32         `json:"ty"`
	KV   []*KeyValue   `json:"kv"`
	Logs []*ReceiptLog `json:"logs"`
}

// ExecEnv 一次调用的上下文: 已验证的调用者, 附带的资金以及区块信息
type ExecEnv struct {
	From      string `json:"from"`
	Funds     Coins  `json:"funds"`
	Height    int64  `json:"height"`
	BlockTime int64  `json:"blockTime"`
	TxHash    string `json:"txHash"`
	Index     int    `json:"index"`
}

// MergeReceipt 合并两个 receipt, ty 取第一个
func MergeReceipt(receipt1, receipt2 *Receipt) *Receipt {
	if receipt2 == nil {
		return receipt1
	}
	if receipt1 == nil {
		return receipt2
	}
	receipt1.KV = append(receipt1.KV, receipt2.KV...)
	receipt1.Logs = append(receipt1.Logs, receipt2.Logs...)
	return receipt1
}

// JSONLog 用 json 编码的执行日志
func JSONLog(ty int32, v interface{}) *ReceiptLog {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("JSONLog: %v", err))
	}
	return &ReceiptLog{Ty: ty, Log: data}
}

// MustDecode json 解码, 失败 panic, 只用于解码程序自己生成的数据
func MustDecode(data []byte, v interface{}) {
	if data == nil {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		panic(err)
	}
}
