// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/rps/common"
	"github.com/33cn/rps/types"
)

// Tx 一次合约调用, From 由调用方验证
type Tx struct {
	Execer    string      `json:"execer"`
	From      string      `json:"from"`
	Funds     types.Coins `json:"funds"`
	Payload   []byte      `json:"payload"`
	Nonce     string      `json:"nonce"`
	BlockTime int64       `json:"blockTime"`
}

// Hash 交易的哈希, sha3(编码后的交易)
func (tx *Tx) Hash() []byte {
	enc := types.NewEncoder().
		String(1, tx.Execer).
		String(2, tx.From)
	for _, coin := range tx.Funds {
		enc.Bytes(3, types.NewEncoder().String(1, coin.Denom).Int64(2, coin.Amount).Buffer())
	}
	data := enc.Bytes(4, tx.Payload).
		String(5, tx.Nonce).
		Int64(6, tx.BlockTime).
		Buffer()
	return common.Sha3(data)
}

// HashHex 十六进制的哈希
func (tx *Tx) HashHex() string {
	return common.ToHex(tx.Hash())
}
