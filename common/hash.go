// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package common 哈希以及 hex 编码相关的公共函数
package common

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

//ToHex []byte -> hex
func ToHex(b []byte) string {
	hex := Bytes2Hex(b)
	if len(hex) == 0 {
		return ""
	}
	return "0x" + hex
}

//FromHex hex -> []byte
func FromHex(s string) ([]byte, error) {
	if len(s) > 1 {
		if s[0:2] == "0x" || s[0:2] == "0X" {
			s = s[2:]
		}
		if len(s)%2 == 1 {
			s = "0" + s
		}
		return Hex2Bytes(s)
	}
	return []byte{}, nil
}

//Bytes2Hex []byte -> hex
func Bytes2Hex(d []byte) string {
	return hex.EncodeToString(d)
}

//Hex2Bytes hex -> []byte
func Hex2Bytes(str string) ([]byte, error) {
	return hex.DecodeString(str)
}

//Sha256 加密
func Sha256(b []byte) []byte {
	data := sha256.Sum256(b)
	return data[:]
}

//Sha3 sha3-256
func Sha3(b []byte) []byte {
	data := sha3.Sum256(b)
	return data[:]
}

// Sha2Sum Returns hash: SHA256( SHA256( data ) )
func Sha2Sum(b []byte) (out [32]byte) {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Rimp160AfterSha256 Returns hash: RIMP160( SHA256( data ) )
func Rimp160AfterSha256(b []byte) (out [20]byte) {
	sha := sha256.Sum256(b)
	rim := ripemd160.New()
	rim.Write(sha[:])
	copy(out[:], rim.Sum(nil))
	return
}
