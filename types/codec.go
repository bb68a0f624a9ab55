// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Encoder 按 protobuf wire 格式编码, 调用方按字段编号顺序写入, 零值不写, 同样的数据编码结果相同
type Encoder struct {
	buf []byte
}

// NewEncoder new
func NewEncoder(prefix ...byte) *Encoder {
	return &Encoder{buf: append([]byte{}, prefix...)}
}

// Uint64 varint
func (e *Encoder) Uint64(num protowire.Number, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// Int64 int64 与 protobuf 一致, 负数按补码写 10 个字节
func (e *Encoder) Int64(num protowire.Number, v int64) *Encoder {
	return e.Uint64(num, uint64(v))
}

// Int32 int32
func (e *Encoder) Int32(num protowire.Number, v int32) *Encoder {
	return e.Uint64(num, uint64(int64(v)))
}

// Bool bool
func (e *Encoder) Bool(num protowire.Number, v bool) *Encoder {
	return e.Uint64(num, protowire.EncodeBool(v))
}

// String string
func (e *Encoder) String(num protowire.Number, v string) *Encoder {
	if v == "" {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
	return e
}

// Bytes bytes, 嵌套消息也用这个写
func (e *Encoder) Bytes(num protowire.Number, v []byte) *Encoder {
	if v == nil {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
	return e
}

// Buffer 编码结果
func (e *Encoder) Buffer() []byte {
	return e.buf
}

// Field 解码出来的一个字段, varint 放在 Varint, bytes 放在 Data
type Field struct {
	Num    protowire.Number
	Type   protowire.Type
	Varint uint64
	Data   []byte
}

// Int64 int64
func (f *Field) Int64() int64 {
	return int64(f.Varint)
}

// Int32 int32
func (f *Field) Int32() int32 {
	return int32(f.Varint)
}

// Bool bool
func (f *Field) Bool() bool {
	return protowire.DecodeBool(f.Varint)
}

// String string
func (f *Field) String() string {
	return string(f.Data)
}

// DecodeFields 遍历每个字段, 未知的字段类型直接跳过
func DecodeFields(b []byte, fn func(f *Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrDecode, protowire.ParseError(n).Error())
		}
		b = b[n:]
		f := &Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.Varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.Data, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrap(ErrDecode, protowire.ParseError(n).Error())
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return errors.Wrap(ErrDecode, protowire.ParseError(n).Error())
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
