// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// Account 账户, Frozen 是执行器冻结的资金
type Account struct {
	Denom   string `json:"denom"`
	Balance int64  `json:"balance"`
	Frozen  int64  `json:"frozen"`
	Addr    string `json:"addr"`
}

// GetBalance get
func (m *Account) GetBalance() int64 {
	if m != nil {
		return m.Balance
	}
	return 0
}

// GetFrozen get
func (m *Account) GetFrozen() int64 {
	if m != nil {
		return m.Frozen
	}
	return 0
}

// Marshal 编码
func (m *Account) Marshal() []byte {
	if m == nil {
		return nil
	}
	return NewEncoder().
		String(1, m.Denom).
		Int64(2, m.Balance).
		Int64(3, m.Frozen).
		String(4, m.Addr).
		Buffer()
}

// Unmarshal 解码
func (m *Account) Unmarshal(data []byte) error {
	*m = Account{}
	return DecodeFields(data, func(f *Field) error {
		switch f.Num {
		case 1:
			m.Denom = f.String()
		case 2:
			m.Balance = f.Int64()
		case 3:
			m.Frozen = f.Int64()
		case 4:
			m.Addr = f.String()
		}
		return nil
	})
}

// ReceiptAccountTransfer 账户余额变化
type ReceiptAccountTransfer struct {
	Prev    *Account `json:"prev"`
	Current *Account `json:"current"`
}

// Marshal 编码
func (m *ReceiptAccountTransfer) Marshal() []byte {
	return NewEncoder().
		Bytes(1, m.Prev.Marshal()).
		Bytes(2, m.Current.Marshal()).
		Buffer()
}

// Unmarshal 解码
func (m *ReceiptAccountTransfer) Unmarshal(data []byte) error {
	*m = ReceiptAccountTransfer{}
	return DecodeFields(data, func(f *Field) error {
		acc := &Account{}
		if err := acc.Unmarshal(f.Data); err != nil {
			return err
		}
		switch f.Num {
		case 1:
			m.Prev = acc
		case 2:
			m.Current = acc
		}
		return nil
	})
}

// ReceiptExecAccountTransfer 执行器账户余额变化
type ReceiptExecAccountTransfer struct {
	ExecAddr string   `json:"execAddr"`
	Prev     *Account `json:"prev"`
	Current  *Account `json:"current"`
}

// Marshal 编码
func (m *ReceiptExecAccountTransfer) Marshal() []byte {
	return NewEncoder().
		String(1, m.ExecAddr).
		Bytes(2, m.Prev.Marshal()).
		Bytes(3, m.Current.Marshal()).
		Buffer()
}

// Unmarshal 解码
func (m *ReceiptExecAccountTransfer) Unmarshal(data []byte) error {
	*m = ReceiptExecAccountTransfer{}
	return DecodeFields(data, func(f *Field) error {
		if f.Num == 1 {
			m.ExecAddr = f.String()
			return nil
		}
		acc := &Account{}
		if err := acc.Unmarshal(f.Data); err != nil {
			return err
		}
		switch f.Num {
		case 2:
			m.Prev = acc
		case 3:
			m.Current = acc
		}
		return nil
	})
}
