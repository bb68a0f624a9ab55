// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var denomRegexp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/]{1,63}$`)

// Coin 一种资产的数量, Amount 为最小单位
type Coin struct {
	Denom  string `json:"denom"`
	Amount int64  `json:"amount"`
}

// Coins 调用附带的资金
type Coins []Coin

// String 1000000urps
func (c Coin) String() string {
	return fmt.Sprintf("%d%s", c.Amount, c.Denom)
}

// IsZero 数量为 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// Equal 币种和数量都相同
func (c Coin) Equal(o Coin) bool {
	return c.Denom == o.Denom && c.Amount == o.Amount
}

// Validate 币种名字合法, 数量非负且不超过上限
func (c Coin) Validate() error {
	if err := CheckDenom(c.Denom); err != nil {
		return err
	}
	if c.Amount < 0 || c.Amount > MaxTokenBalance {
		return ErrAmount
	}
	return nil
}

// String 1urps,2uatom
func (cs Coins) String() string {
	s := make([]string, len(cs))
	for i, c := range cs {
		s[i] = c.String()
	}
	return strings.Join(s, ",")
}

// Validate 每个 coin 合法且币种不重复
func (cs Coins) Validate() error {
	seen := make(map[string]bool, len(cs))
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Denom] {
			return errors.Wrapf(ErrInvalidParam, "duplicate denom %s", c.Denom)
		}
		seen[c.Denom] = true
	}
	return nil
}

// NonZero 去掉数量为 0 的 coin
func (cs Coins) NonZero() Coins {
	var out Coins
	for _, c := range cs {
		if !c.IsZero() {
			out = append(out, c)
		}
	}
	return out
}

// CheckDenom 币种名字作为 key 的一部分, 不能包含 '-' 和 ':'
func CheckDenom(denom string) error {
	if !denomRegexp.MatchString(denom) {
		return errors.Wrapf(ErrDenomNameNotAllow, "denom %q", denom)
	}
	return nil
}

// CheckAmount 检查金额
func CheckAmount(amount int64) bool {
	if amount <= 0 || amount >= MaxTokenBalance {
		return false
	}
	return true
}

// ParseCoin "1.5rps" 按 precision 位小数转换成最小单位, 整数部分直接是最小单位时 precision 传 0
func ParseCoin(s string, precision int32) (Coin, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if i <= 0 {
		return Coin{}, errors.Wrapf(ErrInvalidParam, "coin %q", s)
	}
	amount, err := ParseAmount(s[:i], precision)
	if err != nil {
		return Coin{}, err
	}
	c := Coin{Denom: s[i:], Amount: amount}
	if err := c.Validate(); err != nil {
		return Coin{}, err
	}
	return c, nil
}

// ParseAmount 字符串金额转换成最小单位, 超出精度的部分报错而不是截断
func ParseAmount(s string, precision int32) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrAmount, "amount %q: %v", s, err)
	}
	scaled := d.Shift(precision)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, errors.Wrapf(ErrAmount, "amount %q has more than %d decimals", s, precision)
	}
	if scaled.IsNegative() || scaled.GreaterThan(decimal.New(MaxTokenBalance, 0)) {
		return 0, errors.Wrapf(ErrAmount, "amount %q out of range", s)
	}
	return scaled.IntPart(), nil
}

// FormatAmount 最小单位转换成带 precision 位小数的字符串
func FormatAmount(amount int64, precision int32) string {
	return decimal.New(amount, -precision).StringFixed(precision)
}

// MulDivFloor amount * num / den, 向下取整, 中间结果不会溢出
func MulDivFloor(amount, num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return decimal.New(amount, 0).Mul(decimal.New(num, 0)).Div(decimal.New(den, 0)).Floor().IntPart()
}
