// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoin(t *testing.T) {
	c, err := ParseCoin("1000000urps", 0)
	require.NoError(t, err)
	assert.Equal(t, Coin{Denom: "urps", Amount: 1000000}, c)

	c, err = ParseCoin("1.5ujunox", 6)
	require.NoError(t, err)
	assert.Equal(t, Coin{Denom: "ujunox", Amount: 1500000}, c)

	_, err = ParseCoin("1.5urps", 0)
	assert.Equal(t, ErrAmount, errors.Cause(err))
	_, err = ParseCoin("urps", 0)
	assert.Equal(t, ErrInvalidParam, errors.Cause(err))
	_, err = ParseCoin("10u-rps", 0)
	assert.Equal(t, ErrDenomNameNotAllow, errors.Cause(err))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.500000", FormatAmount(1500000, 6))
	assert.Equal(t, "2", FormatAmount(2, 0))
	amount, err := ParseAmount(FormatAmount(123456789, 6), 6)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), amount)
	_, err = ParseAmount("-1", 0)
	assert.Equal(t, ErrAmount, errors.Cause(err))
}

func TestCoinsValidate(t *testing.T) {
	assert.NoError(t, Coins{{Denom: "urps", Amount: 1}, {Denom: "uatom", Amount: 0}}.Validate())
	err := Coins{{Denom: "urps", Amount: 1}, {Denom: "urps", Amount: 2}}.Validate()
	assert.Equal(t, ErrInvalidParam, errors.Cause(err))
	assert.Equal(t, ErrAmount, Coins{{Denom: "urps", Amount: -1}}.Validate())
	assert.Equal(t, Coins{{Denom: "urps", Amount: 1}}, Coins{{Denom: "urps", Amount: 1}, {Denom: "uatom"}}.NonZero())
	assert.Equal(t, "1urps,2uatom", Coins{{Denom: "urps", Amount: 1}, {Denom: "uatom", Amount: 2}}.String())
}

func TestMulDivFloor(t *testing.T) {
	assert.Equal(t, int64(19), MulDivFloor(2000, 99, 10000))
	assert.Equal(t, int64(0), MulDivFloor(2000, 0, 10000))
	assert.Equal(t, int64(0), MulDivFloor(2000, 1, 0))
	assert.Equal(t, MaxTokenBalance/10000*50, MulDivFloor(MaxTokenBalance, 50, 10000))
}
