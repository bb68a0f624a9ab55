// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		host, opp rt.Move
		want      rt.Outcome
	}{
		{rt.Rock, rt.Rock, rt.Draw},
		{rt.Rock, rt.Paper, rt.OpponentWins},
		{rt.Rock, rt.Scissors, rt.HostWins},
		{rt.Paper, rt.Rock, rt.HostWins},
		{rt.Paper, rt.Paper, rt.Draw},
		{rt.Paper, rt.Scissors, rt.OpponentWins},
		{rt.Scissors, rt.Rock, rt.OpponentWins},
		{rt.Scissors, rt.Paper, rt.HostWins},
		{rt.Scissors, rt.Scissors, rt.Draw},
	}
	for _, c := range cases {
		got, err := Resolve(c.host, c.opp)
		assert.NoError(t, err)
		assert.Equal(t, c.want, got, "%s vs %s", c.host, c.opp)
	}

	for _, bad := range [][2]rt.Move{{rt.MoveNone, rt.Rock}, {rt.Paper, rt.MoveNone}, {rt.Move(9), rt.Rock}} {
		got, err := Resolve(bad[0], bad[1])
		assert.Equal(t, rt.ErrInvalidMove, err)
		assert.Equal(t, rt.OutcomeNone, got)
	}
}

func TestPayouts(t *testing.T) {
	wager := types.Coin{Denom: denom, Amount: 3}
	game := &rt.GameRecord{Host: host, Opponent: opponent, HostWager: wager, OpponentWager: &wager}

	game.Result = rt.Draw
	assert.Equal(t, []*rt.Payout{{Recipient: host, Amount: 3}, {Recipient: opponent, Amount: 3}}, Payouts(game, nil))
	// 平局不抽成
	assert.Equal(t, []*rt.Payout{{Recipient: host, Amount: 3}, {Recipient: opponent, Amount: 3}},
		Payouts(game, &rt.Config{RakeBps: 5000, FeeCollector: house}))

	game.Result = rt.HostWins
	assert.Equal(t, []*rt.Payout{{Recipient: host, Amount: 6}}, Payouts(game, nil))
	assert.Equal(t, []*rt.Payout{{Recipient: host, Amount: 3}, {Recipient: house, Amount: 3}},
		Payouts(game, &rt.Config{RakeBps: 5000, FeeCollector: house}))

	// 抽成向下取整
	game.Result = rt.OpponentWins
	assert.Equal(t, []*rt.Payout{{Recipient: opponent, Amount: 6}},
		Payouts(game, &rt.Config{RakeBps: 1000, FeeCollector: house}))
	assert.Equal(t, []*rt.Payout{{Recipient: opponent, Amount: 5}, {Recipient: house, Amount: 1}},
		Payouts(game, &rt.Config{RakeBps: 2000, FeeCollector: house}))
}

func TestInitConfig(t *testing.T) {
	assert.Panics(t, func() { Init(rt.RpsX, []byte(`{"rakeBps":10000,"feeCollector":"`+house+`"}`)) })
	assert.Panics(t, func() { Init(rt.RpsX, []byte(`{"rakeBps":-1}`)) })
	assert.Panics(t, func() { Init(rt.RpsX, []byte(`{"rakeBps":100}`)) })
	assert.Panics(t, func() { Init(rt.RpsX, []byte(`{"denoms":["u-rps"]}`)) })
	assert.Panics(t, func() { Init(rt.RpsX, []byte(`{"denoms":`)) })

	Init(rt.RpsX, []byte(`{"denoms":["urps"],"maxWager":100,"rakeBps":100,"feeCollector":"`+house+`","cacheSize":16}`))
	cfg := getConfig()
	assert.Equal(t, []string{"urps"}, cfg.Denoms)
	assert.Equal(t, int64(100), cfg.MaxWager)
	assert.Equal(t, rt.DefaultCount, cfg.DefaultCount)
	assert.Equal(t, rt.MaxCount, cfg.MaxCount)
	assert.NotNil(t, getCache())

	Init(rt.RpsX, nil)
	assert.Empty(t, getConfig().Denoms)
	assert.Equal(t, int64(0), getConfig().RakeBps)
}
