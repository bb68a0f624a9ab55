// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGame() *GameRecord {
	return &GameRecord{
		ID:            7,
		Host:          "host",
		Opponent:      "opp",
		HostMove:      Rock,
		OpponentMove:  Paper,
		HostWager:     types.Coin{Denom: "urps", Amount: 1000000},
		OpponentWager: &types.Coin{Denom: "urps", Amount: 1000000},
		Status:        Resolved,
		Result:        OpponentWins,
		CreatedHeight: 3,
		CreatedTime:   100,
	}
}

func TestGameRecordV2(t *testing.T) {
	g := testGame()
	data := EncodeGameRecord(g)
	assert.Equal(t, byte(SchemaV2), data[0])
	assert.Equal(t, SchemaV2, SchemaOf(data))
	out, err := DecodeGameRecord(data)
	require.NoError(t, err)
	g.Schema = SchemaV2
	assert.Equal(t, g, out)
	// 同样的数据编码结果相同
	assert.Equal(t, data, EncodeGameRecord(out))

	g.OpponentWager = nil
	g.OpponentMove = MoveNone
	g.Status = AwaitingOpponent
	g.Result = OutcomeNone
	out, err = DecodeGameRecord(EncodeGameRecord(g))
	require.NoError(t, err)
	assert.Nil(t, out.OpponentWager)
	assert.Equal(t, AwaitingOpponent, out.Status)
}

func TestGameRecordV1(t *testing.T) {
	g := testGame()
	data := EncodeGameRecordV1(g)
	assert.Equal(t, SchemaV1, SchemaOf(data))
	out, err := DecodeGameRecord(data)
	require.NoError(t, err)
	assert.Equal(t, SchemaV1, out.Schema)
	assert.Equal(t, g.HostWager, out.HostWager)
	assert.Equal(t, *g.OpponentWager, *out.OpponentWager)
	assert.Equal(t, Resolved, out.Status)
	assert.Equal(t, OpponentWins, out.Result)
	assert.Equal(t, int64(0), out.CreatedHeight)

	legacy := []byte(`{"id":1,"host":"a","opponent":"b","host_wager":[{"denom":"urps","amount":"5"}],"opp_wager":null,"host_move":"Scissors","opp_move":null,"result":null}`)
	out, err = DecodeGameRecord(legacy)
	require.NoError(t, err)
	assert.Equal(t, AwaitingOpponent, out.Status)
	assert.Equal(t, Scissors, out.HostMove)
	assert.Nil(t, out.OpponentWager)

	_, err = DecodeGameRecord([]byte(`{"host_wager":[]}`))
	assert.Equal(t, types.ErrDecode, errors.Cause(err))
	_, err = DecodeGameRecord([]byte{0x09, 0x01})
	assert.Equal(t, types.ErrDecode, errors.Cause(err))
	_, err = DecodeGameRecord(nil)
	assert.Equal(t, types.ErrDecode, errors.Cause(err))
}

func TestEscrowCodec(t *testing.T) {
	e := &EscrowEntry{GameID: 3, Denom: "urps", Holds: []*Hold{{Payer: "a", Amount: 10}, {Payer: "b", Amount: 10}}}
	for _, data := range [][]byte{EncodeEscrowEntry(e), EncodeEscrowEntryV1(e)} {
		out, err := DecodeEscrowEntry(data)
		require.NoError(t, err)
		assert.Equal(t, e, out)
	}
}

func TestPairScoreCodec(t *testing.T) {
	p := &PairScore{A: "a", B: "b", WinsA: 1, WinsB: 2, Draws: 3}
	for _, data := range [][]byte{EncodePairScore(p), EncodePairScoreV1(p)} {
		out, err := DecodePairScore(data)
		require.NoError(t, err)
		assert.Equal(t, p, out)
	}
	// v1 按 host, opponent 的顺序保存
	out, err := DecodePairScore([]byte(`{"host":"b","opponent":"a","host_score":5,"opp_score":1,"ties":null}`))
	require.NoError(t, err)
	assert.Equal(t, &PairScore{A: "a", B: "b", WinsA: 1, WinsB: 5}, out)
}

func TestSortPair(t *testing.T) {
	lo, hi := SortPair("b", "a")
	assert.Equal(t, "a", lo)
	assert.Equal(t, "b", hi)
	lo, hi = SortPair("a", "b")
	assert.Equal(t, "a", lo)
	assert.Equal(t, "b", hi)
}
