// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/33cn/rps/common/address"
	dbm "github.com/33cn/rps/common/db"
	rexec "github.com/33cn/rps/executor"
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	denom       = "urps"
	initBalance = int64(10000000)
	stake       = int64(1000000)
)

var (
	host     = address.SeedToAddress("rps-host")
	opponent = address.SeedToAddress("rps-opponent")
	other    = address.SeedToAddress("rps-other")
	admin    = address.SeedToAddress("rps-admin")
	house    = address.SeedToAddress("rps-house")
)

type testEnv struct {
	t     *testing.T
	db    dbm.DB
	exec  *rexec.Executor
	nonce int
}

// newTestEnv 内存数据库, 三个玩家各有 initBalance urps 和 1000 uatom
func newTestEnv(t *testing.T, cfg *rt.Config) *testEnv {
	if cfg == nil {
		cfg = &rt.Config{}
	}
	sub, err := json.Marshal(cfg)
	require.NoError(t, err)
	Init(rt.RpsX, sub)

	db, err := dbm.NewGoMemDB("", "", 0)
	require.NoError(t, err)
	exec := rexec.New(db, nil)
	var allocs []*types.Genesis
	for _, addr := range []string{host, opponent, other} {
		allocs = append(allocs,
			&types.Genesis{Addr: addr, Denom: denom, Amount: initBalance},
			&types.Genesis{Addr: addr, Denom: "uatom", Amount: 1000},
		)
	}
	_, err = exec.Genesis(allocs)
	require.NoError(t, err)
	return &testEnv{t: t, db: db, exec: exec}
}

func newInstantiatedEnv(t *testing.T, cfg *rt.Config) *testEnv {
	env := newTestEnv(t, cfg)
	_, err := env.instantiate(host, admin)
	require.NoError(t, err)
	return env
}

func (e *testEnv) instantiate(from, admin string) (*types.Receipt, error) {
	payload, err := json.Marshal(&rt.InstantiateMsg{Admin: admin})
	require.NoError(e.t, err)
	return e.exec.Instantiate(rt.RpsX, &types.ExecEnv{From: from}, payload)
}

func (e *testEnv) sendRaw(from string, funds types.Coins, payload []byte) (*types.Receipt, error) {
	e.nonce++
	return e.exec.Execute(&rexec.Tx{
		Execer:  rt.RpsX,
		From:    from,
		Funds:   funds,
		Payload: payload,
		Nonce:   strconv.Itoa(e.nonce),
	})
}

func (e *testEnv) send(from string, funds types.Coins, action *rt.RpsAction) (*types.Receipt, error) {
	payload, err := json.Marshal(action)
	require.NoError(e.t, err)
	return e.sendRaw(from, funds, payload)
}

func (e *testEnv) start(from, opp string, move rt.Move, funds types.Coins) (*types.Receipt, error) {
	return e.send(from, funds, &rt.RpsAction{StartGame: &rt.StartGame{Opponent: opp, HostMove: move}})
}

func (e *testEnv) respond(from, h string, move rt.Move, funds types.Coins) (*types.Receipt, error) {
	return e.send(from, funds, &rt.RpsAction{OpponentResponse: &rt.OpponentResponse{Host: h, OppMove: move}})
}

// play 一局完整的游戏
func (e *testEnv) play(h, opp string, hostMove, oppMove rt.Move, amount int64) {
	_, err := e.start(h, opp, hostMove, coins(amount))
	require.NoError(e.t, err)
	_, err = e.respond(opp, h, oppMove, coins(amount))
	require.NoError(e.t, err)
}

func (e *testEnv) query(funcName string, req interface{}) (types.Message, error) {
	params, err := json.Marshal(req)
	require.NoError(e.t, err)
	return e.exec.Query(rt.RpsX, funcName, params)
}

func (e *testEnv) game(id uint64) *rt.GameRecord {
	msg, err := e.query(rt.FuncNameGetGameByID, &rt.ReqGameID{ID: id})
	require.NoError(e.t, err)
	return msg.(*rt.GameRecord)
}

func (e *testEnv) balance(addr string) int64 {
	accs, err := e.exec.GetBalance(denom, []string{addr})
	require.NoError(e.t, err)
	return accs[0].Balance
}

func (e *testEnv) execAccount(addr string) *types.Account {
	acc, err := e.exec.GetExecBalance(denom, rt.RpsX, addr)
	require.NoError(e.t, err)
	return acc
}

// supply 所有地址的 urps 总和, 包括执行器地址
func (e *testEnv) supply() int64 {
	var total int64
	for _, addr := range []string{host, opponent, other, house, admin, drivers.ExecAddress(rt.RpsX)} {
		total += e.balance(addr)
	}
	return total
}

func coins(amount int64) types.Coins {
	return types.Coins{{Denom: denom, Amount: amount}}
}

func findLog(t *testing.T, receipt *types.Receipt, ty int32, v interface{}) {
	for _, l := range receipt.Logs {
		if l.Ty == ty {
			require.NoError(t, json.Unmarshal(l.Log, v))
			return
		}
	}
	t.Fatalf("log %d not found", ty)
}

func TestInstantiate(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.start(host, opponent, rt.Rock, coins(stake))
	assert.Equal(t, rt.ErrNotInstantiated, err)
	_, err = env.query(rt.FuncNameGetContractInfo, &rt.ReqNil{})
	assert.Equal(t, rt.ErrNotInstantiated, err)
	_, err = env.query(rt.FuncNameGetGameByID, &rt.ReqGameID{ID: 1})
	assert.Equal(t, rt.ErrNotInstantiated, err)

	_, err = env.instantiate(host, "bad")
	assert.Equal(t, types.ErrInvalidAddress, errors.Cause(err))

	receipt, err := env.instantiate(host, admin)
	require.NoError(t, err)
	var log rt.ReceiptRpsInstantiate
	findLog(t, receipt, rt.TyLogRpsInstantiate, &log)
	assert.Equal(t, admin, log.Admin)
	assert.Equal(t, rt.SchemaVersion, log.Schema)

	msg, err := env.query(rt.FuncNameGetContractInfo, &rt.ReqNil{})
	require.NoError(t, err)
	assert.Equal(t, &rt.ContractInfo{
		Contract: rt.ContractName,
		Version:  rt.ContractVersion,
		Schema:   rt.SchemaVersion,
		Admin:    admin,
	}, msg)

	_, err = env.instantiate(other, "")
	assert.Equal(t, rt.ErrAlreadyInstantiated, err)
}

func TestRockLosesToPaper(t *testing.T) {
	env := newInstantiatedEnv(t, nil)

	receipt, err := env.start(host, opponent, rt.Rock, coins(stake))
	require.NoError(t, err)
	var started rt.ReceiptRpsStart
	findLog(t, receipt, rt.TyLogRpsStart, &started)
	assert.Equal(t, uint64(1), started.GameID)
	assert.Equal(t, types.Coin{Denom: denom, Amount: stake}, started.Wager)

	assert.Equal(t, initBalance-stake, env.balance(host))
	acc := env.execAccount(host)
	assert.Equal(t, int64(0), acc.Balance)
	assert.Equal(t, stake, acc.Frozen)

	msg, err := env.query(rt.FuncNameGetEscrow, &rt.ReqGameID{ID: 1})
	require.NoError(t, err)
	entry := msg.(*rt.EscrowEntry)
	assert.Equal(t, stake, entry.Total())
	assert.True(t, entry.HeldBy(host))

	game := env.game(1)
	assert.Equal(t, rt.AwaitingOpponent, game.Status)
	assert.Equal(t, rt.OutcomeNone, game.Result)
	assert.Nil(t, game.OpponentWager)

	receipt, err = env.respond(opponent, host, rt.Paper, coins(stake))
	require.NoError(t, err)
	var resolved rt.ReceiptRpsResolve
	findLog(t, receipt, rt.TyLogRpsResolve, &resolved)
	assert.Equal(t, rt.OpponentWins, resolved.Result)
	assert.Equal(t, opponent, resolved.Winner)
	require.Len(t, resolved.Payouts, 1)
	assert.Equal(t, &rt.Payout{Recipient: opponent, Amount: 2 * stake}, resolved.Payouts[0])

	assert.Equal(t, initBalance-stake, env.balance(host))
	assert.Equal(t, initBalance+stake, env.balance(opponent))
	assert.Equal(t, int64(0), env.balance(drivers.ExecAddress(rt.RpsX)))
	for _, addr := range []string{host, opponent} {
		acc := env.execAccount(addr)
		assert.Equal(t, int64(0), acc.Balance)
		assert.Equal(t, int64(0), acc.Frozen)
	}
	assert.Equal(t, 3*initBalance, env.supply())

	_, err = env.query(rt.FuncNameGetEscrow, &rt.ReqGameID{ID: 1})
	assert.Equal(t, rt.ErrGameNotFound, err)

	game = env.game(1)
	assert.Equal(t, rt.Resolved, game.Status)
	assert.Equal(t, rt.OpponentWins, game.Result)
	assert.Equal(t, rt.Paper, game.OpponentMove)
	require.NotNil(t, game.OpponentWager)
	assert.Equal(t, stake, game.OpponentWager.Amount)
	assert.NotZero(t, game.ResolvedHeight)
	assert.Equal(t, rt.SchemaVersion, game.Schema)

	m := env.exec.Metrics()
	assert.Equal(t, int64(1), m.Count("rps.game.start"))
	assert.Equal(t, int64(1), m.Count("rps.game.resolve"))
	assert.Equal(t, int64(0), m.Count("rps.game.awaiting"))
	assert.Equal(t, int64(0), m.Count("rps.escrow.held"))

	// 结束以后同一对玩家可以开始新的游戏
	_, err = env.start(opponent, host, rt.Scissors, coins(stake))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), env.game(2).ID)
}

func TestStartGameErrors(t *testing.T) {
	env := newInstantiatedEnv(t, &rt.Config{Denoms: []string{denom, "uatom"}, MaxWager: 5 * stake})

	_, err := env.start(host, host, rt.Rock, coins(stake))
	assert.Equal(t, rt.ErrHostIsOpponent, err)
	_, err = env.start(host, "bad", rt.Rock, coins(stake))
	assert.Equal(t, types.ErrInvalidAddress, errors.Cause(err))
	_, err = env.start(host, opponent, rt.MoveNone, coins(stake))
	assert.Equal(t, rt.ErrInvalidMove, err)
	_, err = env.sendRaw(host, coins(stake), []byte(`{"start_game":{"opponent":"`+opponent+`","host_move":"lizard"}}`))
	assert.Equal(t, rt.ErrInvalidMove, err)
	_, err = env.start(host, opponent, rt.Rock, nil)
	assert.Equal(t, rt.ErrZeroWager, err)
	_, err = env.start(host, opponent, rt.Rock, coins(0))
	assert.Equal(t, rt.ErrZeroWager, err)
	_, err = env.start(host, opponent, rt.Rock, types.Coins{{Denom: "uatom", Amount: 1}, {Denom: denom, Amount: 1}})
	assert.Equal(t, rt.ErrMultipleDenoms, err)
	_, err = env.start(host, opponent, rt.Rock, coins(5*stake+1))
	assert.Equal(t, rt.ErrWagerTooLarge, errors.Cause(err))
	_, err = env.start(host, opponent, rt.Rock, coins(initBalance+1))
	assert.Equal(t, types.ErrNoBalance, errors.Cause(err))
	_, err = env.sendRaw(host, coins(stake), []byte(`{"start_game":{"opponent":"`+opponent+`","host_move":"Rock"},"opponent_response":{"host":"`+host+`","opp_move":"Rock"}}`))
	assert.Equal(t, types.ErrActionNotSupport, err)

	// 失败的调用没有留下任何状态
	assert.Equal(t, initBalance, env.balance(host))
	_, err = env.query(rt.FuncNameGetGameByID, &rt.ReqGameID{ID: 1})
	assert.Equal(t, rt.ErrGameNotFound, err)

	_, err = env.start(host, opponent, rt.Rock, coins(5*stake))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), env.game(1).ID)

	_, err = env.start(host, opponent, rt.Paper, coins(stake))
	assert.Equal(t, rt.ErrGameAlreadyExists, err)
	_, err = env.start(opponent, host, rt.Paper, coins(stake))
	assert.Equal(t, rt.ErrGameAlreadyExists, err)
	assert.Equal(t, initBalance-5*stake, env.balance(host))
	assert.Equal(t, initBalance, env.balance(opponent))
	assert.Equal(t, 5*stake, env.execAccount(host).Frozen)

	// 和其他玩家的游戏互不影响
	_, err = env.start(host, other, rt.Paper, types.Coins{{Denom: "uatom", Amount: 10}})
	require.NoError(t, err)
	assert.Equal(t, "uatom", env.game(2).HostWager.Denom)
}

func TestStartGameDenomNotAllowed(t *testing.T) {
	env := newInstantiatedEnv(t, &rt.Config{Denoms: []string{denom}})
	_, err := env.start(host, opponent, rt.Rock, types.Coins{{Denom: "uatom", Amount: 1}})
	assert.Equal(t, rt.ErrDenomNotAllowed, errors.Cause(err))
	_, err = env.start(host, opponent, rt.Rock, coins(1))
	assert.NoError(t, err)
}

func TestOpponentResponseErrors(t *testing.T) {
	env := newInstantiatedEnv(t, nil)

	_, err := env.respond(opponent, host, rt.Paper, coins(stake))
	assert.Equal(t, rt.ErrGameNotFound, err)

	_, err = env.start(host, opponent, rt.Rock, coins(stake))
	require.NoError(t, err)

	_, err = env.respond(host, opponent, rt.Paper, coins(stake))
	assert.Equal(t, rt.ErrUnauthorized, err)
	_, err = env.respond(other, host, rt.Paper, coins(stake))
	assert.Equal(t, rt.ErrGameNotFound, err)
	_, err = env.respond(opponent, host, rt.MoveNone, coins(stake))
	assert.Equal(t, rt.ErrInvalidMove, err)
	_, err = env.respond(opponent, host, rt.Paper, coins(stake-1))
	assert.Equal(t, rt.ErrWagerMismatch, err)
	_, err = env.respond(opponent, host, rt.Paper, types.Coins{{Denom: "uatom", Amount: stake}})
	assert.Equal(t, types.ErrNoBalance, errors.Cause(err))
	_, err = env.respond(opponent, host, rt.Paper, types.Coins{{Denom: "uatom", Amount: 1}})
	assert.Equal(t, rt.ErrWagerMismatch, err)
	_, err = env.respond(opponent, host, rt.Paper, types.Coins{{Denom: "uatom", Amount: 1}, {Denom: denom, Amount: stake}})
	assert.Equal(t, rt.ErrWagerMismatch, err)
	_, err = env.respond(opponent, host, rt.Paper, nil)
	assert.Equal(t, rt.ErrWagerMismatch, err)

	// 游戏仍然在等待, 托管不变
	game := env.game(1)
	assert.Equal(t, rt.AwaitingOpponent, game.Status)
	msg, err := env.query(rt.FuncNameGetEscrow, &rt.ReqGameID{ID: 1})
	require.NoError(t, err)
	entry := msg.(*rt.EscrowEntry)
	require.Len(t, entry.Holds, 1)
	assert.Equal(t, &rt.Hold{Payer: host, Amount: stake}, entry.Holds[0])
	assert.Equal(t, initBalance, env.balance(opponent))
	assert.Equal(t, 3*initBalance, env.supply())

	_, err = env.respond(opponent, host, rt.Paper, coins(stake))
	require.NoError(t, err)
	_, err = env.respond(opponent, host, rt.Paper, coins(stake))
	assert.Equal(t, rt.ErrGameNotFound, err)
}

func TestDrawRefunds(t *testing.T) {
	env := newInstantiatedEnv(t, &rt.Config{RakeBps: 500, FeeCollector: house})
	receipt, err := env.start(host, opponent, rt.Scissors, coins(stake))
	require.NoError(t, err)
	assert.NotNil(t, receipt)
	receipt, err = env.respond(opponent, host, rt.Scissors, coins(stake))
	require.NoError(t, err)

	var resolved rt.ReceiptRpsResolve
	findLog(t, receipt, rt.TyLogRpsResolve, &resolved)
	assert.Equal(t, rt.Draw, resolved.Result)
	assert.Empty(t, resolved.Winner)

	assert.Equal(t, initBalance, env.balance(host))
	assert.Equal(t, initBalance, env.balance(opponent))
	assert.Equal(t, int64(0), env.balance(house))
	assert.Equal(t, rt.Draw, env.game(1).Result)
	assert.Equal(t, "", env.game(1).Winner())
}

func TestRake(t *testing.T) {
	env := newInstantiatedEnv(t, &rt.Config{RakeBps: 250, FeeCollector: house})
	env.play(host, opponent, rt.Scissors, rt.Paper, stake)

	fee := 2 * stake * 250 / rt.BasisPoints
	assert.Equal(t, initBalance-stake+2*stake-fee, env.balance(host))
	assert.Equal(t, initBalance-stake, env.balance(opponent))
	assert.Equal(t, fee, env.balance(house))
	assert.Equal(t, int64(0), env.execAccount(house).Balance)
	assert.Equal(t, 3*initBalance, env.supply())
}

func TestLeaderboard(t *testing.T) {
	env := newInstantiatedEnv(t, nil)

	msg, err := env.query(rt.FuncNameGetLeaderboard, &rt.ReqPair{Host: host, Opponent: opponent})
	require.NoError(t, err)
	assert.Equal(t, &rt.Leaderboard{Host: host, Opponent: opponent}, msg)

	env.play(host, opponent, rt.Rock, rt.Scissors, stake)
	// 对手发起, host 应战并获胜
	env.play(opponent, host, rt.Paper, rt.Scissors, stake)
	env.play(host, opponent, rt.Paper, rt.Paper, stake)
	env.play(host, other, rt.Paper, rt.Scissors, stake)

	msg, err = env.query(rt.FuncNameGetLeaderboard, &rt.ReqPair{Host: host, Opponent: opponent})
	require.NoError(t, err)
	assert.Equal(t, &rt.Leaderboard{Host: host, Opponent: opponent, HostScore: 2, OppScore: 0, Ties: 1}, msg)

	msg, err = env.query(rt.FuncNameGetLeaderboard, &rt.ReqPair{Host: opponent, Opponent: host})
	require.NoError(t, err)
	assert.Equal(t, &rt.Leaderboard{Host: opponent, Opponent: host, HostScore: 0, OppScore: 2, Ties: 1}, msg)

	msg, err = env.query(rt.FuncNameGetLeaderboard, &rt.ReqPair{Host: other, Opponent: host})
	require.NoError(t, err)
	assert.Equal(t, &rt.Leaderboard{Host: other, Opponent: host, HostScore: 1, OppScore: 0}, msg)

	_, err = env.query(rt.FuncNameGetLeaderboard, &rt.ReqPair{Host: host, Opponent: "bad"})
	assert.Equal(t, types.ErrInvalidAddress, errors.Cause(err))
}

func TestStats(t *testing.T) {
	env := newInstantiatedEnv(t, nil)
	env.play(host, opponent, rt.Rock, rt.Paper, stake)
	_, err := env.start(host, other, rt.Rock, coins(stake))
	require.NoError(t, err)
	_, err = env.start(opponent, other, rt.Rock, types.Coins{{Denom: "uatom", Amount: 7}})
	require.NoError(t, err)

	msg, err := env.query(rt.FuncNameGetStats, &rt.ReqNil{})
	require.NoError(t, err)
	assert.Equal(t, &rt.ReplyStats{
		Games:    3,
		Awaiting: 2,
		Escrowed: types.Coins{{Denom: "uatom", Amount: 7}, {Denom: denom, Amount: stake}},
	}, msg)
	assert.Equal(t, int64(2), env.exec.Metrics().Count("rps.game.awaiting"))
}
