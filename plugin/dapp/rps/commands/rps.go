// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands rps 合约的命令行
package commands

import (
	"encoding/json"
	"fmt"

	rt "github.com/33cn/rps/plugin/dapp/rps/types"
	syscmd "github.com/33cn/rps/system/dapp/commands"
	"github.com/33cn/rps/types"
	"github.com/spf13/cobra"
)

// Cmd rps 合约命令
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Rock paper scissors game",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.AddCommand(
		InstantiateCmd(),
		StartGameCmd(),
		RespondCmd(),
		MigrateCmd(),
		QueryCmd(),
	)

	return cmd
}

func addFromFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("from", "f", "", "caller address")
	cmd.MarkFlagRequired("from")
}

// InstantiateCmd 初始化合约
func InstantiateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "Instantiate the contract, once per data directory",
		Run:   instantiate,
	}
	addFromFlag(cmd)
	cmd.Flags().StringP("admin", "", "", "admin address allowed to migrate, empty for none")
	return cmd
}

func instantiate(cmd *cobra.Command, args []string) {
	from, _ := cmd.Flags().GetString("from")
	admin, _ := cmd.Flags().GetString("admin")
	payload, err := json.Marshal(&rt.InstantiateMsg{Admin: admin})
	if err != nil {
		fmt.Println(err)
		return
	}
	syscmd.Run(cmd, func(ctx *syscmd.RunCtx) (interface{}, error) {
		receipt, err := ctx.Exec.Instantiate(rt.RpsX, &types.ExecEnv{From: from}, payload)
		if err != nil {
			return nil, err
		}
		return syscmd.NewReceiptResult(receipt), nil
	})
}

// StartGameCmd 发起游戏
func StartGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a game against an opponent with a wager",
		Run:   startGame,
	}
	addFromFlag(cmd)
	cmd.Flags().StringP("opponent", "o", "", "opponent address")
	cmd.MarkFlagRequired("opponent")
	cmd.Flags().StringP("move", "m", "", "rock, paper or scissors")
	cmd.MarkFlagRequired("move")
	cmd.Flags().StringP("amount", "a", "", "wager, e.g. 1.5urps")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func startGame(cmd *cobra.Command, args []string) {
	from, _ := cmd.Flags().GetString("from")
	opponent, _ := cmd.Flags().GetString("opponent")
	move, _ := cmd.Flags().GetString("move")
	amount, _ := cmd.Flags().GetString("amount")
	action := &rt.RpsAction{StartGame: &rt.StartGame{Opponent: opponent, HostMove: rt.ParseMove(move)}}
	execute(cmd, from, amount, action)
}

// RespondCmd 应战
func RespondCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "respond",
		Short: "Respond to a game with the same wager, the game is settled at once",
		Run:   respond,
	}
	addFromFlag(cmd)
	cmd.Flags().StringP("host", "", "", "host address")
	cmd.MarkFlagRequired("host")
	cmd.Flags().StringP("move", "m", "", "rock, paper or scissors")
	cmd.MarkFlagRequired("move")
	cmd.Flags().StringP("amount", "a", "", "wager, must equal the host's wager")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func respond(cmd *cobra.Command, args []string) {
	from, _ := cmd.Flags().GetString("from")
	host, _ := cmd.Flags().GetString("host")
	move, _ := cmd.Flags().GetString("move")
	amount, _ := cmd.Flags().GetString("amount")
	action := &rt.RpsAction{OpponentResponse: &rt.OpponentResponse{Host: host, OppMove: rt.ParseMove(move)}}
	execute(cmd, from, amount, action)
}

func execute(cmd *cobra.Command, from, amount string, action *rt.RpsAction) {
	syscmd.Run(cmd, func(ctx *syscmd.RunCtx) (interface{}, error) {
		funds, err := ctx.ParseFunds(amount)
		if err != nil {
			return nil, err
		}
		tx, err := ctx.NewTx(rt.RpsX, from, funds, action)
		if err != nil {
			return nil, err
		}
		receipt, err := ctx.Exec.Execute(tx)
		if err != nil {
			return nil, err
		}
		return syscmd.NewReceiptResult(receipt), nil
	})
}

// MigrateCmd 升级存储格式
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate stored data to the current schema, admin only",
		Run:   migrate,
	}
	addFromFlag(cmd)
	return cmd
}

func migrate(cmd *cobra.Command, args []string) {
	from, _ := cmd.Flags().GetString("from")
	syscmd.Run(cmd, func(ctx *syscmd.RunCtx) (interface{}, error) {
		receipt, err := ctx.Exec.Migrate(rt.RpsX, &types.ExecEnv{From: from}, []byte("{}"))
		if err != nil {
			return nil, err
		}
		return syscmd.NewReceiptResult(receipt), nil
	})
}

// QueryCmd 查询
func QueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query games, leaderboards and escrow",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		queryPairCmd(),
		queryHostCmd(),
		queryIDCmd(),
		queryBoardCmd(),
		queryEscrowCmd(),
		queryNilCmd("info", "Show contract name, version, schema and admin", rt.FuncNameGetContractInfo),
		queryNilCmd("stats", "Show game count, open games and escrowed funds", rt.FuncNameGetStats),
	)
	return cmd
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64P("cursor", "c", 0, "id of the last game of the previous page")
	cmd.Flags().Int32P("count", "n", 0, "page size, 0 for the default")
	cmd.Flags().Int32P("direction", "d", rt.ListDESC, "0: newest first, 1: oldest first")
}

func pageFlags(cmd *cobra.Command) (cursor uint64, count, direction int32) {
	cursor, _ = cmd.Flags().GetUint64("cursor")
	count, _ = cmd.Flags().GetInt32("count")
	direction, _ = cmd.Flags().GetInt32("direction")
	return
}

func queryPairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "List the games between two players",
		Run: func(cmd *cobra.Command, args []string) {
			host, _ := cmd.Flags().GetString("host")
			opponent, _ := cmd.Flags().GetString("opponent")
			cursor, count, direction := pageFlags(cmd)
			query(cmd, rt.FuncNameGetGameByHostAndOpponent, &rt.ReqGamesByPair{
				Host:      host,
				Opponent:  opponent,
				Cursor:    cursor,
				Count:     count,
				Direction: direction,
			})
		},
	}
	addPairFlags(cmd)
	addPageFlags(cmd)
	return cmd
}

func queryHostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "List the games started by a host",
		Run: func(cmd *cobra.Command, args []string) {
			host, _ := cmd.Flags().GetString("host")
			cursor, count, direction := pageFlags(cmd)
			query(cmd, rt.FuncNameGetGamesByHost, &rt.ReqGamesByHost{
				Host:      host,
				Cursor:    cursor,
				Count:     count,
				Direction: direction,
			})
		},
	}
	cmd.Flags().StringP("host", "", "", "host address")
	cmd.MarkFlagRequired("host")
	addPageFlags(cmd)
	return cmd
}

func queryIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Show one game by id",
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := cmd.Flags().GetUint64("id")
			query(cmd, rt.FuncNameGetGameByID, &rt.ReqGameID{ID: id})
		},
	}
	cmd.Flags().Uint64P("id", "i", 0, "game id")
	cmd.MarkFlagRequired("id")
	return cmd
}

func queryBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the leaderboard of two players",
		Run: func(cmd *cobra.Command, args []string) {
			host, _ := cmd.Flags().GetString("host")
			opponent, _ := cmd.Flags().GetString("opponent")
			query(cmd, rt.FuncNameGetLeaderboard, &rt.ReqPair{Host: host, Opponent: opponent})
		},
	}
	addPairFlags(cmd)
	return cmd
}

func queryEscrowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escrow",
		Short: "Show the funds held for an open game",
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := cmd.Flags().GetUint64("id")
			query(cmd, rt.FuncNameGetEscrow, &rt.ReqGameID{ID: id})
		},
	}
	cmd.Flags().Uint64P("id", "i", 0, "game id")
	cmd.MarkFlagRequired("id")
	return cmd
}

func queryNilCmd(use, short, funcName string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			query(cmd, funcName, &rt.ReqNil{})
		},
	}
}

func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("host", "", "", "host address")
	cmd.MarkFlagRequired("host")
	cmd.Flags().StringP("opponent", "o", "", "opponent address")
	cmd.MarkFlagRequired("opponent")
}

func query(cmd *cobra.Command, funcName string, req interface{}) {
	params, err := json.Marshal(req)
	if err != nil {
		fmt.Println(err)
		return
	}
	syscmd.Run(cmd, func(ctx *syscmd.RunCtx) (interface{}, error) {
		return ctx.Exec.Query(rt.RpsX, funcName, params)
	})
}
