// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"strings"

	"github.com/33cn/rps/common/address"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	"github.com/spf13/cobra"
)

// AccountCmd account command
func AccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.AddCommand(
		GetBalanceCmd(),
		GetExecBalanceCmd(),
		NewAccountCmd(),
	)

	return cmd
}

// AccountResult 账户余额, 金额按精度格式化
type AccountResult struct {
	Addr    string `json:"addr"`
	Denom   string `json:"denom"`
	Balance string `json:"balance"`
	Frozen  string `json:"frozen"`
}

func newAccountResult(acc *types.Account, precision int32) *AccountResult {
	return &AccountResult{
		Addr:    acc.Addr,
		Denom:   acc.Denom,
		Balance: types.FormatAmount(acc.Balance, precision),
		Frozen:  types.FormatAmount(acc.Frozen, precision),
	}
}

// GetBalanceCmd get balance of an address
func GetBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Get balance of account addresses",
		Run:   balance,
	}
	addBalanceFlags(cmd)
	return cmd
}

func addBalanceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", "", "account addresses, separated by ','")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("denom", "d", "urps", "coin denom")
}

func balance(cmd *cobra.Command, args []string) {
	addrs, _ := cmd.Flags().GetString("addr")
	denom, _ := cmd.Flags().GetString("denom")
	Run(cmd, func(ctx *RunCtx) (interface{}, error) {
		accs, err := ctx.Exec.GetBalance(denom, strings.Split(addrs, ","))
		if err != nil {
			return nil, err
		}
		res := make([]*AccountResult, 0, len(accs))
		for _, acc := range accs {
			res = append(res, newAccountResult(acc, ctx.Precision()))
		}
		return res, nil
	})
}

// GetExecBalanceCmd get exec balance of an address
func GetExecBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec_balance",
		Short: "Get balance of an address held in an executor",
		Run:   execBalance,
	}
	addExecBalanceFlags(cmd)
	return cmd
}

func addExecBalanceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", "", "account address")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("exec", "e", "", "executor name")
	cmd.MarkFlagRequired("exec")
	cmd.Flags().StringP("denom", "d", "urps", "coin denom")
}

func execBalance(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	execer, _ := cmd.Flags().GetString("exec")
	denom, _ := cmd.Flags().GetString("denom")
	Run(cmd, func(ctx *RunCtx) (interface{}, error) {
		acc, err := ctx.Exec.GetExecBalance(denom, execer, addr)
		if err != nil {
			return nil, err
		}
		res := newAccountResult(acc, ctx.Precision())
		res.Addr = addr
		return res, nil
	})
}

// NewAccountCmd 由种子生成地址
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Derive an account address from a seed",
		Run:   newAccount,
	}
	cmd.Flags().StringP("seed", "s", "", "seed string")
	cmd.MarkFlagRequired("seed")
	return cmd
}

func newAccount(cmd *cobra.Command, args []string) {
	seed, _ := cmd.Flags().GetString("seed")
	fmt.Println(address.SeedToAddress(seed))
}

// ExecCmd exec command
func ExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Executor operation",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.AddCommand(
		GetExecAddrCmd(),
		ListExecCmd(),
	)

	return cmd
}

// GetExecAddrCmd  get address of an execer
func GetExecAddrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addr",
		Short: "Get address of executor",
		Run:   getAddrByExec,
	}
	cmd.Flags().StringP("exec", "e", "", "executor name")
	cmd.MarkFlagRequired("exec")
	return cmd
}

func getAddrByExec(cmd *cobra.Command, args []string) {
	execer, _ := cmd.Flags().GetString("exec")
	fmt.Println(drivers.ExecAddress(execer))
}

// ListExecCmd 已经注册的执行器以及支持的查询
func ListExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered executors and their queries",
		Run:   listExec,
	}
}

type queryNamer interface {
	QueryNames() []string
}

// ExecResult 执行器
type ExecResult struct {
	Name    string   `json:"name"`
	Addr    string   `json:"addr"`
	Queries []string `json:"queries,omitempty"`
}

// ListExecutors 已经注册的执行器
func ListExecutors() []*ExecResult {
	var res []*ExecResult
	for _, name := range drivers.DriverNames() {
		item := &ExecResult{Name: name, Addr: drivers.ExecAddress(name)}
		if d, err := drivers.LoadDriver(name, -1); err == nil {
			if q, ok := d.(queryNamer); ok {
				item.Queries = q.QueryNames()
			}
		}
		res = append(res, item)
	}
	return res
}

func listExec(cmd *cobra.Command, args []string) {
	Run(cmd, func(ctx *RunCtx) (interface{}, error) {
		return ListExecutors(), nil
	})
}
