// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"github.com/spf13/cobra"
)

// InitCmd 按配置中的 [[genesis]] 初始化账户余额, 一个数据目录只能执行一次
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Seed genesis balances into a new data directory",
		Run:   initGenesis,
	}
	return cmd
}

func initGenesis(cmd *cobra.Command, args []string) {
	Run(cmd, func(ctx *RunCtx) (interface{}, error) {
		receipt, err := ctx.Exec.Genesis(ctx.Cfg.Genesis)
		if err != nil {
			return nil, err
		}
		return NewReceiptResult(receipt), nil
	})
}
