// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/33cn/rps/common/log"
	_ "github.com/33cn/rps/plugin/dapp/init"
	"github.com/33cn/rps/pluginmgr"
	"github.com/33cn/rps/system/dapp/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rps",
	Short: "rock paper scissors wager contract",
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file, built-in defaults when empty")
	rootCmd.PersistentFlags().String("datadir", "", "overrides store.dbPath of the config")
	rootCmd.PersistentFlags().String("prom-file", "", "write the metrics of this run in prometheus text format")

	rootCmd.AddCommand(
		commands.InitCmd(),
		commands.AccountCmd(),
		commands.ExecCmd(),
		commands.StatCmd(),
	)
	pluginmgr.AddCmd(rootCmd)
}

func main() {
	log.SetLogLevel("error")
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
