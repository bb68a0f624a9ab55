// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands 系统级命令, 直接在本地存储上执行交易和查询
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/33cn/rps/common"
	"github.com/33cn/rps/common/log"
	"github.com/33cn/rps/executor"
	"github.com/33cn/rps/metrics"
	"github.com/33cn/rps/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunCtx 命令直接在本地存储上执行
type RunCtx struct {
	Cfg      *types.Config
	Exec     *executor.Executor
	promFile string
}

// NewRunCtx 按 --config 和 --datadir 打开存储
func NewRunCtx(cmd *cobra.Command) (*RunCtx, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	datadir, _ := cmd.Flags().GetString("datadir")
	promFile, _ := cmd.Flags().GetString("prom-file")

	var (
		cfg *types.Config
		sub *types.ConfigSubModule
		err error
	)
	if cfgPath == "" {
		cfg, sub, err = types.InitCfgString(types.DefaultConfig)
	} else {
		cfg, sub, err = types.InitCfg(cfgPath)
	}
	if err != nil {
		return nil, err
	}
	if datadir != "" {
		cfg.Store.DbPath = datadir
	}
	log.SetFileLog(cfg.Log)
	exec, err := executor.NewFromConfig(cfg, sub)
	if err != nil {
		return nil, err
	}
	return &RunCtx{Cfg: cfg, Exec: exec, promFile: promFile}, nil
}

// Close 关闭存储, 设置了 --prom-file 时导出本次运行的统计
func (c *RunCtx) Close() error {
	defer c.Exec.Close()
	if c.promFile == "" {
		return nil
	}
	return metrics.WriteTextfile(c.promFile, c.Exec.Metrics())
}

// Precision 金额的小数位数
func (c *RunCtx) Precision() int32 {
	return c.Cfg.Coin.Precision
}

// NewTx 构造一笔交易, nonce 是随机的 uuid
func (c *RunCtx) NewTx(execer, from string, funds types.Coins, payload interface{}) (*executor.Tx, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &executor.Tx{
		Execer:    execer,
		From:      from,
		Funds:     funds,
		Payload:   data,
		Nonce:     uuid.New().String(),
		BlockTime: time.Now().Unix(),
	}, nil
}

// ParseFunds "1.5urps,2uatom", 空字符串表示不附带资金
func (c *RunCtx) ParseFunds(s string) (types.Coins, error) {
	var funds types.Coins
	if strings.TrimSpace(s) == "" {
		return funds, nil
	}
	for _, item := range strings.Split(s, ",") {
		coin, err := types.ParseCoin(item, c.Precision())
		if err != nil {
			return nil, errors.Wrapf(err, "funds %q", s)
		}
		funds = append(funds, coin)
	}
	return funds, nil
}

// Run 打开存储执行 fn, 结果以 json 打印
func Run(cmd *cobra.Command, fn func(ctx *RunCtx) (interface{}, error)) {
	ctx, err := NewRunCtx(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	res, err := fn(ctx)
	if cerr := ctx.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	PrintJSON(res)
}

// PrintJSON 缩进打印
func PrintJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(data))
}

// ReceiptResult 打印用的 receipt
type ReceiptResult struct {
	Ty   int32               `json:"ty"`
	KVs  int                 `json:"kvs"`
	Logs []*ReceiptLogResult `json:"logs"`
}

// ReceiptLogResult json 日志原样输出, 其他的输出 hex
type ReceiptLogResult struct {
	Ty  int32       `json:"ty"`
	Log interface{} `json:"log"`
}

// NewReceiptResult 转换成打印格式
func NewReceiptResult(receipt *types.Receipt) *ReceiptResult {
	if receipt == nil {
		return nil
	}
	res := &ReceiptResult{Ty: receipt.Ty, KVs: len(receipt.KV)}
	for _, l := range receipt.Logs {
		item := &ReceiptLogResult{Ty: l.Ty, Log: common.ToHex(l.Log)}
		if json.Valid(l.Log) {
			item.Log = json.RawMessage(l.Log)
		}
		res.Logs = append(res.Logs, item)
	}
	return res
}
