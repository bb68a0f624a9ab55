// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"github.com/33cn/rps/metrics"
	"github.com/spf13/cobra"
)

// StatCmd stat command
func StatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show executor statistics and runtime metrics",
		Run:   stats,
	}
	return cmd
}

// StatResult 统计结果
type StatResult struct {
	Height    int64                  `json:"height"`
	Executors map[string]interface{} `json:"executors"`
	Metrics   []metrics.Sample       `json:"metrics"`
}

const statsQuery = "GetStats"

func stats(cmd *cobra.Command, args []string) {
	Run(cmd, func(ctx *RunCtx) (interface{}, error) {
		res := &StatResult{
			Height:    ctx.Exec.Height(),
			Executors: make(map[string]interface{}),
		}
		for _, item := range ListExecutors() {
			for _, q := range item.Queries {
				if q != statsQuery {
					continue
				}
				reply, err := ctx.Exec.Query(item.Name, statsQuery, nil)
				if err != nil {
					res.Executors[item.Name] = err.Error()
					continue
				}
				res.Executors[item.Name] = reply
			}
		}
		res.Metrics = ctx.Exec.Metrics().Snapshot()
		return res, nil
	})
}
