// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	rt "github.com/33cn/rps/plugin/dapp/rps/types"
)

// 每种出拳能赢的出拳
var beats = map[rt.Move]rt.Move{
	rt.Rock:     rt.Scissors,
	rt.Scissors: rt.Paper,
	rt.Paper:    rt.Rock,
}

// Resolve 比较双方的出拳, 纯函数
func Resolve(hostMove, opponentMove rt.Move) (rt.Outcome, error) {
	if !hostMove.Valid() || !opponentMove.Valid() {
		return rt.OutcomeNone, rt.ErrInvalidMove
	}
	switch {
	case hostMove == opponentMove:
		return rt.Draw, nil
	case beats[hostMove] == opponentMove:
		return rt.HostWins, nil
	}
	return rt.OpponentWins, nil
}
