// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"
	"strconv"

	rt "github.com/33cn/rps/plugin/dapp/rps/types"
)

//状态数据 mavl-rps-, 索引 LODB-rps-
//一对玩家的 key 总是按 小:大 的顺序, 与参数顺序无关
const (
	statePrefix = "mavl-" + rt.RpsX + "-"
	localPrefix = "LODB-" + rt.RpsX + "-"
)

func infoKey() []byte {
	return []byte(statePrefix + "info")
}

func countKey() []byte {
	return []byte(statePrefix + "count")
}

func gamePrefix() []byte {
	return []byte(statePrefix + "game-")
}

func gameKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%sgame-%020d", statePrefix, id))
}

func pairKey(a, b string) string {
	lo, hi := rt.SortPair(a, b)
	return lo + ":" + hi
}

func activePrefix() []byte {
	return []byte(statePrefix + "active-")
}

func activeKey(a, b string) []byte {
	return []byte(statePrefix + "active-" + pairKey(a, b))
}

func escrowPrefix() []byte {
	return []byte(statePrefix + "escrow-")
}

func escrowKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%sescrow-%020d", statePrefix, id))
}

func releasedKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%sreleased-%020d", statePrefix, id))
}

func boardPrefix() []byte {
	return []byte(statePrefix + "board-")
}

func boardKey(a, b string) []byte {
	return []byte(statePrefix + "board-" + pairKey(a, b))
}

func pairIndexPrefix(a, b string) []byte {
	return []byte(localPrefix + "pair-" + pairKey(a, b) + ":")
}

func pairIndexKey(a, b string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", pairIndexPrefix(a, b), id))
}

func hostIndexPrefix(host string) []byte {
	return []byte(localPrefix + "host-" + host + ":")
}

func hostIndexKey(host string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", hostIndexPrefix(host), id))
}

// 索引以及计数器的值都是十进制的 id
func idValue(id uint64) []byte {
	return []byte(strconv.FormatUint(id, 10))
}

func parseID(v []byte) (uint64, error) {
	return strconv.ParseUint(string(v), 10, 64)
}
