// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package init 注册所有的合约插件
package init

import (
	_ "github.com/33cn/rps/plugin/dapp/rps" //auto gen
)
