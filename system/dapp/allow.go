// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"strings"

	"github.com/33cn/rps/types"
)

// AllowIsSame 执行器名称和驱动名称相同
func (d *DriverBase) AllowIsSame(execer string) bool {
	return d.child.GetDriverName() == execer
}

// AllowIsUserDot1 user.<driver> 形式的执行器名称
func (d *DriverBase) AllowIsUserDot1(execer string) bool {
	if !strings.HasPrefix(execer, types.UserKey) {
		return false
	}
	return d.AllowIsSame(execer[len(types.UserKey):])
}

// Allow 默认只允许驱动名称本身, 以及 user.<driver>
func (d *DriverBase) Allow(execer string) error {
	if d.AllowIsSame(execer) || d.AllowIsUserDot1(execer) {
		return nil
	}
	return types.ErrExecNameNotAllow
}
