// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"sort"
	"strings"
	"sync"

	"github.com/33cn/rps/common/address"
	"github.com/33cn/rps/types"
	log "github.com/inconshreveable/log15"
)

var elog = log.New("module", "execs")

// DriverCreate defines a drivercreate function
type DriverCreate func() Driver

type driverWithHeight struct {
	create DriverCreate
	height int64
}

var (
	mu                 sync.RWMutex
	execDrivers        = make(map[string]*driverWithHeight)
	execAddressNameMap = make(map[string]string)
	registedExecDriver = make(map[string]*driverWithHeight)
)

// Register register dcriver height in name
func Register(name string, create DriverCreate, height int64) {
	if create == nil {
		panic("Execute: Register driver is nil")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registedExecDriver[name]; dup {
		panic("Execute: Register called twice for driver " + name)
	}
	driverHeight := &driverWithHeight{
		create: create,
		height: height,
	}
	registedExecDriver[name] = driverHeight
	addr := registerAddress(name)
	execDrivers[addr] = driverHeight
}

// GetRealExecName user.xxx 的执行器使用 xxx 驱动
func GetRealExecName(name string) string {
	return strings.TrimPrefix(name, types.UserKey)
}

// LoadDriver load driver
func LoadDriver(name string, height int64) (driver Driver, err error) {
	mu.RLock()
	c, ok := registedExecDriver[GetRealExecName(name)]
	mu.RUnlock()
	if !ok {
		elog.Debug("LoadDriver", "driver", name)
		return nil, types.ErrExecNotFound
	}
	if height >= c.height || height == -1 {
		return c.create(), nil
	}
	elog.Debug("LoadDriver not active", "driver", name, "height", height, "active", c.height)
	return nil, types.ErrExecNotFound
}

// LoadDriverAllow 加载驱动并检查执行器名称
func LoadDriverAllow(name string, height int64) (Driver, error) {
	driver, err := LoadDriver(name, height)
	if err != nil {
		return nil, err
	}
	if err := driver.Allow(name); err != nil {
		return nil, err
	}
	driver.SetName(name)
	return driver, nil
}

// IsDriverAddress whether or not execdrivers by address
func IsDriverAddress(addr string, height int64) bool {
	mu.RLock()
	c, ok := execDrivers[addr]
	mu.RUnlock()
	if !ok {
		return false
	}
	return height >= c.height || height == -1
}

// CheckAddress 用户地址或者执行器地址
func CheckAddress(addr string, height int64) error {
	if IsDriverAddress(addr, height) {
		return nil
	}
	return address.CheckAddress(addr)
}

// DriverNames 已经注册的驱动
func DriverNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registedExecDriver))
	for name := range registedExecDriver {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func registerAddress(name string) string {
	if len(name) == 0 {
		panic("empty name string")
	}
	addr := address.ExecAddress(name)
	execAddressNameMap[name] = addr
	return addr
}

// ExecAddress return exec address
func ExecAddress(name string) string {
	mu.RLock()
	addr, ok := execAddressNameMap[name]
	mu.RUnlock()
	if ok {
		return addr
	}
	return address.ExecAddress(name)
}
