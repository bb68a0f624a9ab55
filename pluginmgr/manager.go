// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pluginmgr 插件的注册以及初始化
package pluginmgr

import (
	"sort"
	"sync"

	"github.com/spf13/cobra"
)

var (
	mu          sync.RWMutex
	pluginItems = make(map[string]Plugin)
)

// InitExec 初始化所有插件的执行器, 每次加载新的配置都可以重新调用
func InitExec(sub map[string][]byte) {
	for _, item := range items() {
		item.InitExec(sub)
	}
}

// HasExec 是否有插件提供了这个执行器
func HasExec(name string) bool {
	for _, item := range items() {
		if item.GetExecutorName() == name {
			return true
		}
	}
	return false
}

// Register 注册插件
func Register(p Plugin) {
	if p == nil {
		panic("plugin param is nil")
	}
	packageName := p.GetName()
	if len(packageName) == 0 {
		panic("plugin package name is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := pluginItems[packageName]; ok {
		panic("execute plugin item is existed. name = " + packageName)
	}
	pluginItems[packageName] = p
}

// AddCmd 添加所有插件的命令行
func AddCmd(rootCmd *cobra.Command) {
	for _, item := range items() {
		item.AddCmd(rootCmd)
	}
}

// items 按名称排序, 命令行以及初始化的顺序固定
func items() []Plugin {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(pluginItems))
	for name := range pluginItems {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]Plugin, 0, len(names))
	for _, name := range names {
		list = append(list, pluginItems[name])
	}
	return list
}
