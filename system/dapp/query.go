// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"encoding/json"
	"reflect"
	"sort"

	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Query 按名称调用子类的 Query_xxx, 参数是 json
func (d *DriverBase) Query(funcname string, params []byte) (msg types.Message, err error) {
	funcname = "Query_" + funcname
	method, ok := d.funcmap[funcname]
	if !ok {
		blog.Error(funcname+" funcname not find", "func", funcname)
		return nil, types.ErrQueryNotSupport
	}
	ty := method.Type
	if ty.NumIn() != 2 {
		blog.Error(funcname+" err num in param", "num", ty.NumIn())
		return nil, types.ErrQueryNotSupport
	}
	paramin := ty.In(1)
	if paramin.Kind() != reflect.Ptr {
		blog.Error(funcname + "  param is not pointer")
		return nil, types.ErrQueryNotSupport
	}
	p := reflect.New(paramin.Elem())
	queryin := p.Interface()
	if len(params) > 0 {
		if err := json.Unmarshal(params, queryin); err != nil {
			return nil, errors.Wrap(types.ErrDecode, err.Error())
		}
	}
	return callMethod(d.childValue, method, queryin)
}

// QueryNames 合约支持的查询, 按名称排序
func (d *DriverBase) QueryNames() []string {
	var names []string
	for name := range d.funcmap {
		if len(name) > len("Query_") && name[:len("Query_")] == "Query_" {
			names = append(names, name[len("Query_"):])
		}
	}
	sort.Strings(names)
	return names
}
