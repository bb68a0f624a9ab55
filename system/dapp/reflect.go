// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/33cn/rps/types"
)

var (
	typeOfError = reflect.TypeOf((*error)(nil)).Elem()
	methodCache sync.Map
)

// Is this an exported - upper case - name?
func isExported(name string) bool {
	rune, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(rune)
}

// ListMethod 列出所有导出的函数, 按类型缓存
func ListMethod(action interface{}) map[string]reflect.Method {
	typ := reflect.TypeOf(action)
	if m, ok := methodCache.Load(typ); ok {
		return m.(map[string]reflect.Method)
	}
	methods := ListMethodByType(typ)
	methodCache.Store(typ, methods)
	return methods
}

// ListMethodByType list method by type
func ListMethodByType(typ reflect.Type) map[string]reflect.Method {
	methods := make(map[string]reflect.Method)
	for m := 0; m < typ.NumMethod(); m++ {
		method := typ.Method(m)
		mname := method.Name
		// Method must be exported.
		if method.PkgPath != "" || !isExported(mname) {
			continue
		}
		methods[mname] = method
	}
	return methods
}

// isOK 返回值的个数是否正确, 最后一个是 error
func isOK(list []reflect.Value, n int) bool {
	if len(list) != n {
		return false
	}
	return list[n-1].Type() == typeOfError
}

// callMethod 调用 func(rcvr) Xxx(in) (out, error)
func callMethod(rcvr reflect.Value, method reflect.Method, in interface{}) (interface{}, error) {
	if method.Type.NumIn() != 2 {
		blog.Error("callMethod", "func", method.Name, "num in", method.Type.NumIn())
		return nil, types.ErrMethodReturnType
	}
	arg := reflect.ValueOf(in)
	if !arg.Type().AssignableTo(method.Type.In(1)) {
		blog.Error("callMethod", "func", method.Name, "arg", arg.Type(), "want", method.Type.In(1))
		return nil, types.ErrInvalidParam
	}
	ret := method.Func.Call([]reflect.Value{rcvr, arg})
	if !isOK(ret, 2) {
		return nil, types.ErrMethodReturnType
	}
	if errInter := ret[1].Interface(); errInter != nil {
		return nil, errInter.(error)
	}
	return ret[0].Interface(), nil
}
