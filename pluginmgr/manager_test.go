// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pluginmgr

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestRegisterAndInit(t *testing.T) {
	var got []byte
	inits := 0
	Register(&PluginBase{
		Name:     "plugin-test",
		ExecName: "ptest",
		Exec: func(name string, sub []byte) {
			inits++
			got = sub
		},
		Cmd: func() *cobra.Command {
			return &cobra.Command{Use: "ptest"}
		},
	})
	assert.Panics(t, func() { Register(&PluginBase{Name: "plugin-test"}) })
	assert.Panics(t, func() { Register(&PluginBase{}) })
	assert.True(t, HasExec("ptest"))
	assert.False(t, HasExec("nope"))

	InitExec(map[string][]byte{"ptest": []byte(`{"a":1}`)})
	assert.Equal(t, []byte(`{"a":1}`), got)
	InitExec(nil)
	assert.Nil(t, got)
	assert.Equal(t, 2, inits)

	root := &cobra.Command{Use: "root"}
	AddCmd(root)
	cmd, _, err := root.Find([]string{"ptest"})
	assert.Nil(t, err)
	assert.Equal(t, "ptest", cmd.Use)
}
