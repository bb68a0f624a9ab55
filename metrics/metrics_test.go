// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCall(t *testing.T) {
	r := NewRegistry()
	r.Call("exec", time.Now(), nil)
	r.Call("exec", time.Now(), nil)
	r.Call("exec", time.Now(), errors.New("fail"))
	assert.Equal(t, int64(3), r.Count("call.exec"))
	assert.Equal(t, int64(2), r.Count("call.exec.ok"))
	assert.Equal(t, int64(1), r.Count("call.exec.err"))
	assert.Equal(t, int64(0), r.Count("nope"))

	r.Gauge("games.active", 7)
	r.Inc("games.total", 3)
	assert.Equal(t, int64(7), r.Count("games.active"))
	r.GaugeAdd("games.active", -2)
	assert.Equal(t, int64(5), r.Count("games.active"))

	samples := r.Snapshot()
	require.Len(t, samples, 5)
	assert.Equal(t, "call.exec", samples[0].Name)
	assert.Equal(t, "timer", samples[0].Kind)
	assert.Equal(t, "games.active", samples[3].Name)
	assert.Equal(t, int64(5), samples[3].Value)
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.Call("start-game", time.Now(), nil)
	r.Gauge("games.active", 2)
	path := filepath.Join(t.TempDir(), "rps.prom")
	require.NoError(t, WriteTextfile(path, r))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rps_call_start_game_ok_total 1")
	assert.Contains(t, string(data), "rps_games_active 2")
	assert.Contains(t, string(data), "rps_call_start_game_seconds_count 1")
}

func TestPromName(t *testing.T) {
	assert.Equal(t, "call_start_game_ok", promName("call.start-game.ok"))
}
