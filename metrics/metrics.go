// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics 执行器调用的统计, 可以导出成 prometheus 的文本格式
package metrics

import (
	"sort"
	"strings"
	"time"

	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"
	go_metrics "github.com/rcrowley/go-metrics"
)

var mlog = log.New("module", "metrics")

// Namespace prometheus 指标名称的前缀
var Namespace = "rps"

var quantiles = []float64{0.5, 0.9, 0.99}

// Registry 包装 go-metrics 的 registry
type Registry struct {
	go_metrics.Registry
}

// NewRegistry new
func NewRegistry() *Registry {
	return &Registry{Registry: go_metrics.NewRegistry()}
}

// Call 记录一次调用的耗时以及结果
func (r *Registry) Call(name string, start time.Time, err error) {
	go_metrics.GetOrRegisterTimer("call."+name, r.Registry).UpdateSince(start)
	if err != nil {
		go_metrics.GetOrRegisterCounter("call."+name+".err", r.Registry).Inc(1)
		return
	}
	go_metrics.GetOrRegisterCounter("call."+name+".ok", r.Registry).Inc(1)
}

// Inc 计数器加 n
func (r *Registry) Inc(name string, n int64) {
	go_metrics.GetOrRegisterCounter(name, r.Registry).Inc(n)
}

// Gauge 设置当前值
func (r *Registry) Gauge(name string, v int64) {
	go_metrics.GetOrRegisterGauge(name, r.Registry).Update(v)
}

// GaugeAdd 当前值加上 delta
func (r *Registry) GaugeAdd(name string, delta int64) {
	g := go_metrics.GetOrRegisterGauge(name, r.Registry)
	g.Update(g.Value() + delta)
}

// Count 计数器或者 timer 的次数, 不存在返回 0
func (r *Registry) Count(name string) int64 {
	switch m := r.Get(name).(type) {
	case go_metrics.Counter:
		return m.Count()
	case go_metrics.Timer:
		return m.Count()
	case go_metrics.Gauge:
		return m.Value()
	}
	return 0
}

// Snapshot 所有指标当前的值, 按名称排序
func (r *Registry) Snapshot() []Sample {
	var samples []Sample
	r.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case go_metrics.Counter:
			samples = append(samples, Sample{Name: name, Kind: "counter", Count: m.Count()})
		case go_metrics.Gauge:
			samples = append(samples, Sample{Name: name, Kind: "gauge", Value: m.Value()})
		case go_metrics.Timer:
			t := m.Snapshot()
			samples = append(samples, Sample{
				Name:  name,
				Kind:  "timer",
				Count: t.Count(),
				Mean:  time.Duration(t.Mean()).String(),
				Max:   time.Duration(t.Max()).String(),
			})
		}
	})
	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples
}

// Sample 一个指标的快照
type Sample struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Count int64  `json:"count,omitempty"`
	Value int64  `json:"value,omitempty"`
	Mean  string `json:"mean,omitempty"`
	Max   string `json:"max,omitempty"`
}

// Collector 把 go-metrics 的指标转换成 prometheus 的指标
type Collector struct {
	reg go_metrics.Registry
}

// NewCollector new
func NewCollector(reg go_metrics.Registry) *Collector {
	return &Collector{reg: reg}
}

// Describe 指标是动态注册的, 不预先声明
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.Each(func(name string, i interface{}) {
		fqName := prometheus.BuildFQName(Namespace, "", promName(name))
		switch m := i.(type) {
		case go_metrics.Counter:
			desc := prometheus.NewDesc(fqName+"_total", name, nil, nil)
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(m.Count()))
		case go_metrics.Gauge:
			desc := prometheus.NewDesc(fqName, name, nil, nil)
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(m.Value()))
		case go_metrics.Timer:
			t := m.Snapshot()
			ps := t.Percentiles(quantiles)
			qs := make(map[float64]float64, len(quantiles))
			for i, q := range quantiles {
				qs[q] = ps[i] / float64(time.Second)
			}
			desc := prometheus.NewDesc(fqName+"_seconds", name, nil, nil)
			ch <- prometheus.MustNewConstSummary(desc, uint64(t.Count()), float64(t.Sum())/float64(time.Second), qs)
		default:
			mlog.Debug("Collect skip", "name", name)
		}
	})
}

// WriteTextfile 以 prometheus 文本格式写入文件, 给 node_exporter 的 textfile collector 使用
func WriteTextfile(path string, reg *Registry) error {
	pr := prometheus.NewRegistry()
	if err := pr.Register(NewCollector(reg.Registry)); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, pr)
}

func promName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}
