package metrics

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MetricType classifies a metric.
type MetricType string

const (
	Counter   MetricType = "counter"
	Gauge     MetricType = "gauge"
	Histogram MetricType = "histogram"
)

// historySize bounds the samples kept per histogram.
const historySize = 100

// Collector is an in-memory metric store. The runtime registers one as a
// component; plugins record into it and the actuator exposes a snapshot.
type Collector struct {
	metrics map[string]*Metric
	mu      sync.RWMutex
}

// Metric is one named, labeled series.
type Metric struct {
	Name      string            `json:"name"`
	Type      MetricType        `json:"type"`
	Value     float64           `json:"value"`
	Count     int64             `json:"count,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
	History   []float64         `json:"history,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		metrics: make(map[string]*Metric),
	}
}

// IncCounter adds one to a counter.
func (c *Collector) IncCounter(name string, labels map[string]string) {
	c.AddCounter(name, 1, labels)
}

// AddCounter adds value to a counter.
func (c *Collector) AddCounter(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.series(name, Counter, labels)
	m.Value += value
	m.Count++
}

// SetGauge sets a gauge to value.
func (c *Collector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.series(name, Gauge, labels)
	m.Value = value
	m.Count++
}

// ObserveHistogram records a sample. Value holds the sum of every sample,
// History the most recent ones.
func (c *Collector) ObserveHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.series(name, Histogram, labels)
	m.Value += value
	m.Count++
	m.History = append(m.History, value)
	if len(m.History) > historySize {
		m.History = m.History[len(m.History)-historySize:]
	}
}

// series returns the metric for name and labels, creating it on first use.
// Callers hold c.mu.
func (c *Collector) series(name string, typ MetricType, labels map[string]string) *Metric {
	key := buildKey(name, labels)
	m, ok := c.metrics[key]
	if !ok {
		m = &Metric{Name: name, Type: typ, Labels: copyLabels(labels)}
		c.metrics[key] = m
	}
	m.Timestamp = time.Now().Unix()
	return m
}

// RecordRequest records an HTTP request.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	labels := map[string]string{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}

	c.IncCounter("http_requests_total", labels)
	c.ObserveHistogram("http_request_duration_seconds", duration.Seconds(), labels)
	if status >= 500 {
		c.IncCounter("http_errors_total", map[string]string{"method": method, "path": path})
	}
}

// RecordTask records a scheduler or shutdown hook run.
func (c *Collector) RecordTask(kind, name string, err error, duration time.Duration) {
	labels := map[string]string{
		"kind":    kind,
		"task":    name,
		"success": strconv.FormatBool(err == nil),
	}

	c.IncCounter("tasks_total", labels)
	c.ObserveHistogram("task_duration_seconds", duration.Seconds(), labels)
}

// RecordBuild records a plugin build.
func (c *Collector) RecordBuild(plugin string, err error, duration time.Duration) {
	c.SetGauge("plugin_build_seconds", duration.Seconds(), map[string]string{
		"plugin":  plugin,
		"success": strconv.FormatBool(err == nil),
	})
}

// buildKey sorts labels so equal label sets share a key.
func buildKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(labels[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

// GetMetric returns a copy of one series, or nil.
func (c *Collector) GetMetric(name string, labels map[string]string) *Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.metrics[buildKey(name, labels)]
	if !ok {
		return nil
	}
	return m.clone()
}

// Snapshot returns a copy of every series keyed by series key.
func (c *Collector) Snapshot() map[string]*Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*Metric, len(c.metrics))
	for k, m := range c.metrics {
		result[k] = m.clone()
	}
	return result
}

// Reset drops every series.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = make(map[string]*Metric)
}

func (m *Metric) clone() *Metric {
	out := *m
	out.Labels = copyLabels(m.Labels)
	out.History = append([]float64(nil), m.History...)
	return &out
}
