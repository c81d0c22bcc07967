package logging

import (
	"sync"
	"time"
)

// Metrics tracks fetch attempts and pipeline runs across refresh cycles
type Metrics struct {
	StartTime     time.Time               `json:"start_time"`
	Fetches       map[string]FetchMetrics `json:"fetches"`
	Runs          map[string]RunMetrics   `json:"runs"`
	TotalFetches  int                     `json:"total_fetches"`
	TotalSuccess  int                     `json:"total_success"`
	TotalFailures int                     `json:"total_failures"`
	TotalRuns     int                     `json:"total_runs"`
	mu            sync.RWMutex
}

// FetchMetrics tracks metrics for one raw-graph source
type FetchMetrics struct {
	Count       int      `json:"count"`
	Success     int      `json:"success"`
	Failures    int      `json:"failures"`
	SuccessRate float64  `json:"success_rate"`
	Errors      []string `json:"errors,omitempty"`
}

// RunMetrics tracks the latest pipeline run per source
type RunMetrics struct {
	Duration time.Duration `json:"duration"`
	Nodes    int           `json:"nodes"`
	Edges    int           `json:"edges"`
	Paths    int           `json:"paths"`
}

var globalMetrics *Metrics
var metricsOnce sync.Once

// GetMetrics returns the global metrics instance (singleton)
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			StartTime: time.Now(),
			Fetches:   make(map[string]FetchMetrics),
			Runs:      make(map[string]RunMetrics),
		}
	})
	return globalMetrics
}

// RecordFetch records one fetch attempt against a source
func (m *Metrics) RecordFetch(source string, success bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalFetches++
	if success {
		m.TotalSuccess++
	} else {
		m.TotalFailures++
	}

	metrics := m.Fetches[source]
	metrics.Count++
	if success {
		metrics.Success++
	} else {
		metrics.Failures++
		if err != nil && len(metrics.Errors) < 10 {
			metrics.Errors = append(metrics.Errors, err.Error())
		}
	}
	if metrics.Count > 0 {
		metrics.SuccessRate = float64(metrics.Success) / float64(metrics.Count) * 100
	}
	m.Fetches[source] = metrics
}

// RecordRun records one completed pipeline run
func (m *Metrics) RecordRun(source string, duration time.Duration, nodes, edges, paths int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRuns++
	m.Runs[source] = RunMetrics{
		Duration: duration,
		Nodes:    nodes,
		Edges:    edges,
		Paths:    paths,
	}
}

// MetricsSnapshot is a point-in-time copy of the counters, safe to serialize
type MetricsSnapshot struct {
	StartTime     time.Time               `json:"start_time"`
	Fetches       map[string]FetchMetrics `json:"fetches"`
	Runs          map[string]RunMetrics   `json:"runs"`
	TotalFetches  int                     `json:"total_fetches"`
	TotalSuccess  int                     `json:"total_success"`
	TotalFailures int                     `json:"total_failures"`
	TotalRuns     int                     `json:"total_runs"`
}

// Snapshot returns a copy of the counters safe to serialize
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := MetricsSnapshot{
		StartTime:     m.StartTime,
		Fetches:       make(map[string]FetchMetrics, len(m.Fetches)),
		Runs:          make(map[string]RunMetrics, len(m.Runs)),
		TotalFetches:  m.TotalFetches,
		TotalSuccess:  m.TotalSuccess,
		TotalFailures: m.TotalFailures,
		TotalRuns:     m.TotalRuns,
	}
	for k, v := range m.Fetches {
		copied.Fetches[k] = v
	}
	for k, v := range m.Runs {
		copied.Runs[k] = v
	}
	return copied
}
