// Package metrics owns the process-wide Prometheus registry.
//
// Metrics are opt-in: until InitRegistry is called, IsEnabled reports false
// and GetRegistry returns nil, so constructors such as purge.NewMetrics
// create unregistered collectors. A CLI run is short-lived, so instead of
// serving /metrics the registry is flushed once at the end of the run to a
// node-exporter textfile and/or a Pushgateway.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the registry with the Go runtime and process
// collectors. Calling it again replaces the registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mu.Lock()
	registry = reg
	mu.Unlock()
	return reg
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the registry, or nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// Registerer returns the registry as a prometheus.Registerer, or a nil
// interface when metrics are disabled.
func Registerer() prometheus.Registerer {
	reg := GetRegistry()
	if reg == nil {
		return nil
	}
	return reg
}

// Reset disables metrics and drops the registry.
func Reset() {
	mu.Lock()
	registry = nil
	mu.Unlock()
}
