package vecbridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecbridge/protocol"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// PrometheusCollector for a ready-made Prometheus integration.
type MetricsCollector interface {
	// RecordRequest is called after the engine finished a request.
	// duration is the execution time on the worker, err is nil if successful.
	RecordRequest(op protocol.Op, duration time.Duration, err error)

	// RecordInFlight is called whenever the number of requests executing on
	// the worker changes.
	RecordInFlight(n int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRequest(protocol.Op, time.Duration, error) {}
func (NoopMetricsCollector) RecordInFlight(int64)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RequestCount  atomic.Int64
	RequestErrors atomic.Int64
	RequestNanos  atomic.Int64
	InFlight      atomic.Int64
	MaxInFlight   atomic.Int64

	mu    sync.Mutex
	perOp map[protocol.Op]int64
}

// RecordRequest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRequest(op protocol.Op, duration time.Duration, err error) {
	b.RequestCount.Add(1)
	b.RequestNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RequestErrors.Add(1)
	}

	b.mu.Lock()
	if b.perOp == nil {
		b.perOp = make(map[protocol.Op]int64)
	}
	b.perOp[op]++
	b.mu.Unlock()
}

// RecordInFlight implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInFlight(n int64) {
	b.InFlight.Store(n)
	for {
		peak := b.MaxInFlight.Load()
		if n <= peak || b.MaxInFlight.CompareAndSwap(peak, n) {
			return
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		RequestCount:  b.RequestCount.Load(),
		RequestErrors: b.RequestErrors.Load(),
		AvgNanos:      b.getAvgNanos(),
		InFlight:      b.InFlight.Load(),
		MaxInFlight:   b.MaxInFlight.Load(),
		PerOp:         make(map[protocol.Op]int64),
	}

	b.mu.Lock()
	for op, n := range b.perOp {
		stats.PerOp[op] = n
	}
	b.mu.Unlock()

	return stats
}

func (b *BasicMetricsCollector) getAvgNanos() int64 {
	count := b.RequestCount.Load()
	if count == 0 {
		return 0
	}
	return b.RequestNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RequestCount  int64
	RequestErrors int64
	AvgNanos      int64
	InFlight      int64
	MaxInFlight   int64
	PerOp         map[protocol.Op]int64
}
