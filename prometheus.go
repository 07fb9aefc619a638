package vecbridge

import (
	"errors"
	"time"

	"github.com/hupe1980/vecbridge/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of vecbridge_requests_total.
const (
	outcomeOK          = "ok"
	outcomeEngineError = "engine_error"
	outcomeDropped     = "dropped"
)

// PrometheusCollector exports request metrics to Prometheus.
type PrometheusCollector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewPrometheusCollector creates the vecbridge metrics and registers them
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusCollector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vecbridge_requests_total",
				Help: "Total number of requests executed by the worker.",
			},
			[]string{"op", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vecbridge_request_duration_seconds",
				Help:    "Request execution time on the worker, in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vecbridge_requests_in_flight",
				Help: "Number of requests currently executing on the worker.",
			},
		),
	}

	for _, c := range []prometheus.Collector{p.requests, p.latency, p.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	// Pre-initialize label combinations so every op shows up with value 0.
	for _, op := range protocol.Ops() {
		p.requests.WithLabelValues(string(op), outcomeOK)
		p.requests.WithLabelValues(string(op), outcomeEngineError)
	}

	return p, nil
}

// RecordRequest implements MetricsCollector.
func (p *PrometheusCollector) RecordRequest(op protocol.Op, duration time.Duration, err error) {
	outcome := outcomeOK
	switch {
	case errors.Is(err, ErrResponseDropped):
		outcome = outcomeDropped
	case err != nil:
		outcome = outcomeEngineError
	}
	p.requests.WithLabelValues(string(op), outcome).Inc()
	p.latency.WithLabelValues(string(op)).Observe(duration.Seconds())
}

// RecordInFlight implements MetricsCollector.
func (p *PrometheusCollector) RecordInFlight(n int64) {
	p.inFlight.Set(float64(n))
}
