package vecbridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/hupe1980/vecbridge/blobstore"
	"github.com/hupe1980/vecbridge/config"
	"github.com/hupe1980/vecbridge/engine"
	"github.com/hupe1980/vecbridge/protocol"
)

// EngineFactory constructs the engine owned by the worker. It runs on the
// worker goroutine before any request is accepted.
type EngineFactory func(ctx context.Context) (engine.Engine, error)

// executor runs one request against the engine.
type executor func(ctx context.Context, eng engine.Engine, req protocol.Request) (protocol.Response, error)

type options struct {
	logger             *Logger
	metricsCollector   MetricsCollector
	requestTimeout     time.Duration
	healthCheckTimeout time.Duration
	shutdownTimeout    time.Duration
	channelBuffer      int
	engineFactory      EngineFactory
	blobStore          blobstore.BlobStore
	exec               executor
}

// Option configures Start.
//
// Options take precedence over the loaded settings.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecbridge.NewJSONLogger(slog.LevelInfo)
//	client, _ := vecbridge.Start(ctx, "", vecbridge.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring requests.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecbridge.BasicMetricsCollector{}
//	client, _ := vecbridge.Start(ctx, "", vecbridge.WithMetricsCollector(metrics))
//	// ... use client ...
//	stats := metrics.GetStats()
//	fmt.Printf("Requests: %d, Avg latency: %dns\n", stats.RequestCount, stats.AvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithRequestTimeout sets how long a call waits for its reply, including the
// time spent waiting for room in the request channel. Default 30s.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		o.requestTimeout = d
	}
}

// WithHealthCheckTimeout sets the round-trip timeout of HealthCheck. Default 5s.
func WithHealthCheckTimeout(d time.Duration) Option {
	return func(o *options) {
		o.healthCheckTimeout = d
	}
}

// WithShutdownTimeout sets how long Close waits for the worker to release
// the engine. Default 30s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		o.shutdownTimeout = d
	}
}

// WithChannelBuffer sets the capacity of the request channel. Default 1024.
func WithChannelBuffer(n int) Option {
	return func(o *options) {
		o.channelBuffer = n
	}
}

// WithEngineFactory replaces the engine built from the storage settings.
func WithEngineFactory(f EngineFactory) Option {
	return func(o *options) {
		o.engineFactory = f
	}
}

// WithBlobStore persists the built-in engine to store instead of the backend
// selected in the storage settings.
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobStore = store
	}
}

// withExecutor replaces protocol.Execute on the worker.
func withExecutor(exec executor) Option {
	return func(o *options) {
		o.exec = exec
	}
}

func applyOptions(s config.Settings, optFns []Option) options {
	o := options{
		requestTimeout:     s.Service.RequestTimeout,
		healthCheckTimeout: s.Service.HealthCheckTimeout,
		shutdownTimeout:    s.Service.ShutdownTimeout,
		channelBuffer:      s.Service.ChannelBuffer,
		exec:               protocol.Execute,
	}

	for _, fn := range optFns {
		fn(&o)
	}

	if o.logger == nil {
		o.logger = loggerFromSettings(s.Log)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.requestTimeout <= 0 {
		o.requestTimeout = DefaultRequestTimeout
	}
	if o.healthCheckTimeout <= 0 {
		o.healthCheckTimeout = DefaultHealthCheckTimeout
	}
	if o.shutdownTimeout <= 0 {
		o.shutdownTimeout = DefaultShutdownTimeout
	}
	if o.channelBuffer <= 0 {
		o.channelBuffer = DefaultChannelBuffer
	}

	return o
}
