package vecbridge

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hupe1980/vecbridge/config"
	"github.com/hupe1980/vecbridge/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	s := config.Default()
	s.Service.RequestTimeout = 10 * time.Second
	s.Service.ChannelBuffer = 8

	t.Run("settings", func(t *testing.T) {
		o := applyOptions(s, nil)
		assert.Equal(t, 10*time.Second, o.requestTimeout)
		assert.Equal(t, DefaultHealthCheckTimeout, o.healthCheckTimeout)
		assert.Equal(t, DefaultShutdownTimeout, o.shutdownTimeout)
		assert.Equal(t, 8, o.channelBuffer)
		assert.NotNil(t, o.logger)
		assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
		assert.NotNil(t, o.exec)
	})

	t.Run("options win", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		o := applyOptions(s, []Option{
			WithRequestTimeout(time.Second),
			WithHealthCheckTimeout(2 * time.Second),
			WithShutdownTimeout(3 * time.Second),
			WithChannelBuffer(4),
			WithMetricsCollector(metrics),
		})
		assert.Equal(t, time.Second, o.requestTimeout)
		assert.Equal(t, 2*time.Second, o.healthCheckTimeout)
		assert.Equal(t, 3*time.Second, o.shutdownTimeout)
		assert.Equal(t, 4, o.channelBuffer)
		assert.Same(t, metrics, o.metricsCollector)
	})

	t.Run("zero values fall back to defaults", func(t *testing.T) {
		o := applyOptions(config.Settings{}, []Option{
			WithChannelBuffer(0),
			WithMetricsCollector(nil),
			WithLogger(nil),
		})
		assert.Equal(t, DefaultRequestTimeout, o.requestTimeout)
		assert.Equal(t, DefaultChannelBuffer, o.channelBuffer)
		assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
		assert.NotNil(t, o.logger)
	})
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.WithRequestID("01ABC").
		WithRequest(protocol.Search{Collection: "docs"}).
		LogRequest(context.Background(), time.Millisecond, nil)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"01ABC"`)
	assert.Contains(t, out, `"op":"search"`)
	assert.Contains(t, out, `"collection":"docs"`)
	assert.Contains(t, out, `"msg":"request completed"`)

	buf.Reset()
	logger.LogRequest(context.Background(), time.Millisecond, &TimeoutError{Duration: time.Second})
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	logger.WithState(StateDraining).LogShutdown(context.Background(), time.Millisecond, nil)
	assert.Contains(t, buf.String(), `"state":"draining"`)

	buf.Reset()
	NoopLogger().Error("dropped")
	assert.Empty(t, buf.String())
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{"timeout", &TimeoutError{Duration: time.Second}, ErrTimeout, "timeout after 1s"},
		{"unexpected", &UnexpectedResponseError{Expected: protocol.OpSearch, Actual: protocol.OpQuery}, ErrUnexpectedResponse, "unexpected response: expected search, got query"},
		{"unexpected none", &UnexpectedResponseError{Expected: protocol.OpSearch}, ErrUnexpectedResponse, "unexpected response: expected search, got <none>"},
		{"shutting down", ErrShuttingDown, ErrChannelClosed, "instance shutting down: channel closed"},
		{"dropped", ErrResponseDropped, ErrChannelClosed, "response dropped: channel closed"},
		{"startup", &StartupError{Cause: config.ErrInvalid}, ErrStartup, "startup failed: invalid configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.target)
			assert.EqualError(t, tt.err, tt.msg)
			assert.True(t, isBridgeError(tt.err) || tt.target == ErrStartup)
		})
	}
}
