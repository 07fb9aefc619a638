package vecbridge

import (
	"context"
	"runtime"

	"github.com/hupe1980/vecbridge/config"
)

// Start loads settings from configPath (empty for defaults plus environment)
// and starts an instance. It returns once the engine is constructed and the
// worker accepts requests, or with a *StartupError.
func Start(ctx context.Context, configPath string, optFns ...Option) (*Client, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, &StartupError{Cause: err}
	}
	return StartWithSettings(ctx, settings, optFns...)
}

// StartWithSettings starts an instance from already loaded settings.
//
// The engine is built on the worker goroutine, using the storage settings or
// the factory set with WithEngineFactory. ctx bounds construction; requests
// are not cancelled when ctx is.
func StartWithSettings(ctx context.Context, settings config.Settings, optFns ...Option) (*Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, &StartupError{Cause: err}
	}

	o := applyOptions(settings, optFns)

	factory := o.engineFactory
	if factory == nil {
		factory = localEngineFactory(settings, o.blobStore, o.logger)
	}

	state := &lifecycle{}
	tx := newSender(o.channelBuffer)
	w := newWorker(tx.recv(), state, o)

	ready := make(chan error, 1)
	go w.run(ctx, factory, ready)

	if err := <-ready; err != nil {
		o.logger.ErrorContext(ctx, "instance failed to start", "error", err)
		return nil, &StartupError{Cause: err}
	}

	c := &Client{
		disposer:           &disposer{tx: tx, state: state},
		worker:             w,
		requestTimeout:     o.requestTimeout,
		healthCheckTimeout: o.healthCheckTimeout,
		shutdownTimeout:    o.shutdownTimeout,
		logger:             o.logger,
	}

	// An unreachable Client still releases the engine.
	runtime.AddCleanup(c, func(d *disposer) { d.release() }, c.disposer)

	o.logger.InfoContext(ctx, "instance started",
		"channel_buffer", o.channelBuffer,
		"request_timeout", o.requestTimeout,
		"state", state.load().String(),
	)
	return c, nil
}
