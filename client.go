package vecbridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/vecbridge/protocol"
)

// Default bridge parameters.
const (
	DefaultRequestTimeout     = 30 * time.Second
	DefaultHealthCheckTimeout = 5 * time.Second
	DefaultShutdownTimeout    = 30 * time.Second
	DefaultChannelBuffer      = 1024
)

// Client is the handle to a running instance. It is safe for concurrent use.
//
// Every operation sends one request to the worker and waits for its reply.
// A timed-out call stops waiting; the request itself keeps running on the
// worker.
type Client struct {
	disposer *disposer
	worker   *worker

	requestTimeout     time.Duration
	healthCheckTimeout time.Duration
	shutdownTimeout    time.Duration

	logger *Logger

	closeOnce sync.Once
	closeErr  error
}

// disposer owns the send side of the request channel. It holds no reference
// to the Client so it can run when the Client becomes unreachable.
type disposer struct {
	tx    *sender
	state *lifecycle
}

// release stops accepting requests. Buffered requests are still served.
func (d *disposer) release() bool {
	d.state.advance(StateAccepting)
	return d.tx.close()
}

// Do sends req and waits for its reply using the request timeout.
func (c *Client) Do(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	return c.roundTrip(ctx, req, c.requestTimeout)
}

// IsHealthy reports whether the client still accepts requests. It does not
// check that the worker is making progress; use HealthCheck for that.
func (c *Client) IsHealthy() bool {
	return c.disposer.tx.isOpen()
}

// HealthCheck performs a real round trip with the health check timeout.
// Engine errors count as healthy since the worker answered.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.roundTrip(ctx, protocol.ListCollections{}, c.healthCheckTimeout)
	if err != nil && (isBridgeError(err) || ctx.Err() != nil) {
		return err
	}
	return nil
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return c.disposer.state.load()
}

// Done returns a channel that is closed once the worker has released the
// engine.
func (c *Client) Done() <-chan struct{} {
	return c.worker.done
}

// Close stops accepting requests and waits, at most for the shutdown
// timeout, until every in-flight request has finished and the engine is
// closed. It returns the engine close error, or a *TimeoutError if the
// worker did not terminate in time. Subsequent calls return the same result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		ctx := context.Background()
		start := time.Now()

		c.disposer.release()

		timer := time.NewTimer(c.shutdownTimeout)
		defer timer.Stop()

		select {
		case <-c.worker.done:
			c.closeErr = c.worker.closeErr
		case <-timer.C:
			c.logger.WarnContext(ctx, "forced shutdown: worker did not terminate in time",
				"duration", c.shutdownTimeout,
				"state", c.State().String(),
				"in_flight", c.worker.tasks.Active(),
			)
			c.closeErr = &TimeoutError{Duration: c.shutdownTimeout}
		}

		c.logger.LogShutdown(ctx, time.Since(start), c.closeErr)
	})
	return c.closeErr
}

// roundTrip sends req and waits for the matching response. timeout bounds
// both the send and the wait.
func (c *Client) roundTrip(ctx context.Context, req protocol.Request, timeout time.Duration) (protocol.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", protocol.ErrUnknownRequest)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg := newMessage(req)

	if err := c.disposer.tx.send(callCtx, msg); err != nil {
		return nil, c.waitError(ctx, err, timeout)
	}

	select {
	case r, ok := <-msg.reply.ch:
		if !ok {
			return nil, ErrResponseDropped
		}
		if r.err != nil {
			return nil, r.err
		}
		if !protocol.Matches(req, r.resp) {
			actual := protocol.Op("")
			if r.resp != nil {
				actual = r.resp.Op()
			}
			return nil, &UnexpectedResponseError{Expected: req.Op(), Actual: actual}
		}
		return r.resp, nil
	case <-callCtx.Done():
		msg.reply.detach()
		return nil, c.waitError(ctx, callCtx.Err(), timeout)
	}
}

// waitError maps a context error of the call context. Caller cancellation
// is returned as is; expiry of the call timeout becomes a *TimeoutError.
func (c *Client) waitError(ctx context.Context, err error, timeout time.Duration) error {
	if err == ErrShuttingDown {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err == context.DeadlineExceeded {
		return &TimeoutError{Duration: timeout}
	}
	return err
}

// call performs a round trip and asserts the concrete response type.
func call[T protocol.Response](ctx context.Context, c *Client, req protocol.Request) (T, error) {
	var zero T

	resp, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}

	typed, ok := resp.(T)
	if !ok {
		return zero, &UnexpectedResponseError{Expected: req.Op(), Actual: resp.Op()}
	}
	return typed, nil
}
