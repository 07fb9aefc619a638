package vecbridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/vecbridge/protocol"
)

var (
	// ErrChannelClosed is the class of errors raised when the instance no
	// longer accepts work: the request channel is closed or the reply slot
	// was abandoned without a result.
	ErrChannelClosed = errors.New("channel closed")

	// ErrShuttingDown is returned when a request could not be sent because
	// the client is closing or closed.
	ErrShuttingDown = fmt.Errorf("instance shutting down: %w", ErrChannelClosed)

	// ErrResponseDropped is returned when the worker gave up on a request
	// without writing a reply (e.g. the handler panicked).
	ErrResponseDropped = fmt.Errorf("response dropped: %w", ErrChannelClosed)

	// ErrTimeout matches every *TimeoutError.
	ErrTimeout = errors.New("timeout")

	// ErrUnexpectedResponse matches every *UnexpectedResponseError.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrStartup matches every *StartupError.
	ErrStartup = errors.New("startup failed")
)

// TimeoutError reports that no reply arrived within Duration.
// The request may still complete on the worker.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s", e.Duration)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// UnexpectedResponseError reports a reply whose operation does not match the
// request. It indicates a bug in the dispatch layer.
type UnexpectedResponseError struct {
	Expected protocol.Op
	Actual   protocol.Op
}

func (e *UnexpectedResponseError) Error() string {
	actual := string(e.Actual)
	if actual == "" {
		actual = "<none>"
	}
	return fmt.Sprintf("unexpected response: expected %s, got %s", e.Expected, actual)
}

// Is reports whether target is ErrUnexpectedResponse.
func (e *UnexpectedResponseError) Is(target error) bool { return target == ErrUnexpectedResponse }

// StartupError reports that the instance could not be started.
type StartupError struct {
	Cause error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed: %v", e.Cause)
}

// Is reports whether target is ErrStartup.
func (e *StartupError) Is(target error) bool { return target == ErrStartup }

func (e *StartupError) Unwrap() error { return e.Cause }

// isBridgeError reports whether err was raised by the bridge rather than
// forwarded from the engine.
func isBridgeError(err error) bool {
	return errors.Is(err, ErrChannelClosed) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnexpectedResponse)
}
