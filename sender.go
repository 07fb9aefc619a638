package vecbridge

import (
	"context"
	"sync"
)

// sender is the send side of the request channel. It can be closed
// independently of the Client that owns it.
type sender struct {
	mu      sync.RWMutex
	ch      chan message
	closing chan struct{}
	once    sync.Once
}

func newSender(buffer int) *sender {
	return &sender{
		ch:      make(chan message, buffer),
		closing: make(chan struct{}),
	}
}

// recv returns the receive side for the worker.
func (s *sender) recv() <-chan message {
	return s.ch
}

// send enqueues msg. It blocks while the buffer is full and fails with
// ErrShuttingDown once close has been called.
func (s *sender) send(ctx context.Context, msg message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	select {
	case <-s.closing:
		return ErrShuttingDown
	default:
	}

	select {
	case s.ch <- msg:
		return nil
	case <-s.closing:
		return ErrShuttingDown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close rejects further sends and closes the channel once every pending send
// has returned. It reports whether this call closed the sender.
func (s *sender) close() bool {
	closed := false
	s.once.Do(func() {
		close(s.closing)
		s.mu.Lock()
		close(s.ch)
		s.mu.Unlock()
		closed = true
	})
	return closed
}

// isOpen reports whether sends are still accepted.
func (s *sender) isOpen() bool {
	select {
	case <-s.closing:
		return false
	default:
		return true
	}
}
