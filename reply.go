package vecbridge

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecbridge/protocol"
	"github.com/oklog/ulid/v2"
)

// result is the outcome of one request.
type result struct {
	resp protocol.Response
	err  error
}

// replySlot is a single-use handoff cell between one worker task and one
// waiting caller. It is written or abandoned at most once and never blocks.
type replySlot struct {
	ch       chan result
	done     atomic.Bool
	detached atomic.Bool
}

func newReplySlot() *replySlot {
	return &replySlot{ch: make(chan result, 1)}
}

// send stores r. It returns false if the slot was already written or
// abandoned; the first outcome is kept.
func (s *replySlot) send(r result) bool {
	if !s.done.CompareAndSwap(false, true) {
		return false
	}
	s.ch <- r
	return true
}

// abandon closes the slot without a result. The reader observes
// ErrResponseDropped.
func (s *replySlot) abandon() bool {
	if !s.done.CompareAndSwap(false, true) {
		return false
	}
	close(s.ch)
	return true
}

// detach marks that the reader stopped waiting.
func (s *replySlot) detach() {
	s.detached.Store(true)
}

// isDetached reports whether the reader stopped waiting.
func (s *replySlot) isDetached() bool {
	return s.detached.Load()
}

// message is the unit placed on the request channel.
type message struct {
	id       ulid.ULID
	req      protocol.Request
	reply    *replySlot
	enqueued time.Time
}

func newMessage(req protocol.Request) message {
	return message{
		id:       ulid.Make(),
		req:      req,
		reply:    newReplySlot(),
		enqueued: time.Now(),
	}
}
