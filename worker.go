package vecbridge

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/hupe1980/vecbridge/engine"
	"github.com/hupe1980/vecbridge/protocol"
)

// worker owns the engine. It dispatches every message to its own tracked
// goroutine and closes the engine once the channel is drained and every
// task has returned.
type worker struct {
	rx      <-chan message
	state   *lifecycle
	exec    executor
	logger  *Logger
	metrics MetricsCollector
	tasks   taskGroup

	// done is closed when the worker exits, after a failed start or after
	// the engine was closed.
	done chan struct{}
	// closeErr is the error of engine.Close. Read only after done is closed.
	closeErr error
}

func newWorker(rx <-chan message, state *lifecycle, o options) *worker {
	w := &worker{
		rx:      rx,
		state:   state,
		exec:    o.exec,
		logger:  o.logger,
		metrics: o.metricsCollector,
		done:    make(chan struct{}),
	}
	w.tasks.onChange = w.metrics.RecordInFlight
	return w
}

// run constructs the engine with factory, reports the outcome on ready and
// serves messages until the channel is closed.
func (w *worker) run(ctx context.Context, factory EngineFactory, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	eng, err := w.construct(ctx, factory)
	if err != nil {
		ready <- err
		return
	}

	w.transition(ctx, StateStarting)
	ready <- nil

	// Requests outlive the caller that sent them.
	taskCtx := context.WithoutCancel(ctx)
	for msg := range w.rx {
		w.dispatch(taskCtx, eng, msg)
	}

	w.transition(ctx, StateDraining)
	w.logger.DebugContext(ctx, "dispatch loop exited",
		"in_flight", w.tasks.Active(),
	)
	w.tasks.Wait()

	if err := eng.Close(); err != nil {
		w.closeErr = err
		w.logger.ErrorContext(ctx, "engine close failed", "error", err)
	}
	w.transition(ctx, StateReclaimingEngine)
}

func (w *worker) construct(ctx context.Context, factory EngineFactory) (eng engine.Engine, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("engine construction panicked: %v", v)
		}
	}()

	eng, err = factory(ctx)
	if err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, fmt.Errorf("engine factory returned nil")
	}
	return eng, nil
}

func (w *worker) transition(ctx context.Context, from State) {
	if to, ok := w.state.advance(from); ok {
		w.logger.LogTransition(ctx, from, to)
	} else {
		w.logger.WarnContext(ctx, "unexpected lifecycle state",
			"expected", from.String(),
			"state", w.state.load().String(),
		)
	}
}

func (w *worker) dispatch(ctx context.Context, eng engine.Engine, msg message) {
	w.tasks.Go(func() {
		w.handle(ctx, eng, msg)
	})
}

// handle executes one request and writes its reply. A panic abandons the
// reply slot and never escapes the task.
func (w *worker) handle(ctx context.Context, eng engine.Engine, msg message) {
	log := w.logger.WithRequestID(msg.id.String())
	op := requestOp(msg.req)
	start := time.Now()

	defer func() {
		if v := recover(); v != nil {
			log.ErrorContext(ctx, "request panicked",
				"op", op,
				"panic", v,
				"stack", string(debug.Stack()),
			)
			w.metrics.RecordRequest(op, time.Since(start), ErrResponseDropped)
			msg.reply.abandon()
		}
	}()

	log = log.WithRequest(msg.req)

	resp, err := w.exec(ctx, eng, msg.req)
	duration := time.Since(start)
	w.metrics.RecordRequest(op, duration, err)
	log.LogRequest(ctx, duration, err)

	if !msg.reply.send(result{resp: resp, err: err}) {
		log.WarnContext(ctx, "reply slot already used")
		return
	}
	if msg.reply.isDetached() {
		log.WarnContext(ctx, "reply dropped: caller stopped waiting",
			"duration", time.Since(msg.enqueued),
		)
	}
}

// requestOp returns the op of req, or "" for a nil request.
func requestOp(req protocol.Request) protocol.Op {
	if req == nil {
		return ""
	}
	return req.Op()
}
