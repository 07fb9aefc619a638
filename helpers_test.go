package vecbridge

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/vecbridge/config"
	"github.com/hupe1980/vecbridge/distance"
	"github.com/hupe1980/vecbridge/engine"
	"github.com/hupe1980/vecbridge/protocol"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, optFns ...Option) *Client {
	t.Helper()
	opts := append([]Option{WithLogger(NoopLogger())}, optFns...)
	c, err := StartWithSettings(context.Background(), config.Default(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// gatedExecutor holds gated requests until release is called.
type gatedExecutor struct {
	ops      map[protocol.Op]bool
	gate     chan struct{}
	once     sync.Once
	started  chan protocol.Op
	executed atomic.Int64
	finished atomic.Int64
}

// newGatedClient starts a client whose executor gates ops. The gate is
// released before the client is closed at the end of the test.
func newGatedClient(t *testing.T, ops []protocol.Op, optFns ...Option) (*Client, *gatedExecutor) {
	t.Helper()
	gx := newGatedExecutor(ops...)
	c := newTestClient(t, append([]Option{withExecutor(gx.exec)}, optFns...)...)
	t.Cleanup(gx.release)
	return c, gx
}

// newGatedExecutor gates the given ops, or every op if none are given.
func newGatedExecutor(ops ...protocol.Op) *gatedExecutor {
	g := &gatedExecutor{
		gate:    make(chan struct{}),
		started: make(chan protocol.Op, 128),
	}
	if len(ops) > 0 {
		g.ops = make(map[protocol.Op]bool, len(ops))
		for _, op := range ops {
			g.ops[op] = true
		}
	}
	return g
}

func (g *gatedExecutor) exec(ctx context.Context, eng engine.Engine, req protocol.Request) (protocol.Response, error) {
	g.executed.Add(1)
	defer g.finished.Add(1)

	if g.ops == nil || g.ops[req.Op()] {
		g.started <- req.Op()
		<-g.gate
	}
	return protocol.Execute(ctx, eng, req)
}

func (g *gatedExecutor) release() {
	g.once.Do(func() { close(g.gate) })
}

// waitStarted blocks until n gated requests are executing.
func (g *gatedExecutor) waitStarted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-g.started:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of %d requests started", i, n)
		}
	}
}

// recordingEngine wraps a Local engine and records Close.
type recordingEngine struct {
	engine.Engine
	closed   atomic.Bool
	closeErr error
	onClose  func()
}

func (r *recordingEngine) open(ctx context.Context) (engine.Engine, error) {
	l, err := engine.Open(ctx)
	if err != nil {
		return nil, err
	}
	r.Engine = l
	return r, nil
}

func (r *recordingEngine) Close() error {
	if r.onClose != nil {
		r.onClose()
	}
	r.closed.Store(true)
	if err := r.Engine.Close(); err != nil {
		return err
	}
	return r.closeErr
}

func docsConfig() engine.CreateCollection {
	return engine.CreateCollection{Vectors: engine.SingleVector(2, distance.MetricEuclid)}
}

// seedDocs creates "docs" with four 2-d points through the client.
func seedDocs(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()

	ok, err := c.CreateCollection(ctx, "docs", docsConfig())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = c.UpsertPoints(ctx, "docs", []engine.PointStruct{
		{ID: engine.NumID(1), Vectors: engine.Vectors{"": {0, 0}}, Payload: engine.Payload{"color": "red", "price": 10}},
		{ID: engine.NumID(2), Vectors: engine.Vectors{"": {1, 0}}, Payload: engine.Payload{"color": "blue", "price": 20}},
		{ID: engine.NumID(3), Vectors: engine.Vectors{"": {5, 5}}, Payload: engine.Payload{"color": "red", "price": 30}},
		{ID: engine.NumID(4), Vectors: engine.Vectors{"": {0, 2}}, Payload: engine.Payload{"color": "green", "price": 40}},
	})
	require.NoError(t, err)
}

func scoredIDs(points []engine.ScoredPoint) []uint64 {
	out := make([]uint64, 0, len(points))
	for _, p := range points {
		out = append(out, p.ID.Num())
	}
	return out
}
