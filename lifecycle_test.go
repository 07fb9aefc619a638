package vecbridge

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleAdvance(t *testing.T) {
	var l lifecycle
	require.Equal(t, StateStarting, l.load())

	_, ok := l.advance(StateAccepting)
	assert.False(t, ok, "must not skip Starting")

	want := []State{StateAccepting, StateDraining, StateReclaimingEngine, StateTerminated}
	for _, next := range want {
		to, ok := l.advance(l.load())
		require.True(t, ok)
		assert.Equal(t, next, to)
		assert.Equal(t, next, l.load())
	}

	_, ok = l.advance(StateTerminated)
	assert.False(t, ok)
	assert.Equal(t, StateTerminated, l.load())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStarting, "starting"},
		{StateAccepting, "accepting"},
		{StateDraining, "draining"},
		{StateReclaimingEngine, "reclaiming_engine"},
		{StateTerminated, "terminated"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestTaskGroup(t *testing.T) {
	var (
		mu      sync.Mutex
		changes []int64
	)
	g := taskGroup{onChange: func(n int64) {
		mu.Lock()
		changes = append(changes, n)
		mu.Unlock()
	}}

	release := make(chan struct{})
	for range 3 {
		g.Go(func() { <-release })
	}
	assert.Equal(t, int64(3), g.Active())

	waited := make(chan struct{})
	go func() {
		g.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned while tasks were running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return")
	}

	assert.Equal(t, int64(0), g.Active())
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, changes, 6)
	assert.Contains(t, changes, int64(3))
	assert.Contains(t, changes, int64(0))
}
