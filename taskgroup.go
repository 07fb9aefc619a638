package vecbridge

import (
	"sync"
	"sync/atomic"
)

// taskGroup tracks the goroutines that hold the engine.
type taskGroup struct {
	wg       sync.WaitGroup
	active   atomic.Int64
	onChange func(active int64)
}

// Go runs fn on a new goroutine tracked by the group.
func (g *taskGroup) Go(fn func()) {
	g.wg.Add(1)
	g.changed(g.active.Add(1))
	go func() {
		defer g.wg.Done()
		defer func() { g.changed(g.active.Add(-1)) }()
		fn()
	}()
}

// Wait blocks until every goroutine started with Go has returned.
func (g *taskGroup) Wait() {
	g.wg.Wait()
}

// Active returns the number of running goroutines.
func (g *taskGroup) Active() int64 {
	return g.active.Load()
}

func (g *taskGroup) changed(n int64) {
	if g.onChange != nil {
		g.onChange(n)
	}
}
