package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecbridge/blobstore"
	"github.com/hupe1980/vecbridge/codec"
	"github.com/hupe1980/vecbridge/internal/compress"
	"github.com/hupe1980/vecbridge/internal/resource"
)

// Local is an in-process Engine.
type Local struct {
	mu          sync.RWMutex
	collections map[string]*collection
	aliases     map[string]string
	removed     map[string]struct{}
	aliasDirty  bool

	store       blobstore.BlobStore
	codec       codec.Codec
	compression compress.Type
	rc          *resource.Controller
	logger      *slog.Logger

	flushInterval time.Duration
	flushMu       sync.Mutex

	closed  atomic.Bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Open creates a Local engine. When a blob store is configured, all persisted
// collections and aliases are loaded before Open returns; a snapshot that
// fails to decode aborts Open with ErrCorrupt.
func Open(ctx context.Context, optFns ...Option) (*Local, error) {
	o := options{
		codec:       codec.Default,
		compression: compress.LZ4,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.resources == nil {
		o.resources = resource.NewController(resource.Config{
			MaxSearchThreads: int64(runtime.GOMAXPROCS(0)),
		})
	}

	e := &Local{
		collections:   make(map[string]*collection),
		aliases:       make(map[string]string),
		removed:       make(map[string]struct{}),
		store:         o.store,
		codec:         o.codec,
		compression:   o.compression,
		rc:            o.resources,
		logger:        o.logger,
		flushInterval: o.flushInterval,
		closeCh:       make(chan struct{}),
	}

	if e.store != nil {
		if err := e.load(ctx); err != nil {
			return nil, err
		}
		if e.flushInterval > 0 {
			e.wg.Add(1)
			go e.runFlushLoop()
		}
	}

	e.logger.Info("engine opened", "collections", len(e.collections), "aliases", len(e.aliases))
	return e, nil
}

// Close stops the flush loop and persists pending changes. It is idempotent.
func (e *Local) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(e.closeCh)
	e.wg.Wait()

	if e.store == nil {
		return nil
	}
	if err := e.Flush(context.Background()); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	e.logger.Info("engine closed")
	return nil
}

func (e *Local) runFlushLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.closeCh:
			return
		case <-ticker.C:
			if err := e.Flush(context.Background()); err != nil {
				e.logger.Warn("background flush failed", "error", err)
			}
		}
	}
}

func (e *Local) checkOpen() error {
	if e.closed.Load() {
		return ErrClosed
	}
	return nil
}

// lookup resolves a collection name or alias.
func (e *Local) lookup(name string) (*collection, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if target, ok := e.aliases[name]; ok {
		name = target
	}
	c, ok := e.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: collection %q", ErrNotFound, name)
	}
	return c, nil
}

// read runs fn under the collection read lock.
func (e *Local) read(ctx context.Context, name string, fn func(c *collection) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := e.lookup(name)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(c)
}

// write runs fn under the collection write lock.
func (e *Local) write(ctx context.Context, name string, fn func(c *collection) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := e.lookup(name)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c)
}

// search runs fn under the collection read lock while holding a search slot.
func (e *Local) search(ctx context.Context, name string, fn func(c *collection) error) error {
	if err := e.rc.AcquireSearch(ctx); err != nil {
		return err
	}
	defer e.rc.ReleaseSearch()
	return e.read(ctx, name, fn)
}
