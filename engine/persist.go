package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/hupe1980/vecbridge/blobstore"
)

const (
	collectionsPrefix = "collections/"
	snapshotSuffix    = ".snap"
	aliasesBlob       = "aliases.snap"
)

func snapshotName(collection string) string {
	return collectionsPrefix + collection + snapshotSuffix
}

// load restores every collection snapshot and the alias table.
func (e *Local) load(ctx context.Context) error {
	names, err := e.store.List(ctx, collectionsPrefix)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	for _, name := range names {
		if !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		data, err := e.readBlob(ctx, name)
		if err != nil {
			return fmt.Errorf("read snapshot %s: %w", name, err)
		}
		var snap collectionSnapshot
		if err := decodeSnapshot(data, &snap); err != nil {
			return fmt.Errorf("snapshot %s: %w", name, err)
		}
		if want := strings.TrimSuffix(path.Base(name), snapshotSuffix); snap.Name != want {
			return fmt.Errorf("%w: snapshot %s holds collection %q", ErrCorrupt, name, snap.Name)
		}
		if err := validateConfig(snap.Config); err != nil {
			return fmt.Errorf("%w: snapshot %s: %v", ErrCorrupt, name, err)
		}

		c := newCollection(snap.Name, snap.Config)
		c.opID = snap.OpID
		for _, p := range snap.Points {
			c.put(&record{id: p.ID, version: p.Version, vectors: p.Vectors, payload: p.Payload})
		}
		e.collections[snap.Name] = c
		e.logger.Debug("collection loaded", "collection", snap.Name, "points", len(snap.Points))
	}

	data, err := e.readBlob(ctx, aliasesBlob)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
	case err != nil:
		return fmt.Errorf("read aliases: %w", err)
	default:
		var aliases []AliasDescription
		if err := decodeSnapshot(data, &aliases); err != nil {
			return fmt.Errorf("aliases: %w", err)
		}
		for _, a := range aliases {
			if _, ok := e.collections[a.Collection]; !ok {
				e.logger.Warn("dropping alias to missing collection", "alias", a.Alias, "collection", a.Collection)
				continue
			}
			e.aliases[a.Alias] = a.Collection
		}
	}
	return nil
}

func (e *Local) readBlob(ctx context.Context, name string) ([]byte, error) {
	data, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := e.rc.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func (e *Local) writeBlob(ctx context.Context, name string, data []byte) error {
	if err := e.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return e.store.Put(ctx, name, data)
}

// Flush writes dirty collections, removes deleted ones and persists the alias
// table. It is a no-op without a blob store.
func (e *Local) Flush(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.rc.AcquireBackground(ctx); err != nil {
		return err
	}
	defer e.rc.ReleaseBackground()

	e.flushMu.Lock()
	defer e.flushMu.Unlock()

	e.mu.Lock()
	cols := make([]*collection, 0, len(e.collections))
	for _, c := range e.collections {
		cols = append(cols, c)
	}
	removed := make([]string, 0, len(e.removed))
	for name := range e.removed {
		removed = append(removed, name)
	}
	clear(e.removed)
	var aliases []AliasDescription
	if e.aliasDirty {
		aliases = make([]AliasDescription, 0, len(e.aliases))
		for alias, target := range e.aliases {
			aliases = append(aliases, AliasDescription{Alias: alias, Collection: target})
		}
		e.aliasDirty = false
	}
	e.mu.Unlock()

	var errs []error
	for _, name := range removed {
		if err := e.store.Delete(ctx, snapshotName(name)); err != nil {
			e.mu.Lock()
			if _, recreated := e.collections[name]; !recreated {
				e.removed[name] = struct{}{}
			}
			e.mu.Unlock()
			errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
		}
	}

	for _, c := range cols {
		if err := e.flushCollection(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}

	if aliases != nil {
		data, err := encodeSnapshot(aliases, e.codec, e.compression)
		if err == nil {
			err = e.writeBlob(ctx, aliasesBlob, data)
		}
		if err != nil {
			e.mu.Lock()
			e.aliasDirty = true
			e.mu.Unlock()
			errs = append(errs, fmt.Errorf("aliases: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (e *Local) flushCollection(ctx context.Context, c *collection) error {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	snap := collectionSnapshot{
		Name:   c.name,
		Config: c.config,
		OpID:   c.opID,
		Points: make([]snapshotPoint, 0, len(c.offsets)),
	}
	c.each(nil, func(_ uint32, r *record) bool {
		snap.Points = append(snap.Points, snapshotPoint{ID: r.id, Version: r.version, Vectors: r.vectors, Payload: r.payload})
		return true
	})
	data, err := encodeSnapshot(snap, e.codec, e.compression)
	if err == nil {
		c.dirty = false
	}
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := e.writeBlob(ctx, snapshotName(c.name), data); err != nil {
		c.mu.Lock()
		c.dirty = true
		c.mu.Unlock()
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	e.logger.Debug("collection flushed", "collection", c.name, "points", len(snap.Points), "bytes", len(data))
	return nil
}
