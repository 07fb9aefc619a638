package engine

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
)

func validateName(kind, name string) error {
	if name == "" || len(name) > 255 || name == "." || name == ".." || strings.ContainsAny(name, `/\:*?"<>|`) {
		return fmt.Errorf("%w: invalid %s name %q", ErrBadInput, kind, name)
	}
	return nil
}

// ListCollections returns the sorted collection names.
func (e *Local) ListCollections(ctx context.Context) ([]string, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.collections))
	for name := range e.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CollectionInfo describes a collection or the collection behind an alias.
func (e *Local) CollectionInfo(ctx context.Context, name string) (CollectionInfo, error) {
	var info CollectionInfo
	err := e.read(ctx, name, func(c *collection) error {
		info = c.info()
		return nil
	})
	return info, err
}

// CreateCollection creates a collection. A taken name fails with
// ErrAlreadyExists regardless of the requested config.
func (e *Local) CreateCollection(ctx context.Context, name string, cfg CreateCollection) (bool, error) {
	if err := e.checkOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateName("collection", name); err != nil {
		return false, err
	}
	if err := validateConfig(cfg); err != nil {
		return false, err
	}

	cfg.Vectors = maps.Clone(cfg.Vectors)
	meta, err := normalizePayload(cfg.Metadata)
	if err != nil {
		return false, err
	}
	cfg.Metadata = meta

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.collections[name]; ok {
		return false, fmt.Errorf("%w: collection %q", ErrAlreadyExists, name)
	}
	if _, ok := e.aliases[name]; ok {
		return false, fmt.Errorf("%w: %q is an alias", ErrAlreadyExists, name)
	}

	c := newCollection(name, cfg)
	c.dirty = true
	e.collections[name] = c
	delete(e.removed, name)

	e.logger.Info("collection created", "collection", name, "vectors", len(cfg.Vectors))
	return true, nil
}

// UpdateCollection applies mutable parameter changes.
func (e *Local) UpdateCollection(ctx context.Context, name string, upd UpdateCollection) (bool, error) {
	meta, err := normalizePayload(upd.Metadata)
	if err != nil {
		return false, err
	}
	err = e.write(ctx, name, func(c *collection) error {
		if upd.OnDiskPayload != nil {
			c.config.OnDiskPayload = *upd.OnDiskPayload
		}
		if len(meta) > 0 && c.config.Metadata == nil {
			c.config.Metadata = make(map[string]any, len(meta))
		}
		for k, v := range meta {
			if v == nil {
				delete(c.config.Metadata, k)
				continue
			}
			c.config.Metadata[k] = v
		}
		c.dirty = true
		return nil
	})
	return err == nil, err
}

// DeleteCollection drops a collection and its aliases. It reports false when
// the collection did not exist.
func (e *Local) DeleteCollection(ctx context.Context, name string) (bool, error) {
	if err := e.checkOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if target, ok := e.aliases[name]; ok {
		name = target
	}
	if _, ok := e.collections[name]; !ok {
		return false, nil
	}

	delete(e.collections, name)
	e.removed[name] = struct{}{}
	for alias, target := range e.aliases {
		if target == name {
			delete(e.aliases, alias)
			e.aliasDirty = true
		}
	}

	e.logger.Info("collection deleted", "collection", name)
	return true, nil
}

// ListAliases returns all aliases sorted by alias name.
func (e *Local) ListAliases(ctx context.Context) ([]AliasDescription, error) {
	return e.aliasesWhere(ctx, func(string) bool { return true })
}

// CollectionAliases returns the aliases pointing at collection.
func (e *Local) CollectionAliases(ctx context.Context, collection string) ([]AliasDescription, error) {
	c, err := e.lookup(collection)
	if err != nil {
		return nil, err
	}
	return e.aliasesWhere(ctx, func(target string) bool { return target == c.name })
}

func (e *Local) aliasesWhere(ctx context.Context, keep func(target string) bool) ([]AliasDescription, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]AliasDescription, 0, len(e.aliases))
	for alias, target := range e.aliases {
		if keep(target) {
			out = append(out, AliasDescription{Alias: alias, Collection: target})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out, nil
}

// CreateAlias points alias at collection, replacing an existing binding.
func (e *Local) CreateAlias(ctx context.Context, collection, alias string) (bool, error) {
	if err := e.checkOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateName("alias", alias); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.collections[collection]; !ok {
		return false, fmt.Errorf("%w: collection %q", ErrNotFound, collection)
	}
	if _, ok := e.collections[alias]; ok {
		return false, fmt.Errorf("%w: %q is a collection", ErrAlreadyExists, alias)
	}

	e.aliases[alias] = collection
	e.aliasDirty = true
	return true, nil
}

// DeleteAlias removes an alias.
func (e *Local) DeleteAlias(ctx context.Context, alias string) (bool, error) {
	if err := e.checkOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.aliases[alias]; !ok {
		return false, fmt.Errorf("%w: alias %q", ErrNotFound, alias)
	}
	delete(e.aliases, alias)
	e.aliasDirty = true
	return true, nil
}

// RenameAlias moves an alias binding to a new name.
func (e *Local) RenameAlias(ctx context.Context, oldAlias, newAlias string) (bool, error) {
	if err := e.checkOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateName("alias", newAlias); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	target, ok := e.aliases[oldAlias]
	if !ok {
		return false, fmt.Errorf("%w: alias %q", ErrNotFound, oldAlias)
	}
	if _, ok := e.collections[newAlias]; ok {
		return false, fmt.Errorf("%w: %q is a collection", ErrAlreadyExists, newAlias)
	}
	if _, ok := e.aliases[newAlias]; ok && newAlias != oldAlias {
		return false, fmt.Errorf("%w: alias %q", ErrAlreadyExists, newAlias)
	}

	delete(e.aliases, oldAlias)
	e.aliases[newAlias] = target
	e.aliasDirty = true
	return true, nil
}
