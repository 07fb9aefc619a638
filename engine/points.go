package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const defaultLimit = 10

// Retrieve returns the requested points in request order. Unknown ids are skipped.
func (e *Local) Retrieve(ctx context.Context, name string, req PointRequest) ([]Record, error) {
	var out []Record
	err := e.read(ctx, name, func(c *collection) error {
		out = make([]Record, 0, len(req.IDs))
		seen := make(map[PointID]struct{}, len(req.IDs))
		for _, id := range req.IDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if r, _, ok := c.get(id); ok {
				out = append(out, r.toRecord(req.WithPayload, req.WithVectors))
			}
		}
		return nil
	})
	return out, err
}

// Count counts points matching the filter. Counts are always exact.
func (e *Local) Count(ctx context.Context, name string, req CountRequest) (CountResult, error) {
	var n uint64
	err := e.read(ctx, name, func(c *collection) error {
		if req.Filter == nil {
			n = uint64(len(c.offsets))
			return nil
		}
		c.each(req.Filter, func(uint32, *record) bool {
			n++
			return true
		})
		return nil
	})
	return CountResult{Count: n}, err
}

// Upsert inserts or replaces points. The batch is validated as a whole before
// any point is written.
func (e *Local) Upsert(ctx context.Context, name string, req UpsertPoints) (UpdateResult, error) {
	var res UpdateResult
	err := e.write(ctx, name, func(c *collection) error {
		prepared := make([]*record, 0, len(req.Points))
		for _, p := range req.Points {
			vs, err := c.prepareVectors(p.Vectors)
			if err != nil {
				return fmt.Errorf("point %s: %w", p.ID, err)
			}
			payload, err := normalizePayload(p.Payload)
			if err != nil {
				return fmt.Errorf("point %s: %w", p.ID, err)
			}
			prepared = append(prepared, &record{id: p.ID, vectors: vs, payload: payload})
		}

		res = c.nextOp()
		for _, r := range prepared {
			r.version = res.OperationID
			c.put(r)
		}
		return nil
	})
	return res, err
}

// DeletePoints removes the selected points. Unknown ids are ignored.
func (e *Local) DeletePoints(ctx context.Context, name string, sel PointsSelector) (UpdateResult, error) {
	var res UpdateResult
	err := e.write(ctx, name, func(c *collection) error {
		var ids []PointID
		switch {
		case sel.IDs != nil && sel.Filter == nil:
			ids = sel.IDs
		default:
			offs, err := c.resolve(sel)
			if err != nil {
				return err
			}
			for _, off := range offs {
				ids = append(ids, c.records[off].id)
			}
		}
		for _, id := range ids {
			c.remove(id)
		}
		res = c.nextOp()
		return nil
	})
	return res, err
}

// UpdateVectors replaces the given named vectors of existing points and keeps
// the others.
func (e *Local) UpdateVectors(ctx context.Context, name string, req UpdateVectors) (UpdateResult, error) {
	var res UpdateResult
	err := e.write(ctx, name, func(c *collection) error {
		prepared := make([]Vectors, len(req.Points))
		for i, p := range req.Points {
			if _, _, ok := c.get(p.ID); !ok {
				return fmt.Errorf("%w: point %s in collection %q", ErrNotFound, p.ID, c.name)
			}
			vs, err := c.prepareVectors(p.Vectors)
			if err != nil {
				return err
			}
			prepared[i] = vs
		}

		res = c.nextOp()
		for i, p := range req.Points {
			r, _, _ := c.get(p.ID)
			if r.vectors == nil {
				r.vectors = make(Vectors, len(prepared[i]))
			}
			maps.Copy(r.vectors, prepared[i])
			r.version = res.OperationID
		}
		return nil
	})
	return res, err
}

// DeleteVectors removes named vectors from the selected points.
func (e *Local) DeleteVectors(ctx context.Context, name string, req DeleteVectors) (UpdateResult, error) {
	var res UpdateResult
	err := e.write(ctx, name, func(c *collection) error {
		if len(req.Vectors) == 0 {
			return fmt.Errorf("%w: no vector names given", ErrBadInput)
		}
		for _, vec := range req.Vectors {
			if _, err := c.params(vec); err != nil {
				return err
			}
		}
		offs, err := c.resolve(req.Selector)
		if err != nil {
			return err
		}

		res = c.nextOp()
		for _, off := range offs {
			r := c.records[off]
			for _, vec := range req.Vectors {
				delete(r.vectors, vec)
			}
			r.version = res.OperationID
		}
		return nil
	})
	return res, err
}

// SetPayload merges payload keys into the selected points.
func (e *Local) SetPayload(ctx context.Context, name string, req SetPayload) (UpdateResult, error) {
	return e.mutatePayload(ctx, name, req.Selector, req.Payload, func(cur, in Payload) Payload {
		out := clonePayload(cur)
		if out == nil {
			out = make(Payload, len(in))
		}
		target := map[string]any(out)
		if req.Key != "" {
			target = ensurePath(target, req.Key)
		}
		for k, v := range in {
			target[k] = v
		}
		return out
	})
}

// OverwritePayload replaces the payload of the selected points.
func (e *Local) OverwritePayload(ctx context.Context, name string, req SetPayload) (UpdateResult, error) {
	return e.mutatePayload(ctx, name, req.Selector, req.Payload, func(_, in Payload) Payload {
		return clonePayload(in)
	})
}

// DeletePayload removes keys from the selected points.
func (e *Local) DeletePayload(ctx context.Context, name string, req DeletePayload) (UpdateResult, error) {
	return e.mutatePayload(ctx, name, req.Selector, nil, func(cur, _ Payload) Payload {
		out := clonePayload(cur)
		for _, key := range req.Keys {
			deletePath(out, key)
		}
		return out
	})
}

// ClearPayload removes the whole payload of the selected points.
func (e *Local) ClearPayload(ctx context.Context, name string, sel PointsSelector) (UpdateResult, error) {
	return e.mutatePayload(ctx, name, sel, nil, func(Payload, Payload) Payload {
		return nil
	})
}

func (e *Local) mutatePayload(ctx context.Context, name string, sel PointsSelector, in Payload, apply func(cur, in Payload) Payload) (UpdateResult, error) {
	in, err := normalizePayload(in)
	if err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult
	err = e.write(ctx, name, func(c *collection) error {
		offs, err := c.resolve(sel)
		if err != nil {
			return err
		}
		res = c.nextOp()
		for _, off := range offs {
			r := c.records[off]
			c.setPayload(off, r, apply(r.payload, in))
			r.version = res.OperationID
		}
		return nil
	})
	return res, err
}

// ensurePath returns the nested object at a dotted path, creating (or
// replacing non-object values with) empty objects along the way.
func ensurePath(m map[string]any, key string) map[string]any {
	for _, part := range strings.Split(key, ".") {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	return m
}

func deletePath(p Payload, key string) {
	if p == nil {
		return
	}
	parts := strings.Split(key, ".")
	m := map[string]any(p)
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			return
		}
		m = next
	}
	delete(m, parts[len(parts)-1])
}

// Scroll pages through matching points in id order. Offset is inclusive.
func (e *Local) Scroll(ctx context.Context, name string, req ScrollRequest) (ScrollResult, error) {
	if err := checkWindow(req.Limit, 0); err != nil {
		return ScrollResult{}, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var res ScrollResult
	err := e.read(ctx, name, func(c *collection) error {
		var matched []*record
		c.each(req.Filter, func(_ uint32, r *record) bool {
			if req.Offset == nil || r.id.Compare(*req.Offset) >= 0 {
				matched = append(matched, r)
			}
			return true
		})
		slices.SortFunc(matched, func(a, b *record) int { return a.id.Compare(b.id) })

		if len(matched) > limit {
			next := matched[limit].id
			res.NextPageOffset = &next
			matched = matched[:limit]
		}
		res.Points = make([]Record, 0, len(matched))
		for _, r := range matched {
			res.Points = append(res.Points, r.toRecord(req.WithPayload, req.WithVectors))
		}
		return nil
	})
	return res, err
}
