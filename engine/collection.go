package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecbridge/distance"
)

type record struct {
	id      PointID
	version uint64
	vectors Vectors
	payload Payload
}

// collection holds the points of one collection. Points live in an
// offset-addressed slice; live tracks which offsets are in use.
type collection struct {
	mu sync.RWMutex

	name   string
	config CreateCollection

	offsets map[PointID]uint32
	records []*record
	live    *roaring.Bitmap
	index   *payloadIndex

	opID  uint64
	dirty bool
}

func newCollection(name string, cfg CreateCollection) *collection {
	return &collection{
		name:    name,
		config:  cfg,
		offsets: make(map[PointID]uint32),
		live:    roaring.New(),
		index:   newPayloadIndex(),
	}
}

func validateConfig(cfg CreateCollection) error {
	if len(cfg.Vectors) == 0 {
		return fmt.Errorf("%w: collection needs at least one vector", ErrBadInput)
	}
	for name, p := range cfg.Vectors {
		if p.Size <= 0 {
			return fmt.Errorf("%w: vector %q: size must be positive", ErrBadInput, name)
		}
		if !p.Distance.Valid() {
			return fmt.Errorf("%w: vector %q: unsupported distance %q", ErrBadInput, name, p.Distance)
		}
	}
	return nil
}

// nextOp must be called with mu held for writing.
func (c *collection) nextOp() UpdateResult {
	c.opID++
	c.dirty = true
	return UpdateResult{OperationID: c.opID, Status: UpdateCompleted}
}

func (c *collection) params(using string) (VectorParams, error) {
	p, ok := c.config.Vectors[using]
	if !ok {
		return VectorParams{}, fmt.Errorf("%w: collection %q has no vector named %q", ErrBadInput, c.name, using)
	}
	return p, nil
}

// prepareVectors validates vs against the config and returns a normalized copy.
func (c *collection) prepareVectors(vs Vectors) (Vectors, error) {
	out := make(Vectors, len(vs))
	for name, v := range vs {
		p, err := c.params(name)
		if err != nil {
			return nil, err
		}
		if len(v) != p.Size {
			return nil, fmt.Errorf("%w: vector %q: dimension mismatch: expected %d, got %d", ErrBadInput, name, p.Size, len(v))
		}
		cp := slices.Clone(v)
		if p.Distance.Normalizes() {
			distance.NormalizeL2InPlace(cp)
		}
		out[name] = cp
	}
	return out, nil
}

// normalizePayload deep-copies p into canonical JSON types.
func normalizePayload(p Payload) (Payload, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrBadInput, err)
	}
	var out Payload
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrBadInput, err)
	}
	return out, nil
}

func (c *collection) get(id PointID) (*record, uint32, bool) {
	off, ok := c.offsets[id]
	if !ok {
		return nil, 0, false
	}
	return c.records[off], off, true
}

// put inserts or replaces a record. mu must be held for writing.
func (c *collection) put(r *record) {
	if off, ok := c.offsets[r.id]; ok {
		c.index.remove(off, c.records[off].payload)
		c.records[off] = r
		c.index.add(off, r.payload)
		return
	}
	off := uint32(len(c.records))
	c.records = append(c.records, r)
	c.offsets[r.id] = off
	c.live.Add(off)
	c.index.add(off, r.payload)
}

func (c *collection) setPayload(off uint32, r *record, payload Payload) {
	c.index.remove(off, r.payload)
	r.payload = payload
	c.index.add(off, payload)
}

func (c *collection) remove(id PointID) bool {
	off, ok := c.offsets[id]
	if !ok {
		return false
	}
	c.index.remove(off, c.records[off].payload)
	c.records[off] = nil
	c.live.Remove(off)
	delete(c.offsets, id)
	return true
}

// candidates returns the offsets that may satisfy f, using the payload index
// for Must match and has-id clauses. The result is a superset; callers still
// evaluate f on every candidate.
func (c *collection) candidates(f *Filter) *roaring.Bitmap {
	bm := c.live.Clone()
	if f == nil {
		return bm
	}
	for _, cond := range f.Must {
		switch {
		case cond.Field != nil && cond.Field.Match != nil:
			m := cond.Field.Match
			if m.Except != nil || m.Text != "" {
				continue
			}
			vals := m.Any
			if vals == nil {
				vals = []any{m.Value}
			}
			if sub, ok := c.index.lookup(cond.Field.Key, vals); ok {
				bm.And(sub)
			}
		case cond.HasID != nil:
			ids := roaring.New()
			for _, id := range cond.HasID {
				if off, ok := c.offsets[id]; ok {
					ids.Add(off)
				}
			}
			bm.And(ids)
		}
	}
	return bm
}

// each calls fn for every live record matching f, in offset order.
func (c *collection) each(f *Filter, fn func(off uint32, r *record) bool) {
	c.scan(f, nil, fn)
}

// scan is each restricted to the offsets in restrict, when non-nil.
func (c *collection) scan(f *Filter, restrict *roaring.Bitmap, fn func(off uint32, r *record) bool) {
	bm := c.candidates(f)
	if restrict != nil {
		bm.And(restrict)
	}
	it := bm.Iterator()
	for it.HasNext() {
		off := it.Next()
		r := c.records[off]
		if r == nil || !f.Matches(r.id, r.payload) {
			continue
		}
		if !fn(off, r) {
			return
		}
	}
}

// resolve expands a selector into offsets. Unknown ids fail with ErrNotFound.
func (c *collection) resolve(sel PointsSelector) ([]uint32, error) {
	switch {
	case sel.IDs != nil && sel.Filter != nil:
		return nil, fmt.Errorf("%w: selector must set either ids or filter", ErrBadInput)
	case sel.IDs != nil:
		offs := make([]uint32, 0, len(sel.IDs))
		for _, id := range sel.IDs {
			off, ok := c.offsets[id]
			if !ok {
				return nil, fmt.Errorf("%w: point %s in collection %q", ErrNotFound, id, c.name)
			}
			offs = append(offs, off)
		}
		return offs, nil
	case sel.Filter != nil:
		var offs []uint32
		c.each(sel.Filter, func(off uint32, _ *record) bool {
			offs = append(offs, off)
			return true
		})
		return offs, nil
	default:
		return nil, fmt.Errorf("%w: empty points selector", ErrBadInput)
	}
}

func (c *collection) info() CollectionInfo {
	var vectors uint64
	for _, off := range c.offsets {
		vectors += uint64(len(c.records[off].vectors))
	}
	cfg := c.config
	cfg.Vectors = maps.Clone(c.config.Vectors)
	cfg.Metadata = clonePayload(c.config.Metadata)
	return CollectionInfo{
		Name:          c.name,
		Status:        CollectionGreen,
		Config:        cfg,
		PointsCount:   uint64(len(c.offsets)),
		VectorsCount:  vectors,
		IndexedFields: c.index.fieldNames(),
	}
}

func (r *record) toRecord(withPayload, withVectors bool) Record {
	out := Record{ID: r.id}
	if withPayload {
		out.Payload = clonePayload(r.payload)
	}
	if withVectors {
		out.Vectors = cloneVectors(r.vectors)
	}
	return out
}

func (r *record) toScored(score float32, withPayload, withVectors bool) ScoredPoint {
	out := ScoredPoint{ID: r.id, Version: r.version, Score: score}
	if withPayload {
		out.Payload = clonePayload(r.payload)
	}
	if withVectors {
		out.Vectors = cloneVectors(r.vectors)
	}
	return out
}

func cloneVectors(vs Vectors) Vectors {
	if vs == nil {
		return nil
	}
	out := make(Vectors, len(vs))
	for k, v := range vs {
		out[k] = slices.Clone(v)
	}
	return out
}

func clonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	cp, err := normalizePayload(p)
	if err != nil {
		return maps.Clone(p)
	}
	return cp
}
