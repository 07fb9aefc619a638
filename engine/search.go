package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecbridge/distance"
	"golang.org/x/sync/errgroup"
)

type hit struct {
	off   uint32
	r     *record
	score float32
}

// ranked is an ordered hit list. higher tells whether larger scores rank first.
type ranked struct {
	hits   []hit
	higher bool
}

func (rk *ranked) sort() {
	slices.SortStableFunc(rk.hits, func(a, b hit) int {
		switch {
		case a.score == b.score:
			return a.r.id.Compare(b.r.id)
		case (a.score > b.score) == rk.higher:
			return -1
		default:
			return 1
		}
	})
}

func (rk ranked) threshold(t *float32) ranked {
	if t == nil {
		return rk
	}
	kept := rk.hits[:0:0]
	for _, h := range rk.hits {
		if (rk.higher && h.score >= *t) || (!rk.higher && h.score <= *t) {
			kept = append(kept, h)
		}
	}
	rk.hits = kept
	return rk
}

func (rk ranked) window(offset, limit int) ranked {
	offset = max(offset, 0)
	if offset >= len(rk.hits) {
		rk.hits = nil
		return rk
	}
	rk.hits = rk.hits[offset:]
	if limit > 0 && len(rk.hits) > limit {
		rk.hits = rk.hits[:limit]
	}
	return rk
}

func (rk ranked) points(withPayload, withVectors bool) []ScoredPoint {
	out := make([]ScoredPoint, 0, len(rk.hits))
	for _, h := range rk.hits {
		out = append(out, h.r.toScored(h.score, withPayload, withVectors))
	}
	return out
}

func (rk ranked) offsets() *roaring.Bitmap {
	bm := roaring.New()
	for _, h := range rk.hits {
		bm.Add(h.off)
	}
	return bm
}

func limitOr(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

// checkWindow rejects negative paging parameters.
func checkWindow(limit, offset int) error {
	if limit < 0 {
		return fmt.Errorf("%w: limit must not be negative, got %d", ErrBadInput, limit)
	}
	if offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", ErrBadInput, offset)
	}
	return nil
}

func (g GroupRequest) validate() error {
	if g.GroupSize < 0 {
		return fmt.Errorf("%w: group_size must not be negative, got %d", ErrBadInput, g.GroupSize)
	}
	return nil
}

// goSafe runs fn on g. A panic in fn fails the group instead of the process.
func goSafe(g *errgroup.Group, fn func() error) {
	g.Go(func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = fmt.Errorf("batch task panicked: %v", v)
			}
		}()
		return fn()
	})
}

// queryVector validates a raw query vector and normalizes it for cosine.
func (c *collection) queryVector(using string, v []float32) ([]float32, VectorParams, error) {
	p, err := c.params(using)
	if err != nil {
		return nil, p, err
	}
	if len(v) != p.Size {
		return nil, p, fmt.Errorf("%w: query vector %q: dimension mismatch: expected %d, got %d", ErrBadInput, using, p.Size, len(v))
	}
	q := slices.Clone(v)
	if p.Distance.Normalizes() {
		distance.NormalizeL2InPlace(q)
	}
	return q, p, nil
}

// inputVector resolves a VectorInput to a query vector.
func (c *collection) inputVector(using string, in VectorInput) ([]float32, error) {
	if in.ID != nil {
		r, _, ok := c.get(*in.ID)
		if !ok {
			return nil, fmt.Errorf("%w: point %s in collection %q", ErrNotFound, *in.ID, c.name)
		}
		v, ok := r.vectors[using]
		if !ok {
			return nil, fmt.Errorf("%w: point %s has no vector %q", ErrBadInput, *in.ID, using)
		}
		return slices.Clone(v), nil
	}
	q, _, err := c.queryVector(using, in.Vector)
	return q, err
}

// nearest scores every candidate carrying vector using against q.
func (c *collection) nearest(using string, q []float32, f *Filter, restrict *roaring.Bitmap, exclude map[PointID]struct{}) (ranked, error) {
	p, err := c.params(using)
	if err != nil {
		return ranked{}, err
	}
	score, err := distance.Provider(p.Distance)
	if err != nil {
		return ranked{}, err
	}

	rk := ranked{higher: p.Distance.HigherIsBetter()}
	c.scan(f, restrict, func(off uint32, r *record) bool {
		if _, skip := exclude[r.id]; skip {
			return true
		}
		if v, ok := r.vectors[using]; ok {
			rk.hits = append(rk.hits, hit{off: off, r: r, score: score(q, v)})
		}
		return true
	})
	rk.sort()
	return rk, nil
}

// recommend ranks candidates against positive and negative examples.
func (c *collection) recommend(using string, pos, neg []VectorInput, strategy RecommendStrategy, f *Filter, restrict *roaring.Bitmap) (ranked, error) {
	if len(pos) == 0 {
		return ranked{}, fmt.Errorf("%w: recommend needs at least one positive example", ErrBadInput)
	}
	p, err := c.params(using)
	if err != nil {
		return ranked{}, err
	}

	exclude := make(map[PointID]struct{})
	resolve := func(ins []VectorInput) ([][]float32, error) {
		out := make([][]float32, 0, len(ins))
		for _, in := range ins {
			v, err := c.inputVector(using, in)
			if err != nil {
				return nil, err
			}
			if in.ID != nil {
				exclude[*in.ID] = struct{}{}
			}
			out = append(out, v)
		}
		return out, nil
	}
	posVecs, err := resolve(pos)
	if err != nil {
		return ranked{}, err
	}
	negVecs, err := resolve(neg)
	if err != nil {
		return ranked{}, err
	}

	switch strategy {
	case "", RecommendAverageVector:
		q := average(posVecs)
		if len(negVecs) > 0 {
			avgNeg := average(negVecs)
			for i := range q {
				q[i] = 2*q[i] - avgNeg[i]
			}
		}
		if p.Distance.Normalizes() {
			distance.NormalizeL2InPlace(q)
		}
		return c.nearest(using, q, f, restrict, exclude)

	case RecommendBestScore:
		score, err := distance.Provider(p.Distance)
		if err != nil {
			return ranked{}, err
		}
		sim := func(a, b []float32) float32 {
			if p.Distance.HigherIsBetter() {
				return score(a, b)
			}
			return -score(a, b)
		}
		best := func(examples [][]float32, v []float32) float32 {
			b := sim(examples[0], v)
			for _, e := range examples[1:] {
				b = max(b, sim(e, v))
			}
			return b
		}

		rk := ranked{higher: true}
		c.scan(f, restrict, func(off uint32, r *record) bool {
			if _, skip := exclude[r.id]; skip {
				return true
			}
			v, ok := r.vectors[using]
			if !ok {
				return true
			}
			s := best(posVecs, v)
			if len(negVecs) > 0 {
				if bn := best(negVecs, v); bn > s {
					s = -bn
				}
			}
			rk.hits = append(rk.hits, hit{off: off, r: r, score: s})
			return true
		})
		rk.sort()
		return rk, nil

	default:
		return ranked{}, fmt.Errorf("%w: unknown recommend strategy %q", ErrBadInput, strategy)
	}
}

func average(vs [][]float32) []float32 {
	out := make([]float32, len(vs[0]))
	for _, v := range vs {
		for i, x := range v {
			out[i] += x
		}
	}
	inv := 1 / float32(len(vs))
	for i := range out {
		out[i] *= inv
	}
	return out
}

// group buckets hits by the values at key, keeping at most limit groups of
// at most size hits each. Groups are ordered by their best hit.
func group(rk ranked, key string, limit, size int, withPayload, withVectors bool) ([]PointGroup, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: group_by key is required", ErrBadInput)
	}
	limit = limitOr(limit)
	if size <= 0 {
		size = 1
	}

	var groups []PointGroup
	pos := make(map[string]int)
	for _, h := range rk.hits {
		vals, _ := lookup(h.r.payload, key)
		for _, v := range vals {
			k, ok := indexKey(v)
			if !ok {
				continue
			}
			if _, isBool := v.(bool); isBool {
				continue
			}
			i, ok := pos[k]
			if !ok {
				if len(groups) >= limit {
					continue
				}
				i = len(groups)
				pos[k] = i
				groups = append(groups, PointGroup{ID: v})
			}
			if len(groups[i].Hits) < size {
				groups[i].Hits = append(groups[i].Hits, h.r.toScored(h.score, withPayload, withVectors))
			}
		}
	}
	if groups == nil {
		groups = []PointGroup{}
	}
	return groups, nil
}

func (req RecommendRequest) inputs() (pos, neg []VectorInput) {
	for i := range req.Positive {
		pos = append(pos, VectorInput{ID: &req.Positive[i]})
	}
	for _, v := range req.PositiveVectors {
		pos = append(pos, VectorInput{Vector: v})
	}
	for i := range req.Negative {
		neg = append(neg, VectorInput{ID: &req.Negative[i]})
	}
	for _, v := range req.NegativeVectors {
		neg = append(neg, VectorInput{Vector: v})
	}
	return pos, neg
}

// Search returns the nearest points to the query vector.
func (e *Local) Search(ctx context.Context, name string, req SearchRequest) ([]ScoredPoint, error) {
	if err := checkWindow(req.Limit, req.Offset); err != nil {
		return nil, err
	}

	var out []ScoredPoint
	err := e.search(ctx, name, func(c *collection) error {
		q, _, err := c.queryVector(req.Using, req.Vector)
		if err != nil {
			return err
		}
		rk, err := c.nearest(req.Using, q, req.Filter, nil, nil)
		if err != nil {
			return err
		}
		out = rk.threshold(req.ScoreThreshold).window(req.Offset, limitOr(req.Limit)).points(req.WithPayload, req.WithVectors)
		return nil
	})
	return out, err
}

// SearchBatch runs independent searches concurrently. Results keep request order.
func (e *Local) SearchBatch(ctx context.Context, name string, reqs []SearchRequest) ([][]ScoredPoint, error) {
	out := make([][]ScoredPoint, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		goSafe(g, func() error {
			res, err := e.Search(gctx, name, req)
			if err != nil {
				return fmt.Errorf("batch search %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchGroups searches and groups the hits by a payload key.
func (e *Local) SearchGroups(ctx context.Context, name string, req SearchGroupsRequest) (GroupsResult, error) {
	if err := checkWindow(req.Limit, req.Offset); err != nil {
		return GroupsResult{}, err
	}
	if err := req.GroupRequest.validate(); err != nil {
		return GroupsResult{}, err
	}

	var res GroupsResult
	err := e.search(ctx, name, func(c *collection) error {
		q, _, err := c.queryVector(req.Using, req.Vector)
		if err != nil {
			return err
		}
		rk, err := c.nearest(req.Using, q, req.Filter, nil, nil)
		if err != nil {
			return err
		}
		res.Groups, err = group(rk.threshold(req.ScoreThreshold), req.GroupBy, req.Limit, req.GroupSize, req.WithPayload, req.WithVectors)
		return err
	})
	return res, err
}

// Recommend returns points similar to the positive examples.
func (e *Local) Recommend(ctx context.Context, name string, req RecommendRequest) ([]ScoredPoint, error) {
	if err := checkWindow(req.Limit, req.Offset); err != nil {
		return nil, err
	}

	var out []ScoredPoint
	err := e.search(ctx, name, func(c *collection) error {
		pos, neg := req.inputs()
		rk, err := c.recommend(req.Using, pos, neg, req.Strategy, req.Filter, nil)
		if err != nil {
			return err
		}
		out = rk.threshold(req.ScoreThreshold).window(req.Offset, limitOr(req.Limit)).points(req.WithPayload, req.WithVectors)
		return nil
	})
	return out, err
}

// RecommendBatch runs independent recommendations concurrently.
func (e *Local) RecommendBatch(ctx context.Context, name string, reqs []RecommendRequest) ([][]ScoredPoint, error) {
	out := make([][]ScoredPoint, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		goSafe(g, func() error {
			res, err := e.Recommend(gctx, name, req)
			if err != nil {
				return fmt.Errorf("batch recommend %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecommendGroups recommends and groups the hits by a payload key.
func (e *Local) RecommendGroups(ctx context.Context, name string, req RecommendGroupsRequest) (GroupsResult, error) {
	if err := checkWindow(req.Limit, req.Offset); err != nil {
		return GroupsResult{}, err
	}
	if err := req.GroupRequest.validate(); err != nil {
		return GroupsResult{}, err
	}

	var res GroupsResult
	err := e.search(ctx, name, func(c *collection) error {
		pos, neg := req.inputs()
		rk, err := c.recommend(req.Using, pos, neg, req.Strategy, req.Filter, nil)
		if err != nil {
			return err
		}
		res.Groups, err = group(rk.threshold(req.ScoreThreshold), req.GroupBy, req.Limit, req.GroupSize, req.WithPayload, req.WithVectors)
		return err
	})
	return res, err
}
