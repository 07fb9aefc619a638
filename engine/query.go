package engine

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2"
)

// rrfK is the rank constant of reciprocal rank fusion.
const rrfK = 2

func mergeFilters(a, b *Filter) *Filter {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return &Filter{Must: []Condition{Nested(a), Nested(b)}}
	}
}

type stage struct {
	prefetch  []Prefetch
	query     *Query
	using     string
	filter    *Filter
	threshold *float32
	limit     int
	offset    int
}

func checkPrefetch(ps []Prefetch) error {
	for i, p := range ps {
		if p.Limit < 0 {
			return fmt.Errorf("%w: prefetch %d: limit must not be negative, got %d", ErrBadInput, i, p.Limit)
		}
		if err := checkPrefetch(p.Prefetch); err != nil {
			return err
		}
	}
	return nil
}

// evalStage evaluates the prefetch tree bottom-up. The outer filter applies to
// every nested prefetch as well.
func (c *collection) evalStage(s stage) (ranked, error) {
	sources := make([]ranked, 0, len(s.prefetch))
	for _, p := range s.prefetch {
		rk, err := c.evalStage(stage{
			prefetch:  p.Prefetch,
			query:     p.Query,
			using:     p.Using,
			filter:    mergeFilters(s.filter, p.Filter),
			threshold: p.ScoreThreshold,
			limit:     limitOr(p.Limit),
		})
		if err != nil {
			return ranked{}, err
		}
		sources = append(sources, rk)
	}

	var restrict *roaring.Bitmap
	if len(sources) > 0 {
		restrict = roaring.New()
		for _, src := range sources {
			restrict.Or(src.offsets())
		}
	}

	rk, err := c.scoreStage(s, sources, restrict)
	if err != nil {
		return ranked{}, err
	}
	return rk.threshold(s.threshold).window(s.offset, s.limit), nil
}

func (c *collection) scoreStage(s stage, sources []ranked, restrict *roaring.Bitmap) (ranked, error) {
	q := s.query
	switch {
	case q == nil && len(sources) > 0:
		return concatSources(sources), nil

	case q == nil:
		rk := ranked{higher: true}
		c.each(s.filter, func(off uint32, r *record) bool {
			rk.hits = append(rk.hits, hit{off: off, r: r})
			return true
		})
		rk.sort()
		return rk, nil

	case q.Nearest != nil:
		v, err := c.inputVector(s.using, *q.Nearest)
		if err != nil {
			return ranked{}, err
		}
		return c.nearest(s.using, v, s.filter, restrict, nil)

	case q.Recommend != nil:
		return c.recommend(s.using, q.Recommend.Positive, q.Recommend.Negative, q.Recommend.Strategy, s.filter, restrict)

	case q.OrderBy != nil:
		return c.orderBy(*q.OrderBy, s.filter, restrict)

	case q.Fusion != "":
		if q.Fusion != FusionRRF {
			return ranked{}, fmt.Errorf("%w: unknown fusion %q", ErrBadInput, q.Fusion)
		}
		if len(sources) == 0 {
			return ranked{}, fmt.Errorf("%w: fusion needs at least one prefetch", ErrBadInput)
		}
		return fuseRRF(sources), nil

	case q.Sample != "":
		if q.Sample != SampleRandom {
			return ranked{}, fmt.Errorf("%w: unknown sample %q", ErrBadInput, q.Sample)
		}
		rk := ranked{higher: true}
		c.scan(s.filter, restrict, func(off uint32, r *record) bool {
			rk.hits = append(rk.hits, hit{off: off, r: r})
			return true
		})
		rand.Shuffle(len(rk.hits), func(i, j int) { rk.hits[i], rk.hits[j] = rk.hits[j], rk.hits[i] })
		return rk, nil

	default:
		return ranked{}, fmt.Errorf("%w: empty query", ErrBadInput)
	}
}

func (c *collection) orderBy(ob OrderBy, f *Filter, restrict *roaring.Bitmap) (ranked, error) {
	if ob.Key == "" {
		return ranked{}, fmt.Errorf("%w: order_by key is required", ErrBadInput)
	}
	var higher bool
	switch ob.Direction {
	case "", Asc:
	case Desc:
		higher = true
	default:
		return ranked{}, fmt.Errorf("%w: unknown direction %q", ErrBadInput, ob.Direction)
	}

	rk := ranked{higher: higher}
	c.scan(f, restrict, func(off uint32, r *record) bool {
		vals, _ := lookup(r.payload, ob.Key)
		for _, v := range vals {
			if n, ok := asFloat64(v); ok {
				rk.hits = append(rk.hits, hit{off: off, r: r, score: float32(n)})
				break
			}
		}
		return true
	})
	rk.sort()
	return rk, nil
}

func concatSources(sources []ranked) ranked {
	out := ranked{higher: sources[0].higher}
	seen := make(map[uint32]struct{})
	for _, src := range sources {
		for _, h := range src.hits {
			if _, dup := seen[h.off]; dup {
				continue
			}
			seen[h.off] = struct{}{}
			out.hits = append(out.hits, h)
		}
	}
	return out
}

func fuseRRF(sources []ranked) ranked {
	scores := make(map[uint32]*hit)
	var order []uint32
	for _, src := range sources {
		for rank, h := range src.hits {
			acc, ok := scores[h.off]
			if !ok {
				acc = &hit{off: h.off, r: h.r}
				scores[h.off] = acc
				order = append(order, h.off)
			}
			acc.score += 1 / float32(rrfK+rank)
		}
	}

	out := ranked{higher: true, hits: make([]hit, 0, len(order))}
	for _, off := range order {
		out.hits = append(out.hits, *scores[off])
	}
	out.sort()
	return out
}

// Query runs a universal query.
func (e *Local) Query(ctx context.Context, name string, req QueryRequest) (QueryResult, error) {
	if err := checkWindow(req.Limit, req.Offset); err != nil {
		return QueryResult{}, err
	}
	if err := checkPrefetch(req.Prefetch); err != nil {
		return QueryResult{}, err
	}

	var res QueryResult
	err := e.search(ctx, name, func(c *collection) error {
		rk, err := c.evalStage(stage{
			prefetch:  req.Prefetch,
			query:     req.Query,
			using:     req.Using,
			filter:    req.Filter,
			threshold: req.ScoreThreshold,
			limit:     limitOr(req.Limit),
			offset:    req.Offset,
		})
		if err != nil {
			return err
		}
		res.Points = rk.points(req.WithPayload, req.WithVectors)
		return nil
	})
	return res, err
}
