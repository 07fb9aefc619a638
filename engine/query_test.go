package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	id3 := NumID(3)
	red := &Filter{Must: []Condition{MatchValue("color", "red")}}

	tests := []struct {
		name string
		req  QueryRequest
		want []uint64
	}{
		{
			name: "Nearest",
			req:  QueryRequest{Query: &Query{Nearest: &VectorInput{Vector: []float32{0, 0}}}, Limit: 2},
			want: []uint64{1, 2},
		},
		{
			name: "NearestByID",
			req:  QueryRequest{Query: &Query{Nearest: &VectorInput{ID: &id3}}, Limit: 1},
			want: []uint64{3},
		},
		{
			name: "NoQuery",
			req:  QueryRequest{},
			want: []uint64{1, 2, 3, 4},
		},
		{
			name: "OrderByAsc",
			req:  QueryRequest{Query: &Query{OrderBy: &OrderBy{Key: "price"}}, Limit: 2},
			want: []uint64{1, 2},
		},
		{
			name: "OrderByDesc",
			req:  QueryRequest{Query: &Query{OrderBy: &OrderBy{Key: "price", Direction: Desc}}, Limit: 2},
			want: []uint64{4, 3},
		},
		{
			name: "PrefetchRestricts",
			req: QueryRequest{
				Prefetch: []Prefetch{{Filter: red}},
				Query:    &Query{Nearest: &VectorInput{Vector: []float32{5, 5}}},
			},
			want: []uint64{3, 1},
		},
		{
			name: "OuterFilterReachesPrefetch",
			req: QueryRequest{
				Prefetch: []Prefetch{{Query: &Query{Nearest: &VectorInput{Vector: []float32{0, 0}}}, Limit: 10}},
				Filter:   red,
			},
			want: []uint64{1, 3},
		},
		{
			name: "Fusion",
			req: QueryRequest{
				Prefetch: []Prefetch{
					{Query: &Query{Nearest: &VectorInput{Vector: []float32{0, 0}}}, Limit: 3},
					{Query: &Query{OrderBy: &OrderBy{Key: "price", Direction: Desc}}, Limit: 3},
				},
				Query: &Query{Fusion: FusionRRF},
				Limit: 3,
			},
			want: []uint64{4, 2, 1},
		},
		{
			name: "Recommend",
			req: QueryRequest{
				Query: &Query{Recommend: &RecommendInput{Positive: []VectorInput{{ID: ptr(NumID(2))}}}},
				Limit: 2,
			},
			want: []uint64{1, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Query(ctx, "docs", tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scoredIDs(res.Points))
		})
	}
}

func TestQuery_FusionScores(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	res, err := e.Query(ctx, "docs", QueryRequest{
		Prefetch: []Prefetch{
			{Query: &Query{Nearest: &VectorInput{Vector: []float32{0, 0}}}, Limit: 3},
			{Query: &Query{OrderBy: &OrderBy{Key: "price", Direction: Desc}}, Limit: 3},
		},
		Query: &Query{Fusion: FusionRRF},
	})
	require.NoError(t, err)
	require.Len(t, res.Points, 4)
	assert.InDelta(t, 0.75, res.Points[0].Score, 1e-6)
	assert.InDelta(t, 1.0/3+1.0/4, res.Points[1].Score, 1e-6)
	assert.InDelta(t, 0.5, res.Points[2].Score, 1e-6)
	assert.InDelta(t, 1.0/3, res.Points[3].Score, 1e-6)
}

func TestQuery_Sample(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	res, err := e.Query(ctx, "docs", QueryRequest{Query: &Query{Sample: SampleRandom}, Filter: &Filter{Must: []Condition{MatchValue("color", "red")}}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 3}, scoredIDs(res.Points))
}

func TestQuery_Errors(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	tests := []struct {
		name string
		req  QueryRequest
		err  error
	}{
		{"EmptyQuery", QueryRequest{Query: &Query{}}, ErrBadInput},
		{"FusionWithoutPrefetch", QueryRequest{Query: &Query{Fusion: FusionRRF}}, ErrBadInput},
		{"UnknownFusion", QueryRequest{Query: &Query{Fusion: "dbsf"}}, ErrBadInput},
		{"UnknownDirection", QueryRequest{Query: &Query{OrderBy: &OrderBy{Key: "price", Direction: "up"}}}, ErrBadInput},
		{"MissingPoint", QueryRequest{Query: &Query{Nearest: &VectorInput{ID: ptr(NumID(77))}}}, ErrNotFound},
		{"BadDimension", QueryRequest{Query: &Query{Nearest: &VectorInput{Vector: []float32{1}}}}, ErrBadInput},
		{"BadPrefetch", QueryRequest{Prefetch: []Prefetch{{Query: &Query{}}}}, ErrBadInput},
		{"NegativeOffset", QueryRequest{Offset: -1}, ErrBadInput},
		{"NegativeLimit", QueryRequest{Limit: -5}, ErrBadInput},
		{"NegativePrefetchLimit", QueryRequest{Prefetch: []Prefetch{{Prefetch: []Prefetch{{Limit: -1}}}}}, ErrBadInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Query(ctx, "docs", tt.req)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
