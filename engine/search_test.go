package engine

import (
	"context"
	"testing"

	"github.com/hupe1980/vecbridge/distance"
	"github.com/hupe1980/vecbridge/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	tests := []struct {
		name string
		req  SearchRequest
		want []uint64
	}{
		{"TopTwo", SearchRequest{Vector: []float32{0, 0}, Limit: 2}, []uint64{1, 2}},
		{"DefaultLimit", SearchRequest{Vector: []float32{0, 0}}, []uint64{1, 2, 4, 3}},
		{"Offset", SearchRequest{Vector: []float32{0, 0}, Limit: 2, Offset: 1}, []uint64{2, 4}},
		{"Threshold", SearchRequest{Vector: []float32{0, 0}, Limit: 10, ScoreThreshold: ptr(float32(1.5))}, []uint64{1, 2}},
		{"Filter", SearchRequest{Vector: []float32{0, 0}, Limit: 10, Filter: &Filter{Must: []Condition{MatchValue("color", "red")}}}, []uint64{1, 3}},
		{"Should", SearchRequest{Vector: []float32{5, 5}, Limit: 10, Filter: &Filter{Should: []Condition{MatchValue("color", "blue"), MatchValue("color", "green")}}}, []uint64{4, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := e.Search(ctx, "docs", tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scoredIDs(hits))
		})
	}

	_, err := e.Search(ctx, "docs", SearchRequest{Vector: []float32{0, 0, 0}})
	require.ErrorIs(t, err, ErrBadInput)
	_, err = e.Search(ctx, "docs", SearchRequest{Vector: []float32{0, 0}, Using: "image"})
	require.ErrorIs(t, err, ErrBadInput)
}

func TestSearch_MatchesExactTopK(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)

	const (
		dim = 16
		n   = 200
		k   = 10
	)
	for _, metric := range []distance.Metric{distance.MetricCosine, distance.MetricDot, distance.MetricEuclid} {
		t.Run(string(metric), func(t *testing.T) {
			name := "rand-" + string(metric)
			_, err := e.CreateCollection(ctx, name, CreateCollection{Vectors: SingleVector(dim, metric)})
			require.NoError(t, err)

			rng := testutil.NewRNG(42)
			data := rng.UnitVectors(n, dim)
			points := make([]PointStruct, n)
			for i, v := range data {
				points[i] = PointStruct{ID: NumID(uint64(i)), Vectors: Vectors{"": v}}
			}
			_, err = e.Upsert(ctx, name, UpsertPoints{Points: points})
			require.NoError(t, err)

			query := rng.UnitVector(dim)
			hits, err := e.Search(ctx, name, SearchRequest{Vector: query, Limit: k})
			require.NoError(t, err)
			require.Len(t, hits, k)

			exact := testutil.ExactTopK(query, data, k, metric)
			for i := range exact {
				assert.Equal(t, uint64(exact[i].Index), hits[i].ID.Num())
				assert.InDelta(t, exact[i].Score, hits[i].Score, 1e-4)
			}
		})
	}
}

func TestSearch_Cosine(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)

	_, err := e.CreateCollection(ctx, "cos", CreateCollection{Vectors: SingleVector(2, distance.MetricCosine)})
	require.NoError(t, err)
	_, err = e.Upsert(ctx, "cos", UpsertPoints{Points: []PointStruct{
		{ID: NumID(1), Vectors: Vectors{"": {3, 4}}},
		{ID: NumID(2), Vectors: Vectors{"": {-3, -4}}},
	}})
	require.NoError(t, err)

	hits, err := e.Search(ctx, "cos", SearchRequest{Vector: []float32{6, 8}, Limit: 2, WithVectors: true})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, uint64(1), hits[0].ID.Num())
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, -1.0, hits[1].Score, 1e-6)
	// Stored vectors are normalized.
	assert.InDelta(t, 0.6, hits[0].Vectors[""][0], 1e-6)
}

func TestSearch_NamedVectors(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)

	_, err := e.CreateCollection(ctx, "multi", CreateCollection{Vectors: VectorsConfig{
		"text":  {Size: 2, Distance: distance.MetricDot},
		"image": {Size: 3, Distance: distance.MetricEuclid},
	}})
	require.NoError(t, err)
	_, err = e.Upsert(ctx, "multi", UpsertPoints{Points: []PointStruct{
		{ID: NumID(1), Vectors: Vectors{"text": {1, 0}, "image": {0, 0, 0}}},
		{ID: NumID(2), Vectors: Vectors{"text": {0, 1}}},
	}})
	require.NoError(t, err)

	hits, err := e.Search(ctx, "multi", SearchRequest{Vector: []float32{0, 2}, Using: "text", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, scoredIDs(hits))

	hits, err = e.Search(ctx, "multi", SearchRequest{Vector: []float32{1, 1, 1}, Using: "image", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, scoredIDs(hits))
}

func TestSearchBatch(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	res, err := e.SearchBatch(ctx, "docs", []SearchRequest{
		{Vector: []float32{0, 0}, Limit: 1},
		{Vector: []float32{5, 5}, Limit: 1},
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []uint64{1}, scoredIDs(res[0]))
	assert.Equal(t, []uint64{3}, scoredIDs(res[1]))

	_, err = e.SearchBatch(ctx, "docs", []SearchRequest{
		{Vector: []float32{0, 0}},
		{Vector: []float32{0}},
	})
	require.ErrorIs(t, err, ErrBadInput)
}

func TestSearchGroups(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	res, err := e.SearchGroups(ctx, "docs", SearchGroupsRequest{
		SearchRequest: SearchRequest{Vector: []float32{0, 0}, Limit: 2},
		GroupRequest:  GroupRequest{GroupBy: "color", GroupSize: 2},
	})
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "red", res.Groups[0].ID)
	assert.Equal(t, []uint64{1, 3}, scoredIDs(res.Groups[0].Hits))
	assert.Equal(t, "blue", res.Groups[1].ID)
	assert.Equal(t, []uint64{2}, scoredIDs(res.Groups[1].Hits))

	_, err = e.SearchGroups(ctx, "docs", SearchGroupsRequest{SearchRequest: SearchRequest{Vector: []float32{0, 0}}})
	require.ErrorIs(t, err, ErrBadInput)
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	t.Run("AverageVector", func(t *testing.T) {
		hits, err := e.Recommend(ctx, "docs", RecommendRequest{Positive: []PointID{NumID(2)}, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 4}, scoredIDs(hits))
	})

	t.Run("BestScore", func(t *testing.T) {
		hits, err := e.Recommend(ctx, "docs", RecommendRequest{
			Positive: []PointID{NumID(2)},
			Negative: []PointID{NumID(3)},
			Strategy: RecommendBestScore,
			Limit:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 4}, scoredIDs(hits))
	})

	t.Run("RawVectors", func(t *testing.T) {
		hits, err := e.Recommend(ctx, "docs", RecommendRequest{PositiveVectors: [][]float32{{5, 4}}, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []uint64{3}, scoredIDs(hits))
	})

	t.Run("NoPositive", func(t *testing.T) {
		_, err := e.Recommend(ctx, "docs", RecommendRequest{Negative: []PointID{NumID(1)}})
		require.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("UnknownExample", func(t *testing.T) {
		_, err := e.Recommend(ctx, "docs", RecommendRequest{Positive: []PointID{NumID(42)}})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		res, err := e.RecommendBatch(ctx, "docs", []RecommendRequest{
			{Positive: []PointID{NumID(2)}, Limit: 1},
			{Positive: []PointID{NumID(3)}, Limit: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, scoredIDs(res[0]))
		assert.Equal(t, []uint64{4}, scoredIDs(res[1]))
	})

	t.Run("Groups", func(t *testing.T) {
		res, err := e.RecommendGroups(ctx, "docs", RecommendGroupsRequest{
			RecommendRequest: RecommendRequest{Positive: []PointID{NumID(2)}, Limit: 5},
			GroupRequest:     GroupRequest{GroupBy: "color", GroupSize: 1},
		})
		require.NoError(t, err)
		require.Len(t, res.Groups, 2)
		assert.Equal(t, "red", res.Groups[0].ID)
		assert.Equal(t, "green", res.Groups[1].ID)
	})
}

func TestNegativePaging(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)
	seedDocs(t, e)

	search := SearchRequest{Vector: []float32{0, 0}}
	recommend := RecommendRequest{Positive: []PointID{NumID(1)}}
	withSearch := func(mod func(*SearchRequest)) SearchRequest {
		r := search
		mod(&r)
		return r
	}
	withRecommend := func(mod func(*RecommendRequest)) RecommendRequest {
		r := recommend
		mod(&r)
		return r
	}

	tests := []struct {
		name string
		run  func() error
	}{
		{"SearchOffset", func() error {
			_, err := e.Search(ctx, "docs", withSearch(func(r *SearchRequest) { r.Offset = -1 }))
			return err
		}},
		{"SearchLimit", func() error {
			_, err := e.Search(ctx, "docs", withSearch(func(r *SearchRequest) { r.Limit = -1 }))
			return err
		}},
		{"SearchBatchOffset", func() error {
			_, err := e.SearchBatch(ctx, "docs", []SearchRequest{search, withSearch(func(r *SearchRequest) { r.Offset = -1 })})
			return err
		}},
		{"SearchGroupsSize", func() error {
			_, err := e.SearchGroups(ctx, "docs", SearchGroupsRequest{SearchRequest: search, GroupRequest: GroupRequest{GroupBy: "color", GroupSize: -1}})
			return err
		}},
		{"SearchGroupsLimit", func() error {
			_, err := e.SearchGroups(ctx, "docs", SearchGroupsRequest{SearchRequest: withSearch(func(r *SearchRequest) { r.Limit = -2 }), GroupRequest: GroupRequest{GroupBy: "color"}})
			return err
		}},
		{"RecommendOffset", func() error {
			_, err := e.Recommend(ctx, "docs", withRecommend(func(r *RecommendRequest) { r.Offset = -1 }))
			return err
		}},
		{"RecommendBatchOffset", func() error {
			_, err := e.RecommendBatch(ctx, "docs", []RecommendRequest{withRecommend(func(r *RecommendRequest) { r.Offset = -3 })})
			return err
		}},
		{"RecommendGroupsSize", func() error {
			_, err := e.RecommendGroups(ctx, "docs", RecommendGroupsRequest{RecommendRequest: recommend, GroupRequest: GroupRequest{GroupBy: "color", GroupSize: -1}})
			return err
		}},
		{"ScrollLimit", func() error {
			_, err := e.Scroll(ctx, "docs", ScrollRequest{Limit: -1})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.run(), ErrBadInput)
		})
	}
}

func TestWindowClampsOffset(t *testing.T) {
	rk := ranked{hits: []hit{{score: 1}, {score: 2}}}
	assert.Len(t, rk.window(-1, 0).hits, 2)
	assert.Empty(t, rk.window(5, 0).hits)
	assert.Len(t, rk.window(1, 1).hits, 1)
}
