package engine

import (
	"context"
	"testing"

	"github.com/hupe1980/vecbridge/distance"
	"github.com/stretchr/testify/require"
)

func openTestEngine(t *testing.T, opts ...Option) *Local {
	t.Helper()
	e, err := Open(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// seedDocs creates a 2-d Euclid collection "docs" with four points:
//
//	1: (0,0) red   price 10
//	2: (1,0) blue  price 20
//	3: (5,5) red   price 30
//	4: (0,2) green price 40
func seedDocs(t *testing.T, e *Local) {
	t.Helper()
	ctx := context.Background()

	ok, err := e.CreateCollection(ctx, "docs", CreateCollection{Vectors: SingleVector(2, distance.MetricEuclid)})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.Upsert(ctx, "docs", UpsertPoints{Points: []PointStruct{
		{ID: NumID(1), Vectors: Vectors{"": {0, 0}}, Payload: Payload{"color": "red", "price": 10}},
		{ID: NumID(2), Vectors: Vectors{"": {1, 0}}, Payload: Payload{"color": "blue", "price": 20}},
		{ID: NumID(3), Vectors: Vectors{"": {5, 5}}, Payload: Payload{"color": "red", "price": 30}},
		{ID: NumID(4), Vectors: Vectors{"": {0, 2}}, Payload: Payload{"color": "green", "price": 40, "tags": []any{"a", "b"}}},
	}})
	require.NoError(t, err)
}

func scoredIDs(points []ScoredPoint) []uint64 {
	out := make([]uint64, 0, len(points))
	for _, p := range points {
		out = append(out, p.ID.Num())
	}
	return out
}

func recordIDs(records []Record) []uint64 {
	out := make([]uint64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID.Num())
	}
	return out
}

func ptr[T any](v T) *T { return &v }
