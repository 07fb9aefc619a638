// Package testutil provides testing utilities for vecbridge.
//
// This package is intended for use in tests only. It provides deterministic
// vector generation and exact nearest-neighbour ground truth.
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UnitVectors(100, 8)
//	want := testutil.ExactTopK(vecs[0], vecs, 5, distance.MetricCosine)
package testutil
