// Package distance provides the vector scoring functions used by the engine.
//
// # Supported Metrics
//
//   - MetricCosine: dot product of L2-normalized vectors (higher is closer)
//   - MetricDot: raw inner product (higher is closer)
//   - MetricEuclid: Euclidean distance (lower is closer)
//   - MetricManhattan: L1 distance (lower is closer)
//
// # Usage
//
//	score, _ := distance.Provider(distance.MetricEuclid)
//	d := score(a, b)
package distance
