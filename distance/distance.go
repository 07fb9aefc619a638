package distance

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// L2 calculates the Euclidean distance between two vectors.
func L2(a, b []float32) float32 {
	return float32(math.Sqrt(float64(SquaredL2(a, b))))
}

// Manhattan calculates the L1 distance between two vectors.
func Manhattan(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += float32(math.Abs(float64(a[i] - b[i])))
	}
	return sum
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := Dot(v, v)
	if norm2 == 0 {
		return false
	}
	inv := float32(1 / math.Sqrt(float64(norm2)))
	for i := range v {
		v[i] *= inv
	}
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// Metric represents the distance metric configured for a named vector.
//
// The string values are the wire names accepted in collection configs.
type Metric string

const (
	MetricCosine    Metric = "Cosine"
	MetricEuclid    Metric = "Euclid"
	MetricDot       Metric = "Dot"
	MetricManhattan Metric = "Manhattan"
)

// ParseMetric parses a metric name case-insensitively.
func ParseMetric(s string) (Metric, error) {
	for _, m := range []Metric{MetricCosine, MetricEuclid, MetricDot, MetricManhattan} {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported metric: %q", s)
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricCosine, MetricEuclid, MetricDot, MetricManhattan:
		return true
	default:
		return false
	}
}

// HigherIsBetter reports whether larger scores mean closer vectors.
func (m Metric) HigherIsBetter() bool {
	return m == MetricCosine || m == MetricDot
}

// Normalizes reports whether stored vectors are normalized on write.
func (m Metric) Normalizes() bool {
	return m == MetricCosine
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the scoring function for the given metric.
//
// Cosine assumes both inputs are already normalized.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricCosine, MetricDot:
		return Dot, nil
	case MetricEuclid:
		return L2, nil
	case MetricManhattan:
		return Manhattan, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %q", string(m))
	}
}

// Better reports whether score a ranks ahead of score b under m.
func (m Metric) Better(a, b float32) bool {
	if m.HigherIsBetter() {
		return a > b
	}
	return a < b
}
