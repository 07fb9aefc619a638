package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/vecbridge/distance"
)

// SearchResult represents an exact search result.
type SearchResult struct {
	Index int
	Score float32
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniform fills dst with random values in range [0, 1).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// UniformVectors generates num vectors with values in [0, 1).
func (r *RNG) UniformVectors(num, dimensions int) [][]float32 {
	out := make([][]float32, num)
	for i := range out {
		out[i] = make([]float32, dimensions)
		r.FillUniform(out[i])
	}
	return out
}

// UnitVector returns a random L2-normalized vector.
func (r *RNG) UnitVector(dimensions int) []float32 {
	r.mu.Lock()
	v := make([]float32, dimensions)
	for i := range v {
		v[i] = float32(r.rand.NormFloat64())
	}
	r.mu.Unlock()

	if !distance.NormalizeL2InPlace(v) {
		v[0] = 1
	}
	return v
}

// UnitVectors generates num L2-normalized vectors.
func (r *RNG) UnitVectors(num, dimensions int) [][]float32 {
	out := make([][]float32, num)
	for i := range out {
		out[i] = r.UnitVector(dimensions)
	}
	return out
}

// ClusteredVectors generates num vectors around clusters random centroids.
// spread is the standard deviation of the noise added to each centroid.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) [][]float32 {
	centroids := r.UniformVectors(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]float32, num)
	for i := range out {
		c := centroids[i%clusters]
		v := make([]float32, dim)
		for j := range v {
			v[j] = c[j] + float32(r.rand.NormFloat64())*spread
		}
		out[i] = v
	}
	return out
}

// ExactTopK returns the k best matches for query among dataset under metric.
// Cosine inputs are normalized on the fly.
func ExactTopK(query []float32, dataset [][]float32, k int, metric distance.Metric) []SearchResult {
	score, err := distance.Provider(metric)
	if err != nil {
		return nil
	}

	q := query
	if metric.Normalizes() {
		if n, ok := distance.NormalizeL2Copy(query); ok {
			q = n
		}
	}

	results := make([]SearchResult, 0, len(dataset))
	for i, v := range dataset {
		if metric.Normalizes() {
			if n, ok := distance.NormalizeL2Copy(v); ok {
				v = n
			}
		}
		results = append(results, SearchResult{Index: i, Score: score(q, v)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return metric.Better(results[i].Score, results[j].Score)
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}
