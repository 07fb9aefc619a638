// Package engine defines the vector engine contract fronted by vecbridge and
// ships Local, an in-process implementation of it.
//
// # Contract
//
// Engine exposes one context-aware method per request the bridge can route:
// collection admin, alias admin, point mutation and query. Implementations
// must be safe for concurrent use; the bridge calls them from many goroutines
// at once and imposes no serialization of its own.
//
// Domain failures are reported with the sentinels in errors.go and matched
// with errors.Is:
//
//	if errors.Is(err, engine.ErrNotFound) { ... }
//
// # Local
//
// Local keeps collections in memory and scores exhaustively:
//
//   - Named dense vectors per collection (Cosine, Euclid, Dot, Manhattan)
//   - Numeric or UUID point ids
//   - JSON payloads with Must/Should/MustNot filters
//   - Roaring bitmap keyword index used to pre-select filter candidates
//   - Search, grouping, recommendation and a universal query with prefetch,
//     reciprocal rank fusion, ordering and sampling
//
// When a blob store is configured, collections are loaded on Open and flushed
// as compressed snapshots periodically and on Close.
package engine
