// Package resource bounds the engine's shared resources.
//
//   - Search: a weighted semaphore caps concurrent scoring passes so a burst of
//     queries cannot occupy every CPU.
//   - Background: a semaphore caps concurrent snapshot flushes.
//   - IO: a token bucket throttles snapshot reads and writes.
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
