// Package vecbridge runs a vector engine on a dedicated worker goroutine and
// exposes it through a synchronous, concurrency-safe Client.
//
// # Quick Start
//
//	ctx := context.Background()
//	client, err := vecbridge.Start(ctx, "vecbridge.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.CreateCollection(ctx, "docs", engine.CreateCollection{
//	    Vectors: engine.VectorsConfig{"": {Size: 4, Distance: distance.MetricCosine}},
//	})
//	hits, _ := client.SearchPoints(ctx, "docs", engine.SearchRequest{Vector: q, Limit: 10})
//
// # Request Flow
//
// Every Client method builds a protocol.Request and sends it, together with a
// single-use reply slot, over a bounded channel (1024 messages by default).
// The worker owns the engine exclusively and runs each request on its own
// goroutine, so requests execute concurrently and may complete out of order.
//
// A call waits at most for the request timeout (30s by default; 5s for
// HealthCheck). A timed-out call returns a *TimeoutError, but the request
// keeps running on the worker and its result is discarded.
//
// # Errors
//
// Engine errors (engine.ErrNotFound, engine.ErrAlreadyExists, ...) are
// returned unchanged. Bridge failures match one of:
//
//   - ErrTimeout: no reply in time (*TimeoutError carries the duration)
//   - ErrChannelClosed: the client is closing (ErrShuttingDown) or the reply
//     was dropped (ErrResponseDropped)
//   - ErrUnexpectedResponse: the reply does not match the request
//   - ErrStartup: Start failed (*StartupError)
//
// # Shutdown
//
// Close rejects new requests immediately, lets the worker serve the requests
// already queued, waits for every in-flight request and then closes the
// engine. It waits at most for the shutdown timeout (30s by default).
// A Client that becomes unreachable without Close stops accepting requests
// and releases the engine in the background.
package vecbridge
