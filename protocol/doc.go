// Package protocol defines the messages exchanged between a vecbridge client
// and its worker.
//
// Every Request has exactly one Response type with the same Op. Requests are
// grouped into four categories (collection, alias, points, query); Execute
// routes a request by category and then by operation to the matching
// engine.Engine method and wraps the result:
//
//	resp, err := protocol.Execute(ctx, eng, protocol.ListCollections{})
//	names := resp.(protocol.ListCollectionsResponse).Collections
//
// Engine errors are returned unchanged.
package protocol
