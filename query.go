package vecbridge

import (
	"context"

	"github.com/hupe1980/vecbridge/engine"
	"github.com/hupe1980/vecbridge/protocol"
)

// SearchPoints returns the points closest to req.Vector.
func (c *Client) SearchPoints(ctx context.Context, collection string, req engine.SearchRequest) ([]engine.ScoredPoint, error) {
	resp, err := call[protocol.SearchResponse](ctx, c, protocol.Search{Collection: collection, Request: req})
	return resp.Points, err
}

// SearchPointsBatch runs several searches in one request. Results are in
// request order.
func (c *Client) SearchPointsBatch(ctx context.Context, collection string, reqs []engine.SearchRequest) ([][]engine.ScoredPoint, error) {
	resp, err := call[protocol.SearchBatchResponse](ctx, c, protocol.SearchBatch{Collection: collection, Requests: reqs})
	return resp.Results, err
}

// SearchPointsGroups searches and groups hits by a payload key.
func (c *Client) SearchPointsGroups(ctx context.Context, collection string, req engine.SearchGroupsRequest) (engine.GroupsResult, error) {
	resp, err := call[protocol.SearchGroupsResponse](ctx, c, protocol.SearchGroups{Collection: collection, Request: req})
	return resp.Result, err
}

// RecommendPoints returns points similar to the positive and dissimilar to
// the negative examples.
func (c *Client) RecommendPoints(ctx context.Context, collection string, req engine.RecommendRequest) ([]engine.ScoredPoint, error) {
	resp, err := call[protocol.RecommendResponse](ctx, c, protocol.Recommend{Collection: collection, Request: req})
	return resp.Points, err
}

// RecommendPointsBatch runs several recommendations in one request. Results
// are in request order.
func (c *Client) RecommendPointsBatch(ctx context.Context, collection string, reqs []engine.RecommendRequest) ([][]engine.ScoredPoint, error) {
	resp, err := call[protocol.RecommendBatchResponse](ctx, c, protocol.RecommendBatch{Collection: collection, Requests: reqs})
	return resp.Results, err
}

// RecommendPointsGroups recommends and groups hits by a payload key.
func (c *Client) RecommendPointsGroups(ctx context.Context, collection string, req engine.RecommendGroupsRequest) (engine.GroupsResult, error) {
	resp, err := call[protocol.RecommendGroupsResponse](ctx, c, protocol.RecommendGroups{Collection: collection, Request: req})
	return resp.Result, err
}

// QueryPoints runs a universal query.
func (c *Client) QueryPoints(ctx context.Context, collection string, req engine.QueryRequest) (engine.QueryResult, error) {
	resp, err := call[protocol.QueryResponse](ctx, c, protocol.Query{Collection: collection, Request: req})
	return resp.Result, err
}
