package vecbridge

import (
	"context"

	"github.com/hupe1980/vecbridge/engine"
	"github.com/hupe1980/vecbridge/protocol"
)

// GetPoints retrieves points by id. Missing ids are skipped.
func (c *Client) GetPoints(ctx context.Context, collection string, req engine.PointRequest) ([]engine.Record, error) {
	resp, err := call[protocol.GetPointsResponse](ctx, c, protocol.GetPoints{Collection: collection, Request: req})
	return resp.Records, err
}

// UpsertPoints inserts or replaces points.
func (c *Client) UpsertPoints(ctx context.Context, collection string, points []engine.PointStruct) (engine.UpdateResult, error) {
	resp, err := call[protocol.UpsertPointsResponse](ctx, c, protocol.UpsertPoints{
		Collection: collection,
		Request:    engine.UpsertPoints{Points: points},
	})
	return resp.Result, err
}

// DeletePoints deletes the selected points.
func (c *Client) DeletePoints(ctx context.Context, collection string, sel engine.PointsSelector) (engine.UpdateResult, error) {
	resp, err := call[protocol.DeletePointsResponse](ctx, c, protocol.DeletePoints{Collection: collection, Selector: sel})
	return resp.Result, err
}

// UpdateVectors replaces the given named vectors of existing points. Other
// vectors are kept.
func (c *Client) UpdateVectors(ctx context.Context, collection string, req engine.UpdateVectors) (engine.UpdateResult, error) {
	resp, err := call[protocol.UpdateVectorsResponse](ctx, c, protocol.UpdateVectors{Collection: collection, Request: req})
	return resp.Result, err
}

// DeleteVectors removes named vectors from the selected points.
func (c *Client) DeleteVectors(ctx context.Context, collection string, req engine.DeleteVectors) (engine.UpdateResult, error) {
	resp, err := call[protocol.DeleteVectorsResponse](ctx, c, protocol.DeleteVectors{Collection: collection, Request: req})
	return resp.Result, err
}

// SetPayload merges payload keys into the selected points.
func (c *Client) SetPayload(ctx context.Context, collection string, req engine.SetPayload) (engine.UpdateResult, error) {
	resp, err := call[protocol.SetPayloadResponse](ctx, c, protocol.SetPayload{Collection: collection, Request: req})
	return resp.Result, err
}

// OverwritePayload replaces the payload of the selected points.
func (c *Client) OverwritePayload(ctx context.Context, collection string, req engine.SetPayload) (engine.UpdateResult, error) {
	resp, err := call[protocol.OverwritePayloadResponse](ctx, c, protocol.OverwritePayload{Collection: collection, Request: req})
	return resp.Result, err
}

// DeletePayload removes payload keys from the selected points. Dotted keys
// address nested values.
func (c *Client) DeletePayload(ctx context.Context, collection string, req engine.DeletePayload) (engine.UpdateResult, error) {
	resp, err := call[protocol.DeletePayloadResponse](ctx, c, protocol.DeletePayload{Collection: collection, Request: req})
	return resp.Result, err
}

// ClearPayload removes the whole payload of the selected points.
func (c *Client) ClearPayload(ctx context.Context, collection string, sel engine.PointsSelector) (engine.UpdateResult, error) {
	resp, err := call[protocol.ClearPayloadResponse](ctx, c, protocol.ClearPayload{Collection: collection, Selector: sel})
	return resp.Result, err
}

// CountPoints counts the points matching req.Filter.
func (c *Client) CountPoints(ctx context.Context, collection string, req engine.CountRequest) (uint64, error) {
	resp, err := call[protocol.CountPointsResponse](ctx, c, protocol.CountPoints{Collection: collection, Request: req})
	return resp.Result.Count, err
}

// ScrollPoints returns one page of points ordered by id.
func (c *Client) ScrollPoints(ctx context.Context, collection string, req engine.ScrollRequest) (engine.ScrollResult, error) {
	resp, err := call[protocol.ScrollPointsResponse](ctx, c, protocol.ScrollPoints{Collection: collection, Request: req})
	return resp.Result, err
}
