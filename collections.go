package vecbridge

import (
	"context"
	"errors"

	"github.com/hupe1980/vecbridge/engine"
	"github.com/hupe1980/vecbridge/protocol"
)

// CreateCollection creates a collection. It reports false if nothing was
// created; a name that is already taken yields engine.ErrAlreadyExists.
func (c *Client) CreateCollection(ctx context.Context, name string, cfg engine.CreateCollection) (bool, error) {
	resp, err := call[protocol.CreateCollectionResponse](ctx, c, protocol.CreateCollection{Name: name, Config: cfg})
	return resp.Created, err
}

// ListCollections returns the collection names in sorted order.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	resp, err := call[protocol.ListCollectionsResponse](ctx, c, protocol.ListCollections{})
	return resp.Collections, err
}

// GetCollection describes a collection. It returns nil and no error when
// the collection does not exist.
func (c *Client) GetCollection(ctx context.Context, name string) (*engine.CollectionInfo, error) {
	resp, err := call[protocol.GetCollectionResponse](ctx, c, protocol.GetCollection{Name: name})
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resp.Info, nil
}

// UpdateCollection changes mutable collection parameters.
func (c *Client) UpdateCollection(ctx context.Context, name string, upd engine.UpdateCollection) (bool, error) {
	resp, err := call[protocol.UpdateCollectionResponse](ctx, c, protocol.UpdateCollection{Name: name, Config: upd})
	return resp.Updated, err
}

// DeleteCollection drops a collection and its aliases. It reports false if
// the collection did not exist.
func (c *Client) DeleteCollection(ctx context.Context, name string) (bool, error) {
	resp, err := call[protocol.DeleteCollectionResponse](ctx, c, protocol.DeleteCollection{Name: name})
	return resp.Deleted, err
}

// CreateAlias binds alias to collection.
func (c *Client) CreateAlias(ctx context.Context, collection, alias string) (bool, error) {
	resp, err := call[protocol.CreateAliasResponse](ctx, c, protocol.CreateAlias{Collection: collection, Alias: alias})
	return resp.Created, err
}

// ListAliases returns every alias.
func (c *Client) ListAliases(ctx context.Context) ([]engine.AliasDescription, error) {
	resp, err := call[protocol.ListAliasesResponse](ctx, c, protocol.ListAliases{})
	return resp.Aliases, err
}

// GetAliases returns the aliases of one collection.
func (c *Client) GetAliases(ctx context.Context, collection string) ([]engine.AliasDescription, error) {
	resp, err := call[protocol.GetAliasesResponse](ctx, c, protocol.GetAliases{Collection: collection})
	return resp.Aliases, err
}

// DeleteAlias removes an alias.
func (c *Client) DeleteAlias(ctx context.Context, alias string) (bool, error) {
	resp, err := call[protocol.DeleteAliasResponse](ctx, c, protocol.DeleteAlias{Alias: alias})
	return resp.Deleted, err
}

// RenameAlias renames an alias.
func (c *Client) RenameAlias(ctx context.Context, oldAlias, newAlias string) (bool, error) {
	resp, err := call[protocol.RenameAliasResponse](ctx, c, protocol.RenameAlias{OldAlias: oldAlias, NewAlias: newAlias})
	return resp.Renamed, err
}
