package engine

import "context"

// Engine is the vector engine capability driven by the bridge.
//
// Every method must be safe for concurrent use. Collection-scoped methods
// accept a collection name or an alias.
type Engine interface {
	// Collections
	ListCollections(ctx context.Context) ([]string, error)
	CollectionInfo(ctx context.Context, name string) (CollectionInfo, error)
	CreateCollection(ctx context.Context, name string, cfg CreateCollection) (bool, error)
	UpdateCollection(ctx context.Context, name string, upd UpdateCollection) (bool, error)
	DeleteCollection(ctx context.Context, name string) (bool, error)

	// Aliases
	ListAliases(ctx context.Context) ([]AliasDescription, error)
	CollectionAliases(ctx context.Context, collection string) ([]AliasDescription, error)
	CreateAlias(ctx context.Context, collection, alias string) (bool, error)
	DeleteAlias(ctx context.Context, alias string) (bool, error)
	RenameAlias(ctx context.Context, oldAlias, newAlias string) (bool, error)

	// Points
	Retrieve(ctx context.Context, collection string, req PointRequest) ([]Record, error)
	Count(ctx context.Context, collection string, req CountRequest) (CountResult, error)
	Upsert(ctx context.Context, collection string, req UpsertPoints) (UpdateResult, error)
	DeletePoints(ctx context.Context, collection string, sel PointsSelector) (UpdateResult, error)
	UpdateVectors(ctx context.Context, collection string, req UpdateVectors) (UpdateResult, error)
	DeleteVectors(ctx context.Context, collection string, req DeleteVectors) (UpdateResult, error)
	SetPayload(ctx context.Context, collection string, req SetPayload) (UpdateResult, error)
	OverwritePayload(ctx context.Context, collection string, req SetPayload) (UpdateResult, error)
	DeletePayload(ctx context.Context, collection string, req DeletePayload) (UpdateResult, error)
	ClearPayload(ctx context.Context, collection string, sel PointsSelector) (UpdateResult, error)
	Scroll(ctx context.Context, collection string, req ScrollRequest) (ScrollResult, error)

	// Queries
	Search(ctx context.Context, collection string, req SearchRequest) ([]ScoredPoint, error)
	SearchBatch(ctx context.Context, collection string, reqs []SearchRequest) ([][]ScoredPoint, error)
	SearchGroups(ctx context.Context, collection string, req SearchGroupsRequest) (GroupsResult, error)
	Recommend(ctx context.Context, collection string, req RecommendRequest) ([]ScoredPoint, error)
	RecommendBatch(ctx context.Context, collection string, reqs []RecommendRequest) ([][]ScoredPoint, error)
	RecommendGroups(ctx context.Context, collection string, req RecommendGroupsRequest) (GroupsResult, error)
	Query(ctx context.Context, collection string, req QueryRequest) (QueryResult, error)

	// Close releases engine resources and persists pending state.
	Close() error
}

var _ Engine = (*Local)(nil)
