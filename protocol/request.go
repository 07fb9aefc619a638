package protocol

import "github.com/hupe1980/vecbridge/engine"

// Request is a message for the worker. The set of implementations is closed.
type Request interface {
	Op() Op
	isRequest()
}

// ListCollections lists collection names.
type ListCollections struct{}

// GetCollection describes one collection.
type GetCollection struct {
	Name string
}

// CreateCollection creates a collection.
type CreateCollection struct {
	Name   string
	Config engine.CreateCollection
}

// UpdateCollection changes mutable collection parameters.
type UpdateCollection struct {
	Name   string
	Config engine.UpdateCollection
}

// DeleteCollection drops a collection.
type DeleteCollection struct {
	Name string
}

// ListAliases lists all aliases.
type ListAliases struct{}

// GetAliases lists the aliases of one collection.
type GetAliases struct {
	Collection string
}

// CreateAlias binds Alias to Collection.
type CreateAlias struct {
	Collection string
	Alias      string
}

// DeleteAlias removes an alias.
type DeleteAlias struct {
	Alias string
}

// RenameAlias renames an alias.
type RenameAlias struct {
	OldAlias string
	NewAlias string
}

// GetPoints retrieves points by id.
type GetPoints struct {
	Collection string
	Request    engine.PointRequest
}

// CountPoints counts points.
type CountPoints struct {
	Collection string
	Request    engine.CountRequest
}

// DeletePoints deletes points.
type DeletePoints struct {
	Collection string
	Selector   engine.PointsSelector
}

// UpsertPoints inserts or replaces points.
type UpsertPoints struct {
	Collection string
	Request    engine.UpsertPoints
}

// UpdateVectors updates vectors of existing points.
type UpdateVectors struct {
	Collection string
	Request    engine.UpdateVectors
}

// DeleteVectors removes named vectors.
type DeleteVectors struct {
	Collection string
	Request    engine.DeleteVectors
}

// SetPayload merges payload into points.
type SetPayload struct {
	Collection string
	Request    engine.SetPayload
}

// OverwritePayload replaces the payload of points.
type OverwritePayload struct {
	Collection string
	Request    engine.SetPayload
}

// DeletePayload removes payload keys.
type DeletePayload struct {
	Collection string
	Request    engine.DeletePayload
}

// ClearPayload removes the whole payload of points.
type ClearPayload struct {
	Collection string
	Selector   engine.PointsSelector
}

// ScrollPoints pages through points.
type ScrollPoints struct {
	Collection string
	Request    engine.ScrollRequest
}

// Search is a nearest-neighbour search.
type Search struct {
	Collection string
	Request    engine.SearchRequest
}

// SearchBatch runs several searches.
type SearchBatch struct {
	Collection string
	Requests   []engine.SearchRequest
}

// SearchGroups is a grouped search.
type SearchGroups struct {
	Collection string
	Request    engine.SearchGroupsRequest
}

// Recommend recommends points from examples.
type Recommend struct {
	Collection string
	Request    engine.RecommendRequest
}

// RecommendBatch runs several recommendations.
type RecommendBatch struct {
	Collection string
	Requests   []engine.RecommendRequest
}

// RecommendGroups is a grouped recommendation.
type RecommendGroups struct {
	Collection string
	Request    engine.RecommendGroupsRequest
}

// Query is a universal query.
type Query struct {
	Collection string
	Request    engine.QueryRequest
}

func (ListCollections) Op() Op  { return OpListCollections }
func (GetCollection) Op() Op    { return OpGetCollection }
func (CreateCollection) Op() Op { return OpCreateCollection }
func (UpdateCollection) Op() Op { return OpUpdateCollection }
func (DeleteCollection) Op() Op { return OpDeleteCollection }
func (ListAliases) Op() Op      { return OpListAliases }
func (GetAliases) Op() Op       { return OpGetAliases }
func (CreateAlias) Op() Op      { return OpCreateAlias }
func (DeleteAlias) Op() Op      { return OpDeleteAlias }
func (RenameAlias) Op() Op      { return OpRenameAlias }
func (GetPoints) Op() Op        { return OpGetPoints }
func (CountPoints) Op() Op      { return OpCountPoints }
func (DeletePoints) Op() Op     { return OpDeletePoints }
func (UpsertPoints) Op() Op     { return OpUpsertPoints }
func (UpdateVectors) Op() Op    { return OpUpdateVectors }
func (DeleteVectors) Op() Op    { return OpDeleteVectors }
func (SetPayload) Op() Op       { return OpSetPayload }
func (OverwritePayload) Op() Op { return OpOverwritePayload }
func (DeletePayload) Op() Op    { return OpDeletePayload }
func (ClearPayload) Op() Op     { return OpClearPayload }
func (ScrollPoints) Op() Op     { return OpScrollPoints }
func (Search) Op() Op           { return OpSearch }
func (SearchBatch) Op() Op      { return OpSearchBatch }
func (SearchGroups) Op() Op     { return OpSearchGroups }
func (Recommend) Op() Op        { return OpRecommend }
func (RecommendBatch) Op() Op   { return OpRecommendBatch }
func (RecommendGroups) Op() Op  { return OpRecommendGroups }
func (Query) Op() Op            { return OpQuery }

func (ListCollections) isRequest()  {}
func (GetCollection) isRequest()    {}
func (CreateCollection) isRequest() {}
func (UpdateCollection) isRequest() {}
func (DeleteCollection) isRequest() {}
func (ListAliases) isRequest()      {}
func (GetAliases) isRequest()       {}
func (CreateAlias) isRequest()      {}
func (DeleteAlias) isRequest()      {}
func (RenameAlias) isRequest()      {}
func (GetPoints) isRequest()        {}
func (CountPoints) isRequest()      {}
func (DeletePoints) isRequest()     {}
func (UpsertPoints) isRequest()     {}
func (UpdateVectors) isRequest()    {}
func (DeleteVectors) isRequest()    {}
func (SetPayload) isRequest()       {}
func (OverwritePayload) isRequest() {}
func (DeletePayload) isRequest()    {}
func (ClearPayload) isRequest()     {}
func (ScrollPoints) isRequest()     {}
func (Search) isRequest()           {}
func (SearchBatch) isRequest()      {}
func (SearchGroups) isRequest()     {}
func (Recommend) isRequest()        {}
func (RecommendBatch) isRequest()   {}
func (RecommendGroups) isRequest()  {}
func (Query) isRequest()            {}

// CollectionName returns the collection a request addresses, or "" for
// requests that are not scoped to one collection.
func CollectionName(req Request) string {
	switch r := req.(type) {
	case GetCollection:
		return r.Name
	case CreateCollection:
		return r.Name
	case UpdateCollection:
		return r.Name
	case DeleteCollection:
		return r.Name
	case GetAliases:
		return r.Collection
	case CreateAlias:
		return r.Collection
	case GetPoints:
		return r.Collection
	case CountPoints:
		return r.Collection
	case DeletePoints:
		return r.Collection
	case UpsertPoints:
		return r.Collection
	case UpdateVectors:
		return r.Collection
	case DeleteVectors:
		return r.Collection
	case SetPayload:
		return r.Collection
	case OverwritePayload:
		return r.Collection
	case DeletePayload:
		return r.Collection
	case ClearPayload:
		return r.Collection
	case ScrollPoints:
		return r.Collection
	case Search:
		return r.Collection
	case SearchBatch:
		return r.Collection
	case SearchGroups:
		return r.Collection
	case Recommend:
		return r.Collection
	case RecommendBatch:
		return r.Collection
	case RecommendGroups:
		return r.Collection
	case Query:
		return r.Collection
	default:
		return ""
	}
}
