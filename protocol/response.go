package protocol

import "github.com/hupe1980/vecbridge/engine"

// Response is the success result of a Request. Each Request type has exactly
// one Response type reporting the same Op.
type Response interface {
	Op() Op
	isResponse()
}

type ListCollectionsResponse struct {
	Collections []string
}

type GetCollectionResponse struct {
	Info engine.CollectionInfo
}

type CreateCollectionResponse struct {
	Created bool
}

type UpdateCollectionResponse struct {
	Updated bool
}

type DeleteCollectionResponse struct {
	Deleted bool
}

type ListAliasesResponse struct {
	Aliases []engine.AliasDescription
}

type GetAliasesResponse struct {
	Aliases []engine.AliasDescription
}

type CreateAliasResponse struct {
	Created bool
}

type DeleteAliasResponse struct {
	Deleted bool
}

type RenameAliasResponse struct {
	Renamed bool
}

type GetPointsResponse struct {
	Records []engine.Record
}

type CountPointsResponse struct {
	Result engine.CountResult
}

type DeletePointsResponse struct {
	Result engine.UpdateResult
}

type UpsertPointsResponse struct {
	Result engine.UpdateResult
}

type UpdateVectorsResponse struct {
	Result engine.UpdateResult
}

type DeleteVectorsResponse struct {
	Result engine.UpdateResult
}

type SetPayloadResponse struct {
	Result engine.UpdateResult
}

type OverwritePayloadResponse struct {
	Result engine.UpdateResult
}

type DeletePayloadResponse struct {
	Result engine.UpdateResult
}

type ClearPayloadResponse struct {
	Result engine.UpdateResult
}

type ScrollPointsResponse struct {
	Result engine.ScrollResult
}

type SearchResponse struct {
	Points []engine.ScoredPoint
}

type SearchBatchResponse struct {
	Results [][]engine.ScoredPoint
}

type SearchGroupsResponse struct {
	Result engine.GroupsResult
}

type RecommendResponse struct {
	Points []engine.ScoredPoint
}

type RecommendBatchResponse struct {
	Results [][]engine.ScoredPoint
}

type RecommendGroupsResponse struct {
	Result engine.GroupsResult
}

type QueryResponse struct {
	Result engine.QueryResult
}

func (ListCollectionsResponse) Op() Op  { return OpListCollections }
func (GetCollectionResponse) Op() Op    { return OpGetCollection }
func (CreateCollectionResponse) Op() Op { return OpCreateCollection }
func (UpdateCollectionResponse) Op() Op { return OpUpdateCollection }
func (DeleteCollectionResponse) Op() Op { return OpDeleteCollection }
func (ListAliasesResponse) Op() Op      { return OpListAliases }
func (GetAliasesResponse) Op() Op       { return OpGetAliases }
func (CreateAliasResponse) Op() Op      { return OpCreateAlias }
func (DeleteAliasResponse) Op() Op      { return OpDeleteAlias }
func (RenameAliasResponse) Op() Op      { return OpRenameAlias }
func (GetPointsResponse) Op() Op        { return OpGetPoints }
func (CountPointsResponse) Op() Op      { return OpCountPoints }
func (DeletePointsResponse) Op() Op     { return OpDeletePoints }
func (UpsertPointsResponse) Op() Op     { return OpUpsertPoints }
func (UpdateVectorsResponse) Op() Op    { return OpUpdateVectors }
func (DeleteVectorsResponse) Op() Op    { return OpDeleteVectors }
func (SetPayloadResponse) Op() Op       { return OpSetPayload }
func (OverwritePayloadResponse) Op() Op { return OpOverwritePayload }
func (DeletePayloadResponse) Op() Op    { return OpDeletePayload }
func (ClearPayloadResponse) Op() Op     { return OpClearPayload }
func (ScrollPointsResponse) Op() Op     { return OpScrollPoints }
func (SearchResponse) Op() Op           { return OpSearch }
func (SearchBatchResponse) Op() Op      { return OpSearchBatch }
func (SearchGroupsResponse) Op() Op     { return OpSearchGroups }
func (RecommendResponse) Op() Op        { return OpRecommend }
func (RecommendBatchResponse) Op() Op   { return OpRecommendBatch }
func (RecommendGroupsResponse) Op() Op  { return OpRecommendGroups }
func (QueryResponse) Op() Op            { return OpQuery }

func (ListCollectionsResponse) isResponse()  {}
func (GetCollectionResponse) isResponse()    {}
func (CreateCollectionResponse) isResponse() {}
func (UpdateCollectionResponse) isResponse() {}
func (DeleteCollectionResponse) isResponse() {}
func (ListAliasesResponse) isResponse()      {}
func (GetAliasesResponse) isResponse()       {}
func (CreateAliasResponse) isResponse()      {}
func (DeleteAliasResponse) isResponse()      {}
func (RenameAliasResponse) isResponse()      {}
func (GetPointsResponse) isResponse()        {}
func (CountPointsResponse) isResponse()      {}
func (DeletePointsResponse) isResponse()     {}
func (UpsertPointsResponse) isResponse()     {}
func (UpdateVectorsResponse) isResponse()    {}
func (DeleteVectorsResponse) isResponse()    {}
func (SetPayloadResponse) isResponse()       {}
func (OverwritePayloadResponse) isResponse() {}
func (DeletePayloadResponse) isResponse()    {}
func (ClearPayloadResponse) isResponse()     {}
func (ScrollPointsResponse) isResponse()     {}
func (SearchResponse) isResponse()           {}
func (SearchBatchResponse) isResponse()      {}
func (SearchGroupsResponse) isResponse()     {}
func (RecommendResponse) isResponse()        {}
func (RecommendBatchResponse) isResponse()   {}
func (RecommendGroupsResponse) isResponse()  {}
func (QueryResponse) isResponse()            {}

// Matches reports whether resp is the response type for req.
func Matches(req Request, resp Response) bool {
	return req != nil && resp != nil && req.Op() == resp.Op()
}
