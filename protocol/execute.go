package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/vecbridge/engine"
)

// ErrUnknownRequest is returned by Execute for a request it cannot route.
var ErrUnknownRequest = errors.New("unknown request")

// Execute runs req against eng and wraps the result in the matching Response.
// Engine errors are returned unchanged.
func Execute(ctx context.Context, eng engine.Engine, req Request) (Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnknownRequest)
	}
	switch req.Op().Category() {
	case CategoryCollection:
		return executeCollection(ctx, eng, req)
	case CategoryAlias:
		return executeAlias(ctx, eng, req)
	case CategoryPoints:
		return executePoints(ctx, eng, req)
	case CategoryQuery:
		return executeQuery(ctx, eng, req)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownRequest, req)
	}
}

func executeCollection(ctx context.Context, eng engine.Engine, req Request) (Response, error) {
	switch r := req.(type) {
	case ListCollections:
		names, err := eng.ListCollections(ctx)
		if err != nil {
			return nil, err
		}
		return ListCollectionsResponse{Collections: names}, nil
	case GetCollection:
		info, err := eng.CollectionInfo(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		return GetCollectionResponse{Info: info}, nil
	case CreateCollection:
		ok, err := eng.CreateCollection(ctx, r.Name, r.Config)
		if err != nil {
			return nil, err
		}
		return CreateCollectionResponse{Created: ok}, nil
	case UpdateCollection:
		ok, err := eng.UpdateCollection(ctx, r.Name, r.Config)
		if err != nil {
			return nil, err
		}
		return UpdateCollectionResponse{Updated: ok}, nil
	case DeleteCollection:
		ok, err := eng.DeleteCollection(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		return DeleteCollectionResponse{Deleted: ok}, nil
	default:
		return nil, fmt.Errorf("%w: %T in collection category", ErrUnknownRequest, req)
	}
}

func executeAlias(ctx context.Context, eng engine.Engine, req Request) (Response, error) {
	switch r := req.(type) {
	case ListAliases:
		aliases, err := eng.ListAliases(ctx)
		if err != nil {
			return nil, err
		}
		return ListAliasesResponse{Aliases: aliases}, nil
	case GetAliases:
		aliases, err := eng.CollectionAliases(ctx, r.Collection)
		if err != nil {
			return nil, err
		}
		return GetAliasesResponse{Aliases: aliases}, nil
	case CreateAlias:
		ok, err := eng.CreateAlias(ctx, r.Collection, r.Alias)
		if err != nil {
			return nil, err
		}
		return CreateAliasResponse{Created: ok}, nil
	case DeleteAlias:
		ok, err := eng.DeleteAlias(ctx, r.Alias)
		if err != nil {
			return nil, err
		}
		return DeleteAliasResponse{Deleted: ok}, nil
	case RenameAlias:
		ok, err := eng.RenameAlias(ctx, r.OldAlias, r.NewAlias)
		if err != nil {
			return nil, err
		}
		return RenameAliasResponse{Renamed: ok}, nil
	default:
		return nil, fmt.Errorf("%w: %T in alias category", ErrUnknownRequest, req)
	}
}

func executePoints(ctx context.Context, eng engine.Engine, req Request) (Response, error) {
	switch r := req.(type) {
	case GetPoints:
		recs, err := eng.Retrieve(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return GetPointsResponse{Records: recs}, nil
	case CountPoints:
		res, err := eng.Count(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return CountPointsResponse{Result: res}, nil
	case DeletePoints:
		res, err := eng.DeletePoints(ctx, r.Collection, r.Selector)
		if err != nil {
			return nil, err
		}
		return DeletePointsResponse{Result: res}, nil
	case UpsertPoints:
		res, err := eng.Upsert(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return UpsertPointsResponse{Result: res}, nil
	case UpdateVectors:
		res, err := eng.UpdateVectors(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return UpdateVectorsResponse{Result: res}, nil
	case DeleteVectors:
		res, err := eng.DeleteVectors(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return DeleteVectorsResponse{Result: res}, nil
	case SetPayload:
		res, err := eng.SetPayload(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return SetPayloadResponse{Result: res}, nil
	case OverwritePayload:
		res, err := eng.OverwritePayload(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return OverwritePayloadResponse{Result: res}, nil
	case DeletePayload:
		res, err := eng.DeletePayload(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return DeletePayloadResponse{Result: res}, nil
	case ClearPayload:
		res, err := eng.ClearPayload(ctx, r.Collection, r.Selector)
		if err != nil {
			return nil, err
		}
		return ClearPayloadResponse{Result: res}, nil
	case ScrollPoints:
		res, err := eng.Scroll(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return ScrollPointsResponse{Result: res}, nil
	default:
		return nil, fmt.Errorf("%w: %T in points category", ErrUnknownRequest, req)
	}
}

func executeQuery(ctx context.Context, eng engine.Engine, req Request) (Response, error) {
	switch r := req.(type) {
	case Search:
		points, err := eng.Search(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return SearchResponse{Points: points}, nil
	case SearchBatch:
		results, err := eng.SearchBatch(ctx, r.Collection, r.Requests)
		if err != nil {
			return nil, err
		}
		return SearchBatchResponse{Results: results}, nil
	case SearchGroups:
		res, err := eng.SearchGroups(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return SearchGroupsResponse{Result: res}, nil
	case Recommend:
		points, err := eng.Recommend(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return RecommendResponse{Points: points}, nil
	case RecommendBatch:
		results, err := eng.RecommendBatch(ctx, r.Collection, r.Requests)
		if err != nil {
			return nil, err
		}
		return RecommendBatchResponse{Results: results}, nil
	case RecommendGroups:
		res, err := eng.RecommendGroups(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return RecommendGroupsResponse{Result: res}, nil
	case Query:
		res, err := eng.Query(ctx, r.Collection, r.Request)
		if err != nil {
			return nil, err
		}
		return QueryResponse{Result: res}, nil
	default:
		return nil, fmt.Errorf("%w: %T in query category", ErrUnknownRequest, req)
	}
}
