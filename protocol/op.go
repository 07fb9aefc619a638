package protocol

import (
	"maps"
	"slices"
)

// Op names a logical operation.
type Op string

// Collection operations.
const (
	OpListCollections  Op = "list_collections"
	OpGetCollection    Op = "get_collection"
	OpCreateCollection Op = "create_collection"
	OpUpdateCollection Op = "update_collection"
	OpDeleteCollection Op = "delete_collection"
)

// Alias operations.
const (
	OpListAliases Op = "list_aliases"
	OpGetAliases  Op = "get_aliases"
	OpCreateAlias Op = "create_alias"
	OpDeleteAlias Op = "delete_alias"
	OpRenameAlias Op = "rename_alias"
)

// Points operations.
const (
	OpGetPoints        Op = "get_points"
	OpCountPoints      Op = "count_points"
	OpDeletePoints     Op = "delete_points"
	OpUpsertPoints     Op = "upsert_points"
	OpUpdateVectors    Op = "update_vectors"
	OpDeleteVectors    Op = "delete_vectors"
	OpSetPayload       Op = "set_payload"
	OpOverwritePayload Op = "overwrite_payload"
	OpDeletePayload    Op = "delete_payload"
	OpClearPayload     Op = "clear_payload"
	OpScrollPoints     Op = "scroll_points"
)

// Query operations.
const (
	OpSearch          Op = "search"
	OpSearchBatch     Op = "search_batch"
	OpSearchGroups    Op = "search_groups"
	OpRecommend       Op = "recommend"
	OpRecommendBatch  Op = "recommend_batch"
	OpRecommendGroups Op = "recommend_groups"
	OpQuery           Op = "query"
)

// Category groups operations by the part of the engine they address.
type Category string

const (
	CategoryUnknown    Category = ""
	CategoryCollection Category = "collection"
	CategoryAlias      Category = "alias"
	CategoryPoints     Category = "points"
	CategoryQuery      Category = "query"
)

var categories = map[Op]Category{
	OpListCollections:  CategoryCollection,
	OpGetCollection:    CategoryCollection,
	OpCreateCollection: CategoryCollection,
	OpUpdateCollection: CategoryCollection,
	OpDeleteCollection: CategoryCollection,

	OpListAliases: CategoryAlias,
	OpGetAliases:  CategoryAlias,
	OpCreateAlias: CategoryAlias,
	OpDeleteAlias: CategoryAlias,
	OpRenameAlias: CategoryAlias,

	OpGetPoints:        CategoryPoints,
	OpCountPoints:      CategoryPoints,
	OpDeletePoints:     CategoryPoints,
	OpUpsertPoints:     CategoryPoints,
	OpUpdateVectors:    CategoryPoints,
	OpDeleteVectors:    CategoryPoints,
	OpSetPayload:       CategoryPoints,
	OpOverwritePayload: CategoryPoints,
	OpDeletePayload:    CategoryPoints,
	OpClearPayload:     CategoryPoints,
	OpScrollPoints:     CategoryPoints,

	OpSearch:          CategoryQuery,
	OpSearchBatch:     CategoryQuery,
	OpSearchGroups:    CategoryQuery,
	OpRecommend:       CategoryQuery,
	OpRecommendBatch:  CategoryQuery,
	OpRecommendGroups: CategoryQuery,
	OpQuery:           CategoryQuery,
}

// Category returns the category of o, or CategoryUnknown.
func (o Op) Category() Category {
	return categories[o]
}

// Ops returns every known operation, sorted.
func Ops() []Op {
	return slices.Sorted(maps.Keys(categories))
}
