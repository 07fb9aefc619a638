package engine

import (
	"github.com/hupe1980/vecbridge/distance"
)

// DefaultVectorName is the name of the unnamed vector of a collection.
const DefaultVectorName = ""

// Vectors maps vector names to dense vectors. The unnamed vector uses
// DefaultVectorName.
type Vectors map[string][]float32

// Payload is a JSON-like document attached to a point.
type Payload map[string]any

// VectorParams configures one named vector.
type VectorParams struct {
	Size     int             `json:"size" yaml:"size"`
	Distance distance.Metric `json:"distance" yaml:"distance"`
	OnDisk   bool            `json:"on_disk,omitempty" yaml:"on_disk,omitempty"`
}

// VectorsConfig maps vector names to their parameters.
type VectorsConfig map[string]VectorParams

// SingleVector returns a config with only the unnamed vector.
func SingleVector(size int, metric distance.Metric) VectorsConfig {
	return VectorsConfig{DefaultVectorName: {Size: size, Distance: metric}}
}

// CreateCollection is the configuration of a new collection.
type CreateCollection struct {
	Vectors       VectorsConfig  `json:"vectors"`
	OnDiskPayload bool           `json:"on_disk_payload,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// UpdateCollection changes mutable collection parameters. Nil fields are left
// untouched; Metadata keys are merged, a nil value removes the key.
type UpdateCollection struct {
	OnDiskPayload *bool          `json:"on_disk_payload,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// CollectionStatus reports collection health.
type CollectionStatus string

// CollectionGreen means the collection is fully available.
const CollectionGreen CollectionStatus = "green"

// CollectionInfo describes a collection.
type CollectionInfo struct {
	Name          string           `json:"name"`
	Status        CollectionStatus `json:"status"`
	Config        CreateCollection `json:"config"`
	PointsCount   uint64           `json:"points_count"`
	VectorsCount  uint64           `json:"vectors_count"`
	IndexedFields []string         `json:"indexed_fields,omitempty"`
}

// AliasDescription binds an alias to a collection.
type AliasDescription struct {
	Alias      string `json:"alias_name"`
	Collection string `json:"collection_name"`
}

// PointStruct is a point to upsert.
type PointStruct struct {
	ID      PointID `json:"id"`
	Vectors Vectors `json:"vector"`
	Payload Payload `json:"payload,omitempty"`
}

// Record is a stored point as returned by retrieval.
type Record struct {
	ID      PointID `json:"id"`
	Payload Payload `json:"payload,omitempty"`
	Vectors Vectors `json:"vector,omitempty"`
}

// ScoredPoint is a query hit.
type ScoredPoint struct {
	ID      PointID `json:"id"`
	Version uint64  `json:"version"`
	Score   float32 `json:"score"`
	Payload Payload `json:"payload,omitempty"`
	Vectors Vectors `json:"vector,omitempty"`
}

// UpdateStatus reports the state of a mutation.
type UpdateStatus string

// UpdateCompleted means the mutation is applied and visible.
const UpdateCompleted UpdateStatus = "completed"

// UpdateResult acknowledges a mutation.
type UpdateResult struct {
	OperationID uint64       `json:"operation_id"`
	Status      UpdateStatus `json:"status"`
}

// PointsSelector selects points by id list or by filter. Exactly one of the
// fields must be set.
type PointsSelector struct {
	IDs    []PointID `json:"points,omitempty"`
	Filter *Filter   `json:"filter,omitempty"`
}

// SelectIDs builds a selector from ids.
func SelectIDs(ids ...PointID) PointsSelector {
	return PointsSelector{IDs: ids}
}

// SelectFilter builds a selector from a filter.
func SelectFilter(f *Filter) PointsSelector {
	return PointsSelector{Filter: f}
}

// PointRequest retrieves points by id. Missing ids are skipped.
type PointRequest struct {
	IDs         []PointID `json:"ids"`
	WithPayload bool      `json:"with_payload,omitempty"`
	WithVectors bool      `json:"with_vector,omitempty"`
}

// CountRequest counts points matching an optional filter.
type CountRequest struct {
	Filter *Filter `json:"filter,omitempty"`
	Exact  bool    `json:"exact,omitempty"`
}

// CountResult is the result of a count.
type CountResult struct {
	Count uint64 `json:"count"`
}

// UpsertPoints inserts or replaces points.
type UpsertPoints struct {
	Points []PointStruct `json:"points"`
}

// PointVectors replaces selected named vectors of one point.
type PointVectors struct {
	ID      PointID `json:"id"`
	Vectors Vectors `json:"vector"`
}

// UpdateVectors updates vectors of existing points.
type UpdateVectors struct {
	Points []PointVectors `json:"points"`
}

// DeleteVectors removes named vectors from selected points.
type DeleteVectors struct {
	Selector PointsSelector `json:"selector"`
	Vectors  []string       `json:"vector"`
}

// SetPayload merges (or, for overwrite, replaces) payload of selected points.
// When Key is set, the payload is merged into the nested object at that path.
type SetPayload struct {
	Payload  Payload        `json:"payload"`
	Selector PointsSelector `json:"selector"`
	Key      string         `json:"key,omitempty"`
}

// DeletePayload removes payload keys (dotted paths allowed) from selected points.
type DeletePayload struct {
	Keys     []string       `json:"keys"`
	Selector PointsSelector `json:"selector"`
}

// ScrollRequest pages through points ordered by id.
type ScrollRequest struct {
	Filter      *Filter  `json:"filter,omitempty"`
	Offset      *PointID `json:"offset,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	WithPayload bool     `json:"with_payload,omitempty"`
	WithVectors bool     `json:"with_vector,omitempty"`
}

// ScrollResult is one page of a scroll.
type ScrollResult struct {
	Points         []Record `json:"points"`
	NextPageOffset *PointID `json:"next_page_offset,omitempty"`
}

// SearchRequest is a nearest-neighbour search on one named vector.
type SearchRequest struct {
	Vector         []float32 `json:"vector"`
	Using          string    `json:"using,omitempty"`
	Filter         *Filter   `json:"filter,omitempty"`
	Limit          int       `json:"limit"`
	Offset         int       `json:"offset,omitempty"`
	ScoreThreshold *float32  `json:"score_threshold,omitempty"`
	WithPayload    bool      `json:"with_payload,omitempty"`
	WithVectors    bool      `json:"with_vector,omitempty"`
}

// GroupRequest groups hits by a payload key. Limit on the embedded request is
// the number of groups.
type GroupRequest struct {
	GroupBy   string `json:"group_by"`
	GroupSize int    `json:"group_size"`
}

// SearchGroupsRequest is a search whose hits are grouped by a payload key.
type SearchGroupsRequest struct {
	SearchRequest
	GroupRequest
}

// PointGroup is one group of hits sharing a payload value.
type PointGroup struct {
	ID   any           `json:"id"`
	Hits []ScoredPoint `json:"hits"`
}

// GroupsResult is the result of a grouped query.
type GroupsResult struct {
	Groups []PointGroup `json:"groups"`
}

// RecommendStrategy selects how positive and negative examples are combined.
type RecommendStrategy string

const (
	// RecommendAverageVector searches with avg(pos) + (avg(pos) - avg(neg)).
	RecommendAverageVector RecommendStrategy = "average_vector"
	// RecommendBestScore scores each candidate by its best positive match,
	// penalized when a negative example is closer.
	RecommendBestScore RecommendStrategy = "best_score"
)

// RecommendRequest recommends points similar to positive examples and
// dissimilar to negative ones. Examples are point ids or raw vectors.
type RecommendRequest struct {
	Positive        []PointID         `json:"positive,omitempty"`
	Negative        []PointID         `json:"negative,omitempty"`
	PositiveVectors [][]float32       `json:"positive_vectors,omitempty"`
	NegativeVectors [][]float32       `json:"negative_vectors,omitempty"`
	Strategy        RecommendStrategy `json:"strategy,omitempty"`
	Using           string            `json:"using,omitempty"`
	Filter          *Filter           `json:"filter,omitempty"`
	Limit           int               `json:"limit"`
	Offset          int               `json:"offset,omitempty"`
	ScoreThreshold  *float32          `json:"score_threshold,omitempty"`
	WithPayload     bool              `json:"with_payload,omitempty"`
	WithVectors     bool              `json:"with_vector,omitempty"`
}

// RecommendGroupsRequest is a recommendation whose hits are grouped.
type RecommendGroupsRequest struct {
	RecommendRequest
	GroupRequest
}

// VectorInput is a query vector given directly or by the id of a stored point.
type VectorInput struct {
	Vector []float32 `json:"vector,omitempty"`
	ID     *PointID  `json:"id,omitempty"`
}

// RecommendInput is the recommend variant of a universal query.
type RecommendInput struct {
	Positive []VectorInput    `json:"positive,omitempty"`
	Negative []VectorInput    `json:"negative,omitempty"`
	Strategy RecommendStrategy `json:"strategy,omitempty"`
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy orders points by a numeric payload key.
type OrderBy struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction,omitempty"`
}

// Fusion combines prefetch results.
type Fusion string

// FusionRRF is reciprocal rank fusion.
const FusionRRF Fusion = "rrf"

// Sample draws points at random.
type Sample string

// SampleRandom returns a random selection of matching points.
const SampleRandom Sample = "random"

// Query is the scoring stage of a universal query. Exactly one field is set.
type Query struct {
	Nearest   *VectorInput    `json:"nearest,omitempty"`
	Recommend *RecommendInput `json:"recommend,omitempty"`
	OrderBy   *OrderBy        `json:"order_by,omitempty"`
	Fusion    Fusion          `json:"fusion,omitempty"`
	Sample    Sample          `json:"sample,omitempty"`
}

// Prefetch is a nested sub-query whose results feed the outer query.
type Prefetch struct {
	Prefetch       []Prefetch `json:"prefetch,omitempty"`
	Query          *Query     `json:"query,omitempty"`
	Using          string     `json:"using,omitempty"`
	Filter         *Filter    `json:"filter,omitempty"`
	ScoreThreshold *float32   `json:"score_threshold,omitempty"`
	Limit          int        `json:"limit,omitempty"`
}

// QueryRequest is the universal query.
type QueryRequest struct {
	Prefetch       []Prefetch `json:"prefetch,omitempty"`
	Query          *Query     `json:"query,omitempty"`
	Using          string     `json:"using,omitempty"`
	Filter         *Filter    `json:"filter,omitempty"`
	ScoreThreshold *float32   `json:"score_threshold,omitempty"`
	Limit          int        `json:"limit,omitempty"`
	Offset         int        `json:"offset,omitempty"`
	WithPayload    bool       `json:"with_payload,omitempty"`
	WithVectors    bool       `json:"with_vector,omitempty"`
}

// QueryResult is the result of a universal query.
type QueryResult struct {
	Points []ScoredPoint `json:"points"`
}
