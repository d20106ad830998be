package chi

import (
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
	"github.com/kailas-cloud/solrdex/internal/repository/projection"
	"github.com/kailas-cloud/solrdex/internal/version"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeInvalidCriteria  ErrorCode = "invalid_criteria"
	CodeInvalidOperation ErrorCode = "invalid_operation"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeEngineRejected   ErrorCode = "engine_rejected"
	CodeEngineDown       ErrorCode = "engine_unavailable"
	CodeTimeout          ErrorCode = "timeout"
	CodeNotImplemented   ErrorCode = "not_implemented"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FilterEntry is one field-key expression with its acceptable values.
// Key may list alternative fields separated by ',' or '|'.
type FilterEntry struct {
	Key    string `json:"key"`
	Values []any  `json:"values"`
}

// SortEntry is one ordering.
type SortEntry struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// FacetEntry is one facet request.
type FacetEntry struct {
	Fields       []string `json:"fields"`
	MinCount     *int     `json:"min_count,omitempty"`
	FilterValues []string `json:"filter_values,omitempty"`
	Date         bool     `json:"date,omitempty"`
}

// SearchRequest is the body of the search endpoints.
type SearchRequest struct {
	Text            string        `json:"text,omitempty"`
	BaseTemplateIDs []string      `json:"base_template_ids,omitempty"`
	Filters         []FilterEntry `json:"filters,omitempty"`
	ExcludeFilters  []FilterEntry `json:"exclude_filters,omitempty"`
	NegatedFilters  []FilterEntry `json:"negated_filters,omitempty"`
	ItemID          string        `json:"item_id,omitempty"`
	TemplateID      string        `json:"template_id,omitempty"`
	Page            int           `json:"page,omitempty"`
	PageSize        int           `json:"page_size,omitempty"`

	Fields     []string     `json:"fields,omitempty"`
	Sort       []SortEntry  `json:"sort,omitempty"`
	Facets     []FacetEntry `json:"facets,omitempty"`
	Highlight  bool         `json:"highlight,omitempty"`
	SpellCheck bool         `json:"spell_check,omitempty"`
	Boost      string       `json:"boost,omitempty"`
	Operator   string       `json:"operator,omitempty"`
	Language   string       `json:"language,omitempty"`
	Visibility string       `json:"visibility,omitempty"`
}

// Hit is one scored item.
type Hit struct {
	Document projection.Item `json:"document"`
	Score    float64         `json:"score"`
}

// Group is one cluster of a grouped search.
type Group struct {
	Value string `json:"value"`
	Count int    `json:"count"`
	Hits  []Hit  `json:"hits"`
}

// Grouping is the grouping tree of a grouped search.
type Grouping struct {
	Field   string  `json:"field"`
	Matches int     `json:"matches"`
	NGroups *int    `json:"ngroups,omitempty"`
	Groups  []Group `json:"groups"`
}

// SearchResponse is the body returned by the search endpoints.
type SearchResponse struct {
	Kind       string                         `json:"kind"`
	Total      int                            `json:"total"`
	Hits       []Hit                          `json:"hits"`
	Grouping   *Grouping                      `json:"grouping,omitempty"`
	Facets     *result.FacetResults           `json:"facets,omitempty"`
	Collation  string                         `json:"collation,omitempty"`
	Highlights map[string]map[string][]string `json:"highlights,omitempty"`
}

// CountResponse is the body of POST /v1/search/count.
type CountResponse struct {
	Count int `json:"count"`
}

// AnyResponse is the body of POST /v1/search/any.
type AnyResponse struct {
	Any bool `json:"any"`
}

// SpellCheckRequest is the body of POST /v1/spellcheck.
type SpellCheckRequest struct {
	Text string `json:"text"`
}

// SpellCheckResponse carries the corrected text.
type SpellCheckResponse struct {
	Text      string `json:"text"`
	Corrected bool   `json:"corrected"`
}

// HiddenRequest is the body of the deny-set admin endpoints.
type HiddenRequest struct {
	UniqueIDs []string `json:"unique_ids"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version version.Info      `json:"version"`
}
