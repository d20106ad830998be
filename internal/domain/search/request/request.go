package request

import (
	"fmt"

	"github.com/kailas-cloud/solrdex/internal/domain/search/criteria"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/operation"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed free-text length.
	MaxTextLength = 4096
	MaxPageSize   = 500
	MaxFacets     = 32
)

// Sort is one caller-supplied ordering.
type Sort struct {
	Field      string
	Descending bool
}

// Options are the shaping switches of a search request.
type Options struct {
	Fields     []string
	Sorts      []Sort
	Facets     []operation.FacetRequest
	Highlight  bool
	SpellCheck bool
	Boost      mode.Boost
	Operator   mode.Operator
	// Language is a BCP 47 culture tag. Empty means the platform default.
	Language   string
	Visibility mode.Visibility
}

// Request is a validated search.
type Request struct {
	criteria criteria.Criteria
	opts     Options
}

// New validates search parameters.
// Defaults: visibility=check, operator=engine default.
func New(c criteria.Criteria, opts Options) (Request, error) {
	if len(c.Text) > MaxTextLength {
		return Request{}, fmt.Errorf("text too long (max %d chars)", MaxTextLength)
	}
	if c.PageSize < 0 {
		return Request{}, fmt.Errorf("page_size must not be negative")
	}
	if c.PageSize > MaxPageSize {
		return Request{}, fmt.Errorf("page_size too large (max %d)", MaxPageSize)
	}
	if c.PageNumber < 0 {
		return Request{}, fmt.Errorf("page must not be negative")
	}
	for i, s := range opts.Sorts {
		if s.Field == "" {
			return Request{}, fmt.Errorf("sort[%d]: field is required", i)
		}
	}
	if len(opts.Facets) > MaxFacets {
		return Request{}, fmt.Errorf("too many facets (max %d)", MaxFacets)
	}
	for i, f := range opts.Facets {
		if len(f.Fields) == 0 {
			return Request{}, fmt.Errorf("facets[%d]: fields are required", i)
		}
		if f.Date && len(f.Fields) != 1 {
			return Request{}, fmt.Errorf("facets[%d]: date facets take exactly one field", i)
		}
		if f.MinCount != nil && *f.MinCount < 0 {
			return Request{}, fmt.Errorf("facets[%d]: min_count must not be negative", i)
		}
	}
	if !opts.Boost.IsValid() {
		return Request{}, fmt.Errorf("invalid boost: %q", opts.Boost)
	}
	if !opts.Operator.IsValid() {
		return Request{}, fmt.Errorf("invalid operator: %q", opts.Operator)
	}
	if opts.Visibility == "" {
		opts.Visibility = mode.CheckVisibility
	}
	if !opts.Visibility.IsValid() {
		return Request{}, fmt.Errorf("invalid visibility mode: %q", opts.Visibility)
	}
	return Request{criteria: c, opts: opts}, nil
}

// Criteria returns the search criteria.
func (r *Request) Criteria() criteria.Criteria { return r.criteria }

// Fields returns the projected fields.
func (r *Request) Fields() []string { return r.opts.Fields }

// Sorts returns the orderings in declaration order.
func (r *Request) Sorts() []Sort { return r.opts.Sorts }

// Facets returns the facet requests.
func (r *Request) Facets() []operation.FacetRequest { return r.opts.Facets }

// Highlight reports whether snippets were requested.
func (r *Request) Highlight() bool { return r.opts.Highlight }

// SpellCheck reports whether collation was requested.
func (r *Request) SpellCheck() bool { return r.opts.SpellCheck }

// Boost returns the relevance boost.
func (r *Request) Boost() mode.Boost { return r.opts.Boost }

// Operator returns the default boolean operator.
func (r *Request) Operator() mode.Operator { return r.opts.Operator }

// Language returns the culture tag.
func (r *Request) Language() string { return r.opts.Language }

// Visibility returns the visibility mode.
func (r *Request) Visibility() mode.Visibility { return r.opts.Visibility }
