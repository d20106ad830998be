package compiler

import (
	"github.com/kailas-cloud/solrdex/internal/domain/search/criteria"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/operation"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
)

// FieldNames is the field-name translation capability used for facets.
type FieldNames interface {
	ResolveFieldName(name string) string
	IsDecorated(name string) bool
	HasFieldConfiguration(name string) bool
}

// HighlightSettings are the configured snippet extraction parameters.
type HighlightSettings struct {
	Fields   []string
	Snippets int
	Pattern  string
	FragSize int
	Slop     float64
}

// Settings are the externally supplied platform values the compiler reads.
type Settings struct {
	IndexName       string
	DefaultLanguage string
	MaxResults      int
	ContentField    string
	DateField       string
	Highlight       HighlightSettings
	DateRange       query.DateRange
}

// Options are per-query switches.
type Options struct {
	Visibility mode.Visibility
	// Culture is a BCP 47 tag. Empty means the platform default language.
	Culture   string
	Operator  mode.Operator
	Highlight bool
	Boost     mode.Boost
}

// Input is everything one compilation consumes.
type Input struct {
	Operations []operation.Operation
	Criteria   criteria.Criteria
	Facets     []operation.FacetRequest
	Options    Options
}
