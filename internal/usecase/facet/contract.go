package facet

import (
	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
)

// Processor is the external facet-processing capability (label remapping,
// category merging). It may reorder categories.
type Processor interface {
	Process(categories []db.FacetField, requests []query.Facet) []db.FacetField
}

// FieldNames strips engine decorations from category names.
type FieldNames interface {
	StripDecorations(names ...string) string
}

// CategoryRenamer is implemented by processors that rename or merge
// categories. CategoryName returns the name the category requested under
// key carries after processing.
type CategoryRenamer interface {
	CategoryName(key string) string
}
