// Package operation defines the abstract query operations a search is composed of.
package operation

// Kind identifies an operation.
type Kind string

// Operation kinds.
const (
	KindSelect        Kind = "select"
	KindGetResults    Kind = "get_results"
	KindOrderBy       Kind = "order_by"
	KindSkip          Kind = "skip"
	KindTake          Kind = "take"
	KindCount         Kind = "count"
	KindAny           Kind = "any"
	KindGetFacets     Kind = "get_facets"
	KindGroupBy       Kind = "group_by"
	KindCheckSpelling Kind = "check_spelling"
)

// Operation is one step of a composite query.
type Operation interface {
	Kind() Kind
}

// Select projects the named fields.
type Select struct {
	Fields []string
}

// GetResults materializes scored documents.
type GetResults struct{}

// OrderBy appends one sort term.
type OrderBy struct {
	Field      string
	Descending bool
}

// Skip offsets the result window. Multiple skips are summed.
type Skip struct {
	Count int
}

// Take limits the result window. Multiple takes are summed.
type Take struct {
	Count int
}

// Count asks only for the total.
type Count struct{}

// Any asks only whether anything matched.
type Any struct{}

// GetFacets asks for facet buckets.
type GetFacets struct{}

// GroupBy clusters results by Field, keeping at most Limit members per group.
type GroupBy struct {
	Field string
	Limit int
}

// CheckSpelling asks the engine for a corrected collation of Text.
type CheckSpelling struct {
	Text string
}

func (Select) Kind() Kind        { return KindSelect }
func (GetResults) Kind() Kind    { return KindGetResults }
func (OrderBy) Kind() Kind       { return KindOrderBy }
func (Skip) Kind() Kind          { return KindSkip }
func (Take) Kind() Kind          { return KindTake }
func (Count) Kind() Kind         { return KindCount }
func (Any) Kind() Kind           { return KindAny }
func (GetFacets) Kind() Kind     { return KindGetFacets }
func (GroupBy) Kind() Kind       { return KindGroupBy }
func (CheckSpelling) Kind() Kind { return KindCheckSpelling }

// FacetRequest asks for buckets over one field, or a pivot over several.
type FacetRequest struct {
	Fields   []string
	MinCount *int
	// FilterValues, when non-empty, is the allow-list of bucket labels kept in the output.
	FilterValues []string
	// Date requests monthly range buckets over a single date field.
	Date bool
}

