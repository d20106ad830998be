package db

import "github.com/kailas-cloud/solrdex/internal/domain/search/raw"

// Param is one wire parameter. Keys may repeat.
type Param struct {
	Key   string
	Value string
}

// SelectRequest is the wire form of a compiled query.
type SelectRequest struct {
	Query  string
	Params []Param
}

// Get returns every value of key in order.
func (r *SelectRequest) Get(key string) []string {
	var out []string
	for _, p := range r.Params {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// SelectResponse is the decoded engine response.
type SelectResponse struct {
	NumFound     int
	Start        int
	Docs         []raw.Document
	Grouped      []GroupField
	FacetFields  []FacetField
	FacetPivots  []PivotField
	FacetRanges  []FacetField
	SpellCheck   *SpellCheck
	Highlighting map[string]map[string][]string
}

// EmptyResponse is what a recovered engine error degrades to.
func EmptyResponse() *SelectResponse {
	return &SelectResponse{}
}

// GroupField is the grouping result for one field.
type GroupField struct {
	Field   string
	Matches int
	// NGroups is set when the request asked for the distinct group count.
	NGroups *int
	Groups  []Group
}

// Group is one group value with its documents.
type Group struct {
	Value    string
	NumFound int
	Docs     []raw.Document
}

// Bucket is one facet value with its count.
type Bucket struct {
	Value string
	Count int
}

// FacetField is the ordered bucket list of one field or range facet.
type FacetField struct {
	Name    string
	Buckets []Bucket
}

// PivotField is the pivot tree for one combination of fields.
type PivotField struct {
	Name  string
	Nodes []PivotNode
}

// PivotNode is one level of a pivot tree.
type PivotNode struct {
	Field    string
	Value    string
	Count    int
	Children []PivotNode
}

// SpellCheck is the decoded spell-check section.
type SpellCheck struct {
	Collation        string
	Suggestions      []Suggestion
	CorrectlySpelled bool
}

// Suggestion is the alternatives proposed for one term.
type Suggestion struct {
	Term         string
	NumFound     int
	Alternatives []string
}

// ErrorDocument is the decoded payload of an engine-side query error.
type ErrorDocument struct {
	Message string
	Query   string
}
