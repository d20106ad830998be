package result

// FacetValue is one bucket.
type FacetValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FacetCategory is the bucket list for one field or pivot.
type FacetCategory struct {
	Name   string       `json:"name"`
	Values []FacetValue `json:"values"`
}

// FacetResults is the ordered list of facet categories.
type FacetResults struct {
	Categories []FacetCategory `json:"categories"`
}

// Category finds a category by name.
func (f FacetResults) Category(name string) (FacetCategory, bool) {
	for _, c := range f.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return FacetCategory{}, false
}

// IsEmpty reports whether no categories are present.
func (f FacetResults) IsEmpty() bool { return len(f.Categories) == 0 }
