// Package mode enumerates the switches that alter how a search is compiled.
package mode

// Visibility selects whether per-document visibility checks run.
type Visibility string

// Visibility modes.
const (
	// CheckVisibility consults the visibility oracle for every document.
	CheckVisibility Visibility = "check"
	// SkipVisibility returns documents without consulting the oracle.
	SkipVisibility Visibility = "skip"
)

// IsValid checks if the mode is one of the supported values.
func (v Visibility) IsValid() bool {
	return v == CheckVisibility || v == SkipVisibility
}

// Checks reports whether visibility must be evaluated. The zero value checks.
func (v Visibility) Checks() bool {
	return v != SkipVisibility
}

// Boost selects a relevance boost.
type Boost string

// Boost kinds.
const (
	NoBoost Boost = ""
	// MostRecentFirst decays relevance with the age of the date field.
	MostRecentFirst Boost = "most_recent"
)

// IsValid checks if the boost is known.
func (b Boost) IsValid() bool {
	return b == NoBoost || b == MostRecentFirst
}

// Operator is the default boolean operator between query terms.
type Operator string

// Operators.
const (
	DefaultOperator Operator = ""
	And             Operator = "and"
	Or              Operator = "or"
)

// IsValid checks if the operator is known.
func (o Operator) IsValid() bool {
	return o == DefaultOperator || o == And || o == Or
}
