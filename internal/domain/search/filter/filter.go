package filter

import "fmt"

// MaxTermsPerClause is the maximum number of alternatives in one disjunctive clause.
const MaxTermsPerClause = 1024

// Expression is a conjunction of disjunctive clauses, with optional negated clauses.
type Expression struct {
	must    []Clause
	mustNot []Clause
}

// NewExpression creates an Expression. Empty clauses are dropped.
func NewExpression(must, mustNot []Clause) Expression {
	return Expression{must: compact(must), mustNot: compact(mustNot)}
}

func compact(clauses []Clause) []Clause {
	out := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		if !c.IsEmpty() {
			out = append(out, c)
		}
	}
	return out
}

// Must returns the clauses that must all hold.
func (e Expression) Must() []Clause { return e.must }

// MustNot returns the clauses none of which may hold.
func (e Expression) MustNot() []Clause { return e.mustNot }

// IsEmpty reports whether the expression has no clauses.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.mustNot) == 0
}

// And returns a new expression holding the clauses of both.
func (e Expression) And(other Expression) Expression {
	must := make([]Clause, 0, len(e.must)+len(other.must))
	must = append(must, e.must...)
	must = append(must, other.must...)
	mustNot := make([]Clause, 0, len(e.mustNot)+len(other.mustNot))
	mustNot = append(mustNot, e.mustNot...)
	mustNot = append(mustNot, other.mustNot...)
	return Expression{must: must, mustNot: mustNot}
}

// Clause is a disjunction: true if ANY of its terms holds.
type Clause struct {
	terms []Term
}

// NewClause validates and creates a disjunctive clause.
func NewClause(terms ...Term) (Clause, error) {
	if len(terms) > MaxTermsPerClause {
		return Clause{}, fmt.Errorf("too many alternatives in clause (max %d)", MaxTermsPerClause)
	}
	return Clause{terms: terms}, nil
}

// AnyOf builds the clause "any of fields equals any of values" over already-rendered values.
func AnyOf(fields, values []string) (Clause, error) {
	terms := make([]Term, 0, len(fields)*len(values))
	for _, v := range values {
		for _, f := range fields {
			t, err := NewTerm(f, v)
			if err != nil {
				return Clause{}, err
			}
			terms = append(terms, t)
		}
	}
	return NewClause(terms...)
}

// Terms returns the alternatives.
func (c Clause) Terms() []Term { return c.terms }

// IsEmpty reports whether the clause has no alternatives.
func (c Clause) IsEmpty() bool { return len(c.terms) == 0 }

// Term is a single field comparison. Quoted terms compare exactly;
// unquoted terms are passed to the engine as written (wildcards allowed).
type Term struct {
	field  string
	value  string
	quoted bool
}

// NewTerm creates a quoted equality term.
func NewTerm(field, value string) (Term, error) {
	if field == "" {
		return Term{}, fmt.Errorf("filter field is required")
	}
	return Term{field: field, value: value, quoted: true}, nil
}

// NewUnquotedTerm creates a term whose value is not quoted, e.g. "en*".
func NewUnquotedTerm(field, value string) (Term, error) {
	if field == "" {
		return Term{}, fmt.Errorf("filter field is required")
	}
	if value == "" {
		return Term{}, fmt.Errorf("unquoted value is required for field %q", field)
	}
	return Term{field: field, value: value}, nil
}

// Field returns the field name.
func (t Term) Field() string { return t.field }

// Value returns the comparison value.
func (t Term) Value() string { return t.value }

// Quoted reports whether the value is compared exactly.
func (t Term) Quoted() bool { return t.quoted }
