package filter

import (
	"strings"
	"testing"
)

// --- Term tests ---

func TestNewTerm_RequiresField(t *testing.T) {
	_, err := NewTerm("", "x")
	if err == nil {
		t.Fatal("expected error for empty field")
	}
	if !strings.Contains(err.Error(), "field is required") {
		t.Errorf("error = %q", err)
	}
}

func TestNewUnquotedTerm_RequiresValue(t *testing.T) {
	if _, err := NewUnquotedTerm("_language", ""); err == nil {
		t.Fatal("expected error for empty unquoted value")
	}
}

func TestTerm_Quoting(t *testing.T) {
	quoted, _ := NewTerm("category", "fr*")
	if !quoted.Quoted() || quoted.Field() != "category" || quoted.Value() != "fr*" {
		t.Errorf("quoted term = %+v", quoted)
	}
	wildcard, _ := NewUnquotedTerm("_language", "fr*")
	if wildcard.Quoted() {
		t.Error("unquoted term reports quoted")
	}
}

// --- Clause tests ---

func TestAnyOf_Disjunction(t *testing.T) {
	fields := []string{"category", "section"}
	values := []string{"news", "sports"}
	c, err := AnyOf(fields, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Terms()) != 4 {
		t.Fatalf("expected 4 terms, got %d", len(c.Terms()))
	}

	var got []string
	for _, term := range c.Terms() {
		got = append(got, term.Field()+"="+term.Value())
	}
	want := "category=news,section=news,category=sports,section=sports"
	if strings.Join(got, ",") != want {
		t.Errorf("terms = %v, want %s", got, want)
	}
}

func TestNewClause_TooMany(t *testing.T) {
	terms := make([]Term, MaxTermsPerClause+1)
	for i := range terms {
		terms[i], _ = NewTerm("f", "v")
	}
	_, err := NewClause(terms...)
	if err == nil {
		t.Fatal("expected error for too many terms")
	}
	if !strings.Contains(err.Error(), "too many") {
		t.Errorf("error = %q", err)
	}
}

// --- Expression tests ---

func TestExpression_DropsEmptyClauses(t *testing.T) {
	c, _ := AnyOf([]string{"a"}, []string{"1"})
	e := NewExpression([]Clause{{}, c}, []Clause{{}})
	if len(e.Must()) != 1 {
		t.Errorf("expected 1 must clause, got %d", len(e.Must()))
	}
	if len(e.MustNot()) != 0 {
		t.Errorf("expected 0 must_not clauses, got %d", len(e.MustNot()))
	}
	if NewExpression(nil, nil).IsEmpty() != true {
		t.Error("nil expression should be empty")
	}
}

func TestExpression_ConjunctionAndNegation(t *testing.T) {
	cat, _ := AnyOf([]string{"category"}, []string{"news", "sports"})
	lang, _ := AnyOf([]string{"_language"}, []string{"en"})
	hidden, _ := AnyOf([]string{"status"}, []string{"draft"})

	e := NewExpression([]Clause{cat}, nil).And(NewExpression([]Clause{lang}, []Clause{hidden}))

	if len(e.Must()) != 2 || len(e.MustNot()) != 1 {
		t.Fatalf("must/mustNot = %d/%d, want 2/1", len(e.Must()), len(e.MustNot()))
	}
	if e.Must()[1].Terms()[0].Field() != "_language" || e.MustNot()[0].Terms()[0].Value() != "draft" {
		t.Errorf("clause order not preserved: %+v", e)
	}
}
