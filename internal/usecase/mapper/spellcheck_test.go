package mapper

import (
	"testing"

	"github.com/kailas-cloud/solrdex/internal/db"
)

func TestCollation(t *testing.T) {
	withAlternatives := []db.Suggestion{{Term: "helo", NumFound: 1, Alternatives: []string{"hello"}}}
	tests := []struct {
		name   string
		sc     *db.SpellCheck
		legacy bool
		want   string
	}{
		{"nil", nil, false, ""},
		{"empty collation", &db.SpellCheck{Suggestions: withAlternatives}, false, ""},
		{"collation with suggestion", &db.SpellCheck{Collation: "hello", Suggestions: withAlternatives}, false, "hello"},
		{"only correctly-spelled marker", &db.SpellCheck{Collation: "hello", CorrectlySpelled: true}, false, ""},
		{"suggestion without alternatives", &db.SpellCheck{Collation: "hello", Suggestions: []db.Suggestion{{Term: "helo"}}}, false, ""},
		{"legacy fallback", &db.SpellCheck{Collation: `_content:(hello world)`}, true, "hello worl"},
		{"legacy not needed", &db.SpellCheck{Collation: "hello", Suggestions: withAlternatives}, true, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collation(tt.sc, tt.legacy); got != tt.want {
				t.Errorf("collation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLegacyCollation(t *testing.T) {
	tests := []struct{ in, want string }{
		{`_content:(helo)`, "hel"},
		{`title_t:"hello there"`, "hello ther"},
		{"no delimiter", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := LegacyCollation(tt.in); got != tt.want {
			t.Errorf("LegacyCollation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
