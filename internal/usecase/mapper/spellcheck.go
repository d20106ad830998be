package mapper

import (
	"regexp"

	"github.com/kailas-cloud/solrdex/internal/db"
)

// legacyCollationRe pulls the corrected text out of a rewritten query such
// as `_content:("helo wrld")`.
var legacyCollationRe = regexp.MustCompile(`(?i):[("](.*)[^*")]`)

// collation returns the corrected query when the engine both collated and
// proposed at least one real alternative. With legacy enabled, a raw
// collation that fails that check is parsed by LegacyCollation instead.
func collation(sc *db.SpellCheck, legacy bool) string {
	if sc == nil || sc.Collation == "" {
		return ""
	}
	for _, s := range sc.Suggestions {
		if len(s.Alternatives) > 0 {
			return sc.Collation
		}
	}
	if legacy {
		return LegacyCollation(sc.Collation)
	}
	return ""
}

// LegacyCollation extracts text from a raw collation string: everything after
// the first ':(' or ':"' up to, and excluding, the last character that is not
// '*', '"' or ')'. The final character is dropped, so results can differ from
// the structured collation. It returns "" when nothing matches.
func LegacyCollation(raw string) string {
	m := legacyCollationRe.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
