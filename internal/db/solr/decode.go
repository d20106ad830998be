package solr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/raw"
)

type selectEnvelope struct {
	Response *struct {
		NumFound int            `json:"numFound"`
		Start    int            `json:"start"`
		Docs     []raw.Document `json:"docs"`
	} `json:"response"`
	Grouped     json.RawMessage `json:"grouped"`
	FacetCounts *struct {
		FacetFields json.RawMessage `json:"facet_fields"`
		FacetPivot  json.RawMessage `json:"facet_pivot"`
		FacetRanges json.RawMessage `json:"facet_ranges"`
	} `json:"facet_counts"`
	Highlighting map[string]map[string][]string `json:"highlighting"`
	SpellCheck   *struct {
		Suggestions      json.RawMessage `json:"suggestions"`
		Collations       json.RawMessage `json:"collations"`
		CorrectlySpelled *bool           `json:"correctlySpelled"`
	} `json:"spellcheck"`
}

type groupJSON struct {
	Matches int  `json:"matches"`
	NGroups *int `json:"ngroups"`
	Groups  []struct {
		GroupValue any `json:"groupValue"`
		DocList    struct {
			NumFound int            `json:"numFound"`
			Docs     []raw.Document `json:"docs"`
		} `json:"doclist"`
	} `json:"groups"`
}

type pivotJSON struct {
	Field string      `json:"field"`
	Value any         `json:"value"`
	Count int         `json:"count"`
	Pivot []pivotJSON `json:"pivot"`
}

type suggestionJSON struct {
	NumFound   int               `json:"numFound"`
	Suggestion []json.RawMessage `json:"suggestion"`
}

// pair is one entry of a Solr named list.
type pair struct {
	key   string
	value json.RawMessage
}

// unmarshal decodes with json.Number so long fields keep every digit.
func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v) //nolint:wrapcheck // callers add context
}

func decodeSelect(body []byte) (*db.SelectResponse, error) {
	var env selectEnvelope
	if err := unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode select: %w", err)
	}

	out := &db.SelectResponse{Highlighting: env.Highlighting}
	if env.Response != nil {
		out.NumFound = env.Response.NumFound
		out.Start = env.Response.Start
		out.Docs = env.Response.Docs
	}

	var err error
	if out.Grouped, err = decodeGrouped(env.Grouped); err != nil {
		return nil, err
	}
	if env.FacetCounts != nil {
		if out.FacetFields, err = decodeFacetFields(env.FacetCounts.FacetFields); err != nil {
			return nil, err
		}
		if out.FacetPivots, err = decodePivots(env.FacetCounts.FacetPivot); err != nil {
			return nil, err
		}
		if out.FacetRanges, err = decodeRanges(env.FacetCounts.FacetRanges); err != nil {
			return nil, err
		}
	}
	if env.SpellCheck != nil {
		sc, err := decodeSpellCheck(env.SpellCheck.Suggestions, env.SpellCheck.Collations)
		if err != nil {
			return nil, err
		}
		if env.SpellCheck.CorrectlySpelled != nil {
			sc.CorrectlySpelled = *env.SpellCheck.CorrectlySpelled
		}
		out.SpellCheck = sc
	}
	return out, nil
}

func decodeGrouped(data json.RawMessage) ([]db.GroupField, error) {
	pairs, err := objectPairs(data)
	if err != nil {
		return nil, fmt.Errorf("decode grouped: %w", err)
	}
	out := make([]db.GroupField, 0, len(pairs))
	for _, p := range pairs {
		var g groupJSON
		if err := unmarshal(p.value, &g); err != nil {
			return nil, fmt.Errorf("decode group %q: %w", p.key, err)
		}
		gf := db.GroupField{Field: p.key, Matches: g.Matches, NGroups: g.NGroups}
		for _, grp := range g.Groups {
			gf.Groups = append(gf.Groups, db.Group{
				Value:    valueString(grp.GroupValue),
				NumFound: grp.DocList.NumFound,
				Docs:     grp.DocList.Docs,
			})
		}
		out = append(out, gf)
	}
	return out, nil
}

func decodeFacetFields(data json.RawMessage) ([]db.FacetField, error) {
	pairs, err := objectPairs(data)
	if err != nil {
		return nil, fmt.Errorf("decode facet_fields: %w", err)
	}
	out := make([]db.FacetField, 0, len(pairs))
	for _, p := range pairs {
		buckets, err := decodeBuckets(p.value)
		if err != nil {
			return nil, fmt.Errorf("decode facet %q: %w", p.key, err)
		}
		out = append(out, db.FacetField{Name: p.key, Buckets: buckets})
	}
	return out, nil
}

func decodeRanges(data json.RawMessage) ([]db.FacetField, error) {
	pairs, err := objectPairs(data)
	if err != nil {
		return nil, fmt.Errorf("decode facet_ranges: %w", err)
	}
	out := make([]db.FacetField, 0, len(pairs))
	for _, p := range pairs {
		var r struct {
			Counts json.RawMessage `json:"counts"`
		}
		if err := unmarshal(p.value, &r); err != nil {
			return nil, fmt.Errorf("decode range %q: %w", p.key, err)
		}
		buckets, err := decodeBuckets(r.Counts)
		if err != nil {
			return nil, fmt.Errorf("decode range %q: %w", p.key, err)
		}
		out = append(out, db.FacetField{Name: p.key, Buckets: buckets})
	}
	return out, nil
}

func decodePivots(data json.RawMessage) ([]db.PivotField, error) {
	pairs, err := objectPairs(data)
	if err != nil {
		return nil, fmt.Errorf("decode facet_pivot: %w", err)
	}
	out := make([]db.PivotField, 0, len(pairs))
	for _, p := range pairs {
		var nodes []pivotJSON
		if err := unmarshal(p.value, &nodes); err != nil {
			return nil, fmt.Errorf("decode pivot %q: %w", p.key, err)
		}
		out = append(out, db.PivotField{Name: p.key, Nodes: convertPivots(nodes)})
	}
	return out, nil
}

func convertPivots(in []pivotJSON) []db.PivotNode {
	if len(in) == 0 {
		return nil
	}
	out := make([]db.PivotNode, len(in))
	for i, n := range in {
		out[i] = db.PivotNode{
			Field:    n.Field,
			Value:    valueString(n.Value),
			Count:    n.Count,
			Children: convertPivots(n.Pivot),
		}
	}
	return out
}

func decodeSpellCheck(suggestions, collations json.RawMessage) (*db.SpellCheck, error) {
	sc := &db.SpellCheck{}

	pairs, err := namedList(suggestions)
	if err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	for _, p := range pairs {
		switch p.key {
		case "collation":
			if c := collationString(p.value); c != "" && sc.Collation == "" {
				sc.Collation = c
			}
		case "correctlySpelled":
			_ = unmarshal(p.value, &sc.CorrectlySpelled)
		default:
			var s suggestionJSON
			if err := unmarshal(p.value, &s); err != nil {
				return nil, fmt.Errorf("decode suggestion %q: %w", p.key, err)
			}
			sc.Suggestions = append(sc.Suggestions, db.Suggestion{
				Term:         p.key,
				NumFound:     s.NumFound,
				Alternatives: alternatives(s.Suggestion),
			})
		}
	}

	pairs, err = namedList(collations)
	if err != nil {
		return nil, fmt.Errorf("decode collations: %w", err)
	}
	for _, p := range pairs {
		if p.key != "collation" {
			continue
		}
		if c := collationString(p.value); c != "" {
			sc.Collation = c
			break
		}
	}
	return sc, nil
}

// collationString accepts both the plain and the extended collation form.
func collationString(v json.RawMessage) string {
	var s string
	if unmarshal(v, &s) == nil {
		return s
	}
	var ext struct {
		CollationQuery string `json:"collationQuery"`
	}
	if unmarshal(v, &ext) == nil {
		return ext.CollationQuery
	}
	return ""
}

// alternatives accepts both plain words and extended {word, freq} objects.
func alternatives(in []json.RawMessage) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		var s string
		if unmarshal(v, &s) == nil {
			out = append(out, s)
			continue
		}
		var ext struct {
			Word string `json:"word"`
		}
		if unmarshal(v, &ext) == nil && ext.Word != "" {
			out = append(out, ext.Word)
		}
	}
	return out
}

func decodeBuckets(data json.RawMessage) ([]db.Bucket, error) {
	pairs, err := namedList(data)
	if err != nil {
		return nil, err
	}
	out := make([]db.Bucket, 0, len(pairs))
	for _, p := range pairs {
		var n int
		if err := unmarshal(p.value, &n); err != nil {
			return nil, fmt.Errorf("bucket %q: %w", p.key, err)
		}
		out = append(out, db.Bucket{Value: p.key, Count: n})
	}
	return out, nil
}

// namedList decodes a Solr named list in any json.nl style: flat
// alternating array, array of pairs, or object.
func namedList(data json.RawMessage) ([]pair, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] == '{' {
		return objectPairs(data)
	}

	var items []json.RawMessage
	if err := unmarshal(data, &items); err != nil {
		return nil, err
	}
	if len(items) > 0 && bytes.HasPrefix(bytes.TrimSpace(items[0]), []byte("[")) {
		out := make([]pair, 0, len(items))
		for _, it := range items {
			var kv []json.RawMessage
			if err := unmarshal(it, &kv); err != nil || len(kv) != 2 {
				return nil, errors.New("malformed named list pair")
			}
			var k string
			if err := unmarshal(kv[0], &k); err != nil {
				return nil, fmt.Errorf("named list key: %w", err)
			}
			out = append(out, pair{key: k, value: kv[1]})
		}
		return out, nil
	}
	if len(items)%2 != 0 {
		return nil, errors.New("named list has odd length")
	}
	out := make([]pair, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		var k string
		if err := unmarshal(items[i], &k); err != nil {
			return nil, fmt.Errorf("named list key: %w", err)
		}
		out = append(out, pair{key: k, value: items[i+1]})
	}
	return out, nil
}

// objectPairs decodes a JSON object keeping member order.
func objectPairs(data json.RawMessage) ([]pair, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected object")
	}
	var out []pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("expected object key")
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, pair{key: key, value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
