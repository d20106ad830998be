// Package projection turns raw engine documents into typed items.
package projection

import (
	"net/url"
	"strings"

	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/raw"
	"github.com/kailas-cloud/solrdex/internal/domain/search/value"
)

// Internal fields the projection lifts into Item.
const (
	fieldName     = "_name"
	fieldFullPath = "_fullpath"
	fieldDatabase = "_database"
	fieldVersion  = "_version"
)

// Item is the default typed result.
type Item struct {
	UniqueID   string         `json:"unique_id"`
	ItemID     string         `json:"item_id,omitempty"`
	Database   string         `json:"database,omitempty"`
	Language   string         `json:"language,omitempty"`
	Version    string         `json:"version,omitempty"`
	Name       string         `json:"name,omitempty"`
	TemplateID string         `json:"template_id,omitempty"`
	Path       string         `json:"path,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// ItemProjector projects raw documents into Item.
type ItemProjector struct{}

// Project implements the typed-projection capability. No requested fields,
// or "*", keeps every non-internal field.
func (ItemProjector) Project(doc raw.Document, fields []string, v mode.Visibility) Item {
	it := Item{}
	it.UniqueID, _ = doc.UniqueID()
	it.Name, _ = doc.String(fieldName)
	it.Path, _ = doc.String(fieldFullPath)
	it.Database, _ = doc.String(fieldDatabase)
	it.Language, _ = doc.String(raw.FieldLanguage)
	it.Version, _ = doc.String(fieldVersion)
	if tpl, ok := doc.String(raw.FieldTemplate); ok {
		it.TemplateID = renderID(tpl)
	}
	applyUniqueID(&it)

	it.Fields = selectFields(doc, fields, v)
	return it
}

func selectFields(doc raw.Document, fields []string, v mode.Visibility) map[string]any {
	if len(fields) == 0 || contains(fields, "*") {
		out := make(map[string]any, len(doc))
		for k, val := range doc {
			if strings.HasPrefix(k, "_") || k == raw.FieldScore {
				continue
			}
			out[k] = val
		}
		return out
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v.Checks() && (f == raw.FieldUniqueID || f == raw.FieldDataSource) {
			continue
		}
		if f == raw.FieldScore {
			continue
		}
		if val, ok := doc[f]; ok {
			out[f] = val
		}
	}
	return out
}

// applyUniqueID fills the item id, database, language and version from a
// unique id of the form sitecore://{db}/{id}?lang={lang}&ver={ver}, keeping
// values already lifted from dedicated fields.
func applyUniqueID(it *Item) {
	u, err := url.Parse(it.UniqueID)
	if err != nil || u.Scheme == "" {
		return
	}
	if it.Database == "" {
		it.Database = u.Host
	}
	if id := strings.Trim(u.Path, "/"); id != "" {
		it.ItemID = renderID(id)
	}
	q := u.Query()
	if it.Language == "" {
		it.Language = q.Get("lang")
	}
	if it.Version == "" {
		it.Version = q.Get("ver")
	}
}

// renderID renders identifiers in their canonical braced form.
func renderID(s string) string {
	n := value.Normalize(s)
	if n.Kind() == value.KindID {
		return n.String()
	}
	if n.Kind() == value.KindShortID {
		return value.Normalize(braced(n.String())).String()
	}
	return s
}

func braced(hex string) string {
	return "{" + hex[0:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:32] + "}"
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
