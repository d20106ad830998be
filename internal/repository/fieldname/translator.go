// Package fieldname maps logical field names to engine field names and back.
package fieldname

import (
	"sort"
	"strings"
)

// DefaultExtensions are the dynamic-field suffixes of the stock Sitecore schema.
var DefaultExtensions = []string{
	"_t", "_s", "_sm", "_b", "_i", "_im", "_l", "_f", "_d", "_dt", "_tdt", "_tl", "_tf", "_ti", "_td", "_dtm",
}

// Config configures a Translator.
type Config struct {
	// KnownExtensions are stripped from engine names and left alone on resolve.
	KnownExtensions []string
	// DefaultExtension is appended to logical names without a known extension.
	DefaultExtension string
	// FieldMap pins logical names to explicit engine names.
	FieldMap map[string]string
}

// Translator implements the field-name translation capability.
type Translator struct {
	extensions []string
	defaultExt string
	fieldMap   map[string]string
}

// New creates a translator. Missing extensions fall back to DefaultExtensions.
func New(cfg Config) *Translator {
	exts := cfg.KnownExtensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	sorted := make([]string, len(exts))
	copy(sorted, exts)
	// Longest first so "_tdt" wins over "_dt".
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	fm := make(map[string]string, len(cfg.FieldMap))
	for k, v := range cfg.FieldMap {
		fm[strings.ToLower(k)] = v
	}
	return &Translator{extensions: sorted, defaultExt: cfg.DefaultExtension, fieldMap: fm}
}

// ResolveFieldName returns the engine name for a logical field name.
func (t *Translator) ResolveFieldName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := t.fieldMap[lower]; ok {
		return mapped
	}
	if strings.HasPrefix(lower, "_") {
		return lower
	}
	lower = strings.ReplaceAll(lower, " ", "_")
	if t.extension(lower) != "" {
		return lower
	}
	return lower + t.defaultExt
}

// StripDecorations removes known extensions and joins multiple names with "/".
func (t *Translator) StripDecorations(names ...string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if ext := t.extension(n); ext != "" {
			n = n[:len(n)-len(ext)]
		}
		out = append(out, n)
	}
	return strings.Join(out, "/")
}

// IsDecorated reports whether name is already an engine name: it carries a
// known extension or is an internal underscore-prefixed field.
func (t *Translator) IsDecorated(name string) bool {
	return strings.HasPrefix(name, "_") || t.extension(name) != ""
}

// HasFieldConfiguration reports whether name has an explicit mapping.
func (t *Translator) HasFieldConfiguration(name string) bool {
	_, ok := t.fieldMap[strings.ToLower(name)]
	return ok
}

func (t *Translator) extension(name string) string {
	for _, ext := range t.extensions {
		if len(name) > len(ext) && strings.HasSuffix(name, ext) {
			return ext
		}
	}
	return ""
}
