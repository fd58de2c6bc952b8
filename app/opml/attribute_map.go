package opml

import (
	"strings"
)

// AttributeMap maps canonicalized OPML attribute names to internal field
// names. Keys are always stored canonical (uppercase, whitespace runs
// collapsed to a single underscore), so "xml url" and "XML_URL" address
// the same entry.
type AttributeMap map[string]string

// DefaultAttributeMap returns the attribute vocabulary understood by
// common feed-reader OPML exports (Feedly, podcast apps). The set is
// part of the import contract; callers may extend it with Set before
// parsing.
func DefaultAttributeMap() AttributeMap {
	return AttributeMap{
		"ID":          "id",
		"TYPE":        "type",
		"URL":         "url",
		"TEXT":        "text",
		"TITLE":       "title",
		"XMLURL":      "xml_url",
		"HTMLURL":     "html_url",
		"DESCRIPTION": "description",
		"LANGUAGE":    "language",
		"TARGET":      "target",
		"VERSION":     "version",
		"CATEGORY":    "category",
		"CREATED":     "created",
		"BITRATE":     "bitrate",
		"DURATION":    "duration",
		"ENCLOSURE":   "enclosure",
		"WIDTH":       "width",
		"HEIGHT":      "height",
		"KEYWORDS":    "keywords",
		"RATING":      "rating",
	}
}

// Set registers a mapping from a raw attribute name to an internal field
// name. When internal is omitted the field name is derived by
// lowercasing the canonical raw name.
func (m AttributeMap) Set(raw string, internal ...string) {
	key := CanonicalAttributeName(raw)
	if key == "" {
		return
	}

	if len(internal) > 0 && internal[0] != "" {
		m[key] = internal[0]
		return
	}
	m[key] = strings.ToLower(key)
}

// Unset removes a mapping under the same canonicalization rules as Set.
func (m AttributeMap) Unset(raw string) {
	delete(m, CanonicalAttributeName(raw))
}

// Mappings returns a copy of the current table.
func (m AttributeMap) Mappings() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy so parse calls can share a base
// table without observing each other's mutations.
func (m AttributeMap) Clone() AttributeMap {
	return AttributeMap(m.Mappings())
}

// CanonicalAttributeName normalizes a raw attribute name: trimmed,
// uppercased, internal whitespace runs replaced with a single
// underscore.
func CanonicalAttributeName(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	return strings.ToUpper(strings.Join(fields, "_"))
}
