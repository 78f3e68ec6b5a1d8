package notice

import (
	"strings"

	"github.com/clbanning/mxj/v2"
)

// RawDocument is the generic tree parsed from one notice XML file. It lives
// only for the duration of one normalization call.
type RawDocument map[string]any

// Parse decodes raw XML into a RawDocument, unwrapping the single root
// element so notice fields sit at the top level of the map.
func Parse(data []byte) (RawDocument, error) {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, err
	}
	tree := map[string]any(m)
	if len(tree) == 1 {
		for _, v := range tree {
			if inner, ok := v.(map[string]any); ok {
				return RawDocument(inner), nil
			}
		}
	}
	return RawDocument(tree), nil
}

// Lookup descends the tree along a dot-separated path. When a step lands on
// a list, the first element is taken; documents with multi-part award
// blocks are split into per-part sub-documents before field resolution, so
// by then lists on resolver paths are single-element anyway.
func (d RawDocument) Lookup(path string) (any, bool) {
	var node any = map[string]any(d)
	for _, step := range strings.Split(path, ".") {
		if list, ok := node.([]any); ok {
			if len(list) == 0 {
				return nil, false
			}
			node = list[0]
		}
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[step]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// Text resolves the path to its trimmed text content, or "" when the path
// is absent or not a scalar.
func (d RawDocument) Text(path string) string {
	v, ok := d.Lookup(path)
	if !ok {
		return ""
	}
	return scalarText(v)
}

// scalarText extracts text from a leaf value. Leaves carrying XML
// attributes come out of the parser as maps with a "#text" key.
func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if inner, ok := t["#text"]; ok {
			return scalarText(inner)
		}
	case []any:
		if len(t) > 0 {
			return scalarText(t[0])
		}
	}
	return ""
}

// asList normalizes the object-or-list polymorphism of the source schema:
// a single element parses as a map, repeated elements as a slice.
func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case nil:
		return nil
	default:
		return []any{t}
	}
}
