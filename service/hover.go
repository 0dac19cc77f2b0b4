package service

import (
	"strings"

	"github.com/ardnew/jtl/lang"
)

// Tooltip describes the property segment under a cursor.
type Tooltip struct {
	// Path is the property path up to and including the segment under the
	// cursor.
	Path        string         `json:"path"                  yaml:"path"`
	Kind        CompletionKind `json:"kind"                  yaml:"kind"`
	Type        string         `json:"type"                  yaml:"type"`
	Description []string       `json:"description,omitempty" yaml:"description,omitempty"`
	Span        lang.Span      `json:"span"                  yaml:"span"`
}

func (t Tooltip) String() string {
	var b strings.Builder

	b.WriteString(t.Path)
	b.WriteString(": ")
	b.WriteString(t.Type)

	for _, line := range t.Description {
		b.WriteString("\n")
		b.WriteString(line)
	}

	return b.String()
}

// Hover resolves the property segment under position at of source through
// the schema. It reports false if the cursor is not on a property segment or
// the schema does not declare it.
func Hover(source string, at lang.Position, schema *Schema) (Tooltip, bool) {
	return hover(lang.Analyze(source), at, schema)
}

func hover(p *lang.Parsed, at lang.Position, schema *Schema) (Tooltip, bool) {
	c, ok := locate(p, at)
	if !ok || schema == nil || c.node.Kind != lang.NodeProperty {
		return Tooltip{}, false
	}

	prop := c.node.Property

	index := len(c.path)
	if index >= len(prop.Segments) {
		// Cursor just after a trailing '.'.
		return Tooltip{}, false
	}

	path := prop.Segments[:index+1]

	m, ok := schema.lookup(path)
	if !ok {
		return Tooltip{}, false
	}

	var desc []string
	if len(m.types) > 1 {
		desc = m.types[1:]
	}

	return Tooltip{
		Path:        strings.Join(path, "."),
		Kind:        kindOf(m.typ(), index == 0),
		Type:        m.typ(),
		Description: desc,
		Span:        prop.Span,
	}, true
}
