package service

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/jtl/lang"
)

// CompletionKind classifies a [Completion]. Values follow the Language
// Server Protocol numbering.
type CompletionKind uint8

// Completion kinds.
const (
	KindFunction CompletionKind = 3
	KindField    CompletionKind = 5
	KindVariable CompletionKind = 6
	KindStruct   CompletionKind = 22
)

func (k CompletionKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindField:
		return "field"
	case KindVariable:
		return "variable"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Completion is a candidate name at a cursor position.
type Completion struct {
	Label  string         `json:"label"  yaml:"label"`
	Kind   CompletionKind `json:"kind"   yaml:"kind"`
	Detail string         `json:"detail" yaml:"detail"`
}

// Complete returns the names that can be written at position at of source.
//
// Inside an empty tag every global is a candidate. Inside a property path,
// the segments before the one under the cursor are resolved through the
// schema and the fields of the resulting structure are the candidates. When
// the cursor follows a partially written segment, candidates are filtered
// and ranked by fuzzy match against it. Completion is not offered in text,
// in arguments, or when source does not scan.
func Complete(source string, at lang.Position, schema *Schema) []Completion {
	return complete(lang.Analyze(source), at, schema)
}

func complete(p *lang.Parsed, at lang.Position, schema *Schema) []Completion {
	c, ok := locate(p, at)
	if !ok || schema == nil {
		return nil
	}

	var path []string

	switch c.node.Kind {
	case lang.NodeExpression:

	case lang.NodeProperty:
		path = c.path

	default:
		return nil
	}

	candidates, ok := schema.members(path)
	if !ok {
		return nil
	}

	return rank(candidates, c.partial, len(path) == 0)
}

// rank converts candidates to completions, keeping those that fuzzy match
// partial ordered best first. All candidates are kept, in declaration
// order, if partial is empty.
func rank(candidates []member, partial string, global bool) []Completion {
	if partial == "" {
		out := make([]Completion, len(candidates))
		for i, m := range candidates {
			out[i] = completion(m, global)
		}

		return out
	}

	matches := fuzzy.FindFrom(partial, memberSource(candidates))

	out := make([]Completion, len(matches))
	for i, match := range matches {
		out[i] = completion(candidates[match.Index], global)
	}

	return out
}

func completion(m member, global bool) Completion {
	return Completion{
		Label:  m.name,
		Kind:   kindOf(m.typ(), global),
		Detail: m.typ(),
	}
}

func kindOf(typ string, global bool) CompletionKind {
	if typ == TypeFunction {
		return KindFunction
	}

	if _, ok := structName(typ); ok {
		return KindStruct
	}

	if global {
		return KindVariable
	}

	return KindField
}

// memberSource adapts candidates to [fuzzy.Source].
type memberSource []member

func (s memberSource) String(i int) string { return s[i].name }
func (s memberSource) Len() int            { return len(s) }

// cursor is the syntactic context of a position.
type cursor struct {
	node lang.Node
	// path holds the complete segments before the one under the cursor.
	path []string
	// partial is the segment under the cursor, up to the cursor.
	partial string
}

// locate finds the node under at. For a property, the text from the start
// of the property to the cursor is split into the segments before the
// cursor and the partial segment under it.
func locate(p *lang.Parsed, at lang.Position) (cursor, bool) {
	if p == nil || p.Source == nil {
		return cursor{}, false
	}

	doc := p.Document
	offset := doc.OffsetAt(at)

	node, ok := lang.NodeAt(doc, offset, p.Source)
	if !ok {
		return cursor{}, false
	}

	c := cursor{node: node}

	if node.Kind == lang.NodeProperty {
		start := doc.OffsetAt(node.Property.Span.Start)
		if offset < start {
			// Cursor in the whitespace before the property.
			c.node.Kind, c.node.Property = lang.NodeExpression, nil

			return c, true
		}

		typed := strings.Join(strings.Fields(doc.Slice(start, offset)), "")
		parts := strings.Split(typed, ".")

		c.path, c.partial = parts[:len(parts)-1], parts[len(parts)-1]
	}

	return c, true
}
