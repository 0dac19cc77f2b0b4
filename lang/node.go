package lang

import "sort"

// NodeKind classifies the syntax element found under a cursor.
type NodeKind uint8

// Node kinds.
const (
	NodeText       NodeKind = iota + 1 // literal text
	NodeExpression                     // a tag without a subject, e.g. {}
	NodeProperty                       // the property path of a tag
)

func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeExpression:
		return "expression"
	case NodeProperty:
		return "property"
	default:
		return "none"
	}
}

// Node is the syntax element under a cursor, as found by [NodeAt].
type Node struct {
	Kind NodeKind

	// Statement is the top-level statement containing the cursor.
	Statement Statement
	// Property is set when Kind is NodeProperty.
	Property *Property
}

// NodeAt returns the node of src under the cursor at offset, where doc is
// the document src was parsed from.
//
// A statement contains offset when offset is in (start, end], so a cursor
// placed just after a character belongs to that character's statement. For a
// tag, NodeAt reports the property if the cursor is within the property path,
// or the expression if the tag has no subject. A cursor in the argument
// region of a tag, or on an integer subject, yields no node.
func NodeAt(doc *Document, offset int, src *Source) (Node, bool) {
	if src == nil {
		return Node{}, false
	}

	stmts := src.Statements

	// Statements are sorted by start, so the candidate is the rightmost one
	// that starts strictly before offset.
	i := sort.Search(len(stmts), func(i int) bool {
		return doc.OffsetAt(stmts[i].Range().Start) >= offset
	}) - 1
	if i < 0 {
		return Node{}, false
	}

	stmt := stmts[i]
	span := stmt.Range()

	if offset <= doc.OffsetAt(span.Start) || offset > doc.OffsetAt(span.End) {
		return Node{}, false
	}

	switch s := stmt.(type) {
	case *TextStatement:
		return Node{Kind: NodeText, Statement: s}, true

	case *TagStatement:
		switch subj := s.Expression.Subject.(type) {
		case nil:
			return Node{Kind: NodeExpression, Statement: s}, true

		case *Property:
			if offset > doc.OffsetAt(subj.Span.End) {
				return Node{}, false
			}

			return Node{Kind: NodeProperty, Statement: s, Property: subj}, true

		case *IntLiteral:
			return Node{}, false
		}
	}

	return Node{}, false
}
