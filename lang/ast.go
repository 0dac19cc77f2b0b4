package lang

import "strings"

// Source is the root of a syntax tree: the top-level statements of a source
// text in the order they appear.
//
// Statements are appended in parse order, so their start positions are
// non-decreasing. [NodeAt] relies on this to binary search them.
type Source struct {
	Statements []Statement
	Span       Span
}

// Statement is either a [*TextStatement] or a [*TagStatement].
type Statement interface {
	Range() Span
	statement()
}

// TextStatement is literal text rendered verbatim.
type TextStatement struct {
	Value string
	Span  Span
}

// TagStatement is a {...} tag.
type TagStatement struct {
	Expression Expression
	Span       Span
}

func (s *TextStatement) Range() Span { return s.Span }
func (s *TagStatement) Range() Span  { return s.Span }

func (*TextStatement) statement() {}
func (*TagStatement) statement()  {}

// Expression is the content of a tag. Either part may be absent when the
// parser recovered from malformed input. Span covers the subject and
// arguments; it is empty, just after the opening brace, when both are absent.
type Expression struct {
	Subject   Subject
	Arguments []Argument
	Span      Span
}

// Subject is the value a tag projects: a [*Property] or an [*IntLiteral].
type Subject interface {
	Range() Span
	subject()
}

// Argument is a call argument: a [*StringLiteral], an [*IntLiteral], or a
// [*Property].
type Argument interface {
	Range() Span
	argument()
}

// Property is a dotted path of identifiers, e.g. guild.meta.name.
// Segments is never empty.
type Property struct {
	Segments []string
	Span     Span
}

// IntLiteral is an unsigned 32-bit integer literal.
type IntLiteral struct {
	Value uint32
	Span  Span
}

// StringLiteral is a double-quoted string literal.
type StringLiteral struct {
	Value string
	Span  Span
}

func (p *Property) Range() Span      { return p.Span }
func (l *IntLiteral) Range() Span    { return l.Span }
func (l *StringLiteral) Range() Span { return l.Span }

func (*Property) subject()   {}
func (*IntLiteral) subject() {}

func (*Property) argument()      {}
func (*IntLiteral) argument()    {}
func (*StringLiteral) argument() {}

// Path returns the dotted form of the property.
func (p *Property) Path() string { return strings.Join(p.Segments, ".") }

// Severity is the importance of a [Diagnostic]. Values follow the Language
// Server Protocol numbering.
type Severity uint8

// Severities.
const (
	SeverityError       Severity = iota + 1 // error
	SeverityWarning                         // warning
	SeverityInformation                     // information
	SeverityHint                            // hint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is a finding about malformed source text.
type Diagnostic struct {
	Message  string   `json:"message"  yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
	Span     Span     `json:"span"     yaml:"span"`
}

func (d Diagnostic) String() string {
	return d.Span.Start.String() + ": " + d.Message
}
