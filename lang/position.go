package lang

import "strconv"

// Position identifies a location in source text.
//
// Row and Col are zero-based. Col counts runes from the start of the row.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Compare returns -1, 0, or +1 depending on whether p is before, equal to,
// or after q.
func (p Position) Compare(q Position) int {
	switch {
	case p.Row < q.Row:
		return -1
	case p.Row > q.Row:
		return 1
	case p.Col < q.Col:
		return -1
	case p.Col > q.Col:
		return 1
	default:
		return 0
	}
}

// String returns the one-based "row:col" form used in messages.
func (p Position) String() string {
	return strconv.Itoa(p.Row+1) + ":" + strconv.Itoa(p.Col+1)
}

// Span is a half-open range of source text. End is one past the last rune.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end"   yaml:"end"`
}

// Empty reports whether s covers no text.
func (s Span) Empty() bool { return s.Start.Compare(s.End) >= 0 }

// String returns "start-end" using [Position.String].
func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// point returns a zero-width span at p.
func point(p Position) Span { return Span{Start: p, End: p} }
