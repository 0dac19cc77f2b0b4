package lang

import (
	"reflect"
	"sync"
	"testing"
)

const mixedBreaks = "ab\ncd\r\nef\rgh"

func TestDocument_Lines(t *testing.T) {
	doc := NewDocument(mixedBreaks)

	doc.init()

	if want := []int{0, 3, 7, 10}; !reflect.DeepEqual(doc.lines, want) {
		t.Errorf("line offsets = %v, want %v", doc.lines, want)
	}

	if got := doc.LineCount(); got != 4 {
		t.Errorf("LineCount() = %d, want 4", got)
	}

	if got := doc.Len(); got != 12 {
		t.Errorf("Len() = %d, want 12", got)
	}

	lines := []string{"ab\n", "cd\r\n", "ef\r", "gh", ""}
	for row, want := range lines {
		if got := doc.Line(row); got != want {
			t.Errorf("Line(%d) = %q, want %q", row, got, want)
		}
	}
}

func TestDocument_OffsetAt(t *testing.T) {
	doc := NewDocument(mixedBreaks)

	tests := []struct {
		pos  Position
		want int
	}{
		{pos(0, 0), 0},
		{pos(0, 2), 2},
		{pos(0, 5), 3},
		{pos(1, 1), 4},
		{pos(1, -5), 3},
		{pos(2, 0), 7},
		{pos(3, 2), 12},
		{pos(3, 9), 12},
		{pos(4, 0), 12},
		{pos(-1, 3), 0},
	}

	for _, tt := range tests {
		if got := doc.OffsetAt(tt.pos); got != tt.want {
			t.Errorf("OffsetAt(%+v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestDocument_PositionAt(t *testing.T) {
	doc := NewDocument(mixedBreaks)

	tests := []struct {
		offset int
		want   Position
	}{
		{0, pos(0, 0)},
		{2, pos(0, 2)},
		{3, pos(1, 0)},
		{6, pos(1, 3)},
		{7, pos(2, 0)},
		{10, pos(3, 0)},
		{12, pos(3, 2)},
		{99, pos(3, 2)},
		{-1, pos(0, 0)},
	}

	for _, tt := range tests {
		if got := doc.PositionAt(tt.offset); got != tt.want {
			t.Errorf("PositionAt(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}
}

func TestDocument_RoundTrip(t *testing.T) {
	inputs := []string{"", "x", mixedBreaks, "\n\n", "\r\r\n", "héllo\nwörld"}

	for _, input := range inputs {
		doc := NewDocument(input)

		prev := -1
		for off := 0; off <= doc.Len(); off++ {
			p := doc.PositionAt(off)

			got := doc.OffsetAt(p)
			if got != off {
				t.Errorf("%q: OffsetAt(PositionAt(%d)) = %d", input, off, got)
			}

			if got <= prev {
				t.Errorf("%q: offsets not increasing at %d", input, off)
			}

			prev = got
		}
	}
}

func TestDocument_ScannerAgreement(t *testing.T) {
	// Token positions and document positions use the same line model.
	input := "a\r\n{b}\rc\n{d.e}"
	doc := NewDocument(input)

	tokens, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	runes := []rune(input)

	for _, tok := range tokens {
		start := doc.OffsetAt(tok.Span.Start)
		end := doc.OffsetAt(tok.Span.End)

		got := string(runes[start:end])
		if tok.Kind == TokenString {
			got = got[1 : len(got)-1]
		}

		if got != tok.Text {
			t.Errorf("token %v covers %q", tok, got)
		}
	}
}

func TestDocument_Empty(t *testing.T) {
	doc := NewDocument("")

	if got := doc.LineCount(); got != 1 {
		t.Errorf("LineCount() = %d, want 1", got)
	}

	if got := doc.PositionAt(0); got != pos(0, 0) {
		t.Errorf("PositionAt(0) = %+v", got)
	}

	if got := doc.OffsetAt(pos(0, 5)); got != 0 {
		t.Errorf("OffsetAt(0:5) = %d, want 0", got)
	}
}

func TestDocument_Slice(t *testing.T) {
	doc := NewDocument(mixedBreaks)

	tests := []struct {
		start, end int
		want       string
	}{
		{3, 5, "cd"},
		{-3, 2, "ab"},
		{10, 99, "gh"},
		{5, 2, ""},
	}

	for _, tt := range tests {
		if got := doc.Slice(tt.start, tt.end); got != tt.want {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestDocument_Concurrent(t *testing.T) {
	doc := NewDocument(mixedBreaks)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func(off int) {
			defer wg.Done()

			if got := doc.OffsetAt(doc.PositionAt(off % 13)); got != off%13 {
				t.Errorf("round trip of %d = %d", off%13, got)
			}
		}(i)
	}

	wg.Wait()
}
