package lang

import "sync"

// Document is an immutable source text with a lazily computed table of line
// start offsets. It converts between [Position] values and absolute offsets.
//
// Offsets count runes, matching [Position.Col]. A Document is safe for
// concurrent use; the line table is computed at most once.
type Document struct {
	content string

	once  sync.Once
	runes []rune
	lines []int // offset of the first rune of each line
}

// NewDocument returns a Document for content.
func NewDocument(content string) *Document {
	return &Document{content: content}
}

// Content returns the text of the document.
func (d *Document) Content() string { return d.content }

func (d *Document) init() {
	d.once.Do(func() {
		d.runes = []rune(d.content)
		d.lines = lineOffsets(d.runes)
	})
}

// lineOffsets returns the start offset of every line in text. A line break
// is "\n", "\r", or "\r\n"; the last counts once.
func lineOffsets(text []rune) []int {
	offsets := []int{0}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}

			offsets = append(offsets, i+1)

		case '\n':
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// Len returns the length of the document in runes.
func (d *Document) Len() int {
	d.init()

	return len(d.runes)
}

// LineCount returns the number of lines in the document. An empty document
// has one line.
func (d *Document) LineCount() int {
	d.init()

	return len(d.lines)
}

// Line returns the text of the given zero-based row, including its line
// break, or "" if row is out of range.
func (d *Document) Line(row int) string {
	d.init()

	if row < 0 || row >= len(d.lines) {
		return ""
	}

	end := len(d.runes)
	if row+1 < len(d.lines) {
		end = d.lines[row+1]
	}

	return string(d.runes[d.lines[row]:end])
}

// OffsetAt converts a position to an absolute offset.
//
// A row past the last line yields the document length. Otherwise the column
// is clamped so the result stays within the row: it is never less than the
// row's start offset and never greater than the next row's start offset (or
// the document length for the last row).
func (d *Document) OffsetAt(pos Position) int {
	d.init()

	if pos.Row >= len(d.lines) {
		return len(d.runes)
	}

	if pos.Row < 0 {
		return 0
	}

	start := d.lines[pos.Row]

	next := len(d.runes)
	if pos.Row+1 < len(d.lines) {
		next = d.lines[pos.Row+1]
	}

	return max(min(start+pos.Col, next), start)
}

// PositionAt converts an absolute offset to a position. Offsets outside the
// document are clamped to its bounds.
func (d *Document) PositionAt(offset int) Position {
	d.init()

	offset = max(min(offset, len(d.runes)), 0)

	// Rightmost line starting at or before offset.
	lo, hi := 0, len(d.lines)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if d.lines[mid] > offset {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	row := lo - 1

	return Position{Row: row, Col: offset - d.lines[row]}
}

// Slice returns the text between two offsets, clamped to the document.
func (d *Document) Slice(start, end int) string {
	d.init()

	start = max(min(start, len(d.runes)), 0)
	end = max(min(end, len(d.runes)), start)

	return string(d.runes[start:end])
}
