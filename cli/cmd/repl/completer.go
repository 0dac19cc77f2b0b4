package repl

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/service"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reload", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, and template punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '{', '}', '|', ';', '"':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// parentPath returns the dot-separated prefix path leading up to the current
// word, considering only the contiguous member-access chain. For input
// "{a|server.http.ho" with the word "ho", the parent path is "server.http".
// Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	// Walk backward collecting dots and identifier characters. Stop at the
	// first non-dot word boundary.
	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:end])
}

// byteOffset converts a rune index of s to a byte offset.
func byteOffset(s string, runes int) int {
	off := 0

	for i := 0; i < runes && off < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}

	return off
}

// template returns the template text for a line of input and the position
// of a cursor at rune index col. Input that contains no tag is a bare
// expression and is enclosed in braces.
func template(input string, col int) (string, lang.Position) {
	if strings.ContainsRune(input, '{') {
		return input, lang.Position{Col: col}
	}

	return "{" + input + "}", lang.Position{Col: col + 1}
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the kind of each
// candidate by name, and the word boundaries. When the current word is empty
// at the top level, it returns nil matches. When the word is empty after a
// dot (member access), it returns all members as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	kinds map[string]service.CompletionKind,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	col := m.input.Position()

	word, ws, we := wordBounds(input, byteOffset(input, col))
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		return fuzzy.Find(word, ctrlCommands), nil, wordStart, wordEnd
	}

	parent := parentPath(input, wordStart)

	// When the word is empty at the top level, don't show completions
	// (allows the hint text to be visible). After a dot, show all members
	// immediately so the user can browse them.
	if word == "" && parent == "" {
		return nil, nil, wordStart, wordEnd
	}

	text, at := template(input, col)

	items := service.Complete(text, at, m.schema)
	if len(items) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	labels := make([]string, len(items))
	kinds = make(map[string]service.CompletionKind, len(items))

	for i, item := range items {
		labels[i] = item.Label
		kinds[item.Label] = item.Kind
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(labels))
		for i, label := range labels {
			matches[i] = fuzzy.Match{Str: label, Index: i}
		}

		return matches, kinds, wordStart, wordEnd
	}

	return fuzzy.Find(word, labels), kinds, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	kinds map[string]service.CompletionKind,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, kinds[match.Str], selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix and structures
// with a "." suffix; neither is inserted on completion.
func renderCandidate(match fuzzy.Match, kind service.CompletionKind, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	switch kind {
	case service.KindFunction:
		b.WriteString(baseStyle.Render("()"))
	case service.KindStruct:
		b.WriteString(baseStyle.Render("."))
	}

	return b.String()
}

// hoverHint describes the property under the cursor, or returns "".
func (m model) hoverHint() string {
	text, at := template(m.input.Value(), m.input.Position())

	tip, ok := service.Hover(text, at, m.schema)
	if !ok {
		return ""
	}

	hint := tip.Path + ": " + tip.Type
	if len(tip.Description) > 0 {
		hint += "  " + strings.Join(tip.Description, " ")
	}

	return hint
}

// formatPreview describes a global value for the list command.
func formatPreview(v lang.Value) string {
	switch v := v.(type) {
	case lang.String:
		s := []rune(string(v))
		if len(s) > 40 {
			s = append(s[:37], []rune("...")...)
		}

		return "= " + strconv.Quote(string(s))

	case lang.Integer:
		return "= " + v.String()

	case lang.Object:
		return "{ " + itemCount(len(v)) + " }"

	case lang.Function:
		return "()"

	default:
		return "<none>"
	}
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}

	return strconv.Itoa(n) + " items"
}
