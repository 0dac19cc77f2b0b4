package repl

import (
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/service"
)

func TestWordBounds_TemplatePunctuation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_brace", "hi {fo", 6, "fo", 4, 6},
		{"after_pipe", "{f|ba", 5, "ba", 3, 5},
		{"after_semicolon", "{f|a;ba", 7, "ba", 5, 7},
		{"inside_string", `{f|"ba`, 6, "ba", 4, 6},
		{"empty_at_boundary", "{f|", 3, "", 3, 3},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"cursor_past_end", "foo", 9, "foo", 0, 3},
		// Hyphens and underscores are part of names.
		{"hyphenated", "log-pretty", 10, "log-pretty", 0, 10},
		{"underscored_after_dot", "env.HOME_DIR", 12, "HOME_DIR", 4, 12},
		// After dot is an empty word (for triggering member completions).
		{"empty_after_dot", "guild.", 6, "", 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"partial_member", "bar.ba", 4, "bar"},
		{"after_brace", "x {bar.baz.", 11, "bar.baz"},
		{"after_pipe", "{f|bar.", 7, "bar"},
		{"no_chain", "{f|", 3, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"hyphenated_chain", "config.log-pretty.", 18, "config.log-pretty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestByteOffset(t *testing.T) {
	tests := []struct {
		s     string
		runes int
		want  int
	}{
		{"abc", 0, 0},
		{"abc", 2, 2},
		{"abc", 5, 3},
		{"héllo", 2, 3},
		{"日本", 1, 3},
	}

	for _, tt := range tests {
		if got := byteOffset(tt.s, tt.runes); got != tt.want {
			t.Errorf("byteOffset(%q, %d) = %d, want %d", tt.s, tt.runes, got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	tests := []struct {
		input    string
		col      int
		wantText string
		wantCol  int
	}{
		{"guild.name", 6, "{guild.name}", 7},
		{"", 0, "{}", 1},
		{"hi {guild.}", 10, "hi {guild.}", 10},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			text, at := template(tt.input, tt.col)
			if text != tt.wantText || at != (lang.Position{Col: tt.wantCol}) {
				t.Errorf("template(%q, %d) = (%q, %v), want (%q, 0:%d)",
					tt.input, tt.col, text, at, tt.wantText, tt.wantCol)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Matches{
		{Str: "name", Index: 0},
		{Str: "saymore", Index: 1},
		{Str: "meta", Index: 2},
	}
	kinds := map[string]service.CompletionKind{
		"name":    service.KindField,
		"saymore": service.KindFunction,
		"meta":    service.KindStruct,
	}

	bar := renderCandidateBar(matches, kinds, -1, false, 80)

	for _, want := range []string{"n", "saymore", "()", "meta", "."} {
		if !strings.Contains(bar, want) {
			t.Errorf("bar %q does not contain %q", bar, want)
		}
	}

	if narrow := renderCandidateBar(matches, kinds, -1, false, 12); !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar %q is not ellipsized", narrow)
	}

	if empty := renderCandidateBar(nil, kinds, -1, false, 80); empty != "" {
		t.Errorf("empty bar = %q", empty)
	}
}

func TestFormatPreview(t *testing.T) {
	tests := []struct {
		name  string
		value lang.Value
		want  string
	}{
		{"string", lang.String("hi"), `= "hi"`},
		{"integer", lang.Integer(7), "= 7"},
		{"object", lang.Object{"a": lang.String("")}, "{ 1 item }"},
		{"objects", lang.Object{"a": lang.String(""), "b": lang.String("")}, "{ 2 items }"},
		{"function", lang.Function(func(...lang.Value) (lang.Value, error) { return nil, nil }), "()"},
		{"none", nil, "<none>"},
		{"long", lang.String(strings.Repeat("x", 50)), `= "` + strings.Repeat("x", 37) + `..."`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPreview(tt.value); got != tt.want {
				t.Errorf("formatPreview = %q, want %q", got, tt.want)
			}
		})
	}
}
