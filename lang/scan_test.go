package lang

import (
	"errors"
	"testing"
)

func pos(row, col int) Position { return Position{Row: row, Col: col} }

func span(r0, c0, r1, c1 int) Span {
	return Span{Start: pos(r0, c0), End: pos(r1, c1)}
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}

	return out
}

func equalKinds(a, b []TokenKind) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestScan_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenKind{},
		},
		{
			name:  "text only",
			input: "hello, world",
			want:  []TokenKind{TokenText},
		},
		{
			name:  "leading whitespace",
			input: " hello",
			want:  []TokenKind{TokenWhitespace, TokenText},
		},
		{
			name:  "property tag",
			input: "Hello, {guild.name}",
			want: []TokenKind{
				TokenText, TokenOpenTag, TokenIdentifier, TokenDot,
				TokenIdentifier, TokenCloseTag,
			},
		},
		{
			name:  "arguments",
			input: `{f|"x y";12; a.b}`,
			want: []TokenKind{
				TokenOpenTag, TokenIdentifier, TokenInitializer, TokenString,
				TokenSeparator, TokenInteger, TokenSeparator, TokenWhitespace,
				TokenIdentifier, TokenDot, TokenIdentifier, TokenCloseTag,
			},
		},
		{
			name:  "text stops at line break",
			input: "a\nb",
			want:  []TokenKind{TokenText, TokenWhitespace, TokenText},
		},
		{
			name:  "closing brace inside text run",
			input: "a}b",
			want:  []TokenKind{TokenText},
		},
		{
			name:  "stray closing brace",
			input: "}b",
			want:  []TokenKind{TokenCloseTag, TokenText},
		},
		{
			name:  "punctuation is text outside tags",
			input: "a.b;c|d \"e",
			want:  []TokenKind{TokenText},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Scan(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := kinds(tokens); !equalKinds(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScan_Spans(t *testing.T) {
	tokens, err := Scan("Hello, {guild.name}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Kind: TokenText, Text: "Hello, ", Span: span(0, 0, 0, 7)},
		{Kind: TokenOpenTag, Text: "{", Span: span(0, 7, 0, 8)},
		{Kind: TokenIdentifier, Text: "guild", Span: span(0, 8, 0, 13)},
		{Kind: TokenDot, Text: ".", Span: span(0, 13, 0, 14)},
		{Kind: TokenIdentifier, Text: "name", Span: span(0, 14, 0, 18)},
		{Kind: TokenCloseTag, Text: "}", Span: span(0, 18, 0, 19)},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}

	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestScan_LineBreaks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "line feed",
			input: "a\nb",
			want:  []Span{span(0, 0, 0, 1), span(0, 1, 1, 0), span(1, 0, 1, 1)},
		},
		{
			name:  "carriage return line feed",
			input: "a\r\nb",
			want: []Span{
				span(0, 0, 0, 1), span(0, 1, 0, 2), span(0, 2, 1, 0),
				span(1, 0, 1, 1),
			},
		},
		{
			name:  "lone carriage return",
			input: "a\rb",
			want:  []Span{span(0, 0, 0, 1), span(0, 1, 1, 0), span(1, 0, 1, 1)},
		},
		{
			name:  "multibyte runes count once",
			input: "héllo\n{x}",
			want: []Span{
				span(0, 0, 0, 5), span(0, 5, 1, 0), span(1, 0, 1, 1),
				span(1, 1, 1, 2), span(1, 2, 1, 3),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Scan(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(tokens) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d", len(tokens), len(tt.want))
			}

			for i, want := range tt.want {
				if tokens[i].Span != want {
					t.Errorf("token %d span = %v, want %v", i, tokens[i].Span, want)
				}
			}
		})
	}
}

func TestScan_Literals(t *testing.T) {
	tokens, err := Scan(`{f|"a {b} c";4294967295;0}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tokens[3].Kind != TokenString || tokens[3].Text != "a {b} c" {
		t.Errorf("string token = %+v", tokens[3])
	}

	if tokens[5].Kind != TokenInteger || tokens[5].Int != 4294967295 {
		t.Errorf("max integer token = %+v", tokens[5])
	}

	if tokens[7].Kind != TokenInteger || tokens[7].Int != 0 {
		t.Errorf("zero integer token = %+v", tokens[7])
	}

	// A quoted string leaves tag mode untouched.
	if last := tokens[len(tokens)-1]; last.Kind != TokenCloseTag {
		t.Errorf("last token = %v, want '}'", last)
	}
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		at    Position
	}{
		{
			name:  "unterminated string",
			input: `{f|"abc`,
			want:  ErrUnterminatedString,
			at:    pos(0, 3),
		},
		{
			name:  "integer overflow",
			input: "{4294967296}",
			want:  ErrIntegerOverflow,
			at:    pos(0, 1),
		},
		{
			name:  "unexpected character",
			input: "ok\n{a#}",
			want:  ErrUnexpectedCharacter,
			at:    pos(1, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Scan(tt.input)
			if err == nil {
				t.Fatalf("expected error, got tokens %v", tokens)
			}

			if tokens != nil {
				t.Errorf("expected no tokens on failure, got %d", len(tokens))
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("error %v is not %v", err, tt.want)
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("error %v is not a lex error", err)
			}

			var ee *Error
			if !errors.As(err, &ee) {
				t.Fatalf("error %T is not *Error", err)
			}

			if got, ok := ee.Position(); !ok || got != tt.at {
				t.Errorf("position = %v (%v), want %v", got, ok, tt.at)
			}
		})
	}
}

func TestScan_TextWithoutTagsIsOneToken(t *testing.T) {
	inputs := []string{
		"plain",
		"with spaces\tand tabs",
		"punctuation: .;|\"#!",
		"unicode ✓ ü",
		"closing } brace",
	}

	for _, input := range inputs {
		tokens, err := Scan(input)
		if err != nil {
			t.Fatalf("Scan(%q): %v", input, err)
		}

		if len(tokens) != 1 || tokens[0].Kind != TokenText || tokens[0].Text != input {
			t.Errorf("Scan(%q) = %v, want one text token", input, tokens)
		}
	}
}
