package lang

import (
	"log/slog"
	"strconv"
)

// scanMode selects how the scanner interprets ordinary characters.
type scanMode uint8

const (
	modeText scanMode = iota // literal passthrough text
	modeTag                  // inside a {...} tag
)

// scanner converts source runes into tokens.
type scanner struct {
	src    []rune
	off    int
	pos    Position
	mode   scanMode
	tokens []Token
}

// Scan converts source text into a flat token sequence.
//
// Scanning starts in text mode. An opening brace switches to tag mode and a
// closing brace switches back. Whitespace characters always produce a
// whitespace token. In text mode, any other character starts a text token
// that runs until an opening brace or a line break. In tag mode, identifiers,
// unsigned 32-bit integers, double-quoted strings (without escapes), and the
// punctuation '.', ';', and '|' are recognized.
//
// Scan aborts on the first failure and returns an [*Error] of class [ErrLex]
// positioned at the offending character; no tokens are returned in that case.
func Scan(source string) ([]Token, error) {
	s := &scanner{src: []rune(source)}

	for s.off < len(s.src) {
		if err := s.next(); err != nil {
			return nil, err
		}
	}

	return s.tokens, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// isBreak reports whether the rune at off starts a line break.
func (s *scanner) isBreak(off int) bool {
	return off < len(s.src) && (s.src[off] == '\n' || s.src[off] == '\r')
}

// step consumes one rune and advances the position. A carriage return
// immediately followed by a line feed advances the column only, so that the
// pair counts as a single line break.
func (s *scanner) step() rune {
	r := s.src[s.off]
	s.off++

	switch {
	case r == '\n':
		s.pos.Row++
		s.pos.Col = 0
	case r == '\r' && (s.off >= len(s.src) || s.src[s.off] != '\n'):
		s.pos.Row++
		s.pos.Col = 0
	default:
		s.pos.Col++
	}

	return r
}

func (s *scanner) emit(kind TokenKind, text string, start Position) {
	s.tokens = append(s.tokens, Token{
		Kind: kind,
		Text: text,
		Span: Span{Start: start, End: s.pos},
	})
}

func (s *scanner) next() error {
	start := s.pos
	r := s.src[s.off]

	switch {
	case isSpace(r):
		s.step()
		s.emit(TokenWhitespace, string(r), start)

	case r == '{':
		s.step()
		s.mode = modeTag
		s.emit(TokenOpenTag, "{", start)

	case r == '}':
		s.step()
		s.mode = modeText
		s.emit(TokenCloseTag, "}", start)

	case s.mode == modeText:
		s.scanText(start)

	default:
		return s.scanTag(start)
	}

	return nil
}

// scanText consumes a text run. The run ends before an opening brace or a
// line break; embedded spaces and tabs belong to the run.
func (s *scanner) scanText(start Position) {
	begin := s.off

	s.step()

	for s.off < len(s.src) && s.src[s.off] != '{' && !s.isBreak(s.off) {
		s.step()
	}

	s.emit(TokenText, string(s.src[begin:s.off]), start)
}

func (s *scanner) scanTag(start Position) error {
	r := s.src[s.off]

	switch {
	case r == '.':
		s.step()
		s.emit(TokenDot, ".", start)

	case r == ';':
		s.step()
		s.emit(TokenSeparator, ";", start)

	case r == '|':
		s.step()
		s.emit(TokenInitializer, "|", start)

	case r == '"':
		return s.scanString(start)

	case isAlpha(r):
		begin := s.off
		for s.off < len(s.src) && isAlpha(s.src[s.off]) {
			s.step()
		}

		s.emit(TokenIdentifier, string(s.src[begin:s.off]), start)

	case isDigit(r):
		begin := s.off
		for s.off < len(s.src) && isDigit(s.src[s.off]) {
			s.step()
		}

		text := string(s.src[begin:s.off])

		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return ErrIntegerOverflow.At(start).With(slog.String("literal", text))
		}

		s.emit(TokenInteger, text, start)
		s.tokens[len(s.tokens)-1].Int = uint32(n)

	default:
		return ErrUnexpectedCharacter.At(start).
			With(slog.String("character", strconv.QuoteRune(r)))
	}

	return nil
}

// scanString consumes a double-quoted string. Characters between the quotes
// are taken verbatim, including line breaks.
func (s *scanner) scanString(start Position) error {
	s.step()

	begin := s.off
	for s.off < len(s.src) && s.src[s.off] != '"' {
		s.step()
	}

	if s.off >= len(s.src) {
		return ErrUnterminatedString.At(start)
	}

	text := string(s.src[begin:s.off])

	s.step()
	s.emit(TokenString, text, start)

	return nil
}
