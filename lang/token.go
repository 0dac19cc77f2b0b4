package lang

import "strconv"

// TokenKind classifies a [Token].
type TokenKind uint8

// Token kinds.
const (
	TokenWhitespace  TokenKind = iota // whitespace
	TokenText                         // text
	TokenOpenTag                      // '{'
	TokenCloseTag                     // '}'
	TokenIdentifier                   // identifier
	TokenInteger                      // integer
	TokenString                       // string
	TokenDot                          // '.'
	TokenSeparator                    // ';'
	TokenInitializer                  // '|'
)

var tokenKindNames = [...]string{
	TokenWhitespace:  "whitespace",
	TokenText:        "text",
	TokenOpenTag:     "'{'",
	TokenCloseTag:    "'}'",
	TokenIdentifier:  "identifier",
	TokenInteger:     "integer",
	TokenString:      "string",
	TokenDot:         "'.'",
	TokenSeparator:   "';'",
	TokenInitializer: "'|'",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a lexical unit of source text.
//
// Text holds the literal content of Text, Whitespace, and Identifier tokens,
// the unquoted content of String tokens, and the source spelling of every
// other kind. Int holds the value of Integer tokens.
type Token struct {
	Kind TokenKind
	Text string
	Int  uint32
	Span Span
}

func (t Token) String() string {
	switch t.Kind {
	case TokenText, TokenIdentifier, TokenInteger, TokenString:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	default:
		return t.Kind.String()
	}
}
