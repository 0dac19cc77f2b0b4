package lang

// scope is the grammatical position of the parser when it meets a token that
// does not continue the construct it is building.
type scope uint8

const (
	scopeHead       scope = iota // after '{', before the subject
	scopePath                    // after an identifier of a tag's property
	scopeSegment                 // after a '.' of a tag's property
	scopeArgs                    // between arguments
	scopeArgPath                 // after an identifier of a property argument
	scopeArgSegment              // after a '.' of a property argument
	scopeTail                    // after the subject, before '|' or '}'
)

// action tells the parser how to resume after a recovery.
type action uint8

const (
	stop           action = iota // leave the token to the enclosing construct
	skip                         // consume the token
	skipToBoundary               // consume up to the next boundary of the scope
)

type recovery struct {
	message string
	action  action
}

// recoveries maps an unexpected token in a scope to its diagnostic and
// resumption point. A token kind absent from a scope's table ends the
// construct silently.
var recoveries = map[scope]map[TokenKind]recovery{
	scopeHead: {
		TokenDot:       {"unexpected '.'", skip},
		TokenSeparator: {"unexpected ';'", skip},
		TokenString:    {"unexpected string", skip},
		TokenCloseTag:  {"expected property", stop},
	},
	scopePath: {
		TokenIdentifier: {"expected '.'", skipToBoundary},
		TokenInteger:    {"unexpected integer", skip},
		TokenString:     {"unexpected string", skip},
		TokenSeparator:  {"unexpected ';'", skip},
	},
	scopeSegment: {
		TokenDot:       {"unexpected '.'", skip},
		TokenInteger:   {"expected identifier", skip},
		TokenString:    {"unexpected string", skip},
		TokenSeparator: {"unexpected ';'", skip},
	},
	scopeArgs: {
		TokenInitializer: {"unexpected '|'", skip},
		TokenDot:         {"unexpected '.'", skip},
		TokenText:        {"unexpected text", skip},
	},
	scopeArgSegment: {
		TokenDot:     {"unexpected '.'", skip},
		TokenInteger: {"expected identifier", skip},
		TokenString:  {"unexpected string", skip},
	},
	scopeTail: {
		TokenIdentifier: {"expected '|' or '}'", skipToBoundary},
		TokenInteger:    {"expected '|' or '}'", skipToBoundary},
		TokenString:     {"expected '|' or '}'", skipToBoundary},
		TokenDot:        {"expected '|' or '}'", skipToBoundary},
		TokenSeparator:  {"expected '|' or '}'", skipToBoundary},
		TokenText:       {"unexpected text", skip},
	},
}

// boundaries are the token kinds a skipToBoundary recovery stops before.
var boundaries = map[scope][]TokenKind{
	scopePath: {TokenInitializer, TokenCloseTag, TokenOpenTag},
	scopeTail: {TokenInitializer, TokenCloseTag, TokenOpenTag},
}

// recover applies the recovery rule for tok in scope sc and reports its
// diagnostic. The diagnostic of a skipToBoundary rule spans from tok to the
// last token skipped.
func (p *parser) recover(sc scope, tok Token) action {
	r, ok := recoveries[sc][tok.Kind]
	if !ok {
		return stop
	}

	span := tok.Span

	switch r.action {
	case skip:
		p.advance()

	case skipToBoundary:
		p.advance()

		span.End = p.skipUntil(tok.Span.End, boundaries[sc]...)

	case stop:
	}

	if r.message != "" {
		p.report(r.message, span)
	}

	return r.action
}
