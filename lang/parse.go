package lang

import "slices"

// Parse builds a syntax tree from a token sequence.
//
// Parse never fails. Malformed input is reported through the returned
// diagnostics, in source order, and the tree holds whatever could be
// recovered. Whitespace tokens between tags are folded into the surrounding
// text; whitespace inside tags is discarded.
func Parse(tokens []Token) (*Source, []Diagnostic) {
	p := &parser{tokens: tokens}
	src := p.parseSource()

	// A trailing '.' is reported when its path ends, after any diagnostics
	// for tokens that follow it.
	slices.SortStableFunc(p.diags, func(a, b Diagnostic) int {
		return a.Span.Start.Compare(b.Span.Start)
	})

	return src, p.diags
}

// ParseString scans and parses source text.
//
// A scan failure is returned as-is with a nil tree. Otherwise the tree is
// always returned, together with a [*ParseError] if any diagnostics were
// produced.
func ParseString(source string) (*Source, error) {
	tokens, err := Scan(source)
	if err != nil {
		return nil, err
	}

	src, diags := Parse(tokens)
	if len(diags) > 0 {
		return src, &ParseError{Diagnostics: diags, Source: source}
	}

	return src, nil
}

// parser is a cursor over a token sequence.
type parser struct {
	tokens []Token
	next   int      // index of the next unread token
	prev   Position // end of the last consumed significant token
	diags  []Diagnostic
}

// peek returns the next significant token without consuming it.
func (p *parser) peek() (Token, bool) {
	for i := p.next; i < len(p.tokens); i++ {
		if p.tokens[i].Kind != TokenWhitespace {
			return p.tokens[i], true
		}
	}

	return Token{}, false
}

// advance consumes and returns the next significant token, discarding any
// whitespace before it.
func (p *parser) advance() (Token, bool) {
	for p.next < len(p.tokens) {
		tok := p.tokens[p.next]
		p.next++

		if tok.Kind != TokenWhitespace {
			p.prev = tok.Span.End

			return tok, true
		}
	}

	return Token{}, false
}

// skipUntil consumes tokens up to, but not including, the first token of one
// of the given kinds. It returns the end of the last token consumed, or from
// if nothing was consumed.
func (p *parser) skipUntil(from Position, kinds ...TokenKind) Position {
	end := from

	for {
		tok, ok := p.peek()
		if !ok || slices.Contains(kinds, tok.Kind) {
			return end
		}

		p.advance()

		end = tok.Span.End
	}
}

// lastEnd returns the end of the final token of the input.
func (p *parser) lastEnd() Position {
	if len(p.tokens) == 0 {
		return Position{}
	}

	return p.tokens[len(p.tokens)-1].Span.End
}

func (p *parser) report(msg string, span Span) {
	p.diags = append(p.diags, Diagnostic{
		Message:  msg,
		Severity: SeverityError,
		Span:     span,
	})
}

func (p *parser) parseSource() *Source {
	src := &Source{Span: Span{End: p.lastEnd()}}

	for p.next < len(p.tokens) {
		tok := p.tokens[p.next]

		switch tok.Kind {
		case TokenOpenTag:
			src.Statements = append(src.Statements, p.parseTag())

		case TokenText, TokenWhitespace, TokenCloseTag:
			src.Statements = append(src.Statements, p.parseText())

		default:
			// Tag-mode tokens outside of a tag only occur in a token
			// sequence that did not come from Scan.
			p.next++
			p.report("unexpected "+tok.Kind.String(), tok.Span)
		}
	}

	return src
}

// parseText merges a run of text, whitespace, and stray closing braces into
// one statement.
func (p *parser) parseText() *TextStatement {
	first := p.tokens[p.next]
	stmt := &TextStatement{Span: first.Span}

	var value []byte

	for p.next < len(p.tokens) {
		tok := p.tokens[p.next]
		if tok.Kind != TokenText && tok.Kind != TokenWhitespace &&
			tok.Kind != TokenCloseTag {
			break
		}

		p.next++

		value = append(value, tok.Text...)
		stmt.Span.End = tok.Span.End
	}

	stmt.Value = string(value)

	return stmt
}

func (p *parser) parseTag() *TagStatement {
	open, _ := p.advance()
	tag := &TagStatement{Span: open.Span}
	expr := &tag.Expression

head:
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		switch tok.Kind {
		case TokenIdentifier:
			expr.Subject = p.parseProperty(scopePath, scopeSegment)

			break head

		case TokenInteger:
			p.advance()
			p.report("expected identifier", tok.Span)

			expr.Subject = &IntLiteral{Value: tok.Int, Span: tok.Span}

			break head

		case TokenInitializer:
			break head

		default:
			if p.recover(scopeHead, tok) == stop {
				break head
			}
		}
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind == TokenCloseTag || tok.Kind == TokenOpenTag {
			break
		}

		if tok.Kind == TokenInitializer {
			expr.Arguments = append(expr.Arguments, p.parseArguments()...)

			continue
		}

		p.recover(scopeTail, tok)
	}

	expr.Span = expressionSpan(expr, open.Span.End)
	tag.Span.End = p.closeTag()

	return tag
}

// expressionSpan returns the extent of the parts of expr, or an empty span at
// at if it has none.
func expressionSpan(expr *Expression, at Position) Span {
	parts := make([]Span, 0, 1+len(expr.Arguments))

	if expr.Subject != nil {
		parts = append(parts, expr.Subject.Range())
	}

	for _, arg := range expr.Arguments {
		parts = append(parts, arg.Range())
	}

	if len(parts) == 0 {
		return point(at)
	}

	return Span{Start: parts[0].Start, End: parts[len(parts)-1].End}
}

// closeTag consumes the closing brace of a tag and returns the end position
// of the tag.
func (p *parser) closeTag() Position {
	tok, ok := p.peek()

	switch {
	case !ok:
		end := p.lastEnd()
		p.report("unexpected end of input, expected '}'", point(end))

		return end

	case tok.Kind == TokenCloseTag:
		p.advance()

		return tok.Span.End

	default:
		// A nested '{' starts the next tag.
		p.report("expected '}'", point(tok.Span.Start))

		return p.prev
	}
}

// parseProperty parses a dotted path starting at an identifier. Tokens that
// do not fit the path are handled by the recovery rules of scope path (after
// an identifier) and scope segment (after a '.').
func (p *parser) parseProperty(path, segment scope) *Property {
	first, _ := p.advance()
	prop := &Property{Segments: []string{first.Text}, Span: first.Span}

	var dot *Token

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		if dot == nil {
			if tok.Kind == TokenDot {
				p.advance()

				dot = &tok
				prop.Span.End = tok.Span.End

				continue
			}

			if p.recover(path, tok) == stop {
				break
			}

			continue
		}

		if tok.Kind == TokenIdentifier {
			p.advance()

			dot = nil
			prop.Segments = append(prop.Segments, tok.Text)
			prop.Span.End = tok.Span.End

			continue
		}

		if p.recover(segment, tok) == stop {
			break
		}
	}

	if dot != nil {
		p.report("expected identifier", dot.Span)
	}

	return prop
}

// parseArguments parses an argument list starting at '|'. It returns at a
// closing brace, an opening brace, or the end of input.
func (p *parser) parseArguments() []Argument {
	p.advance()

	var (
		args      []Argument
		separated = true
	)

	for {
		tok, ok := p.peek()
		if !ok {
			return args
		}

		switch tok.Kind {
		case TokenCloseTag, TokenOpenTag:
			if len(args) == 0 {
				p.report("expected argument", point(tok.Span.Start))
			}

			return args

		case TokenSeparator:
			p.advance()

			if separated {
				p.report("unexpected ';'", tok.Span)
			}

			separated = true

		case TokenString, TokenInteger, TokenIdentifier:
			if !separated {
				p.report("expected ';'", point(tok.Span.Start))
			}

			args = append(args, p.parseArgument(tok))
			separated = false

		default:
			p.recover(scopeArgs, tok)
		}
	}
}

func (p *parser) parseArgument(tok Token) Argument {
	switch tok.Kind {
	case TokenString:
		p.advance()

		return &StringLiteral{Value: tok.Text, Span: tok.Span}

	case TokenInteger:
		p.advance()

		return &IntLiteral{Value: tok.Int, Span: tok.Span}

	default:
		return p.parseProperty(scopeArgPath, scopeArgSegment)
	}
}
