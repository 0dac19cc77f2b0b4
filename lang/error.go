package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Error classes. Every [Error] belongs to exactly one class, and
// errors.Is(err, class) reports whether err is of that class.
var (
	ErrLex     = newClass("lex error")
	ErrParse   = newClass("parse error")
	ErrRuntime = newClass("runtime error")
)

// Predefined errors (sentinel values).
var (
	ErrUnterminatedString  = ErrLex.derive("unterminated string")
	ErrIntegerOverflow     = ErrLex.derive("integer literal overflows 32 bits")
	ErrUnexpectedCharacter = ErrLex.derive("unexpected character")

	ErrUnknownProperty = ErrRuntime.derive("unknown property")
	ErrNotTraversable  = ErrRuntime.derive("cannot traverse into a non-object value")
	ErrNotCallable     = ErrRuntime.derive("value is not callable")
	ErrUnrenderable    = ErrRuntime.derive("value cannot be rendered")
	ErrCall            = ErrRuntime.derive("function call failed")
	ErrCanceled        = ErrRuntime.derive("render canceled")
)

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	class *Error      // class sentinel (nil for a class itself)
	base  *Error      // sentinel this error was derived from
	err   error       // Wrapped error (for errors.Unwrap)
	pos   *Position   // Source position, if known
	attrs []slog.Attr // Attributes for structured logging
}

func newClass(msg string) *Error {
	return &Error{msg: msg}
}

// derive creates a new sentinel belonging to the class of e.
func (e *Error) derive(msg string) *Error {
	return &Error{msg: msg, class: e.classOf()}
}

func (e *Error) classOf() *Error {
	if e.class != nil {
		return e.class
	}

	return e
}

func (e *Error) sentinel() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// NewError creates a new Error with a message. The result is not a member of
// any class other than itself.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error. If err already is an
// [Error], it is returned as-is.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.msg != "" {
		b.WriteString(e.msg)
	}

	if e.pos != nil {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString("at ")
		b.WriteString(e.pos.String())
	}

	if len(e.attrs) > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteByte('(')

		for i, a := range e.attrs {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Value.String())
		}

		b.WriteByte(')')
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel or the class e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return t == e.sentinel() || t == e.classOf()
}

// Message returns the error message without position, attributes, or cause.
func (e *Error) Message() string { return e.msg }

// Position returns the source position recorded with [Error.At], if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if c := e.classOf(); c != e && c.msg != "" {
		attrs = append(attrs, slog.String("class", c.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// clone returns a shallow copy of e that remembers e's sentinel.
func (e *Error) clone() *Error {
	c := *e
	c.base = e.sentinel()

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// At creates a new Error recording the given source position.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// ParseError reports the diagnostics produced while parsing a source text.
// It is returned by operations that refuse to proceed on a malformed tree.
type ParseError struct {
	Diagnostics []Diagnostic
	Source      string // The original source input
}

// Error implements the error interface. The first diagnostic is rendered
// with the offending source line and a caret under its start column.
func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrParse.msg
	}

	first := e.Diagnostics[0]

	var b strings.Builder

	b.WriteString(ErrParse.msg)
	b.WriteString(" at line ")
	b.WriteString(strconv.Itoa(first.Span.Start.Row + 1))
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(first.Span.Start.Col + 1))
	b.WriteString(": ")
	b.WriteString(first.Message)

	if n := len(e.Diagnostics) - 1; n > 0 {
		b.WriteString(" (and ")
		b.WriteString(strconv.Itoa(n))
		b.WriteString(" more)")
	}

	if snippet := e.snippet(first.Span.Start); snippet != "" {
		b.WriteByte('\n')
		b.WriteString(snippet)
	}

	return b.String()
}

// Unwrap makes every ParseError a member of [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// snippet formats the source line containing pos with a caret marker.
func (e *ParseError) snippet(pos Position) string {
	if e.Source == "" {
		return ""
	}

	doc := NewDocument(e.Source)
	if pos.Row >= doc.LineCount() {
		return ""
	}

	line := strings.TrimRight(doc.Line(pos.Row), "\r\n")
	num := strconv.Itoa(pos.Row + 1)

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(num)
	b.WriteString(" | ")
	b.WriteString(line)
	b.WriteByte('\n')
	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	b.WriteString(strings.Repeat(" ", len(num)+5+pos.Col))
	b.WriteString("^")

	return b.String()
}
