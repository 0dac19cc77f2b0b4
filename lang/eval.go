package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/jtl/log"
)

// DefaultPlaceholder is rendered for a call that returns no value.
const DefaultPlaceholder = "(NONE)"

// Runtime renders syntax trees against a root context object.
//
// The context is never modified, so a Runtime may be shared by concurrent
// renders.
type Runtime struct {
	global      Object
	logger      log.Logger
	placeholder string
}

// Option configures a [Runtime].
type Option func(*Runtime)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithPlaceholder sets the text rendered for a call that returns no value.
func WithPlaceholder(text string) Option {
	return func(r *Runtime) {
		r.placeholder = text
	}
}

// NewRuntime returns a Runtime that resolves properties against global.
func NewRuntime(global Object, opts ...Option) *Runtime {
	r := &Runtime{
		global:      global,
		placeholder: DefaultPlaceholder,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Global returns the root context object.
func (r *Runtime) Global() Object { return r.global }

// Execute parses and renders source text.
//
// A scan failure is returned as an [ErrLex] error. If parsing produced any
// diagnostics, nothing is rendered and a [*ParseError] is returned.
// Otherwise the result of [Runtime.Render] is returned.
func (r *Runtime) Execute(ctx context.Context, source string) (string, error) {
	src, err := ParseString(source)
	if err != nil {
		r.logger.DebugContext(ctx, "refusing to render",
			slog.Any("error", err),
		)

		return "", err
	}

	return r.Render(ctx, src)
}

// Render evaluates the statements of src in order and concatenates their
// output. Rendering stops at the first runtime error.
func (r *Runtime) Render(ctx context.Context, src *Source) (string, error) {
	var b strings.Builder

	for _, stmt := range src.Statements {
		if err := ctx.Err(); err != nil {
			return "", ErrCanceled.Wrap(err)
		}

		switch s := stmt.(type) {
		case *TextStatement:
			b.WriteString(s.Value)

		case *TagStatement:
			out, err := r.renderTag(ctx, s)
			if err != nil {
				return "", err
			}

			b.WriteString(out)
		}
	}

	r.logger.TraceContext(ctx, "rendered source",
		slog.Int("statements", len(src.Statements)),
		slog.Int("length", b.Len()),
	)

	return b.String(), nil
}

func (r *Runtime) renderTag(ctx context.Context, tag *TagStatement) (string, error) {
	if tag.Expression.Subject == nil {
		return "", nil
	}

	v, err := r.Eval(ctx, &tag.Expression)
	if err != nil {
		ee := WrapError(err)
		if _, ok := ee.Position(); !ok {
			ee = ee.At(tag.Span.Start)
		}

		return "", ee
	}

	switch v := v.(type) {
	case nil:
		return r.placeholder, nil

	case Integer, String:
		out, _ := text(v)

		return out, nil

	case Object, Function:
		return "", ErrUnrenderable.At(tag.Span.Start).With(
			slog.String("property", subjectPath(tag.Expression.Subject)),
			slog.String("kind", v.Kind().String()),
		)
	}

	return "", nil
}

// Eval evaluates an expression to a value without rendering it.
//
// A scalar subject evaluates to itself and its arguments are ignored. A
// function subject is called with the evaluated arguments and the call
// result is returned; a nil result means the call produced no value. An
// object subject evaluates to itself, unless arguments are present, in which
// case it is an [ErrNotCallable] error. An expression without a subject
// evaluates to nil.
func (r *Runtime) Eval(ctx context.Context, expr *Expression) (Value, error) {
	var (
		v    Value
		path string
	)

	switch subj := expr.Subject.(type) {
	case nil:
		return nil, nil

	case *IntLiteral:
		return Integer(subj.Value), nil

	case *Property:
		resolved, err := r.Resolve(subj.Segments...)
		if err != nil {
			return nil, err
		}

		v, path = resolved, subj.Path()
	}

	switch fn := v.(type) {
	case Integer, String:
		return fn, nil

	case Object:
		if len(expr.Arguments) > 0 {
			return nil, ErrNotCallable.With(
				slog.String("property", path),
				slog.String("kind", fn.Kind().String()),
			)
		}

		return fn, nil

	case Function:
		args, err := r.arguments(expr.Arguments)
		if err != nil {
			return nil, err
		}

		r.logger.TraceContext(ctx, "call function",
			slog.String("property", path),
			slog.Int("args", len(args)),
		)

		out, err := fn(args...)
		if err != nil {
			return nil, ErrCall.Wrap(err).With(slog.String("property", path))
		}

		return out, nil
	}

	return nil, ErrUnknownProperty.With(slog.String("property", path))
}

// arguments evaluates call arguments in order.
func (r *Runtime) arguments(args []Argument) ([]Value, error) {
	values := make([]Value, 0, len(args))

	for _, arg := range args {
		switch a := arg.(type) {
		case *StringLiteral:
			values = append(values, String(a.Value))

		case *IntLiteral:
			values = append(values, Integer(a.Value))

		case *Property:
			v, err := r.Resolve(a.Segments...)
			if err != nil {
				return nil, err
			}

			values = append(values, v)
		}
	}

	return values, nil
}

// Resolve looks up a property path in the context. Each segment after the
// first is looked up in the object the previous segment resolved to.
func (r *Runtime) Resolve(segments ...string) (Value, error) {
	return Resolve(r.global, segments...)
}

// Resolve looks up a property path in root, left to right.
//
// Traversing through a value that is not an [Object] is an
// [ErrNotTraversable] error, and a missing key is an [ErrUnknownProperty]
// error. Both carry the full path and the failing segment.
func Resolve(root Object, segments ...string) (Value, error) {
	path := strings.Join(segments, ".")

	var cur Value = root

	for i, seg := range segments {
		switch v := cur.(type) {
		case Object:
			next, ok := v[seg]
			if !ok || next == nil {
				return nil, ErrUnknownProperty.With(
					slog.String("property", path),
					slog.String("segment", seg),
				)
			}

			cur = next

		case Integer, String, Function:
			return nil, ErrNotTraversable.With(
				slog.String("property", path),
				slog.String("segment", seg),
				slog.String("kind", v.Kind().String()),
				slog.String("parent", strings.Join(segments[:i], ".")),
			)

		default:
			return nil, ErrUnknownProperty.With(slog.String("property", path))
		}
	}

	return cur, nil
}

func subjectPath(subj Subject) string {
	switch s := subj.(type) {
	case *Property:
		return s.Path()
	case *IntLiteral:
		return Integer(s.Value).String()
	default:
		return ""
	}
}
