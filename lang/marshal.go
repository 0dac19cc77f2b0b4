package lang

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"

	"github.com/goccy/go-yaml"
)

// ErrConvert reports a native Go value that has no [Value] representation.
var ErrConvert = NewError("unsupported value type")

// ToMap converts the syntax tree to an ordered map structure suitable for
// encoding. Every node carries a "type" key naming its kind.
func (src *Source) ToMap() yaml.MapSlice {
	stmts := make([]any, 0, len(src.Statements))

	for _, stmt := range src.Statements {
		switch s := stmt.(type) {
		case *TextStatement:
			stmts = append(stmts, yaml.MapSlice{
				{Key: "type", Value: "Text"},
				{Key: "value", Value: s.Value},
				{Key: "span", Value: spanMap(s.Span)},
			})

		case *TagStatement:
			stmts = append(stmts, yaml.MapSlice{
				{Key: "type", Value: "Tag"},
				{Key: "expression", Value: expressionMap(&s.Expression)},
				{Key: "span", Value: spanMap(s.Span)},
			})
		}
	}

	return yaml.MapSlice{
		{Key: "type", Value: "Source"},
		{Key: "body", Value: stmts},
		{Key: "span", Value: spanMap(src.Span)},
	}
}

func spanMap(s Span) yaml.MapSlice {
	return yaml.MapSlice{
		{Key: "start", Value: []int{s.Start.Row, s.Start.Col}},
		{Key: "end", Value: []int{s.End.Row, s.End.Col}},
	}
}

func expressionMap(expr *Expression) yaml.MapSlice {
	m := yaml.MapSlice{{Key: "type", Value: "Expression"}}

	if expr.Subject != nil {
		m = append(m, yaml.MapItem{Key: "subject", Value: nodeMap(expr.Subject)})
	}

	if len(expr.Arguments) > 0 {
		args := make([]any, len(expr.Arguments))
		for i, arg := range expr.Arguments {
			args[i] = nodeMap(arg)
		}

		m = append(m, yaml.MapItem{Key: "arguments", Value: args})
	}

	return m
}

func nodeMap(node interface{ Range() Span }) yaml.MapSlice {
	switch n := node.(type) {
	case *Property:
		return yaml.MapSlice{
			{Key: "type", Value: "Property"},
			{Key: "segments", Value: n.Segments},
			{Key: "span", Value: spanMap(n.Span)},
		}

	case *IntLiteral:
		return yaml.MapSlice{
			{Key: "type", Value: "Int"},
			{Key: "value", Value: n.Value},
			{Key: "span", Value: spanMap(n.Span)},
		}

	case *StringLiteral:
		return yaml.MapSlice{
			{Key: "type", Value: "String"},
			{Key: "value", Value: n.Value},
			{Key: "span", Value: spanMap(n.Span)},
		}

	default:
		return nil
	}
}

// ToNative converts a Value to its native Go type: uint32, string,
// map[string]any, or func(...any) (any, error).
func ToNative(v Value) any {
	switch v := v.(type) {
	case Integer:
		return uint32(v)

	case String:
		return string(v)

	case Object:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = ToNative(e)
		}

		return m

	case Function:
		return func(args ...any) (any, error) {
			in := make([]Value, len(args))

			for i, arg := range args {
				a, err := FromNative(arg)
				if err != nil {
					return nil, err
				}

				in[i] = a
			}

			out, err := v(in...)
			if err != nil || out == nil {
				return nil, err
			}

			return ToNative(out), nil
		}

	default:
		return nil
	}
}

// FromNative converts a native Go value to a Value.
//
// Strings become [String]; integers in [0, MaxUint32] become [Integer];
// other numbers and booleans become their [String] form; string-keyed maps
// become [Object]; functions of type [Function] or
// func(...Value) (Value, error) are kept. Nil map entries are dropped.
// Anything else is an [ErrConvert] error.
func FromNative(v any) (Value, error) {
	switch v := v.(type) {
	case Value:
		return v, nil

	case func(...Value) (Value, error):
		return Function(v), nil

	case string:
		return String(v), nil

	case bool:
		return String(strconv.FormatBool(v)), nil

	case float32:
		return String(strconv.FormatFloat(float64(v), 'g', -1, 32)), nil

	case float64:
		return String(strconv.FormatFloat(v, 'g', -1, 64)), nil

	case map[string]any:
		obj := make(Object, len(v))

		for k, e := range v {
			if e == nil {
				continue
			}

			ev, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			obj[k] = ev
		}

		return obj, nil

	case map[any]any:
		obj := make(Object, len(v))

		for k, e := range v {
			if e == nil {
				continue
			}

			ev, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			obj[fmt.Sprint(k)] = ev
		}

		return obj, nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n >= 0 && n <= math.MaxUint32 {
			return Integer(n), nil
		}

		return String(strconv.FormatInt(rv.Int(), 10)), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		if n := rv.Uint(); n <= math.MaxUint32 {
			return Integer(n), nil
		}

		return String(strconv.FormatUint(rv.Uint(), 10)), nil
	}

	return nil, ErrConvert.With(slog.String("type", fmt.Sprintf("%T", v)))
}
