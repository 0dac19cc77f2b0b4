package lang

import (
	"maps"
	"slices"
	"strconv"
)

// ValueKind classifies a [Value].
type ValueKind uint8

// Value kinds.
const (
	KindInteger ValueKind = iota + 1 // integer
	KindString                       // string
	KindObject                       // object
	KindFunction                     // function
)

func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	default:
		return "none"
	}
}

// Value is a runtime value. The set of implementations is closed:
// [Integer], [String], [Object], and [Function].
type Value interface {
	Kind() ValueKind
	value()
}

// Integer is an unsigned 32-bit integer value.
type Integer uint32

// String is a text value.
type String string

// Object maps names to values. A Context is a root Object.
type Object map[string]Value

// Function is a native callable. A nil result means the call produced no
// value.
type Function func(args ...Value) (Value, error)

func (Integer) Kind() ValueKind  { return KindInteger }
func (String) Kind() ValueKind   { return KindString }
func (Object) Kind() ValueKind   { return KindObject }
func (Function) Kind() ValueKind { return KindFunction }

func (Integer) value()  {}
func (String) value()   {}
func (Object) value()   {}
func (Function) value() {}

func (i Integer) String() string { return strconv.FormatUint(uint64(i), 10) }
func (s String) String() string  { return string(s) }

// KindOf returns the kind of v, or 0 if v is nil.
func KindOf(v Value) ValueKind {
	if v == nil {
		return 0
	}

	return v.Kind()
}

// Keys returns the names of o in sorted order.
func (o Object) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// Insert stores v at the dotted path given by segments, creating
// intermediate objects as needed. An existing non-object value along the
// path is replaced.
func (o Object) Insert(v Value, segments ...string) {
	if len(segments) == 0 {
		return
	}

	cur := o
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur[seg].(Object)
		if !ok {
			next = Object{}
			cur[seg] = next
		}

		cur = next
	}

	cur[segments[len(segments)-1]] = v
}

// Merge returns a new object holding the entries of o overlaid with the
// entries of others, left to right. Nested objects are merged recursively.
func (o Object) Merge(others ...Object) Object {
	out := maps.Clone(o)
	if out == nil {
		out = Object{}
	}

	for _, other := range others {
		for k, v := range other {
			if dst, ok := out[k].(Object); ok {
				if src, ok := v.(Object); ok {
					out[k] = dst.Merge(src)

					continue
				}
			}

			out[k] = v
		}
	}

	return out
}

// text returns the rendered form of a scalar value.
func text(v Value) (string, bool) {
	switch v := v.(type) {
	case Integer:
		return v.String(), true
	case String:
		return string(v), true
	case Object, Function:
		return "", false
	default:
		return "", false
	}
}
