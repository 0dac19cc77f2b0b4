package host

import (
	"log/slog"
	"strconv"

	"golang.org/x/text/cases"

	"github.com/ardnew/jtl/lang"
)

// ErrArgument reports a call with the wrong number or kind of arguments.
var ErrArgument = lang.NewError("invalid argument")

// stringArg converts a scalar argument to its text.
func stringArg(i int, v lang.Value) (string, error) {
	switch v := v.(type) {
	case lang.String:
		return string(v), nil
	case lang.Integer:
		return v.String(), nil
	default:
		return "", ErrArgument.With(
			slog.Int("index", i),
			slog.String("kind", lang.KindOf(v).String()),
		)
	}
}

// stringArgs converts args to text. At least min and, if max is
// non-negative, at most max arguments are accepted.
func stringArgs(args []lang.Value, minArgs, maxArgs int) ([]string, error) {
	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		return nil, ErrArgument.With(
			slog.Int("min", minArgs),
			slog.Int("max", maxArgs),
			slog.Int("got", len(args)),
		)
	}

	out := make([]string, len(args))

	for i, arg := range args {
		s, err := stringArg(i, arg)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

func fn0(f func() string) lang.Function {
	return func(args ...lang.Value) (lang.Value, error) {
		if _, err := stringArgs(args, 0, 0); err != nil {
			return nil, err
		}

		return lang.String(f()), nil
	}
}

func fn1(f func(string) string) lang.Function {
	return func(args ...lang.Value) (lang.Value, error) {
		s, err := stringArgs(args, 1, 1)
		if err != nil {
			return nil, err
		}

		return lang.String(f(s[0])), nil
	}
}

func fn2(f func(string, string) string) lang.Function {
	return func(args ...lang.Value) (lang.Value, error) {
		s, err := stringArgs(args, 2, 2)
		if err != nil {
			return nil, err
		}

		return lang.String(f(s[0], s[1])), nil
	}
}

func fnN(f func(...string) string) lang.Function {
	return func(args ...lang.Value) (lang.Value, error) {
		s, err := stringArgs(args, 0, -1)
		if err != nil {
			return nil, err
		}

		return lang.String(f(s...)), nil
	}
}

// fnHead adapts a function of one required and any number of further
// arguments.
func fnHead(f func(string, ...string) string) lang.Function {
	return func(args ...lang.Value) (lang.Value, error) {
		s, err := stringArgs(args, 1, -1)
		if err != nil {
			return nil, err
		}

		return lang.String(f(s[0], s[1:]...)), nil
	}
}

func pred(f func(string) bool) lang.Function {
	return func(args ...lang.Value) (lang.Value, error) {
		s, err := stringArgs(args, 1, 1)
		if err != nil {
			return nil, err
		}

		return lang.String(strconv.FormatBool(f(s[0]))), nil
	}
}

// caser adapts a case mapping. A [cases.Caser] is stateful, so each call
// gets its own.
func caser(newCaser func() cases.Caser) lang.Function {
	return fn1(func(s string) string {
		return newCaser().String(s)
	})
}
