package host

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/service"
)

// Predefined errors.
var (
	ErrContext     = lang.NewError("invalid context file")
	ErrCompile     = lang.NewError("failed to compile function")
	ErrInvalidName = lang.NewError("invalid function name")
)

// contextFile is the on-disk form of a context.
type contextFile struct {
	Data      map[string]any    `yaml:"data"`
	Functions map[string]string `yaml:"functions"`
}

// Decode reads a context from YAML or JSON.
//
// The data section maps names to values: nested mappings become objects,
// strings become strings, integers in [0, 4294967295] become integers, and
// other scalars become their string form. The functions section maps dotted
// names to expr-lang sources; each is compiled to a function that sees its
// call arguments as args and the raw data section as data, and is inserted
// at its name, creating intermediate objects as needed.
func Decode(ctx context.Context, r io.Reader) (lang.Object, error) {
	var file contextFile

	if err := yaml.NewDecoder(r).DecodeContext(ctx, &file); err != nil {
		if errors.Is(err, io.EOF) {
			return lang.Object{}, nil
		}

		return nil, ErrContext.Wrap(err)
	}

	value, err := lang.FromNative(file.Data)
	if err != nil {
		return nil, ErrContext.Wrap(err)
	}

	obj, ok := value.(lang.Object)
	if !ok || obj == nil {
		obj = lang.Object{}
	}

	// Functions are inserted in name order.
	names := make([]string, 0, len(file.Functions))
	for name := range file.Functions {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		segments, err := splitName(name)
		if err != nil {
			return nil, err
		}

		fn, err := Compile(name, file.Functions[name], file.Data)
		if err != nil {
			return nil, err
		}

		obj.Insert(fn, segments...)
	}

	return obj, nil
}

// Load reads context files in order and merges each over base and the
// files before it.
func Load(ctx context.Context, base lang.Object, paths ...string) (lang.Object, error) {
	out := base.Merge()

	for _, path := range paths {
		obj, err := loadFile(ctx, path)
		if err != nil {
			return nil, err
		}

		out = out.Merge(obj)
	}

	return out, nil
}

func loadFile(ctx context.Context, path string) (lang.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrContext.Wrap(err).With(slog.String("path", path))
	}

	defer f.Close()

	obj, err := Decode(ctx, f)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return obj, nil
}

// Compile compiles an expr-lang source to a function. The program sees the
// call arguments as args and data as data. A nil result is no value.
func Compile(name, source string, data map[string]any) (lang.Function, error) {
	env := map[string]any{
		"args": []any{},
		"data": data,
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(
			slog.String("function", name),
			slog.String("source", source),
		)
	}

	return func(args ...lang.Value) (lang.Value, error) {
		native := make([]any, len(args))
		for i, arg := range args {
			native[i] = lang.ToNative(arg)
		}

		out, err := vm.Run(program, map[string]any{
			"args": native,
			"data": data,
		})
		if err != nil {
			return nil, err
		}

		if out == nil {
			return nil, nil
		}

		return lang.FromNative(out)
	}, nil
}

// splitName splits a dotted function name into identifier segments.
func splitName(name string) ([]string, error) {
	segments := strings.Split(name, ".")

	for _, seg := range segments {
		if seg == "" || strings.IndexFunc(seg, notIdent) >= 0 {
			return nil, ErrInvalidName.With(slog.String("function", name))
		}
	}

	return segments, nil
}

func notIdent(r rune) bool {
	return (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '_'
}

// Describe derives a schema from a context. Each object becomes a structure
// named by its dotted path from the root.
func Describe(obj lang.Object) *service.Schema {
	s := service.NewSchema()

	for _, name := range obj.Keys() {
		s.InsertGlobal(name, describe(s, name, obj[name]))
	}

	return s
}

func describe(s *service.Schema, path string, v lang.Value) string {
	switch v := v.(type) {
	case lang.Integer:
		return service.TypeInteger

	case lang.String:
		return service.TypeString

	case lang.Function:
		return service.TypeFunction

	case lang.Object:
		keys := v.Keys()
		fields := make([]service.Field, len(keys))

		for i, key := range keys {
			fields[i] = service.Field{
				Name:  key,
				Types: []string{describe(s, path+"."+key, v[key])},
			}
		}

		s.InsertStruct(path, fields...)

		return service.StructRef(path)
	}

	return ""
}
