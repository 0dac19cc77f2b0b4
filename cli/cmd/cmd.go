package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/jtl/host"
	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/log"
	"github.com/ardnew/jtl/service"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Host selects the global object that templates are rendered against and
// the schema that describes it.
type Host struct {
	// Contexts are YAML context files merged in order.
	Contexts []string
	// SchemaFile replaces the schema derived from the global object.
	SchemaFile string
	// Builtins includes the host builtins beneath the context files.
	Builtins bool
	// Placeholder is rendered for values that have no text.
	Placeholder string
}

type hostKey struct{}

// WithHost returns a new context.Context containing the given Host.
func WithHost(ctx context.Context, h Host) context.Context {
	return context.WithValue(ctx, hostKey{}, h)
}

// hostFrom returns the Host stored by [WithHost], or a Host with builtins
// and the default placeholder.
func hostFrom(ctx context.Context) Host {
	if h, ok := ctx.Value(hostKey{}).(Host); ok {
		return h
	}

	return Host{Builtins: true, Placeholder: lang.DefaultPlaceholder}
}

// Object builds the global object.
func (h Host) Object(ctx context.Context) (lang.Object, error) {
	base := lang.Object{}
	if h.Builtins {
		base = host.Builtins()
	}

	obj, err := host.Load(ctx, base, h.Contexts...)
	if err != nil {
		return nil, err
	}

	log.TraceContext(ctx, "loaded host context",
		slog.Int("files", len(h.Contexts)),
		slog.Int("globals", len(obj)),
		slog.Bool("builtins", h.Builtins),
	)

	return obj, nil
}

// Schema reads SchemaFile, or describes obj if SchemaFile is empty.
func (h Host) Schema(ctx context.Context, obj lang.Object) (*service.Schema, error) {
	if h.SchemaFile == "" {
		return host.Describe(obj), nil
	}

	f, err := os.Open(h.SchemaFile)
	if err != nil {
		return nil, ErrReadSchema.With(slog.String("file", h.SchemaFile)).Wrap(err)
	}

	defer f.Close()

	s, err := service.LoadSchema(ctx, f)
	if err != nil {
		return nil, ErrReadSchema.With(slog.String("file", h.SchemaFile)).Wrap(err)
	}

	return s, nil
}

// Runtime returns a runtime over obj.
func (h Host) Runtime(obj lang.Object) *lang.Runtime {
	opts := []lang.Option{lang.WithLogger(log.Default())}
	if h.Placeholder != "" {
		opts = append(opts, lang.WithPlaceholder(h.Placeholder))
	}

	return lang.NewRuntime(obj, opts...)
}

type (
	inputKey  struct{}
	outputKey struct{}
)

// WithInput returns a new context.Context whose source "-" reads r.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source name for reading from stdin.
const stdinSource = "-"

// stdinName names stdin in messages.
const stdinName = "<stdin>"

// source is the text of one template.
type source struct {
	name string
	text string
}

// readSources reads the named templates in order.
//
// A file named more than once, whether through the same path, a relative
// and absolute path, or a symlink, is read only once. All occurrences of
// "-" read the input of ctx once, at the position of the first occurrence.
func readSources(ctx context.Context, names []string) ([]source, error) {
	var (
		srcs  = make([]source, 0, len(names))
		seen  []os.FileInfo
		stdin bool
	)

	for _, name := range names {
		if name == stdinSource {
			if stdin {
				continue
			}

			stdin = true

			text, err := readAll(inputFrom(ctx))
			if err != nil {
				return nil, ErrReadSource.With(slog.String("file", stdinName)).Wrap(err)
			}

			srcs = append(srcs, source{name: stdinName, text: text})

			continue
		}

		info, err := os.Stat(name)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", name)).Wrap(err)
		}

		if slices.ContainsFunc(seen, func(fi os.FileInfo) bool {
			return os.SameFile(fi, info)
		}) {
			log.TraceContext(ctx, "skipping duplicate source",
				slog.String("file", name),
			)

			continue
		}

		seen = append(seen, info)

		text, err := readFile(name)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", name)).Wrap(err)
		}

		srcs = append(srcs, source{name: name, text: text})
	}

	return srcs, nil
}

func readFile(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}

	defer f.Close()

	return readAll(f)
}

// readAll reads r to EOF through a read-ahead buffer.
func readAll(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// readSource reads exactly one template.
func readSource(ctx context.Context, name string) (source, error) {
	srcs, err := readSources(ctx, []string{name})
	if err != nil {
		return source{}, err
	}

	return srcs[0], nil
}

// commandError attaches the command name to err. A [*lang.ParseError] is
// wrapped rather than unwrapped so its diagnostics are kept.
func commandError(name string, err error) error {
	if err == nil {
		return nil
	}

	attr := slog.String("command", name)

	if ee, ok := err.(*lang.Error); ok {
		return ee.With(attr)
	}

	return ErrCommand.Wrap(err).With(attr)
}
