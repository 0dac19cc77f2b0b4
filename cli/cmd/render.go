package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/jtl/log"
)

// Render renders templates against the host context and writes the
// concatenated output.
type Render struct {
	Output string `help:"Write output to file instead of stdout." placeholder:"FILE" short:"o" type:"path"`

	Sources []string `arg:"" default:"-" help:"Template file(s) or '-' for stdin." name:"source"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := readSources(ctx, r.Sources)
	if err != nil {
		return commandError("render", err)
	}

	h := hostFrom(ctx)

	obj, err := h.Object(ctx)
	if err != nil {
		return commandError("render", err)
	}

	rt := h.Runtime(obj)

	var buf strings.Builder

	for _, src := range srcs {
		out, err := rt.Execute(ctx, src.text)
		if err != nil {
			return commandError("render", err)
		}

		log.DebugContext(ctx, "rendered template",
			slog.String("source", src.name),
			slog.Int("length", len(out)),
		)

		buf.WriteString(out)
	}

	if r.Output == "" {
		if _, err := io.WriteString(outputFrom(ctx), buf.String()); err != nil {
			return commandError("render", ErrWriteOutput.Wrap(err))
		}

		return nil
	}

	return commandError("render", writeOutput(r.Output, buf.String()))
}

// writeOutput replaces the content of path with s.
func writeOutput(path, s string) (err error) {
	wrap := func(err error) error {
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	f, err := os.Create(path)
	if err != nil {
		return wrap(err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = wrap(cerr)
		}
	}()

	if _, err := io.WriteString(f, s); err != nil {
		return wrap(err)
	}

	return nil
}
