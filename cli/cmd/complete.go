package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/service"
)

// Cursor is a one-based position given on the command line.
type Cursor struct {
	Row int `default:"1" help:"Line of the cursor, starting at 1."`
	Col int `default:"1" help:"Column of the cursor, starting at 1."`
}

func (c Cursor) position() (lang.Position, error) {
	if c.Row < 1 || c.Col < 1 {
		return lang.Position{}, ErrPosition.With(
			slog.Int("row", c.Row),
			slog.Int("col", c.Col),
		)
	}

	return lang.Position{Row: c.Row - 1, Col: c.Col - 1}, nil
}

// Complete lists the names that can be written at a cursor position of a
// template, best match first.
type Complete struct {
	Cursor `embed:""`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"f"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the complete command.
func (c *Complete) Run(ctx context.Context) error {
	items, err := query(ctx, c.Cursor, c.Source,
		func(text string, at lang.Position, schema *service.Schema) []service.Completion {
			return service.Complete(text, at, schema)
		},
	)
	if err != nil {
		return commandError("complete", err)
	}

	w := outputFrom(ctx)

	if c.Format == "text" {
		for _, item := range items {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", item.Label, item.Kind, item.Detail); err != nil {
				return commandError("complete", ErrWriteOutput.Wrap(err))
			}
		}

		return nil
	}

	if items == nil {
		items = []service.Completion{}
	}

	return commandError("complete", encode(ctx, w, c.Format, items))
}

// Hover describes the property under a cursor position of a template.
// Nothing is written if the cursor is not on a declared property.
type Hover struct {
	Cursor `embed:""`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"f"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the hover command.
func (h *Hover) Run(ctx context.Context) error {
	tips, err := query(ctx, h.Cursor, h.Source,
		func(text string, at lang.Position, schema *service.Schema) []service.Tooltip {
			if tip, ok := service.Hover(text, at, schema); ok {
				return []service.Tooltip{tip}
			}

			return nil
		},
	)
	if err != nil || len(tips) == 0 {
		return commandError("hover", err)
	}

	w := outputFrom(ctx)

	if h.Format == "text" {
		if _, err := fmt.Fprintln(w, tips[0]); err != nil {
			return commandError("hover", ErrWriteOutput.Wrap(err))
		}

		return nil
	}

	return commandError("hover", encode(ctx, w, h.Format, tips[0]))
}

// query runs f on the template named source at the cursor, with the schema
// of the host.
func query[T any](
	ctx context.Context,
	at Cursor,
	name string,
	f func(string, lang.Position, *service.Schema) []T,
) ([]T, error) {
	pos, err := at.position()
	if err != nil {
		return nil, err
	}

	src, err := readSource(ctx, name)
	if err != nil {
		return nil, err
	}

	h := hostFrom(ctx)

	obj, err := h.Object(ctx)
	if err != nil {
		return nil, err
	}

	schema, err := h.Schema(ctx, obj)
	if err != nil {
		return nil, err
	}

	return f(src.text, pos, schema), nil
}

// encode writes v as JSON or YAML.
func encode(ctx context.Context, w io.Writer, format string, v any) error {
	var opts []yaml.EncodeOption
	if format == "json" {
		opts = append(opts, yaml.JSON())
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
