package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/log"
	"github.com/ardnew/jtl/service"
)

// Check reports the diagnostics of templates, one per line in the form
// "source:row:col: severity: message". It fails if any diagnostic is an
// error.
type Check struct {
	Validate bool `help:"Also warn about properties the schema does not declare." short:"V"`

	Sources []string `arg:"" default:"-" help:"Template file(s) or '-' for stdin." name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := readSources(ctx, c.Sources)
	if err != nil {
		return commandError("check", err)
	}

	var schema *service.Schema

	if c.Validate {
		h := hostFrom(ctx)

		obj, err := h.Object(ctx)
		if err != nil {
			return commandError("check", err)
		}

		if schema, err = h.Schema(ctx, obj); err != nil {
			return commandError("check", err)
		}
	}

	w := outputFrom(ctx)
	errs := 0

	for _, src := range srcs {
		var diags []lang.Diagnostic
		if schema != nil {
			diags = service.Validate(src.text, schema)
		} else {
			diags = service.Diagnose(src.text)
		}

		log.DebugContext(ctx, "checked template",
			slog.String("source", src.name),
			slog.Int("diagnostics", len(diags)),
		)

		for _, d := range diags {
			if d.Severity == lang.SeverityError {
				errs++
			}

			_, err := fmt.Fprintf(w, "%s:%s: %s: %s\n",
				src.name, d.Span.Start, d.Severity, d.Message)
			if err != nil {
				return commandError("check", ErrWriteOutput.Wrap(err))
			}
		}
	}

	if errs > 0 {
		return commandError("check", ErrDiagnostics.With(slog.Int("errors", errs)))
	}

	return nil
}
