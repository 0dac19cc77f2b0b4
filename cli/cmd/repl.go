package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/jtl/cli/cmd/repl"
	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/log"
	"github.com/ardnew/jtl/service"
)

// Repl starts an interactive session that renders each line of input.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file." negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string

	if !r.NoHistory {
		if ktx := kongContextFrom(ctx); ktx != nil {
			cacheDir = ktx.Model.Vars()[CacheIdentifier]
		}
	}

	h := hostFrom(ctx)

	load := func(ctx context.Context) (*lang.Runtime, *service.Schema, error) {
		obj, err := h.Object(ctx)
		if err != nil {
			return nil, nil, err
		}

		schema, err := h.Schema(ctx, obj)
		if err != nil {
			return nil, nil, err
		}

		log.TraceContext(ctx, "repl context",
			slog.Int("globals", len(obj)),
			slog.Int("structs", len(schema.Structs)),
		)

		return h.Runtime(obj), schema, nil
	}

	return commandError("repl", repl.Run(ctx, load, cacheDir, log.Default()))
}
