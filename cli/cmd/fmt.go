package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/jtl/lang"
)

// Fmt parses a template and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as normalized jtl syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Print an outline of the syntax tree."`
}

// Native formats input as normalized jtl syntax.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	src, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return fmtError("native", src.Format(ctx, outputFrom(ctx)))
}

// JSON formats the syntax tree of input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output; 0 for compact." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	src, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return fmtError("json", src.FormatJSON(ctx, outputFrom(ctx), j.Indent))
}

// YAML formats the syntax tree of input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 for flow style." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	src, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return fmtError("yaml", src.FormatYAML(ctx, outputFrom(ctx), y.Indent))
}

// AST prints an outline of the syntax tree with node spans.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	src, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return fmtError("ast", src.Dump(outputFrom(ctx)))
}

// parseSource reads and parses the template named name. Malformed input is
// an error.
func parseSource(ctx context.Context, name, format string) (*lang.Source, error) {
	text, err := readSource(ctx, name)
	if err != nil {
		return nil, fmtError(format, err)
	}

	src, err := lang.ParseString(text.text)
	if err != nil {
		return nil, fmtError(format, err)
	}

	return src, nil
}

func fmtError(format string, err error) error {
	if err == nil {
		return nil
	}

	ee, ok := commandError("fmt", err).(*lang.Error)
	if !ok {
		return err
	}

	return ee.With(slog.String("format", format))
}
