package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes src in canonical native syntax: text verbatim, and each tag
// as {path | arg; arg} with single spaces around the argument initializer.
func (src *Source) Format(_ context.Context, w io.Writer) error {
	var b strings.Builder

	for _, stmt := range src.Statements {
		switch s := stmt.(type) {
		case *TextStatement:
			b.WriteString(s.Value)

		case *TagStatement:
			formatTag(&b, &s.Expression)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// String returns the canonical native syntax of src.
func (src *Source) String() string {
	var b strings.Builder

	_ = src.Format(context.Background(), &b)

	return b.String()
}

func formatTag(b *strings.Builder, expr *Expression) {
	b.WriteByte('{')

	switch subj := expr.Subject.(type) {
	case *Property:
		b.WriteString(subj.Path())
	case *IntLiteral:
		b.WriteString(Integer(subj.Value).String())
	}

	if len(expr.Arguments) > 0 {
		if expr.Subject != nil {
			b.WriteByte(' ')
		}

		b.WriteString("| ")

		for i, arg := range expr.Arguments {
			if i > 0 {
				b.WriteString("; ")
			}

			b.WriteString(formatArgument(arg))
		}
	}

	b.WriteByte('}')
}

func formatArgument(arg Argument) string {
	switch a := arg.(type) {
	case *StringLiteral:
		return `"` + a.Value + `"`
	case *IntLiteral:
		return Integer(a.Value).String()
	case *Property:
		return a.Path()
	default:
		return ""
	}
}

// FormatJSON writes the syntax tree of src as JSON to the writer.
func (src *Source) FormatJSON(ctx context.Context, w io.Writer, indent int) error {
	data, err := yaml.MarshalContext(ctx, src.ToMap(), yaml.JSON())
	if err != nil {
		return err
	}

	if indent > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", strings.Repeat(" ", indent)); err != nil {
			return err
		}

		data = buf.Bytes()
	}

	_, err = fmt.Fprintln(w, strings.TrimRight(string(data), "\n"))

	return err
}

// FormatYAML writes the syntax tree of src as YAML to the writer.
func (src *Source) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	return src.encode(ctx, w, opts...)
}

func (src *Source) encode(
	ctx context.Context,
	w io.Writer,
	opts ...yaml.EncodeOption,
) error {
	data, err := yaml.MarshalContext(ctx, src.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, strings.TrimRight(string(data), "\n"))

	return err
}

// Dump writes an indented outline of the syntax tree of src, one node per
// line with its span.
func (src *Source) Dump(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Source %s\n", src.Span)

	for _, stmt := range src.Statements {
		switch s := stmt.(type) {
		case *TextStatement:
			fmt.Fprintf(&b, "  Text %s %q\n", s.Span, s.Value)

		case *TagStatement:
			fmt.Fprintf(&b, "  Tag %s\n", s.Span)
			dumpExpression(&b, &s.Expression)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func dumpExpression(b *strings.Builder, expr *Expression) {
	switch subj := expr.Subject.(type) {
	case *Property:
		fmt.Fprintf(b, "    Property %s %s\n", subj.Span, subj.Path())
	case *IntLiteral:
		fmt.Fprintf(b, "    Integer %s %d\n", subj.Span, subj.Value)
	}

	for _, arg := range expr.Arguments {
		switch a := arg.(type) {
		case *StringLiteral:
			fmt.Fprintf(b, "    Argument String %s %q\n", a.Span, a.Value)
		case *IntLiteral:
			fmt.Fprintf(b, "    Argument Integer %s %d\n", a.Span, a.Value)
		case *Property:
			fmt.Fprintf(b, "    Argument Property %s %s\n", a.Span, a.Path())
		}
	}
}
