package service

import (
	"slices"
	"strconv"

	"github.com/ardnew/jtl/lang"
)

// Diagnose returns the findings for source, in source order.
//
// A scan failure yields exactly one diagnostic, one column wide at the
// failing position. Otherwise the parser's diagnostics are returned. All
// diagnostics have error severity.
func Diagnose(source string) []lang.Diagnostic {
	return diagnose(lang.Analyze(source))
}

func diagnose(p *lang.Parsed) []lang.Diagnostic {
	if p.LexErr != nil {
		return []lang.Diagnostic{lexDiagnostic(p.LexErr)}
	}

	return slices.Clone(p.Diagnostics)
}

func lexDiagnostic(err error) lang.Diagnostic {
	ee := lang.WrapError(err)
	at, _ := ee.Position()

	msg := ee.Message()
	if msg == "" {
		msg = err.Error()
	}

	return lang.Diagnostic{
		Message:  msg,
		Severity: lang.SeverityError,
		Span: lang.Span{
			Start: at,
			End:   lang.Position{Row: at.Row, Col: at.Col + 1},
		},
	}
}

// Validate returns the diagnostics of [Diagnose] followed by warnings for
// properties the schema does not declare and for arguments passed to
// structures. Warnings are only produced for a well-formed source.
func Validate(source string, schema *Schema) []lang.Diagnostic {
	return validate(lang.Analyze(source), schema)
}

func validate(p *lang.Parsed, schema *Schema) []lang.Diagnostic {
	diags := diagnose(p)
	if len(diags) > 0 || schema == nil || p.Source == nil {
		return diags
	}

	for _, stmt := range p.Source.Statements {
		tag, ok := stmt.(*lang.TagStatement)
		if !ok {
			continue
		}

		if prop, ok := tag.Expression.Subject.(*lang.Property); ok {
			m, ok := schema.lookup(prop.Segments)

			switch {
			case !ok:
				diags = append(diags, unknown(prop))

			case len(tag.Expression.Arguments) > 0 && m.typ() != TypeFunction:
				if _, isStruct := structName(m.typ()); isStruct {
					diags = append(diags, lang.Diagnostic{
						Message:  "arguments passed to structure " + strconv.Quote(prop.Path()),
						Severity: lang.SeverityWarning,
						Span:     prop.Span,
					})
				}
			}
		}

		for _, arg := range tag.Expression.Arguments {
			if prop, ok := arg.(*lang.Property); ok {
				if _, ok := schema.lookup(prop.Segments); !ok {
					diags = append(diags, unknown(prop))
				}
			}
		}
	}

	return diags
}

func unknown(prop *lang.Property) lang.Diagnostic {
	return lang.Diagnostic{
		Message:  "unknown property " + strconv.Quote(prop.Path()),
		Severity: lang.SeverityWarning,
		Span:     prop.Span,
	}
}
