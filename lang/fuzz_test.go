package lang

import (
	"context"
	"testing"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"plain text",
		"Hay, {guild.saymore|\"world\"} \nwelcome to {guild.name}",
		"h{ {guild",
		"{a b c | \"x\"}",
		"{f|\"a\";|\"b\"}",
		"{5 6 7}",
		"}}{{..;;||}}",
		"{a.\r\n}",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Scan(input)
		if err != nil {
			return
		}

		src, diags := Parse(tokens)
		if src == nil {
			t.Fatal("Parse returned a nil tree")
		}

		for i := 1; i < len(diags); i++ {
			if diags[i-1].Span.Start.Compare(diags[i].Span.Start) > 0 {
				t.Fatalf("diagnostics out of order: %v", diags)
			}
		}

		doc := NewDocument(input)
		for off := 0; off <= doc.Len(); off++ {
			NodeAt(doc, off, src)
		}

		if len(diags) == 0 {
			// Canonical output reparses without diagnostics.
			again, err := ParseString(src.String())
			if err != nil {
				t.Fatalf("reparse of %q: %v", src.String(), err)
			}

			_, _ = NewRuntime(Object{}).Render(context.Background(), again)
		}
	})
}
