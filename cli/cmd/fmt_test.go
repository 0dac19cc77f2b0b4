package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/jtl/lang"
)

func TestNativeRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"property", "Hi {  guild . name  }!", "Hi {guild.name}!"},
		{"arguments", `{ a . b|"s" ;1;c}`, `{a.b | "s"; 1; c}`},
		{"text", "plain\ntext", "plain\ntext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, tt.input)

			if err := (&Native{Source: "-"}).Run(ctx); err != nil {
				t.Fatalf("Native.Run() error = %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNativeRun_Malformed(t *testing.T) {
	ctx, out := testContext(t, "{a..b}")

	err := (&Native{Source: "-"}).Run(ctx)
	if !errors.Is(err, lang.ErrParse) {
		t.Fatalf("Native.Run() error = %v, want ErrParse", err)
	}

	var ee *lang.Error
	if !errors.As(err, &ee) {
		t.Fatalf("error %T is not *lang.Error", err)
	}

	if v, ok := ee.Attr("format"); !ok || v.String() != "native" {
		t.Errorf("format attr = %v (%v)", v, ok)
	}

	if out.Len() != 0 {
		t.Errorf("partial output %q", out.String())
	}
}

func TestJSONRun(t *testing.T) {
	for _, indent := range []int{0, 4} {
		ctx, out := testContext(t, `a{b.c|"s";1}`)

		if err := (&JSON{Indent: indent, Source: "-"}).Run(ctx); err != nil {
			t.Fatalf("JSON.Run() error = %v", err)
		}

		var tree struct {
			Type string           `json:"type"`
			Body []map[string]any `json:"body"`
		}

		if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
			t.Fatalf("indent %d: invalid JSON: %v\n%s", indent, err, out.String())
		}

		if tree.Type != "Source" || len(tree.Body) != 2 {
			t.Errorf("indent %d: tree = %+v", indent, tree)
		}
	}
}

func TestYAMLRun(t *testing.T) {
	ctx, out := testContext(t, `{f|"x"}`)

	if err := (&YAML{Indent: 2, Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("YAML.Run() error = %v", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out.String())
	}

	if tree["type"] != "Source" {
		t.Errorf("type = %v, want Source", tree["type"])
	}
}

func TestASTRun(t *testing.T) {
	ctx, out := testContext(t, `a{x.y|"s";2}`)

	if err := (&AST{Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("AST.Run() error = %v", err)
	}

	want := `Source 1:1-1:13
  Text 1:1-1:2 "a"
  Tag 1:2-1:13
    Property 1:3-1:6 x.y
    Argument String 1:7-1:10 "s"
    Argument Integer 1:11-1:12 2
`
	if got := out.String(); got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}
