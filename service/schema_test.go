package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	s := NewSchema()

	s.InsertGlobal("guild", StructRef("Guild"))
	s.InsertGlobal("user", TypeString)
	s.InsertGlobal("greet", TypeFunction)
	s.InsertGlobal("count", TypeInteger)

	s.InsertStruct("Guild",
		Field{Name: "name", Types: []string{TypeString, "display name"}},
		Field{Name: "meta", Types: []string{StructRef("Meta")}},
		Field{Name: "saymore", Types: []string{TypeFunction}},
	)
	s.InsertStruct("Meta",
		Field{Name: "created", Types: []string{TypeString}},
		Field{Name: "owner", Types: []string{StructRef("User")}},
	)
	s.InsertStruct("User",
		Field{Name: "nick", Types: []string{TypeString}},
	)

	return s
}

const schemaYAML = `
version: 1.0.0
globals:
  - name: guild
    type: "#Guild"
  - name: user
    type: String
structs:
  Guild:
    - name: name
      types: [String, display name]
    - name: meta
      types: ["#Meta"]
  Meta:
    - name: created
      types: [String]
`

const schemaJSON = `{
  "version": "1.0.0",
  "globals": [
    {"name": "guild", "type": "#Guild"},
    {"name": "user", "type": "String"}
  ],
  "structs": {
    "Guild": [
      {"name": "name", "types": ["String", "display name"]},
      {"name": "meta", "types": ["#Meta"]}
    ],
    "Meta": [{"name": "created", "types": ["String"]}]
  }
}`

func TestLoadSchema(t *testing.T) {
	for name, input := range map[string]string{"yaml": schemaYAML, "json": schemaJSON} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadSchema(context.Background(), strings.NewReader(input))
			require.NoError(t, err)

			assert.Equal(t, "1.0.0", s.Version)
			assert.Equal(t, []Global{
				{Name: "guild", Type: "#Guild"},
				{Name: "user", Type: "String"},
			}, s.Globals)

			fields, ok := s.Struct("#Guild")
			require.True(t, ok)
			require.Len(t, fields, 2)
			assert.Equal(t, "String", fields[0].Type())
			assert.Equal(t, []string{"display name"}, fields[0].Description())
			assert.Nil(t, fields[1].Description())
		})
	}
}

func TestLoadSchema_Invalid(t *testing.T) {
	_, err := LoadSchema(context.Background(), strings.NewReader("globals: {name: [}"))
	assert.Error(t, err)
}

func TestSchema_EncodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := testSchema()

	var buf bytes.Buffer
	require.NoError(t, want.Encode(ctx, &buf))

	got, err := LoadSchema(ctx, &buf)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestSchema_InsertGlobalReplaces(t *testing.T) {
	s := NewSchema()
	s.InsertGlobal("a", TypeString)
	s.InsertGlobal("b", TypeString)
	s.InsertGlobal("a", TypeInteger)

	assert.Equal(t, []Global{
		{Name: "a", Type: TypeInteger},
		{Name: "b", Type: TypeString},
	}, s.Globals)
}

func TestSchema_Lookup(t *testing.T) {
	s := testSchema()

	tests := []struct {
		path []string
		want string
		ok   bool
	}{
		{[]string{"guild"}, "#Guild", true},
		{[]string{"guild", "name"}, TypeString, true},
		{[]string{"guild", "meta", "owner", "nick"}, TypeString, true},
		{[]string{"guild", "nope"}, "", false},
		{[]string{"user", "x"}, "", false},
		{[]string{"nope"}, "", false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, "."), func(t *testing.T) {
			m, ok := s.lookup(tt.path)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, m.typ())
		})
	}
}

func TestSchema_Nil(t *testing.T) {
	var s *Schema

	_, ok := s.Global("x")
	assert.False(t, ok)

	_, ok = s.Struct("#X")
	assert.False(t, ok)

	_, ok = s.members(nil)
	assert.False(t, ok)
}
