package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/service"
)

const guildContext = `
data:
  guild:
    name: BarFight
    size: 42
    open: true
    rating: 4.5
    missing: null
functions:
  guild.saymore: args[0] + "_sayingmore"
  shout: upper(args[0]) + "!"
  nothing: nil
  greeting: '"hi " + data.guild.name'
`

func TestDecode(t *testing.T) {
	obj, err := Decode(context.Background(), strings.NewReader(guildContext))
	require.NoError(t, err)

	guild, ok := obj["guild"].(lang.Object)
	require.True(t, ok)

	assert.Equal(t, lang.String("BarFight"), guild["name"])
	assert.Equal(t, lang.Integer(42), guild["size"])
	assert.Equal(t, lang.String("true"), guild["open"])
	assert.Equal(t, lang.String("4.5"), guild["rating"])
	assert.NotContains(t, guild, "missing")
	assert.Equal(t, lang.KindFunction, lang.KindOf(guild["saymore"]))
}

func TestDecode_Render(t *testing.T) {
	ctx := context.Background()

	obj, err := Decode(ctx, strings.NewReader(guildContext))
	require.NoError(t, err)

	r := lang.NewRuntime(obj)

	tests := []struct {
		source string
		want   string
	}{
		{
			source: "Hay, {guild.saymore|\"world\"} \nwelcome to {guild.name}",
			want:   "Hay, world_sayingmore \nwelcome to BarFight",
		},
		{source: `{shout|"hey"}`, want: "HEY!"},
		{source: "{nothing}", want: lang.DefaultPlaceholder},
		{source: "{greeting}", want: "hi BarFight"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := r.Execute(ctx, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "malformed yaml",
			input: "data: [",
			want:  ErrContext,
		},
		{
			name:  "list value",
			input: "data:\n  items: [1, 2]\n",
			want:  ErrContext,
		},
		{
			name:  "bad expression",
			input: "functions:\n  f: 'args[0] +'\n",
			want:  ErrCompile,
		},
		{
			name:  "bad name",
			input: "functions:\n  a..b: '1'\n",
			want:  ErrInvalidName,
		},
		{
			name:  "digit in name",
			input: "functions:\n  f2: '1'\n",
			want:  ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(context.Background(), strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, tt.want), "error %v is not %v", err, tt.want)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	obj, err := Decode(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, obj)
}

func TestCompile_RuntimeError(t *testing.T) {
	fn, err := Compile("f", "args[5]", nil)
	require.NoError(t, err)

	_, err = lang.NewRuntime(lang.Object{"f": fn}).Execute(context.Background(), "{f}")
	assert.True(t, errors.Is(err, lang.ErrCall))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")

	require.NoError(t, os.WriteFile(first, []byte("data:\n  a: one\n  nested:\n    x: 1\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("data:\n  a: two\n  nested:\n    y: 2\n"), 0o600))

	base := lang.Object{"base": lang.String("kept")}

	obj, err := Load(context.Background(), base, first, second)
	require.NoError(t, err)

	assert.Equal(t, lang.Object{
		"base":   lang.String("kept"),
		"a":      lang.String("two"),
		"nested": lang.Object{"x": lang.Integer(1), "y": lang.Integer(2)},
	}, obj)

	assert.Len(t, base, 1, "base was modified")

	_, err = Load(context.Background(), base, filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, ErrContext))
}

func TestDescribe(t *testing.T) {
	obj := lang.Object{
		"guild": lang.Object{
			"name": lang.String("BarFight"),
			"meta": lang.Object{"size": lang.Integer(1)},
			"say":  lang.Function(func(...lang.Value) (lang.Value, error) { return nil, nil }),
		},
		"count": lang.Integer(3),
	}

	s := Describe(obj)

	assert.Equal(t, service.SchemaVersion, s.Version)
	assert.Equal(t, []service.Global{
		{Name: "count", Type: service.TypeInteger},
		{Name: "guild", Type: "#guild"},
	}, s.Globals)
	assert.Equal(t, []service.Field{
		{Name: "meta", Types: []string{"#guild.meta"}},
		{Name: "name", Types: []string{service.TypeString}},
		{Name: "say", Types: []string{service.TypeFunction}},
	}, s.Structs["guild"])
	assert.Equal(t, []service.Field{
		{Name: "size", Types: []string{service.TypeInteger}},
	}, s.Structs["guild.meta"])

	items := service.Complete("{guild.meta.}", lang.Position{Col: 12}, s)
	require.Len(t, items, 1)
	assert.Equal(t, "size", items[0].Label)
}
