package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/jtl/lang"
)

func render(t *testing.T, source string) string {
	t.Helper()

	out, err := lang.NewRuntime(Builtins()).Execute(context.Background(), source)
	require.NoError(t, err)

	return out
}

func TestBuiltins_Strings(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`{str.upper|"hello"}`, "HELLO"},
		{`{str.lower|"HeLLo"}`, "hello"},
		{`{str.title|"hello world"}`, "Hello World"},
		{`{str.trim|"  x  "}`, "x"},
		{`{str.join|"-"; "a"; "b"; 3}`, "a-b-3"},
		{`{path.base|"/a/b/c.txt"}`, "c.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.source))
		})
	}
}

func TestBuiltins_Platform(t *testing.T) {
	t.Setenv("GOHOSTOS", "linux")
	t.Setenv("GOHOSTARCH", "amd64")

	assert.Equal(t, target{OS: "linux", Arch: "amd64"}, getPlatform())
	assert.Equal(t, target{OS: "linux", Arch: "x86_64"}, getTarget())

	t.Setenv("GOHOSTOS", "darwin")
	t.Setenv("GOHOSTARCH", "arm64")

	assert.Equal(t, "arm64", getTarget().Arch)
}

func TestBuiltins_PlatformDefault(t *testing.T) {
	if _, ok := os.LookupEnv("GOHOSTOS"); ok {
		t.Skip("GOHOSTOS is set")
	}

	if _, ok := os.LookupEnv("GOOS"); ok {
		t.Skip("GOOS is set")
	}

	assert.Equal(t, runtime.GOOS, render(t, "{platform.os}"))
}

func TestBuiltins_Env(t *testing.T) {
	t.Setenv("JTL_TEST_VALUE", "present")

	assert.Equal(t, "present", render(t, "{env.JTL_TEST_VALUE}"))
	assert.Equal(t, "present", render(t, `{getenv|"JTL_TEST_VALUE"}`))

	obj := envObject([]string{"A=1", "B=x=y", "broken"})
	assert.Equal(t, lang.Object{"A": lang.String("1"), "B": lang.String("x=y")}, obj)
}

func TestBuiltins_Files(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	link := filepath.Join(dir, "l")

	require.NoError(t, os.WriteFile(file, nil, 0o600))
	require.NoError(t, os.Symlink(file, link))

	r := lang.NewRuntime(Builtins().Merge(lang.Object{
		"dir":  lang.String(dir),
		"file": lang.Object{"path": lang.String(file)},
		"link": lang.String(link),
	}))

	tests := []struct {
		source string
		want   string
	}{
		{"{file.exists|dir}", "true"},
		{"{file.isDir|dir}", "true"},
		{"{file.isRegular|file.path}", "true"},
		{"{file.isRegular|dir}", "false"},
		{"{file.isSymlink|link}", "true"},
		{"{file.isSymlink|file.path}", "false"},
		{`{file.exists|"/nonexistent/jtl"}`, "false"},
		{`{path.rel|dir; file.path}`, "f"},
		{`{path.cat|dir; "f"}`, file},
		{`{path.dir|file.path}`, dir},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := r.Execute(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuiltins_Mung(t *testing.T) {
	sep := string(os.PathListSeparator)
	dir := t.TempDir()

	items := strings.Split(mungPrefix("/a", "/b", "/c"), sep)
	assert.Subset(t, items, []string{"/a", "/b", "/c"})

	items = strings.Split(mungPrefixDirs("", dir, "/nonexistent/jtl"), sep)
	assert.Contains(t, items, dir)
	assert.NotContains(t, items, "/nonexistent/jtl")
}

func TestBuiltins_Arguments(t *testing.T) {
	r := lang.NewRuntime(Builtins())

	for _, source := range []string{
		"{str.upper}",
		`{str.upper|"a"; "b"}`,
		"{str.upper|platform}",
		`{cwd|"x"}`,
	} {
		_, err := r.Execute(context.Background(), source)
		assert.True(t, errors.Is(err, ErrArgument), "%s: %v", source, err)
		assert.True(t, errors.Is(err, lang.ErrCall), "%s: %v", source, err)
	}
}

func TestBuiltins_Isolated(t *testing.T) {
	a := Builtins()
	a["extra"] = lang.String("x")

	_, ok := Builtins()["extra"]
	assert.False(t, ok)
}
