package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/jtl/lang"
)

func TestWorkspace_Lifecycle(t *testing.T) {
	ctx := context.Background()
	w := NewWorkspace(WithSchema(testSchema()))

	w.Open(ctx, "file:///a.jtl", 1, "{guild.}")

	items, err := w.Complete("file:///a.jtl", lang.Position{Col: 7})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "meta", "saymore"}, labels(items))

	diags, err := w.Diagnose("file:///a.jtl")
	require.NoError(t, err)
	assert.Len(t, diags, 1)

	require.NoError(t, w.Update(ctx, "file:///a.jtl", 2, "{guild.name}"))

	version, ok := w.Version("file:///a.jtl")
	assert.True(t, ok)
	assert.Equal(t, 2, version)

	diags, err = w.Diagnose("file:///a.jtl")
	require.NoError(t, err)
	assert.Empty(t, diags)

	tip, ok, err := w.Hover("file:///a.jtl", lang.Position{Col: 9})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "guild.name", tip.Path)

	assert.Equal(t, []string{"file:///a.jtl"}, w.Documents())

	w.Close(ctx, "file:///a.jtl")
	assert.Empty(t, w.Documents())

	_, err = w.Diagnose("file:///a.jtl")
	assert.True(t, errors.Is(err, ErrNotOpen))
}

func TestWorkspace_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	w := NewWorkspace()

	err := w.Update(ctx, "file:///missing", 1, "")
	assert.True(t, errors.Is(err, ErrNotOpen))

	w.Open(ctx, "file:///a", 3, "a")

	err = w.Update(ctx, "file:///a", 3, "b")
	assert.True(t, errors.Is(err, ErrStaleVersion))

	var ee *lang.Error
	require.True(t, errors.As(err, &ee))

	current, ok := ee.Attr("current")
	require.True(t, ok)
	assert.Equal(t, int64(3), current.Int64())
}

func TestWorkspace_CacheBounded(t *testing.T) {
	ctx := context.Background()
	w := NewWorkspace()

	w.Open(ctx, "file:///a", 1, "{guild.name}")

	for v := 2; v < 500; v++ {
		require.NoError(t, w.Update(ctx, "file:///a", v, "{guild.name} "+strconv.Itoa(v)))
	}

	assert.Equal(t, 1, w.cache.Len())

	assert.Error(t, w.Update(ctx, "file:///missing", 1, "unseen"))
	assert.Error(t, w.Update(ctx, "file:///a", 2, "stale"))
	assert.Equal(t, 1, w.cache.Len())

	w.Open(ctx, "file:///b", 1, "shared")
	w.Open(ctx, "file:///c", 1, "shared")
	assert.Equal(t, 2, w.cache.Len())

	w.Close(ctx, "file:///b")
	assert.Equal(t, 2, w.cache.Len(), "content still open at file:///c")

	w.Close(ctx, "file:///c")
	w.Close(ctx, "file:///a")
	assert.Zero(t, w.cache.Len())

	w.Close(ctx, "file:///a")
	assert.Zero(t, w.cache.Len())
}

func TestWorkspace_ValidatesWithSchema(t *testing.T) {
	ctx := context.Background()
	w := NewWorkspace()

	w.Open(ctx, "u", 1, "{nope}")

	diags, err := w.Diagnose("u")
	require.NoError(t, err)
	assert.Empty(t, diags)

	w.SetSchema(testSchema())

	diags, err = w.Diagnose("u")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, lang.SeverityWarning, diags[0].Severity)
}

func TestWorkspace_Concurrent(t *testing.T) {
	ctx := context.Background()
	w := NewWorkspace(WithSchema(testSchema()))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			uri := "file:///" + strconv.Itoa(i%4)
			w.Open(ctx, uri, i, "{guild.}")

			_, err := w.Complete(uri, lang.Position{Col: 7})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Len(t, w.Documents(), 4)
}
