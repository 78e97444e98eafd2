package balsa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorageEngine(t *testing.T) *StorageEngine {
	t.Helper()
	se, err := NewStorageEngine(StorageEngineConfig{Storage: NewMemoryStorage()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = se.Close() })
	return se
}

func TestNewStorageEngine(t *testing.T) {
	t.Run("requires storage", func(t *testing.T) {
		_, err := NewStorageEngine(StorageEngineConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilStorage)

		assert.Panics(t, func() { MustNewStorageEngine(StorageEngineConfig{}) })
	})

	t.Run("creates default engine", func(t *testing.T) {
		se := newTestStorageEngine(t)
		assert.NotNil(t, se.Engine())
		assert.NotNil(t, se.Storage())
		assert.True(t, se.ParsedCacheStats().Enabled)
	})

	t.Run("uses given engine", func(t *testing.T) {
		engine := MustNew(WithDelimiters("[[", "]]"))
		se := MustNewStorageEngine(StorageEngineConfig{Storage: NewMemoryStorage(), Engine: engine})
		defer se.Close()
		assert.Same(t, engine, se.Engine())
	})
}

func TestStorageEngine_SaveAndRender(t *testing.T) {
	se := newTestStorageEngine(t)
	ctx := context.Background()

	require.NoError(t, se.Save(ctx, &StoredTemplate{
		Name:      "greeting",
		Source:    `{{ salutation, type: string, defaultValue: "Hello" }} {{ name, type: string }}{{ mark, defaultValue: "!" }}`,
		Overrides: map[string]any{"name": "world"},
	}))

	t.Run("saved overrides apply", func(t *testing.T) {
		out, err := se.Render(ctx, "greeting", nil)
		require.NoError(t, err)
		assert.Equal(t, "Hello world!", out)
	})

	t.Run("caller overrides win", func(t *testing.T) {
		out, err := se.Render(ctx, "greeting", Overrides{"name": String("Ada"), "mark": String("?")})
		require.NoError(t, err)
		assert.Equal(t, "Hello Ada?", out)
	})

	t.Run("catalogue", func(t *testing.T) {
		cat, err := se.Catalogue(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, []string{"salutation", "name", "mark"}, cat.Names())
	})

	t.Run("missing template", func(t *testing.T) {
		_, err := se.Render(ctx, "absent", nil)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))

		_, err = se.Catalogue(ctx, "absent")
		assert.True(t, IsNotFoundError(err))
	})
}

func TestStorageEngine_Versions(t *testing.T) {
	se := newTestStorageEngine(t)
	ctx := context.Background()

	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "v", Source: `one {{ x, defaultValue: "a" }}`}))
	out, err := se.Render(ctx, "v", nil)
	require.NoError(t, err)
	assert.Equal(t, "one a", out)

	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "v", Source: `two {{ x, defaultValue: "b" }}`}))

	out, err = se.Render(ctx, "v", nil)
	require.NoError(t, err)
	assert.Equal(t, "two b", out)

	out, err = se.RenderVersion(ctx, "v", 1, Overrides{"x": String("z")})
	require.NoError(t, err)
	assert.Equal(t, "one z", out)

	_, err = se.RenderVersion(ctx, "v", 7, nil)
	assert.True(t, IsNotFoundError(err))

	versions, err := se.ListVersions(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, versions)
}

func TestStorageEngine_SaveRejectsInvalid(t *testing.T) {
	se := newTestStorageEngine(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		tmpl  *StoredTemplate
		check func(error) bool
	}{
		{
			name:  "empty name",
			tmpl:  &StoredTemplate{Source: "x"},
			check: func(err error) bool { return err != nil },
		},
		{
			name:  "syntax error",
			tmpl:  &StoredTemplate{Name: "bad", Source: "{{ a"},
			check: IsSyntaxError,
		},
		{
			name:  "type conflict",
			tmpl:  &StoredTemplate{Name: "bad", Source: `{{ a, type: string }}{{ a, type: number }}`},
			check: IsTypeConflictError,
		},
		{
			name:  "cyclic defaults",
			tmpl:  &StoredTemplate{Name: "bad", Source: `{{@ a: string = $a }}`},
			check: IsCyclicDefaultError,
		},
		{
			name: "non-primitive saved override",
			tmpl: &StoredTemplate{
				Name:      "bad",
				Source:    `{{ a }}`,
				Overrides: map[string]any{"a": []string{"x"}},
			},
			check: func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := se.Save(ctx, tt.tmpl)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}

	exists, err := se.Exists(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorageEngine_Validate(t *testing.T) {
	se := newTestStorageEngine(t)
	ctx := context.Background()

	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "form", Source: `{{ email, type: string }}`}))

	result, err := se.Validate(ctx, "form")
	require.NoError(t, err)
	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings(), 1)
	assert.Equal(t, "email", result.Warnings()[0].Variable)

	_, err = se.Validate(ctx, "absent")
	assert.True(t, IsNotFoundError(err))
}

func TestStorageEngine_ParsedCache(t *testing.T) {
	se := newTestStorageEngine(t)
	ctx := context.Background()

	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "c", Source: "static"}))
	assert.Zero(t, se.ParsedCacheStats().Entries)

	_, err := se.Render(ctx, "c", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, se.ParsedCacheStats().Entries)

	first, _, err := se.loadAndParse(ctx, "c")
	require.NoError(t, err)
	second, _, err := se.loadAndParse(ctx, "c")
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "c", Source: "changed"}))
	assert.Zero(t, se.ParsedCacheStats().Entries)

	out, err := se.Render(ctx, "c", nil)
	require.NoError(t, err)
	assert.Equal(t, "changed", out)

	se.ClearParsedCache()
	assert.Zero(t, se.ParsedCacheStats().Entries)
}

func TestStorageEngine_ParsedCacheRecreatedBehindEngine(t *testing.T) {
	storage := NewMemoryStorage()
	se := MustNewStorageEngine(StorageEngineConfig{Storage: storage})
	defer se.Close()
	ctx := context.Background()

	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "shared", Source: "old"}))
	out, err := se.Render(ctx, "shared", nil)
	require.NoError(t, err)
	assert.Equal(t, "old", out)

	// another writer deletes and recreates the template, so the version is 1 again
	require.NoError(t, storage.Delete(ctx, "shared"))
	recreated := &StoredTemplate{Name: "shared", Source: "new"}
	require.NoError(t, storage.Save(ctx, recreated))
	require.Equal(t, 1, recreated.Version)

	out, err = se.Render(ctx, "shared", nil)
	require.NoError(t, err)
	assert.Equal(t, "new", out)
}

func TestStorageEngine_ParsedCacheDisabled(t *testing.T) {
	se := MustNewStorageEngine(StorageEngineConfig{
		Storage:                    NewMemoryStorage(),
		DisableParsedTemplateCache: true,
	})
	defer se.Close()

	ctx := context.Background()
	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "n", Source: "x"}))
	_, err := se.Render(ctx, "n", nil)
	require.NoError(t, err)

	stats := se.ParsedCacheStats()
	assert.False(t, stats.Enabled)
	assert.Zero(t, stats.Entries)
}

func TestStorageEngine_DelegatesToStorage(t *testing.T) {
	se := newTestStorageEngine(t)
	ctx := context.Background()

	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "a", Source: "1", Tags: []string{"x"}}))
	require.NoError(t, se.Save(ctx, &StoredTemplate{Name: "b", Source: "2"}))

	got, err := se.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got.Source)

	list, err := se.List(ctx, &TemplateQuery{Tags: []string{"x"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Name)

	_, err = se.Render(ctx, "a", nil)
	require.NoError(t, err)
	require.NoError(t, se.Delete(ctx, "a"))
	assert.Zero(t, se.ParsedCacheStats().Entries)

	exists, err := se.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.True(t, IsNotFoundError(se.Delete(ctx, "a")))
}

func TestStorageEngine_WithCachedSQLite(t *testing.T) {
	backend, err := NewSQLiteStorage(t.TempDir() + "/engine.db")
	require.NoError(t, err)

	se := MustNewStorageEngine(StorageEngineConfig{
		Storage: NewCachedStorage(backend, DefaultCacheConfig()),
	})
	defer se.Close()

	ctx := context.Background()
	require.NoError(t, se.Save(ctx, &StoredTemplate{
		Name:      "header",
		Source:    headerTemplate,
		Overrides: map[string]any{"headerText": "stored"},
	}))

	out, err := se.Render(ctx, "header", nil)
	require.NoError(t, err)
	assert.Equal(t, "<h1>stored</h1>", out)

	out, err = se.Render(ctx, "header", Overrides{"headerText": String("live")})
	require.NoError(t, err)
	assert.Equal(t, "<h1>live</h1>", out)
}
