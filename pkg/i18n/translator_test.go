package i18n_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/zenblog/pkg/i18n"
	"github.com/dmitrymomot/zenblog/pkg/locale"
)

func newTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()
	adapter := &i18n.MapAdapter{Data: map[string]map[string]any{
		"en": {
			"hello":   "Hello",
			"welcome": "Welcome, %{name}!",
			"posts": map[string]any{
				"zero":  "No posts",
				"one":   "%{count} post",
				"other": "%{count} posts",
			},
			"nested": map[string]any{"greeting": "Nested greeting"},
			"onlyEn": "English only",
		},
		"fr": {
			"hello":   "Bonjour",
			"welcome": "Bienvenue, %{name}!",
			"posts": map[string]any{
				"one":   "%{count} article",
				"other": "%{count} articles",
			},
		},
	}}
	tr, err := i18n.NewTranslator(t.Context(), adapter, opts...)
	require.NoError(t, err)
	return tr
}

func TestNewTranslator(t *testing.T) {
	t.Parallel()

	t.Run("nil adapter", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewTranslator(t.Context(), nil)
		assert.ErrorIs(t, err, i18n.ErrNilAdapter)
	})

	t.Run("empty language code", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewTranslator(t.Context(), &i18n.MapAdapter{Data: map[string]map[string]any{"": {}}})
		assert.ErrorIs(t, err, i18n.ErrInvalidTranslations)
	})

	t.Run("supported languages sorted", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"en", "fr"}, newTranslator(t).SupportedLanguages())
	})
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	assert.Equal(t, "Bonjour", tr.T("fr", "hello"))
	assert.Equal(t, "Bienvenue, Ada!", tr.T("fr", "welcome", "name", "Ada"))
	assert.Equal(t, "Welcome, %{name}!", tr.T("en", "welcome"), "unknown placeholders stay")
	assert.Equal(t, "Nested greeting", tr.T("en", "nested.greeting"))

	t.Run("missing key uses default language", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "English only", tr.T("fr", "onlyEn"))
	})

	t.Run("unknown language uses default language", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Hello", tr.T("xx", "hello"))
	})

	t.Run("missing everywhere returns key", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "nope.key", tr.T("fr", "nope.key"))
		assert.Equal(t, "nested", tr.T("en", "nested"), "subtree is not a string")
	})

	t.Run("no fallback to key", func(t *testing.T) {
		t.Parallel()
		strict := newTranslator(t, i18n.WithFallbackToKey(false))
		assert.Empty(t, strict.T("en", "nope"))
	})

	t.Run("custom default language", func(t *testing.T) {
		t.Parallel()
		frFirst := newTranslator(t, i18n.WithDefaultLanguage("fr"))
		assert.Equal(t, "Bonjour", frFirst.Td("hello"))
		assert.Equal(t, "Bonjour", frFirst.T("de", "hello"))
	})
}

func TestTranslator_N(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	assert.Equal(t, "No posts", tr.N("en", "posts", 0))
	assert.Equal(t, "1 post", tr.N("en", "posts", 1))
	assert.Equal(t, "5 posts", tr.N("en", "posts", 5))
	assert.Equal(t, "0 articles", tr.N("fr", "posts", 0), "zero falls back to other")
	assert.Equal(t, "many posts", tr.N("en", "posts", 7, "count", "many"))

	t.Run("requested language forms win over default language", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "0 articles", tr.N("fr", "posts", 0))
		assert.Equal(t, "1 article", tr.N("fr", "posts", 1))
	})

	t.Run("default language forms when requested has none", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "No posts", tr.N("de", "posts", 0))
		assert.Equal(t, "3 posts", tr.N("de", "posts", 3))
	})

	t.Run("key when no language has a form", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "comments", tr.N("fr", "comments", 0))
	})
}

func TestTranslator_Tc(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	ctx := locale.WithLocale(context.Background(), locale.French)
	assert.Equal(t, "Bonjour", tr.Tc(ctx, "hello"))
	assert.Equal(t, "2 articles", tr.Nc(ctx, "posts", 2))
	assert.Equal(t, "Hello", tr.Tc(context.Background(), "hello"))
}

func TestTranslator_HasTranslation(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	assert.True(t, tr.HasTranslation("en", "nested.greeting"))
	assert.False(t, tr.HasTranslation("fr", "onlyEn"))
	assert.False(t, tr.HasTranslation("de", "hello"))
}

func TestTranslator_ExportJSON(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	data, err := tr.ExportJSON("fr")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Bonjour", got["hello"])

	data, err = tr.ExportJSON("ja")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"onlyEn":"English only"`)
}
