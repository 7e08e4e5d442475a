package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/i18n"
)

func newTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.Catalog{
		"en": {
			"hello": "Hello, %{name}!",
			"validation": map[string]any{
				"required": "is required",
				"in_list":  "must be one of: %{allowed}",
				"min": map[string]any{
					"string": "must be at least %{min} characters long",
					"other":  "must be at least %{min}",
				},
			},
		},
		"de": {
			"hello": "Hallo, %{name}!",
			"validation": map[string]any{
				"required": "ist ein Pflichtfeld",
			},
		},
	}, opts...)
	require.NoError(t, err)
	return tr
}

func TestTranslator(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	t.Run("substitutes named params", func(t *testing.T) {
		assert.Equal(t, "Hello, Ada!", tr.T("en", "hello", map[string]any{"name": "Ada"}))
		assert.Equal(t, "Hallo, %{name}!", tr.T("de", "hello", nil), "unknown params stay")
	})

	t.Run("falls back to base then default language", func(t *testing.T) {
		assert.Equal(t, "ist ein Pflichtfeld", tr.T("de-AT", "validation.required", nil))
		msg, ok := tr.Translate("de", "validation.in_list", map[string]any{"allowed": []string{"a", "b"}})
		require.True(t, ok)
		assert.Equal(t, "must be one of: a, b", msg)
		assert.Equal(t, "is required", tr.T("fr", "validation.required", nil))
	})

	t.Run("map entries are narrowed by kind", func(t *testing.T) {
		assert.Equal(t, "must be at least 3 characters long",
			tr.T("en", "validation.min", map[string]any{"min": 3.0, "kind": "string"}))
		assert.Equal(t, "must be at least 18",
			tr.T("en", "validation.min", map[string]any{"min": 18.0, "kind": "number"}))
		_, ok := tr.Translate("en", "validation", nil)
		assert.False(t, ok, "a branch without other is not a message")
	})

	t.Run("missing key falls back to the key", func(t *testing.T) {
		_, ok := tr.Translate("en", "nope.missing", nil)
		assert.False(t, ok)
		assert.Equal(t, "nope.missing", tr.T("en", "nope.missing", nil))
	})

	t.Run("context language", func(t *testing.T) {
		ctx := i18n.WithLocale(context.Background(), "de")
		assert.Equal(t, "Hallo, Bo!", tr.Tc(ctx, "hello", map[string]any{"name": "Bo"}))
		assert.Equal(t, "Hello, Bo!", tr.Tc(context.Background(), "hello", map[string]any{"name": "Bo"}))
	})

	t.Run("languages and lookups", func(t *testing.T) {
		assert.Equal(t, []string{"de", "en"}, tr.SupportedLanguages())
		assert.True(t, tr.HasTranslation("de", "validation.required"))
		assert.False(t, tr.HasTranslation("de", "validation.in_list"))
	})
}

func TestTranslatorAdd(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t, i18n.WithDefaultLanguage("de"))

	assert.Equal(t, "Hallo, Al!", tr.T("fr", "hello", map[string]any{"name": "Al"}))

	tr.Add(i18n.Catalog{"en": {"validation": map[string]any{"required": "cannot be blank"}}})
	assert.Equal(t, "cannot be blank", tr.T("en", "validation.required", nil))
	assert.Equal(t, "must be at least 2", tr.T("en", "validation.min", map[string]any{"min": 2}), "siblings survive a merge")
}

func TestNewTranslatorRejectsEmptyLanguage(t *testing.T) {
	t.Parallel()
	_, err := i18n.NewTranslator(i18n.Catalog{"": {"a": "b"}})
	assert.ErrorIs(t, err, i18n.ErrInvalidTranslation)
}
