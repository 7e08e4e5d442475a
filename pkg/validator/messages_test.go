package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

func TestMessages(t *testing.T) {
	t.Parallel()

	cat, err := validator.Messages()
	require.NoError(t, err)
	assert.Contains(t, cat, "en")
	assert.Contains(t, cat, "de")

	tr, err := i18n.NewTranslator(cat)
	require.NoError(t, err)

	// Every message a built-in rule can produce has an English entry that
	// matches the rule's own text.
	cases := []struct {
		expr  string
		value any
		kind  validator.Kind
	}{
		{"required", "", validator.KindString},
		{"email", "nope", validator.KindString},
		{"min:3", "ab", validator.KindString},
		{"min:18", 17, validator.KindNumber},
		{"between:1:2", validator.Files{{Name: "a"}, {Name: "b"}, {Name: "c"}}, validator.KindFiles},
		{"max:2", "abc", validator.KindString},
		{"in:red:green", "blue", validator.KindString},
		{"accepted", false, validator.KindBool},
		{"min:1", true, validator.KindBool},
	}
	for _, tc := range cases {
		errs := validator.Evaluate(context.Background(), "f", tc.value, tc.kind, mustParse(t, validator.Default(), tc.expr)).Errors()
		require.NotEmpty(t, errs, tc.expr)
		for _, e := range errs {
			msg, ok := tr.Translate("en", e.TranslationKey, e.TranslationValues)
			require.True(t, ok, "%s: %s", tc.expr, e.TranslationKey)
			assert.Equal(t, e.Message, msg, tc.expr)
		}
	}
}

func TestLocalize(t *testing.T) {
	t.Parallel()

	tr, err := validator.NewTranslator(i18n.Catalog{
		"de": {"validation": map[string]any{"email": "ist keine E-Mail-Adresse"}},
	})
	require.NoError(t, err)

	errs := validator.ValidationErrors{
		{Field: "name", Rule: "min", Message: "must be at least 3 characters long", TranslationKey: "validation.min",
			TranslationValues: map[string]any{"min": 3.0, "kind": "string"}},
		{Field: "email", Rule: "email", Message: "must be a valid email address", TranslationKey: "validation.email"},
		{Field: "login", Rule: "taken", Message: "is taken"},
		{Field: "code", Rule: "remote", Message: "is unknown", TranslationKey: "validation.remote"},
	}

	got := validator.Localize(tr, "de-DE", errs)
	require.Len(t, got, 4)
	assert.Equal(t, "muss mindestens 3 Zeichen lang sein", got[0].Message)
	assert.Equal(t, "ist keine E-Mail-Adresse", got[1].Message, "extra catalog wins")
	assert.Equal(t, "is taken", got[2].Message, "no key keeps the message")
	assert.Equal(t, "is unknown", got[3].Message, "missing translation keeps the message")
	assert.Equal(t, "must be at least 3 characters long", errs[0].Message, "input is not modified")

	got[0].TranslationValues["min"] = 9.0
	assert.Equal(t, 3.0, errs[0].TranslationValues["min"])

	assert.Equal(t, errs, validator.Localize(nil, "de", errs))
}
