// Package i18n localises messages, chiefly the validation errors produced by
// pkg/validator.
//
// A Catalog maps a language to a nested tree of messages loaded from YAML or
// JSON files:
//
//	en:
//	  validation:
//	    required: "is required"
//	    min:
//	      string: "must be at least %{min} characters long"
//	      other: "must be at least %{min}"
//
// Keys are dotted paths. A key that resolves to a map picks the entry named
// by the "kind" param, or "other". Placeholders use %{name}.
//
//	cat, err := i18n.LoadFiles(ctx, "locales/app.yaml")
//	tr, err := i18n.NewTranslator(cat, i18n.WithDefaultLanguage("en"))
//	msg := tr.T("de-AT", "validation.required", nil) // de-at, then de, then en
//
// Middleware stores the request language, chosen by a LangExtractor (query
// parameter, then Accept-Language), in the request context; Locale reads it
// back.
package i18n
