package validator

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"maps"

	"github.com/dmitrymomot/formkit/pkg/i18n"
)

//go:embed locales/*.yaml
var locales embed.FS

// Messages returns the built-in translations of every rule message, keyed
// by the TranslationKey rules set.
func Messages() (i18n.Catalog, error) {
	files, err := fs.Glob(locales, "locales/*.yaml")
	if err != nil {
		return nil, err
	}
	out := make(i18n.Catalog)
	for _, name := range files {
		content, err := locales.ReadFile(name)
		if err != nil {
			return nil, err
		}
		cat, err := i18n.YAMLParser{}.Parse(context.Background(), content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out.Merge(cat)
	}
	return out, nil
}

// NewTranslator returns a translator over the built-in messages merged with
// extra, whose entries win.
func NewTranslator(extra i18n.Catalog, opts ...i18n.Option) (*i18n.Translator, error) {
	cat, err := Messages()
	if err != nil {
		return nil, err
	}
	cat.Merge(extra)
	return i18n.NewTranslator(cat, opts...)
}

// Localize returns a copy of errs with messages in lang. Errors without a
// key or a translation keep their message. A nil tr returns errs as is.
func Localize(tr *i18n.Translator, lang string, errs ValidationErrors) ValidationErrors {
	if tr == nil || len(errs) == 0 {
		return errs
	}
	out := make(ValidationErrors, len(errs))
	for i, e := range errs {
		if e.TranslationKey != "" {
			if msg, ok := tr.Translate(lang, e.TranslationKey, e.TranslationValues); ok {
				e.Message = msg
			}
		}
		e.TranslationValues = maps.Clone(e.TranslationValues)
		out[i] = e
	}
	return out
}
