package i18n

import (
	"context"
	"net/http"
)

type localeContextKey struct{}

// LangExtractor picks the request language. An empty result means no
// preference.
type LangExtractor func(r *http.Request) string

// WithLocale returns a copy of ctx carrying lang.
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, lang)
}

// Locale returns the language stored in ctx, or DefaultLanguage.
func Locale(ctx context.Context) string {
	if lang, _ := ctx.Value(localeContextKey{}).(string); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// Middleware stores the language chosen by extr in the request context.
// A nil extr uses DefaultLangExtractor.
func Middleware(extr LangExtractor) func(http.Handler) http.Handler {
	if extr == nil {
		extr = DefaultLangExtractor()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := extr(r)
			if lang == "" {
				lang = DefaultLanguage
			}
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), lang)))
		})
	}
}
