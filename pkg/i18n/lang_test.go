package i18n_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formkit/pkg/i18n"
)

func TestParseAcceptLanguage(t *testing.T) {
	t.Parallel()
	supported := []string{"en", "de", "fr-CA"}

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"exact match", "de", "de"},
		{"quality order", "en;q=0.5, fr-ca;q=0.9", "fr-ca"},
		{"base language", "de-AT,xx;q=0.1", "de"},
		{"exact beats base", "de-CH, en", "en"},
		{"no match", "ja, zh", "default"},
		{"empty", "", "default"},
		{"malformed q keeps weight", "de;q=abc, en;q=0.9", "de"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, i18n.ParseAcceptLanguage(tc.header, supported, "default"))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	handler := i18n.Middleware(i18n.DefaultLangExtractor(i18n.WithSupportedLanguages("en", "de")))(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = i18n.Locale(r.Context())
		}))

	cases := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"accept-language", "/", "de-DE,en;q=0.8", "de"},
		{"query wins", "/?lang=en", "de", "en"},
		{"unsupported query falls through", "/?lang=xx", "de", "de"},
		{"nothing known", "/", "", i18n.DefaultLanguage},
		{"unsupported header", "/", "ja", i18n.DefaultLanguage},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		if tc.header != "" {
			req.Header.Set("Accept-Language", tc.header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestDefaultLangExtractorWithoutList(t *testing.T) {
	t.Parallel()

	extract := i18n.DefaultLangExtractor(i18n.WithQueryParamName("locale"))
	req := httptest.NewRequest(http.MethodGet, "/?locale=PT-br", nil)
	assert.Equal(t, "pt-br", extract(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr;q=0.4, it")
	assert.Equal(t, "it", extract(req))
}
