package i18n

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// DefaultLanguage is used when nothing else is known.
const DefaultLanguage = "en"

const (
	maxAcceptLanguageLength = 4096
	maxLangCodeLength       = 35
)

type weightedLang struct {
	lang string
	q    float64
}

// parseAcceptLanguage returns the header's tags, lowercased, by descending
// quality. Entries with a malformed q keep q=1.
func parseAcceptLanguage(header string) []weightedLang {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var out []weightedLang
	for part := range strings.SplitSeq(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || tag == "*" {
			continue
		}
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
				q = f
			}
		}
		out = append(out, weightedLang{lang: tag, q: q})
	}

	slices.SortStableFunc(out, func(a, b weightedLang) int { return cmp.Compare(b.q, a.q) })
	return out
}

// baseLang strips the region: "de-at" becomes "de".
func baseLang(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	return lang
}

// ParseAcceptLanguage negotiates header against supported. Exact tags win
// over base-language matches; defaultLang is returned when nothing matches.
func ParseAcceptLanguage(header string, supported []string, defaultLang string) string {
	if header == "" || len(supported) == 0 {
		return defaultLang
	}
	langs := parseAcceptLanguage(header)
	m := newMatcher(supported)

	for _, l := range langs {
		if slices.Contains(m.supported, l.lang) {
			return l.lang
		}
	}
	for _, l := range langs {
		if b := baseLang(l.lang); slices.Contains(m.supported, b) {
			return b
		}
	}
	return defaultLang
}

type matcher struct {
	supported []string
}

func newMatcher(supported []string) matcher {
	m := matcher{supported: make([]string, len(supported))}
	for i, s := range supported {
		m.supported[i] = strings.ToLower(s)
	}
	return m
}

// match normalises lang and checks it against the supported list. With no
// list every well-formed tag is accepted.
func (m matcher) match(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || len(lang) > maxLangCodeLength {
		return ""
	}
	if len(m.supported) == 0 || slices.Contains(m.supported, lang) {
		return lang
	}
	if b := baseLang(lang); slices.Contains(m.supported, b) {
		return b
	}
	return ""
}

type extractorConfig struct {
	queryParam string
	supported  []string
}

// ExtractorOption configures DefaultLangExtractor.
type ExtractorOption func(*extractorConfig)

// WithQueryParamName sets the query parameter checked first. Default "lang".
func WithQueryParamName(name string) ExtractorOption {
	return func(c *extractorConfig) {
		if name != "" {
			c.queryParam = name
		}
	}
}

// WithSupportedLanguages restricts results to langs.
func WithSupportedLanguages(langs ...string) ExtractorOption {
	return func(c *extractorConfig) {
		if len(langs) > 0 {
			c.supported = langs
		}
	}
}

// DefaultLangExtractor reads the query parameter, then Accept-Language.
func DefaultLangExtractor(opts ...ExtractorOption) LangExtractor {
	cfg := extractorConfig{queryParam: "lang"}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := newMatcher(cfg.supported)

	return func(r *http.Request) string {
		if lang := m.match(r.URL.Query().Get(cfg.queryParam)); lang != "" {
			return lang
		}
		header := r.Header.Get("Accept-Language")
		if header == "" {
			return ""
		}
		if len(cfg.supported) > 0 {
			return ParseAcceptLanguage(header, cfg.supported, "")
		}
		if langs := parseAcceptLanguage(header); len(langs) > 0 {
			return m.match(langs[0].lang)
		}
		return ""
	}
}
