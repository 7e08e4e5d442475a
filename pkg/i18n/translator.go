package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language tried after the requested one.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = strings.ToLower(lang)
		}
	}
}

// WithLogger sets the logger for missing translations.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.log = l
		}
	}
}

// WithMissingTranslationsLogging logs a debug record for every miss.
func WithMissingTranslationsLogging(enabled bool) Option {
	return func(t *Translator) {
		t.logMissing = enabled
	}
}

// Translator resolves dotted keys against a Catalog and fills %{name}
// placeholders.
type Translator struct {
	mu          sync.RWMutex
	catalog     Catalog
	defaultLang string
	log         *slog.Logger
	logMissing  bool
}

// NewTranslator returns a Translator over a copy of catalog.
func NewTranslator(catalog Catalog, opts ...Option) (*Translator, error) {
	t := &Translator{
		catalog:     make(Catalog, len(catalog)),
		defaultLang: DefaultLanguage,
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	for lang, tree := range catalog {
		if lang == "" || tree == nil {
			return nil, fmt.Errorf("%w: empty language or tree", ErrInvalidTranslation)
		}
	}
	t.catalog.Merge(catalog)
	t.log = t.log.With(logger.Component("i18n"))
	return t, nil
}

// Add merges more translations, e.g. application overrides of the
// built-in messages.
func (t *Translator) Add(catalog Catalog) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.catalog.Merge(catalog)
}

// SupportedLanguages lists the catalog languages, sorted.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	langs := make([]string, 0, len(t.catalog))
	for lang := range t.catalog {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// HasTranslation reports whether lang itself defines key.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := lookup(t.catalog[strings.ToLower(lang)], key)
	return ok
}

// Translate looks key up in lang, its base language and the default
// language, in that order. A key that resolves to a map is narrowed by the
// "kind" param, then by "other".
func (t *Translator) Translate(lang, key string, params map[string]any) (string, bool) {
	lang = strings.ToLower(lang)

	t.mu.RLock()
	var (
		tmpl  string
		found bool
	)
	for _, l := range t.candidates(lang) {
		if tmpl, found = resolve(t.catalog[l], key, params); found {
			break
		}
	}
	t.mu.RUnlock()

	if !found {
		if t.logMissing {
			t.log.Debug("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		return "", false
	}
	return substitute(tmpl, params), true
}

// T is Translate falling back to the key.
func (t *Translator) T(lang, key string, params map[string]any) string {
	if s, ok := t.Translate(lang, key, params); ok {
		return s
	}
	return key
}

// Tc translates into the language stored in ctx.
func (t *Translator) Tc(ctx context.Context, key string, params map[string]any) string {
	return t.T(Locale(ctx), key, params)
}

func (t *Translator) candidates(lang string) []string {
	out := []string{lang}
	if b := baseLang(lang); b != lang {
		out = append(out, b)
	}
	if !slices.Contains(out, t.defaultLang) {
		out = append(out, t.defaultLang)
	}
	return out
}

func lookup(tree map[string]any, key string) (any, bool) {
	if tree == nil {
		return nil, false
	}
	var node any = tree
	for part := range strings.SplitSeq(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = m[part]; !ok {
			return nil, false
		}
	}
	return node, true
}

func resolve(tree map[string]any, key string, params map[string]any) (string, bool) {
	node, ok := lookup(tree, key)
	if !ok {
		return "", false
	}
	if m, isMap := node.(map[string]any); isMap {
		kind, _ := params["kind"].(string)
		if v, ok := m[kind]; ok && kind != "" {
			node = v
		} else {
			node = m["other"]
		}
	}
	s, ok := node.(string)
	return s, ok
}

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

// substitute fills %{name}; unknown names stay as written.
func substitute(tmpl string, params map[string]any) string {
	if len(params) == 0 {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		v, ok := params[match[2:len(match)-1]]
		if !ok {
			return match
		}
		return formatParam(v)
	})
}

func formatParam(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatParam(e)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
