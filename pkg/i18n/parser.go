package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps a language to its nested translation tree.
type Catalog map[string]map[string]any

// Merge copies other into c. Keys of other win; nested maps are merged.
func (c Catalog) Merge(other Catalog) {
	for lang, tree := range other {
		if c[lang] == nil {
			c[lang] = make(map[string]any, len(tree))
		}
		mergeTree(c[lang], tree)
	}
}

func mergeTree(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = make(map[string]any, len(sub))
			dst[k] = existing
		}
		mergeTree(existing, sub)
	}
}

// Parser decodes a translation file whose top-level keys are languages.
type Parser interface {
	Parse(ctx context.Context, content []byte) (Catalog, error)
	SupportsFileExtension(ext string) bool
}

// YAMLParser reads YAML catalogs.
type YAMLParser struct{}

func (YAMLParser) Parse(ctx context.Context, content []byte) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrParsingCancelled, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return toCatalog(raw)
}

func (YAMLParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml")
}

// JSONParser reads JSON catalogs.
type JSONParser struct{}

func (JSONParser) Parse(ctx context.Context, content []byte) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrParsingCancelled, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return toCatalog(raw)
}

func (JSONParser) SupportsFileExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "json")
}

// ParserForFile picks a parser by file extension, or returns nil.
func ParserForFile(name string) Parser {
	ext := filepath.Ext(name)
	for _, p := range []Parser{YAMLParser{}, JSONParser{}} {
		if p.SupportsFileExtension(ext) {
			return p
		}
	}
	return nil
}

// LoadFiles parses and merges translation files in order.
func LoadFiles(ctx context.Context, paths ...string) (Catalog, error) {
	out := make(Catalog)
	for _, path := range paths {
		p := ParserForFile(path)
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		cat, err := p.Parse(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out.Merge(cat)
	}
	return out, nil
}

func toCatalog(raw map[string]any) (Catalog, error) {
	out := make(Catalog, len(raw))
	for lang, v := range raw {
		tree, ok := v.(map[string]any)
		if !ok || lang == "" {
			return nil, fmt.Errorf("%w: language %q: expected a map, got %T", ErrInvalidTranslation, lang, v)
		}
		out[strings.ToLower(lang)] = tree
	}
	return out, nil
}
