package formkit

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Definition is the normalised description of one field: its initial value
// and its rule expression.
type Definition struct {
	Initial any
	Rules   string
}

// Kind infers the field kind from the initial value. Values without a kind
// (nil) are treated as strings.
func (d Definition) Kind() Kind {
	k, _ := validator.KindOf(d.Initial)
	return k
}

// Equal reports whether two definitions describe the same field.
func (d Definition) Equal(other Definition) bool {
	return d.Rules == other.Rules && validator.Equal(d.Initial, other.Initial)
}

// NormalizeDefinition accepts a bare initial value or an [initial, rules]
// pair. A slice of any other length, or a pair whose second element is not a
// string, degrades to [first element, ""].
func NormalizeDefinition(raw any) Definition {
	switch v := raw.(type) {
	case Definition:
		return v
	case []any:
		return normalizePair(v)
	case []string:
		pair := make([]any, len(v))
		for i, s := range v {
			pair[i] = s
		}
		return normalizePair(pair)
	default:
		return Definition{Initial: raw}
	}
}

func normalizePair(pair []any) Definition {
	if len(pair) == 0 {
		return Definition{}
	}
	first := pair[0]
	if len(pair) == 2 {
		if rules, ok := pair[1].(string); ok {
			return Definition{Initial: first, Rules: rules}
		}
	}
	return Definition{Initial: first}
}

// Schema maps field names to their definitions.
type Schema map[string]Definition

// ParseSchema normalises a loosely typed schema such as one decoded from
// JSON or YAML.
func ParseSchema(raw map[string]any) Schema {
	if len(raw) == 0 {
		return Schema{}
	}
	s := make(Schema, len(raw))
	for name, def := range raw {
		s[name] = NormalizeDefinition(def)
	}
	return s
}

// LoadSchemaYAML reads a schema document:
//
//	email: ["", "required|email"]
//	age: [18, "min:18"]
//	newsletter: false
func LoadSchemaYAML(r io.Reader) (Schema, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Schema{}, nil
		}
		return nil, fmt.Errorf("formkit: decode schema: %w", err)
	}
	return ParseSchema(raw), nil
}

// Validate parses every rule expression against cat and reports the first
// malformed one as a ConfigurationError.
func (s Schema) Validate(cat *validator.Catalogue) error {
	for _, name := range s.Names() {
		if _, err := cat.Parse(s[name].Rules); err != nil {
			return newConfigError("parse schema", name, err)
		}
	}
	return nil
}

// Names returns the field names in sorted order.
func (s Schema) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both schemas define the same fields identically.
func (s Schema) Equal(other Schema) bool {
	return maps.EqualFunc(s, other, Definition.Equal)
}

// Clone returns a copy whose initial values are detached from s.
func (s Schema) Clone() Schema {
	if s == nil {
		return Schema{}
	}
	out := make(Schema, len(s))
	for name, def := range s {
		out[name] = Definition{Initial: validator.Clone(def.Initial), Rules: def.Rules}
	}
	return out
}
