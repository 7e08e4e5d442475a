package validator

import "maps"

// builtinRules lists every rule available in a fresh Catalogue.
func builtinRules() []RuleSpec {
	return []RuleSpec{
		{Name: "required", Check: checkRequired},
		{Name: "accepted", Check: checkAccepted},
		{Name: "boolean", Check: checkBoolean},
		{Name: "numeric", Check: checkNumeric},
		{Name: "integer", Check: checkInteger},
		{Name: "alpha", Check: checkAlpha},
		{Name: "alpha_num", Check: checkAlphaNum},
		{Name: "alpha_dash", Check: checkAlphaDash},
		{Name: "email", Check: checkEmail},
		{Name: "url", Check: checkURL},
		{Name: "uuid", Check: checkUUID},
		{Name: "phone", Check: checkPhone},
		{Name: "ip", Check: checkIP},
		{Name: "min", MinArgs: 1, MaxArgs: 1, Prepare: prepareBounds, Check: checkMin},
		{Name: "max", MinArgs: 1, MaxArgs: 1, Prepare: prepareBounds, Check: checkMax},
		{Name: "size", MinArgs: 1, MaxArgs: 1, Prepare: prepareBounds, Check: checkSize},
		{Name: "between", MinArgs: 2, MaxArgs: 2, Prepare: prepareBetween, Check: checkBetween},
		{Name: "in", MinArgs: 1, MaxArgs: -1, Check: checkIn},
		{Name: "not_in", MinArgs: 1, MaxArgs: -1, Check: checkNotIn},
		{Name: "regex", MinArgs: 1, MaxArgs: 1, RawArgs: true, Prepare: prepareRegex, Check: checkRegex},
	}
}

// newError builds a ValidationError with the "field" translation value set.
func newError(in Input, key, message string, values map[string]any) *ValidationError {
	tv := map[string]any{"field": in.Field}
	maps.Copy(tv, values)
	return &ValidationError{
		Field:             in.Field,
		Message:           message,
		TranslationKey:    key,
		TranslationValues: tv,
	}
}

// typeError is returned by rules that cannot interpret the value under the
// field's declared kind.
func typeError(in Input) *ValidationError {
	return newError(in, "validation.type", "must be a "+in.Kind.String(), map[string]any{
		"kind": in.Kind.String(),
	})
}

// asString returns the value as a string when the field is a string field
// holding a string.
func asString(in Input) (string, bool) {
	s, ok := in.Value.(string)
	return s, ok
}
