package validator

import (
	"context"
	"strings"
	"unicode"
)

// checkRequired fails for nil, blank strings, false and empty file lists.
func checkRequired(_ context.Context, in Input) *ValidationError {
	if !IsEmpty(in.Value) {
		return nil
	}
	return newError(in, "validation.required", "field is required", nil)
}

func checkAlpha(_ context.Context, in Input) *ValidationError {
	return checkRunes(in, "validation.alpha", "must contain only letters", unicode.IsLetter)
}

func checkAlphaNum(_ context.Context, in Input) *ValidationError {
	return checkRunes(in, "validation.alpha_num", "must contain only letters and numbers", func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

func checkAlphaDash(_ context.Context, in Input) *ValidationError {
	return checkRunes(in, "validation.alpha_dash", "must contain only letters, numbers, dashes and underscores", func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
	})
}

func checkRunes(in Input, key, message string, allowed func(rune) bool) *ValidationError {
	if IsEmpty(in.Value) {
		return nil
	}
	s, ok := asString(in)
	if !ok {
		return typeError(in)
	}
	if strings.IndexFunc(s, func(r rune) bool { return !allowed(r) }) >= 0 {
		return newError(in, key, message, nil)
	}
	return nil
}
