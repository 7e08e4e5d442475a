package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes a single rule failure with translation support.
// It is data: rules return it, fields store it, nothing panics with it.
type ValidationError struct {
	Field             string         `json:"field"`
	Rule              string         `json:"rule"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"translation_key"`
	TranslationValues map[string]any `json:"translation_values,omitempty"`

	// Cause is set when the failure did not come from the rule's own check,
	// e.g. the validator panicked or returned a transport error.
	Cause error `json:"-"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors represents an ordered collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	var parts []string
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// HasRule reports whether any error was produced by the named rule.
func (ve ValidationErrors) HasRule(rule string) bool {
	for _, err := range ve {
		if err.Rule == rule {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Messages returns every message in order.
func (ve ValidationErrors) Messages() []string {
	if len(ve) == 0 {
		return nil
	}
	out := make([]string, len(ve))
	for i, err := range ve {
		out[i] = err.Message
	}
	return out
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Clone returns a copy that shares no backing array with ve.
func (ve ValidationErrors) Clone() ValidationErrors {
	if len(ve) == 0 {
		return nil
	}
	return append(ValidationErrors(nil), ve...)
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
