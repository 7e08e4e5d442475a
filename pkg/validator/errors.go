package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRule is returned when a rule expression names a rule the catalogue does not know.
	ErrUnknownRule = errors.New("unknown validation rule")

	// ErrInvalidRuleArgs is returned when a rule token carries the wrong number or shape of arguments.
	ErrInvalidRuleArgs = errors.New("invalid validation rule arguments")

	// ErrDuplicateRule is returned when registering a rule name that already exists.
	ErrDuplicateRule = errors.New("validation rule already registered")

	// ErrValidatorFailed marks a generic error produced when a validator panicked or failed internally.
	ErrValidatorFailed = errors.New("validator failed")
)

// ParseError reports the offending token of a rule expression.
type ParseError struct {
	Expr  string
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("validator: %v: %q in %q", e.Err, e.Token, e.Expr)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
