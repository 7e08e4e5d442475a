package formkit

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaConflict is returned when a form is extended with a schema that differs from the registered one.
	ErrSchemaConflict = errors.New("form schema conflicts with the registered schema")

	// ErrMissingDefinition is returned when a required definition key or property is absent.
	ErrMissingDefinition = errors.New("missing required definition")

	// ErrEmptyName is returned when a form or field is created without a name.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrFormInvalid is returned by Submit when validation blocked the submit handler.
	ErrFormInvalid = errors.New("form is invalid")

	// ErrFormDisposed is returned for operations on a form the registry has torn down.
	ErrFormDisposed = errors.New("form has been disposed")
)

// ConfigurationError reports a fatal setup problem: a malformed rule
// expression, a conflicting schema or a missing definition key. It is
// returned at registration time and never swallowed.
type ConfigurationError struct {
	Op   string
	Name string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("formkit: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func newConfigError(op, name string, err error) *ConfigurationError {
	return &ConfigurationError{Op: op, Name: name, Err: err}
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// SubmissionError wraps the failure returned by a form's submit handler.
// The form keeps it as SubmitError and stays usable, so the user may retry.
type SubmissionError struct {
	Form string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("formkit: submit %q: %v", e.Form, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IsSubmissionError reports whether err is or wraps a *SubmissionError.
func IsSubmissionError(err error) bool {
	var e *SubmissionError
	return errors.As(err, &e)
}
