package formkit

import "github.com/dmitrymomot/formkit/pkg/validator"

// Kind is the semantic type of a field value.
type Kind = validator.Kind

const (
	KindString = validator.KindString
	KindNumber = validator.KindNumber
	KindBool   = validator.KindBool
	KindFiles  = validator.KindFiles
)

// File is one entry of a file input's value.
type File = validator.File

// Files is the value type of file inputs.
type Files = validator.Files

// ValidationError is a single rule failure stored on a field.
type ValidationError = validator.ValidationError

// ValidationErrors is the ordered error list of a field.
type ValidationErrors = validator.ValidationErrors
