package async

import (
	"errors"
	"fmt"
)

var ErrPanic = errors.New("async: function panicked")

// PanicError carries the recovered value of a panicking async function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: function panicked: %v", e.Value)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}
