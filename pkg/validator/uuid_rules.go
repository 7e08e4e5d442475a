package validator

import (
	"context"

	"github.com/google/uuid"
)

// checkUUID validates the canonical 36-character form, rejecting the nil UUID.
func checkUUID(_ context.Context, in Input) *ValidationError {
	return checkFormat(in, "validation.uuid", "must be a valid UUID", func(value string) bool {
		// Fast rejection: check length and hyphen positions before parsing
		if len(value) != 36 {
			return false
		}
		if value[8] != '-' || value[13] != '-' || value[18] != '-' || value[23] != '-' {
			return false
		}
		id, err := uuid.Parse(value)
		return err == nil && id != uuid.Nil
	})
}
