package validator

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

func checkIn(_ context.Context, in Input) *ValidationError {
	if IsEmpty(in.Value) && in.Kind != KindBool {
		return nil
	}
	if slices.Contains(in.Args, Stringify(in.Value)) {
		return nil
	}
	return newError(in, "validation.in_list", fmt.Sprintf("must be one of: %s", strings.Join(in.Args, ", ")), map[string]any{
		"allowed_values": in.Args,
	})
}

func checkNotIn(_ context.Context, in Input) *ValidationError {
	if IsEmpty(in.Value) && in.Kind != KindBool {
		return nil
	}
	if !slices.Contains(in.Args, Stringify(in.Value)) {
		return nil
	}
	return newError(in, "validation.not_in_list", fmt.Sprintf("must not be one of: %s", strings.Join(in.Args, ", ")), map[string]any{
		"forbidden_values": in.Args,
	})
}

var acceptedValues = []string{"yes", "on", "1", "true"}

// checkAccepted requires a checked checkbox or one of yes/on/1/true. A
// checkbox with its own value stores that value when checked, so any
// non-empty string on a bool field counts as accepted.
func checkAccepted(_ context.Context, in Input) *ValidationError {
	if b, ok := in.Value.(bool); ok && b {
		return nil
	}
	if s, ok := in.Value.(string); ok && s != "" && in.Kind == KindBool {
		return nil
	}
	if slices.Contains(acceptedValues, strings.ToLower(Stringify(in.Value))) {
		return nil
	}
	return newError(in, "validation.accepted", "must be accepted", nil)
}

var booleanValues = []string{"true", "false", "1", "0"}

func checkBoolean(_ context.Context, in Input) *ValidationError {
	if _, ok := in.Value.(bool); ok {
		return nil
	}
	if in.Value == nil || in.Value == "" {
		return nil
	}
	if slices.Contains(booleanValues, strings.ToLower(Stringify(in.Value))) {
		return nil
	}
	return newError(in, "validation.boolean", "must be true or false", nil)
}
