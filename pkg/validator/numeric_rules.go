package validator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type bounds struct {
	lo, hi float64
}

func prepareBounds(args []string) (any, error) {
	n, err := parseBound(args[0])
	if err != nil {
		return nil, err
	}
	return bounds{lo: n, hi: n}, nil
}

func prepareBetween(args []string) (any, error) {
	lo, err := parseBound(args[0])
	if err != nil {
		return nil, err
	}
	hi, err := parseBound(args[1])
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, errors.New("lower bound exceeds upper bound")
	}
	return bounds{lo: lo, hi: hi}, nil
}

func parseBound(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return n, nil
}

// measure maps a value onto the number that comparison rules look at:
// character count for strings, the value itself for numbers, the entry
// count for file lists. Booleans and mismatched values have no measure.
func measure(in Input) (float64, bool) {
	switch in.Kind {
	case KindString:
		s, ok := in.Value.(string)
		if !ok {
			return 0, false
		}
		return float64(CharCount(s)), true
	case KindNumber:
		return ToFloat(in.Value)
	case KindFiles:
		f, ok := AsFiles(in.Value)
		if !ok {
			return 0, false
		}
		return float64(len(f)), true
	default:
		return 0, false
	}
}

// unit names what measure counted, for messages.
func unit(k Kind) string {
	switch k {
	case KindString:
		return " characters"
	case KindFiles:
		return " files"
	default:
		return ""
	}
}

func formatBound(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func compare(in Input, key string, ok func(m float64, b bounds) bool, message func(b bounds) string) *ValidationError {
	if IsEmpty(in.Value) && in.Kind != KindBool {
		return nil
	}
	m, measurable := measure(in)
	if !measurable {
		return typeError(in)
	}
	b := in.State.(bounds)
	if ok(m, b) {
		return nil
	}
	return newError(in, key, message(b), map[string]any{
		"min":  b.lo,
		"max":  b.hi,
		"kind": in.Kind.String(),
	})
}

func checkMin(_ context.Context, in Input) *ValidationError {
	return compare(in, "validation.min",
		func(m float64, b bounds) bool { return m >= b.lo },
		func(b bounds) string { return fmt.Sprintf("must be at least %s%s", formatBound(b.lo), unitLong(in.Kind)) })
}

func checkMax(_ context.Context, in Input) *ValidationError {
	return compare(in, "validation.max",
		func(m float64, b bounds) bool { return m <= b.hi },
		func(b bounds) string { return fmt.Sprintf("must be at most %s%s", formatBound(b.hi), unitLong(in.Kind)) })
}

func checkSize(_ context.Context, in Input) *ValidationError {
	return compare(in, "validation.size",
		func(m float64, b bounds) bool { return m == b.lo },
		func(b bounds) string { return fmt.Sprintf("must be exactly %s%s", formatBound(b.lo), unitLong(in.Kind)) })
}

func checkBetween(_ context.Context, in Input) *ValidationError {
	return compare(in, "validation.between",
		func(m float64, b bounds) bool { return m >= b.lo && m <= b.hi },
		func(b bounds) string {
			return fmt.Sprintf("must be between %s and %s%s", formatBound(b.lo), formatBound(b.hi), unitLong(in.Kind))
		})
}

func unitLong(k Kind) string {
	if k == KindString {
		return unit(k) + " long"
	}
	return unit(k)
}

// checkNumeric accepts numbers and strings that parse as a number.
func checkNumeric(_ context.Context, in Input) *ValidationError {
	if IsEmpty(in.Value) {
		return nil
	}
	if _, ok := ToFloat(in.Value); ok {
		return nil
	}
	if s, ok := in.Value.(string); ok {
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return nil
		}
	}
	return newError(in, "validation.numeric", "must be a number", nil)
}

// checkInteger accepts whole numbers and strings that parse as integers.
func checkInteger(_ context.Context, in Input) *ValidationError {
	if IsEmpty(in.Value) {
		return nil
	}
	if f, ok := ToFloat(in.Value); ok && f == math.Trunc(f) {
		return nil
	}
	if s, ok := in.Value.(string); ok {
		if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return nil
		}
	}
	return newError(in, "validation.integer", "must be an integer", nil)
}
