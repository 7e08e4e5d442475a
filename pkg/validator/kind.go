package validator

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Kind is the semantic type a field declares for its value. Comparison rules
// interpret their arguments according to it.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindFiles
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindFiles:
		return "files"
	default:
		return "string"
	}
}

// File is one entry of a file-list value.
type File struct {
	Name        string `json:"name" msgpack:"name"`
	Size        int64  `json:"size" msgpack:"size"`
	ContentType string `json:"content_type,omitempty" msgpack:"content_type,omitempty"`
}

// Files is the value type of file inputs.
type Files []File

// KindOf reports the kind of a dynamic value. nil has no kind.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case string:
		return KindString, true
	case bool:
		return KindBool, true
	case Files, []File:
		return KindFiles, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber, true
	default:
		return KindString, false
	}
}

// ToFloat converts numeric values to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// AsFiles returns the file list held by v.
func AsFiles(v any) (Files, bool) {
	switch f := v.(type) {
	case Files:
		return f, true
	case []File:
		return Files(f), true
	default:
		return nil, false
	}
}

// IsEmpty reports whether v counts as "no value": nil, a blank string,
// false, or an empty file list. Zero is a value.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case Files:
		return len(x) == 0
	case []File:
		return len(x) == 0
	default:
		return false
	}
}

// Stringify renders scalar values the way rule arguments are written.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if f, ok := ToFloat(v); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// CharCount counts user-perceived characters after NFC normalisation, so a
// decomposed "é" counts once.
func CharCount(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// Equal compares two field values. Numbers compare by value regardless of
// their Go type, file lists by name, size and content type.
func Equal(a, b any) bool {
	if fa, ok := ToFloat(a); ok {
		fb, ok := ToFloat(b)
		return ok && fa == fb
	}
	if la, ok := AsFiles(a); ok {
		lb, ok := AsFiles(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
		return true
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	default:
		return false
	}
}

// Clone copies v so later mutation of the original cannot leak into it.
func Clone(v any) any {
	if f, ok := AsFiles(v); ok {
		if f == nil {
			return Files(nil)
		}
		return append(Files(nil), f...)
	}
	return v
}
