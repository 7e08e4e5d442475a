package control

import (
	"strconv"
	"strings"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Strategy holds the behaviour that differs between input types.
type Strategy interface {
	// Kind is the value kind the input produces.
	Kind() formkit.Kind
	// Default is the initial value used when the schema has no entry.
	Default() any
	// Value maps a raw input event to a field value.
	Value(p Props, ev Event) any
	// Bind fills the render attributes for the current field value.
	Bind(p Props, value any) Input
}

func strategyFor(p Props) Strategy {
	if p.Component == ComponentSelect {
		return selectStrategy{}
	}
	switch p.Type {
	case TypeCheckbox:
		return checkboxStrategy{}
	case TypeRadio:
		return radioStrategy{}
	case TypeFile:
		return fileStrategy{}
	case TypeNumber:
		return numberStrategy{}
	default:
		return textStrategy{}
	}
}

type textStrategy struct{}

func (textStrategy) Kind() formkit.Kind          { return formkit.KindString }
func (textStrategy) Default() any                { return "" }
func (textStrategy) Value(_ Props, ev Event) any { return ev.Value }

func (textStrategy) Bind(_ Props, value any) Input {
	return Input{Value: value, HasValue: true}
}

type selectStrategy struct{ textStrategy }

// numberStrategy parses input text as a float. Text that does not parse is
// kept as is so numeric rules report it.
type numberStrategy struct{}

func (numberStrategy) Kind() formkit.Kind { return formkit.KindNumber }
func (numberStrategy) Default() any       { return "" }

func (numberStrategy) Value(_ Props, ev Event) any {
	text := strings.TrimSpace(ev.Value)
	if text == "" {
		return ""
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return n
	}
	return ev.Value
}

func (numberStrategy) Bind(_ Props, value any) Input {
	return Input{Value: value, HasValue: true}
}

// checkboxStrategy stores the checked state, or the control's Value when it
// has one and the box is checked.
type checkboxStrategy struct{}

func (checkboxStrategy) Kind() formkit.Kind { return formkit.KindBool }
func (checkboxStrategy) Default() any       { return false }

func (checkboxStrategy) Value(p Props, ev Event) any {
	if ev.Checked && p.Value != "" {
		return p.Value
	}
	return ev.Checked
}

func (checkboxStrategy) Bind(p Props, value any) Input {
	in := Input{Checked: truthy(value), HasChecked: true}
	if p.Value != "" {
		in.Value = p.Value
		in.HasValue = true
	}
	return in
}

// radioStrategy shares one field between every radio with the same name.
type radioStrategy struct{}

func (radioStrategy) Kind() formkit.Kind { return formkit.KindString }
func (radioStrategy) Default() any       { return "" }

func (radioStrategy) Value(p Props, ev Event) any {
	if ev.Value != "" {
		return ev.Value
	}
	return p.Value
}

func (radioStrategy) Bind(p Props, value any) Input {
	return Input{
		Value:      p.Value,
		HasValue:   true,
		Checked:    value != nil && validator.Stringify(value) == p.Value,
		HasChecked: true,
	}
}

type fileStrategy struct{}

func (fileStrategy) Kind() formkit.Kind { return formkit.KindFiles }
func (fileStrategy) Default() any       { return formkit.Files{} }

func (fileStrategy) Value(_ Props, ev Event) any {
	if ev.Files == nil {
		return formkit.Files{}
	}
	return append(formkit.Files(nil), ev.Files...)
}

func (fileStrategy) Bind(Props, any) Input { return Input{} }

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if n, ok := validator.ToFloat(v); ok {
		return n != 0
	}
	if files, ok := validator.AsFiles(v); ok {
		return len(files) > 0
	}
	return true
}
