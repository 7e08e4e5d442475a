package control

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Input types with dedicated behaviour. Any other type is treated as text.
const (
	TypeText     = "text"
	TypeNumber   = "number"
	TypeCheckbox = "checkbox"
	TypeRadio    = "radio"
	TypeFile     = "file"
)

// Components.
const (
	ComponentInput    = "input"
	ComponentSelect   = "select"
	ComponentTextarea = "textarea"
)

// Props describes one control. Name is always required; radios also need Value.
type Props struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Component string `json:"component,omitempty"`
	Rules     string `json:"rules,omitempty"`
	Value     string `json:"value,omitempty"`
}

// Event carries what a view adapter read from a raw input event.
type Event struct {
	Value   string        `json:"value"`
	Checked bool          `json:"checked"`
	Files   formkit.Files `json:"files,omitempty"`
}

// Input holds the attributes a renderer puts on the element.
// HasValue and HasChecked tell whether the attribute applies at all.
type Input struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Value      any    `json:"value,omitempty"`
	HasValue   bool   `json:"-"`
	Checked    bool   `json:"checked,omitempty"`
	HasChecked bool   `json:"-"`
}

// Meta is the field state a renderer shows around the element.
type Meta struct {
	Focused bool                     `json:"focused"`
	Touched bool                     `json:"touched"`
	Dirty   bool                     `json:"dirty"`
	Valid   bool                     `json:"valid"`
	Pending bool                     `json:"pending"`
	Errors  formkit.ValidationErrors `json:"errors,omitempty"`
}

// Binding is everything needed to render a control.
type Binding struct {
	Input Input `json:"input"`
	Meta  Meta  `json:"meta"`
}

// Option configures a Control.
type Option func(*Control)

// WithTranslator renders error messages in the language of the ctx passed
// to New.
func WithTranslator(tr *i18n.Translator) Option {
	return func(c *Control) {
		c.tr = tr
	}
}

// Control connects one input element to a form field. Several controls may
// share a field, as radios of one group do.
type Control struct {
	form *formkit.Form
	tr   *i18n.Translator
	lang string

	mu       sync.Mutex
	props    Props
	strategy Strategy
	field    *formkit.Field
}

// New mounts a control on form. The field named by props is reused when the
// form already has it; otherwise it is created from the form schema entry,
// or from the input type's default, and registered.
func New(ctx context.Context, form *formkit.Form, props Props, opts ...Option) (*Control, error) {
	props, err := normalizeProps(props)
	if err != nil {
		return nil, err
	}

	c := &Control{
		form:     form,
		lang:     i18n.Locale(ctx),
		props:    props,
		strategy: strategyFor(props),
	}
	for _, opt := range opts {
		opt(c)
	}

	if existing, ok := form.Field(props.Name); ok {
		c.field = existing
		return c, nil
	}

	def, fromSchema := c.definition(c.strategy, props.Name, props.Rules)
	if fromSchema {
		c.checkInitialValue(ctx, def.Initial)
	}

	field, err := form.CreateField(props.Name, def, formkit.WithKind(c.strategy.Kind()))
	if err != nil {
		return nil, err
	}
	field, err = form.RegisterField(field)
	if err != nil {
		return nil, err
	}
	c.field = field
	return c, nil
}

func normalizeProps(p Props) (Props, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, &formkit.ConfigurationError{Op: "mount control", Err: fmt.Errorf("%w: name", formkit.ErrMissingDefinition)}
	}
	if p.Type == TypeRadio && p.Value == "" {
		return p, &formkit.ConfigurationError{Op: "mount control", Name: p.Name, Err: fmt.Errorf("%w: value", formkit.ErrMissingDefinition)}
	}
	if p.Component == "" {
		p.Component = ComponentInput
	}
	if p.Type == "" && p.Component == ComponentInput {
		p.Type = TypeText
	}
	return p, nil
}

// definition prefers the form schema entry over the control's own rules.
func (c *Control) definition(s Strategy, name, rules string) (formkit.Definition, bool) {
	if def, ok := c.form.Definition(name); ok {
		return def, true
	}
	return formkit.Definition{Initial: s.Default(), Rules: rules}, false
}

func (c *Control) checkInitialValue(ctx context.Context, initial any) {
	want := c.strategy.Kind()
	got, ok := validator.KindOf(initial)
	if ok && got == want {
		return
	}
	gotName := "nil"
	if ok {
		gotName = got.String()
	}
	c.form.Diagnostics().Report(ctx, formkit.Diagnostic{
		Code:    formkit.DiagInitialValueType,
		Form:    c.form.Name(),
		Field:   c.props.Name,
		Message: "initial value does not match the input type",
		Attrs: map[string]any{
			"expected": want.String(),
			"got":      gotName,
		},
	})
}

// Field returns the bound field.
func (c *Control) Field() *formkit.Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.field
}

// Props returns the control's current props.
func (c *Control) Props() Props {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props
}

// OnChange maps ev through the input type and stores the result.
func (c *Control) OnChange(ev Event) {
	c.mu.Lock()
	value := c.strategy.Value(c.props, ev)
	field := c.field
	c.mu.Unlock()

	field.OnChange(value)
}

func (c *Control) OnFocus() { c.Field().OnFocus() }
func (c *Control) OnBlur()  { c.Field().OnBlur() }

// Update applies new props. A changed name or rule expression re-binds the
// field, keeping its value.
func (c *Control) Update(props Props) error {
	props, err := normalizeProps(props)
	if err != nil {
		return err
	}

	c.mu.Lock()
	prev, field := c.props, c.field
	c.mu.Unlock()

	strategy := strategyFor(props)
	if field.Name() != props.Name || prev.Rules != props.Rules {
		def, _ := c.definition(strategy, props.Name, props.Rules)
		if err := field.Update(props.Name, def); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.props = props
	c.strategy = strategy
	c.mu.Unlock()
	return nil
}

// Unmount removes the field from the form when it is marked AutoRemove.
// It reports whether the field was removed.
func (c *Control) Unmount() bool {
	field := c.Field()
	if !field.AutoRemove() {
		return false
	}
	c.form.UnregisterField(field.Name())
	return true
}

// Render returns the element attributes and field state. Error messages are
// translated when the control has a translator.
func (c *Control) Render() Binding {
	c.mu.Lock()
	props, strategy, field := c.props, c.strategy, c.field
	c.mu.Unlock()

	st := field.State()
	in := strategy.Bind(props, st.Value)
	in.Name = props.Name
	in.Type = props.Type

	return Binding{
		Input: in,
		Meta: Meta{
			Focused: st.Focused,
			Touched: st.Touched,
			Dirty:   st.Dirty,
			Valid:   st.Valid,
			Pending: st.Pending,
			Errors:  validator.Localize(c.tr, c.lang, st.Errors),
		},
	}
}
