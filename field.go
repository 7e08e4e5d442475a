package formkit

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

// FieldEventType tells observers what changed on a field.
type FieldEventType uint8

const (
	FieldChanged FieldEventType = iota + 1
	FieldFocused
	FieldBlurred
	FieldTouched
	FieldValidated
	FieldUpdated
	FieldReset
)

func (t FieldEventType) String() string {
	switch t {
	case FieldChanged:
		return "change"
	case FieldFocused:
		return "focus"
	case FieldBlurred:
		return "blur"
	case FieldTouched:
		return "touch"
	case FieldValidated:
		return "validated"
	case FieldUpdated:
		return "update"
	case FieldReset:
		return "reset"
	default:
		return "unknown"
	}
}

// FieldEvent is delivered to field observers after the state change is applied.
type FieldEvent struct {
	Field *Field
	Type  FieldEventType
	// OldName is set for FieldUpdated when the field was renamed.
	OldName string
}

// FieldState is a point-in-time copy of a field's observable state.
type FieldState struct {
	Name    string           `json:"name"`
	Kind    string           `json:"kind"`
	Value   any              `json:"value"`
	Focused bool             `json:"focused"`
	Touched bool             `json:"touched"`
	Dirty   bool             `json:"dirty"`
	Valid   bool             `json:"valid"`
	Pending bool             `json:"pending"`
	Errors  ValidationErrors `json:"errors"`
}

// FieldOption configures a Field at construction.
type FieldOption func(*Field)

// WithKind declares the field's semantic kind instead of inferring it from the initial value.
func WithKind(k Kind) FieldOption {
	return func(f *Field) {
		f.kind = k
		f.kindSet = true
	}
}

// WithAutoRemove marks the field for removal when its owning control unmounts.
func WithAutoRemove(enabled bool) FieldOption {
	return func(f *Field) {
		f.autoRemove = enabled
	}
}

// WithCatalogue parses the field's rules against cat instead of the built-in catalogue.
func WithCatalogue(cat *validator.Catalogue) FieldOption {
	return func(f *Field) {
		if cat != nil {
			f.catalogue = cat
		}
	}
}

// WithFieldDiagnostics sets where the field reports validator failures.
func WithFieldDiagnostics(sink DiagnosticSink) FieldOption {
	return func(f *Field) {
		if sink != nil {
			f.diag = sink
		}
	}
}

// WithContext sets the context async validators run under.
func WithContext(ctx context.Context) FieldOption {
	return func(f *Field) {
		if ctx != nil {
			f.ctx = ctx
		}
	}
}

type fieldObserver struct {
	id int
	fn func(FieldEvent)
}

// Field owns one value slot, its validation state and its touch, focus and
// dirty flags. Value and flag updates are applied before any asynchronous
// validation is dispatched; async results are applied only if no newer edit
// happened since they were dispatched.
type Field struct {
	mu sync.Mutex

	name       string
	def        Definition
	kind       Kind
	kindSet    bool
	rules      []validator.Rule
	catalogue  *validator.Catalogue
	autoRemove bool

	value   any
	focused bool
	touched bool
	dirty   bool
	errors  ValidationErrors
	pending bool

	version uint64
	settled chan struct{}

	ctx       context.Context
	diag      DiagnosticSink
	formName  string
	owner     *Form
	observers []fieldObserver
	nextObsID int
}

// NewField creates a field and runs one initial validation pass. A malformed
// rule expression fails construction with a *ConfigurationError.
func NewField(name string, def Definition, opts ...FieldOption) (*Field, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newConfigError("create field", name, ErrEmptyName)
	}

	f := &Field{
		name:      name,
		catalogue: validator.Default(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(f)
	}

	rules, err := f.catalogue.Parse(def.Rules)
	if err != nil {
		return nil, newConfigError("create field", name, err)
	}

	f.def = Definition{Initial: validator.Clone(def.Initial), Rules: def.Rules}
	f.rules = rules
	if !f.kindSet {
		f.kind = def.Kind()
	}
	f.value = validator.Clone(def.Initial)

	f.mu.Lock()
	run := f.beginValidationLocked()
	f.mu.Unlock()
	f.dispatch(run)

	return f, nil
}

// Name returns the field's current name.
func (f *Field) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

// Definition returns the definition the field is currently bound to.
func (f *Field) Definition() Definition {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Definition{Initial: validator.Clone(f.def.Initial), Rules: f.def.Rules}
}

func (f *Field) Kind() Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kind
}

func (f *Field) Value() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return validator.Clone(f.value)
}

func (f *Field) InitialValue() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return validator.Clone(f.def.Initial)
}

func (f *Field) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

func (f *Field) Touched() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched
}

func (f *Field) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Valid reports whether the field currently has no errors. While async
// validation is pending this reflects the synchronous rules only.
func (f *Field) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors) == 0
}

func (f *Field) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

// Pending reports whether an async validation for the latest value is still running.
func (f *Field) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

func (f *Field) AutoRemove() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.autoRemove
}

// State returns a consistent copy of everything a rendering adapter needs.
func (f *Field) State() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FieldState{
		Name:    f.name,
		Kind:    f.kind.String(),
		Value:   validator.Clone(f.value),
		Focused: f.focused,
		Touched: f.touched,
		Dirty:   f.dirty,
		Valid:   len(f.errors) == 0,
		Pending: f.pending,
		Errors:  f.errors.Clone(),
	}
}

// OnChange stores a new value, recomputes dirtiness and re-runs validation.
func (f *Field) OnChange(value any) {
	f.mu.Lock()
	f.value = validator.Clone(value)
	f.dirty = !validator.Equal(f.value, f.def.Initial)
	run := f.beginValidationLocked()
	f.mu.Unlock()

	f.dispatch(run)
	f.notify(FieldEvent{Field: f, Type: FieldChanged})
}

// OnFocus marks the field focused.
func (f *Field) OnFocus() {
	f.mu.Lock()
	f.focused = true
	f.mu.Unlock()
	f.notify(FieldEvent{Field: f, Type: FieldFocused})
}

// OnBlur clears focus and marks the field touched. It does not validate.
func (f *Field) OnBlur() {
	f.mu.Lock()
	f.focused = false
	f.touched = true
	f.mu.Unlock()
	f.notify(FieldEvent{Field: f, Type: FieldBlurred})
}

// Touch marks the field touched without changing focus.
func (f *Field) Touch() {
	f.mu.Lock()
	changed := !f.touched
	f.touched = true
	f.mu.Unlock()
	if changed {
		f.notify(FieldEvent{Field: f, Type: FieldTouched})
	}
}

// Validate re-runs the rules against the current value.
func (f *Field) Validate() {
	f.mu.Lock()
	run := f.beginValidationLocked()
	f.mu.Unlock()
	f.dispatch(run)
	f.notify(FieldEvent{Field: f, Type: FieldValidated})
}

// Update re-binds the field to a new name and/or definition while keeping
// its current value, then re-validates. The new rule expression is parsed
// first; on failure the field is left untouched.
func (f *Field) Update(name string, def Definition) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return newConfigError("update field", name, ErrEmptyName)
	}

	f.mu.Lock()
	cat := f.catalogue
	f.mu.Unlock()

	rules, err := cat.Parse(def.Rules)
	if err != nil {
		return newConfigError("update field", name, err)
	}

	f.mu.Lock()
	oldName := f.name
	f.name = name
	f.def = Definition{Initial: validator.Clone(def.Initial), Rules: def.Rules}
	f.rules = rules
	if !f.kindSet {
		if k, ok := validator.KindOf(def.Initial); ok {
			f.kind = k
		}
	}
	f.dirty = !validator.Equal(f.value, f.def.Initial)
	run := f.beginValidationLocked()
	f.mu.Unlock()

	f.dispatch(run)

	ev := FieldEvent{Field: f, Type: FieldUpdated}
	if oldName != name {
		ev.OldName = oldName
	}
	f.notify(ev)
	return nil
}

// reset restores the initial value and clears touched, dirty and errors.
// Any in-flight async validation becomes stale.
func (f *Field) reset() {
	f.mu.Lock()
	f.value = validator.Clone(f.def.Initial)
	f.touched = false
	f.dirty = false
	f.errors = nil
	f.pending = false
	f.version++
	settled := make(chan struct{})
	close(settled)
	f.settled = settled
	f.mu.Unlock()

	f.notify(FieldEvent{Field: f, Type: FieldReset})
}

// Await blocks until the latest validation has settled or ctx is done.
func (f *Field) Await(ctx context.Context) error {
	for {
		f.mu.Lock()
		ch, version := f.settled, f.version
		f.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}

		f.mu.Lock()
		current := f.version == version
		f.mu.Unlock()
		if current {
			return nil
		}
	}
}

// Observe registers fn for every field event and returns a function that
// removes it. fn runs on the goroutine that caused the change, outside the
// field's lock.
func (f *Field) Observe(fn func(FieldEvent)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextObsID++
	id := f.nextObsID
	f.observers = append(f.observers, fieldObserver{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, o := range f.observers {
			if o.id == id {
				f.observers = append(f.observers[:i], f.observers[i+1:]...)
				return
			}
		}
	}
}

// SubscribeToFormValidation links the field into form's aggregate state:
// every change to the field makes the form publish a fresh State. Async
// validators start running under the form's lifetime context. Linking the
// same form twice is a no-op.
func (f *Field) SubscribeToFormValidation(form *Form) (cancel func()) {
	f.mu.Lock()
	if f.owner == form {
		f.mu.Unlock()
		return func() {}
	}
	f.owner = form
	f.formName = form.Name()
	f.ctx = form.lifetime()
	if f.diag == nil {
		f.diag = form.opts.diagnostics
	}
	f.mu.Unlock()

	unobserve := f.Observe(form.fieldChanged)
	return func() {
		unobserve()
		f.mu.Lock()
		if f.owner == form {
			f.owner = nil
		}
		f.mu.Unlock()
	}
}

type validationRun struct {
	version uint64
	ctx     context.Context
	name    string
	value   any
	kind    Kind
	rules   []validator.Rule
	settled chan struct{}
}

func (f *Field) beginValidationLocked() validationRun {
	f.version++
	settled := make(chan struct{})
	f.settled = settled
	return validationRun{
		version: f.version,
		ctx:     f.ctx,
		name:    f.name,
		value:   validator.Clone(f.value),
		kind:    f.kind,
		rules:   f.rules,
		settled: settled,
	}
}

func (f *Field) dispatch(run validationRun) {
	ev := validator.Evaluate(run.ctx, run.name, run.value, run.kind, run.rules)

	// Decided once: async results are only ever applied by the goroutine below.
	hasAsync := ev.HasAsync()
	errs := ev.SyncErrors()

	f.mu.Lock()
	current := f.version == run.version
	if current {
		f.errors = errs
		f.pending = hasAsync
	}
	f.mu.Unlock()

	if !hasAsync {
		close(run.settled)
		if current {
			f.reportFailures(run, errs)
		}
		return
	}

	go func() {
		<-ev.Done()
		cancelled := run.ctx.Err() != nil
		errs := ev.Errors()

		f.mu.Lock()
		applied := f.version == run.version
		if applied {
			if !cancelled {
				f.errors = errs
			}
			f.pending = false
		}
		f.mu.Unlock()
		close(run.settled)

		if cancelled {
			return
		}
		if !applied {
			f.report(run.ctx, Diagnostic{
				Code:    DiagStaleValidation,
				Field:   run.name,
				Message: "dropped superseded async validation result",
			})
			return
		}
		f.reportFailures(run, errs)
		f.notify(FieldEvent{Field: f, Type: FieldValidated})
	}()
}

func (f *Field) reportFailures(run validationRun, errs ValidationErrors) {
	for _, e := range errs {
		if e.Cause == nil {
			continue
		}
		f.report(run.ctx, Diagnostic{
			Code:    DiagValidatorPanic,
			Field:   run.name,
			Message: "validator failed and was converted to a validation error",
			Attrs: map[string]any{
				"rule":  e.Rule,
				"error": e.Cause.Error(),
			},
		})
	}
}

func (f *Field) report(ctx context.Context, d Diagnostic) {
	f.mu.Lock()
	sink := f.diag
	d.Form = f.formName
	f.mu.Unlock()
	if sink != nil {
		sink.Report(context.WithoutCancel(ctx), d)
	}
}

func (f *Field) notify(ev FieldEvent) {
	f.mu.Lock()
	observers := make([]fieldObserver, len(f.observers))
	copy(observers, f.observers)
	f.mu.Unlock()

	for _, o := range observers {
		o.fn(ev)
	}
}
