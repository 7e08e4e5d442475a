package formkit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/broadcast"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// SubmitFunc receives the aggregated field values of a valid form.
// A returned error is stored as the form's SubmitError.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// Config describes a form at creation time.
type Config struct {
	Schema   Schema
	OnSubmit SubmitFunc
	// DestroyControlStateOnUnmount makes fields created by controls default to AutoRemove.
	DestroyControlStateOnUnmount bool
}

// State is a point-in-time view of a form for the view layer.
type State struct {
	Name        string       `json:"name"`
	Valid       bool         `json:"valid"`
	Dirty       bool         `json:"dirty"`
	Pending     bool         `json:"pending"`
	Submitting  bool         `json:"submitting"`
	SubmitError string       `json:"submit_error,omitempty"`
	Step        int          `json:"step"`
	Fields      []FieldState `json:"fields"`
}

// Form owns a set of uniquely named fields, aggregates their state, drives
// submission and keeps the snapshot stack used for step navigation.
// Valid and Dirty are derived from the current field set on every read.
type Form struct {
	name             string
	schema           Schema
	destroyOnUnmount bool
	opts             *options
	log              *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	states broadcast.Broadcaster[State]

	mu         sync.Mutex
	onSubmit   SubmitFunc
	fields     map[string]*Field
	order      []string
	links      map[*Field]func()
	snapshots  SnapshotStack
	submitting bool
	submitErr  error
	inflight   *async.Future[struct{}]
	disposed   bool
}

// NewForm creates a standalone form. Every rule expression in the schema is
// parsed up front; a malformed one fails with a *ConfigurationError.
func NewForm(name string, cfg Config, opts ...Option) (*Form, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newConfigError("create form", name, ErrEmptyName)
	}
	return newForm(name, cfg, buildOptions(opts))
}

func newForm(name string, cfg Config, o *options) (*Form, error) {
	schema := cfg.Schema.Clone()
	if err := schema.Validate(o.catalogue); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Form{
		name:             name,
		schema:           schema,
		destroyOnUnmount: cfg.DestroyControlStateOnUnmount || o.destroyOnUnmount,
		opts:             o,
		log:              o.logger.With(logger.Component("form"), logger.Form(name)),
		ctx:              ctx,
		cancel:           cancel,
		states:           broadcast.NewMemoryBroadcaster[State](o.subscriberBuffer),
		onSubmit:         cfg.OnSubmit,
		fields:           make(map[string]*Field),
		links:            make(map[*Field]func()),
	}, nil
}

func (f *Form) Name() string { return f.name }

// Schema returns a copy of the schema the form was created with.
func (f *Form) Schema() Schema { return f.schema.Clone() }

// DestroyControlStateOnUnmount reports the AutoRemove default for fields created by controls.
func (f *Form) DestroyControlStateOnUnmount() bool { return f.destroyOnUnmount }

// Definition returns the schema entry for name.
func (f *Form) Definition(name string) (Definition, bool) {
	def, ok := f.schema[name]
	if !ok {
		return Definition{}, false
	}
	return Definition{Initial: def.Initial, Rules: def.Rules}, true
}

// Diagnostics returns the sink the form and its fields report to.
func (f *Form) Diagnostics() DiagnosticSink { return f.opts.diagnostics }

func (f *Form) lifetime() context.Context { return f.ctx }

// CreateField builds a field carrying the form's catalogue, diagnostics and
// AutoRemove default. It is not registered.
func (f *Form) CreateField(name string, def Definition, opts ...FieldOption) (*Field, error) {
	base := []FieldOption{
		WithCatalogue(f.opts.catalogue),
		WithFieldDiagnostics(f.opts.diagnostics),
		WithContext(f.ctx),
		WithAutoRemove(f.destroyOnUnmount),
	}
	return NewField(name, def, append(base, opts...)...)
}

// RegisterField adds field to the form. If a field with the same name is
// already registered, that field is re-bound to field's definition and
// returned instead; the form never holds two fields with one name.
func (f *Form) RegisterField(field *Field) (*Field, error) {
	if field == nil {
		return nil, newConfigError("register field", "", ErrMissingDefinition)
	}
	name := field.Name()

	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return nil, ErrFormDisposed
	}
	if existing, ok := f.fields[name]; ok {
		f.mu.Unlock()
		if existing != field {
			if err := existing.Update(name, field.Definition()); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	f.insertLocked(field)
	f.mu.Unlock()

	f.log.Debug("field registered", logger.Field(name))
	f.publish()
	return field, nil
}

// EnsureField returns the field registered under name, creating it from the
// schema entry when absent. A name with no schema entry fails with a
// *ConfigurationError wrapping ErrMissingDefinition.
func (f *Form) EnsureField(name string, opts ...FieldOption) (*Field, error) {
	if existing, ok := f.Field(name); ok {
		return existing, nil
	}
	def, ok := f.Definition(name)
	if !ok {
		return nil, newConfigError("ensure field", name, ErrMissingDefinition)
	}
	field, err := f.CreateField(name, def, opts...)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return nil, ErrFormDisposed
	}
	if existing, ok := f.fields[name]; ok {
		f.mu.Unlock()
		return existing, nil
	}
	f.insertLocked(field)
	f.mu.Unlock()

	f.log.Debug("field created from schema", logger.Field(name))
	f.publish()
	return field, nil
}

func (f *Form) insertLocked(field *Field) {
	name := field.Name()
	f.fields[name] = field
	f.order = append(f.order, name)
	f.links[field] = field.SubscribeToFormValidation(f)
}

// UnregisterField removes the field registered under name. Unknown names are ignored.
func (f *Form) UnregisterField(name string) {
	f.mu.Lock()
	field, ok := f.fields[name]
	if !ok {
		f.mu.Unlock()
		return
	}
	delete(f.fields, name)
	f.order = slices.DeleteFunc(f.order, func(n string) bool { return n == name })
	unlink := f.links[field]
	delete(f.links, field)
	f.mu.Unlock()

	if unlink != nil {
		unlink()
	}
	f.log.Debug("field unregistered", logger.Field(name))
	f.publish()
}

// Field returns the field registered under name.
func (f *Form) Field(name string) (*Field, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	field, ok := f.fields[name]
	return field, ok
}

// Fields returns the registered fields in registration order.
func (f *Form) Fields() []*Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Field, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.fields[name])
	}
	return out
}

// Values returns the current value of every registered field.
func (f *Form) Values() map[string]any {
	fields := f.Fields()
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		out[field.Name()] = field.Value()
	}
	return out
}

// SetTouched marks every field touched.
func (f *Form) SetTouched() {
	for _, field := range f.Fields() {
		field.Touch()
	}
}

// IsValid reports whether every registered field is free of errors.
func (f *Form) IsValid() bool {
	for _, field := range f.Fields() {
		if !field.Valid() {
			return false
		}
	}
	return true
}

// IsDirty reports whether any registered field differs from its initial value.
func (f *Form) IsDirty() bool {
	for _, field := range f.Fields() {
		if field.Dirty() {
			return true
		}
	}
	return false
}

// Pending reports whether any field is still waiting on async validation.
func (f *Form) Pending() bool {
	for _, field := range f.Fields() {
		if field.Pending() {
			return true
		}
	}
	return false
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// SubmitError returns the failure of the last submission, or nil.
func (f *Form) SubmitError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitErr
}

// Disposed reports whether the form has been torn down.
func (f *Form) Disposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}

// Submit validates and submits the form. Pending async validations are
// awaited first. An invalid form marks every field touched and returns
// ErrFormInvalid without calling the handler. A handler failure is stored
// as SubmitError and returned as a *SubmissionError, unless the form was
// disposed meanwhile; then the error is wrapped in ErrFormDisposed.
//
// Calls made while a submission is in flight share its outcome instead of
// starting another one. The handler's context is cancelled when the first
// caller's ctx is, or when the form is disposed.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return ErrFormDisposed
	}
	if fut := f.inflight; fut != nil {
		f.mu.Unlock()
		_, err := fut.AwaitContext(ctx)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(f.ctx, cancel)
	fut := async.Async(context.WithoutCancel(ctx), runCtx, func(_ context.Context, runCtx context.Context) (struct{}, error) {
		defer cancel()
		defer stop()
		return struct{}{}, f.runSubmit(runCtx)
	})
	f.inflight = fut
	f.submitting = true
	f.mu.Unlock()

	f.publish()

	_, err := fut.AwaitContext(ctx)
	return err
}

func (f *Form) runSubmit(ctx context.Context) error {
	for _, field := range f.Fields() {
		if err := field.Await(ctx); err != nil {
			f.finishSubmit(nil, false)
			return err
		}
	}

	if !f.IsValid() {
		f.SetTouched()
		f.finishSubmit(nil, false)
		f.log.DebugContext(ctx, "submit blocked by validation")
		return ErrFormInvalid
	}

	f.mu.Lock()
	handler := f.onSubmit
	f.mu.Unlock()

	if handler != nil {
		if err := callSubmit(ctx, handler, f.Values()); err != nil {
			if f.ctx.Err() != nil {
				f.finishSubmit(nil, false)
				f.log.DebugContext(ctx, "submit cancelled by dispose", logger.Error(err))
				return fmt.Errorf("%w: %w", ErrFormDisposed, err)
			}
			serr := &SubmissionError{Form: f.name, Err: err}
			f.finishSubmit(serr, true)
			f.log.WarnContext(ctx, "submit failed", logger.Error(err))
			f.opts.diagnostics.Report(context.WithoutCancel(ctx), Diagnostic{
				Code:    DiagSubmitFailed,
				Form:    f.name,
				Message: "submit handler returned an error",
				Attrs:   map[string]any{"error": err.Error()},
			})
			return serr
		}
	}

	f.finishSubmit(nil, true)
	f.log.DebugContext(ctx, "form submitted")
	return nil
}

func callSubmit(ctx context.Context, handler SubmitFunc, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submit handler: %w", &async.PanicError{Value: r})
		}
	}()
	return handler(ctx, values)
}

func (f *Form) finishSubmit(err error, store bool) {
	f.mu.Lock()
	f.submitting = false
	f.inflight = nil
	if store {
		f.submitErr = err
	}
	f.mu.Unlock()
	f.publish()
}

// Reset restores every field to its initial value, clears touched, dirty
// and errors, and clears SubmitError. Pending async validation results are
// discarded.
func (f *Form) Reset() {
	for _, field := range f.Fields() {
		field.reset()
	}
	f.mu.Lock()
	f.submitErr = nil
	f.mu.Unlock()
	f.publish()
}

// TakeSnapshot pushes the current field values onto the snapshot stack.
func (f *Form) TakeSnapshot() {
	values := f.Values()
	f.mu.Lock()
	f.snapshots.Push(values)
	depth := f.snapshots.Depth()
	f.mu.Unlock()

	f.log.Debug("snapshot taken", logger.Step(depth))
	f.publish()
}

// RestoreSnapshot pops the latest snapshot and applies its values to the
// fields that are still registered. It reports false on an empty stack.
func (f *Form) RestoreSnapshot() bool {
	f.mu.Lock()
	snap, ok := f.snapshots.Pop()
	f.mu.Unlock()
	if !ok {
		return false
	}

	for _, field := range f.Fields() {
		if v, ok := snap[field.Name()]; ok {
			field.OnChange(v)
		}
	}
	f.publish()
	return true
}

// Step returns the snapshot depth.
func (f *Form) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots.Depth()
}

// Snapshots returns copies of the stored snapshots, oldest first.
func (f *Form) Snapshots() []Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots.Frames()
}

// State returns a consistent view of the form and its fields.
func (f *Form) State() State {
	f.mu.Lock()
	st := State{
		Name:       f.name,
		Submitting: f.submitting,
		Step:       f.snapshots.Depth(),
	}
	if f.submitErr != nil {
		st.SubmitError = f.submitErr.Error()
	}
	f.mu.Unlock()

	st.Valid = true
	for _, field := range f.Fields() {
		fs := field.State()
		st.Fields = append(st.Fields, fs)
		st.Valid = st.Valid && fs.Valid
		st.Dirty = st.Dirty || fs.Dirty
		st.Pending = st.Pending || fs.Pending
	}
	return st
}

// Subscribe returns a stream of form states published after every change.
// Slow readers see the latest states; older queued ones are dropped.
func (f *Form) Subscribe(ctx context.Context) broadcast.Subscriber[State] {
	return f.states.Subscribe(ctx)
}

// Dispose tears the form down: in-flight async validation and submission
// contexts are cancelled, fields are unlinked and subscribers closed.
// It is safe to call more than once.
func (f *Form) Dispose() {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return
	}
	f.disposed = true
	links := f.links
	f.links = make(map[*Field]func())
	clear(f.fields)
	f.order = nil
	f.snapshots.Clear()
	f.mu.Unlock()

	f.cancel()
	for _, unlink := range links {
		unlink()
	}
	_ = f.states.Close()
	f.log.Debug("form disposed")
}

func (f *Form) setSubmitHandlerIfUnset(fn SubmitFunc) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onSubmit == nil {
		f.onSubmit = fn
	}
}

func (f *Form) fieldChanged(ev FieldEvent) {
	if ev.Type == FieldUpdated && ev.OldName != "" {
		f.rekey(ev.Field, ev.OldName)
	}
	f.publish()
}

// rekey moves a renamed field to its new key. If the new name is already
// taken by another field, the renamed one is dropped from the form.
func (f *Form) rekey(field *Field, oldName string) {
	newName := field.Name()

	f.mu.Lock()
	if f.fields[oldName] != field {
		f.mu.Unlock()
		return
	}
	delete(f.fields, oldName)

	var unlink func()
	if other, taken := f.fields[newName]; taken && other != field {
		f.order = slices.DeleteFunc(f.order, func(n string) bool { return n == oldName })
		unlink = f.links[field]
		delete(f.links, field)
	} else {
		f.fields[newName] = field
		if i := slices.Index(f.order, oldName); i >= 0 {
			f.order[i] = newName
		}
	}
	f.mu.Unlock()

	if unlink != nil {
		unlink()
		f.log.Warn("renamed field collides with a registered field",
			logger.Field(newName), slog.String("old_name", oldName))
	}
}

func (f *Form) publish() {
	if f.Disposed() {
		return
	}
	_ = f.states.Broadcast(f.ctx, broadcast.Message[State]{Data: f.State()})
}
