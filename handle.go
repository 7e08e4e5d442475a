package formkit

import (
	"context"
	"sync"
)

// FormHandle is one consumer's reference to a registry form. It exposes the
// form-level state and actions a view needs and releases its reference
// exactly once on Destroy.
type FormHandle struct {
	registry *Registry
	form     *Form
	once     sync.Once
}

// Bind takes a reference to the form registered under name, creating it from
// cfg when needed.
func Bind(registry *Registry, name string, cfg Config) (*FormHandle, error) {
	form, err := registry.ExtendForm(name, cfg)
	if err != nil {
		return nil, err
	}
	return &FormHandle{registry: registry, form: form}, nil
}

// Form returns the bound form.
func (h *FormHandle) Form() *Form { return h.form }

func (h *FormHandle) Valid() bool        { return h.form.IsValid() }
func (h *FormHandle) Dirty() bool        { return h.form.IsDirty() }
func (h *FormHandle) Submitting() bool   { return h.form.Submitting() }
func (h *FormHandle) SubmitError() error { return h.form.SubmitError() }

// Step is the number of snapshots taken and not yet restored.
func (h *FormHandle) Step() int { return h.form.Step() }

func (h *FormHandle) Submit(ctx context.Context) error { return h.form.Submit(ctx) }
func (h *FormHandle) Reset()                           { h.form.Reset() }
func (h *FormHandle) Touch()                           { h.form.SetTouched() }

// Next captures the current values and advances one step.
func (h *FormHandle) Next() { h.form.TakeSnapshot() }

// Previous restores the last captured values. It reports false at step zero.
func (h *FormHandle) Previous() bool { return h.form.RestoreSnapshot() }

// Destroy releases the handle's reference. Repeated calls do nothing.
func (h *FormHandle) Destroy() {
	h.once.Do(func() {
		h.registry.UnregisterForm(h.form.Name())
	})
}
