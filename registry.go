package formkit

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

type registryEntry struct {
	form *Form
	refs int
}

// Registry is a table of live forms keyed by name. Every ExtendForm call
// takes a reference; the form is disposed when the last reference is
// released through UnregisterForm. Registries are explicit values; there is
// no package-level instance.
type Registry struct {
	opts *options
	log  *slog.Logger

	mu     sync.Mutex
	forms  map[string]*registryEntry
	closed bool
}

// NewRegistry creates an empty registry. Options apply to every form it creates.
func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{
		opts:  o,
		log:   o.logger.With(logger.Component("registry")),
		forms: make(map[string]*registryEntry),
	}
}

// ExtendForm returns the form registered under name and takes a reference to
// it, creating the form from cfg on first use. A later call whose non-empty
// schema differs from the registered one fails with a *ConfigurationError
// wrapping ErrSchemaConflict and takes no reference. An empty schema on a
// later call means the caller has no opinion about the fields.
func (r *Registry) ExtendForm(name string, cfg Config) (*Form, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newConfigError("extend form", name, ErrEmptyName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrFormDisposed
	}

	if e, ok := r.forms[name]; ok {
		if len(cfg.Schema) > 0 && !e.form.schema.Equal(cfg.Schema) {
			return nil, newConfigError("extend form", name, ErrSchemaConflict)
		}
		e.form.setSubmitHandlerIfUnset(cfg.OnSubmit)
		e.refs++
		r.log.Debug("form extended", logger.Form(name), logger.Refs(e.refs))
		return e.form, nil
	}

	form, err := newForm(name, cfg, r.opts)
	if err != nil {
		return nil, err
	}
	r.forms[name] = &registryEntry{form: form, refs: 1}
	r.log.Info("form created", logger.Form(name), slog.Int("fields", len(form.schema)))
	return form, nil
}

// UnregisterForm releases one reference to name. At zero the form is
// disposed and removed. Unknown names are ignored.
func (r *Registry) UnregisterForm(name string) {
	r.mu.Lock()
	e, ok := r.forms[name]
	if !ok {
		r.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		refs := e.refs
		r.mu.Unlock()
		r.log.Debug("form released", logger.Form(name), logger.Refs(refs))
		return
	}
	delete(r.forms, name)
	r.mu.Unlock()

	e.form.Dispose()
	r.log.Info("form destroyed", logger.Form(name))
}

// Form returns the live form registered under name without taking a reference.
func (r *Registry) Form(name string) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.forms[name]
	if !ok {
		return nil, false
	}
	return e.form, true
}

// Refs returns the reference count held for name.
func (r *Registry) Refs(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.forms[name]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of live forms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Names returns the names of live forms in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.forms))
}

// Ping reports ErrFormDisposed once the registry is closed. It matches the
// readiness check signature used by the demo server.
func (r *Registry) Ping(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrFormDisposed
	}
	return nil
}

// Close disposes every form regardless of reference counts. Later
// ExtendForm calls fail with ErrFormDisposed.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	forms := r.forms
	r.forms = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range forms {
		e.form.Dispose()
	}
	r.log.Info("registry closed", slog.Int("forms", len(forms)))
	return nil
}
