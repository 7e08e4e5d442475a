package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type scopeKey struct{}

type scope struct {
	form  string
	field string
}

// WithForm tags ctx with a form name. Records logged with ctx carry a
// "form" attribute unless the logger or record already sets one.
func WithForm(ctx context.Context, name string) context.Context {
	s, _ := ctx.Value(scopeKey{}).(scope)
	s.form = name
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithField tags ctx with a field name, keeping the form.
func WithField(ctx context.Context, name string) context.Context {
	s, _ := ctx.Value(scopeKey{}).(scope)
	s.field = name
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the form and field names stored in ctx.
func ScopeFromContext(ctx context.Context) (form, field string) {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s.form, s.field
}

// LogHandlerDecorator wraps a slog.Handler and adds the form scope and
// extractor attributes taken from the record context. A key the record or
// the logger's own attributes already carry is not added again.
type LogHandlerDecorator struct {
	next       slog.Handler
	extractors []ContextExtractor
	static     map[string]struct{}
}

// NewLogHandlerDecorator creates a new decorated handler. Nil extractors are
// dropped.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &LogHandlerDecorator{next: next, extractors: clean}
}

func (h *LogHandlerDecorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *LogHandlerDecorator) Handle(ctx context.Context, rec slog.Record) error {
	extra := h.contextAttrs(ctx)
	if len(extra) == 0 {
		return h.next.Handle(ctx, rec)
	}

	seen := make(map[string]struct{}, rec.NumAttrs()+len(h.static))
	for k := range h.static {
		seen[k] = struct{}{}
	}
	rec.Attrs(func(a slog.Attr) bool {
		seen[a.Key] = struct{}{}
		return true
	})
	for _, a := range extra {
		if _, dup := seen[a.Key]; dup {
			continue
		}
		seen[a.Key] = struct{}{}
		rec.AddAttrs(a)
	}
	return h.next.Handle(ctx, rec)
}

func (h *LogHandlerDecorator) contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var out []slog.Attr
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		if s.form != "" {
			out = append(out, Form(s.form))
		}
		if s.field != "" {
			out = append(out, Field(s.field))
		}
	}
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			out = append(out, attr)
		}
	}
	return out
}

// WithAttrs remembers the keys so context attributes do not repeat them.
func (h *LogHandlerDecorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	static := make(map[string]struct{}, len(h.static)+len(attrs))
	for k := range h.static {
		static[k] = struct{}{}
	}
	for _, a := range attrs {
		static[a.Key] = struct{}{}
	}
	return &LogHandlerDecorator{
		next:       h.next.WithAttrs(attrs),
		extractors: h.extractors,
		static:     static,
	}
}

// WithGroup keeps the extractors. Keys inside the group no longer clash
// with top-level ones.
func (h *LogHandlerDecorator) WithGroup(name string) slog.Handler {
	return &LogHandlerDecorator{
		next:       h.next.WithGroup(name),
		extractors: h.extractors,
	}
}
