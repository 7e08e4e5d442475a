package formkit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Diagnostic codes.
const (
	// DiagInitialValueType: a control's initial value does not match its input kind.
	DiagInitialValueType = "initial_value_type"
	// DiagValidatorPanic: a validator failed internally and was turned into a generic error.
	DiagValidatorPanic = "validator_panic"
	// DiagStaleValidation: an async validation result was dropped because a newer edit superseded it.
	DiagStaleValidation = "stale_validation"
	// DiagSubmitFailed: the submit handler returned an error.
	DiagSubmitFailed = "submit_failed"
)

// Diagnostic is a structured, non-fatal observation about how the engine is
// being used. It replaces ad-hoc console warnings.
type Diagnostic struct {
	Code    string
	Form    string
	Field   string
	Message string
	Attrs   map[string]any
}

// DiagnosticSink receives diagnostics. Implementations must be safe for concurrent use.
type DiagnosticSink interface {
	Report(ctx context.Context, d Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(ctx context.Context, d Diagnostic)

func (f DiagnosticFunc) Report(ctx context.Context, d Diagnostic) { f(ctx, d) }

// SlogSink writes diagnostics as log records. Stale validation results are
// logged at debug level, everything else at warn.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink returns a sink writing to l, or to a discard logger when l is nil.
func NewSlogSink(l *slog.Logger) *SlogSink {
	if l == nil {
		l = logger.Discard()
	}
	return &SlogSink{Logger: l}
}

func (s *SlogSink) Report(ctx context.Context, d Diagnostic) {
	level := slog.LevelWarn
	if d.Code == DiagStaleValidation {
		level = slog.LevelDebug
	}

	attrs := []slog.Attr{
		slog.String("code", d.Code),
		logger.Form(d.Form),
		logger.Field(d.Field),
	}
	for k, v := range d.Attrs {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.Logger.LogAttrs(ctx, level, d.Message, attrs...)
}

// DiagnosticRecorder keeps every diagnostic it receives, for assertions in tests.
type DiagnosticRecorder struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (r *DiagnosticRecorder) Report(_ context.Context, d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
}

// All returns a copy of the recorded diagnostics.
func (r *DiagnosticRecorder) All() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.items...)
}

// Codes returns the recorded codes in order.
func (r *DiagnosticRecorder) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := make([]string, len(r.items))
	for i, d := range r.items {
		codes[i] = d.Code
	}
	return codes
}

// Reset drops everything recorded so far.
func (r *DiagnosticRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

type multiSink []DiagnosticSink

func (m multiSink) Report(ctx context.Context, d Diagnostic) {
	for _, s := range m {
		s.Report(ctx, d)
	}
}

// TeeDiagnostics fans diagnostics out to every non-nil sink.
func TeeDiagnostics(sinks ...DiagnosticSink) DiagnosticSink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
