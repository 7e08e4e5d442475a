package formkit

import (
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

const defaultSubscriberBuffer = 16

// Option configures a Registry and the forms it creates.
type Option func(*options)

type options struct {
	logger           *slog.Logger
	diagnostics      DiagnosticSink
	catalogue        *validator.Catalogue
	subscriberBuffer int
	destroyOnUnmount bool
}

func defaultOptions() *options {
	return &options{
		subscriberBuffer: defaultSubscriberBuffer,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Discard()
	}
	if o.diagnostics == nil {
		o.diagnostics = NewSlogSink(o.logger)
	}
	if o.catalogue == nil {
		o.catalogue = validator.Default()
	}
	return o
}

// WithLogger sets the logger used for lifecycle records. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDiagnostics sets where diagnostics go. Defaults to a SlogSink on the configured logger.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(o *options) {
		if sink != nil {
			o.diagnostics = sink
		}
	}
}

// WithValidator sets the rule catalogue used to parse field rule expressions.
func WithValidator(cat *validator.Catalogue) Option {
	return func(o *options) {
		if cat != nil {
			o.catalogue = cat
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber buffer of form state streams.
func WithSubscriberBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.subscriberBuffer = n
		}
	}
}

// WithDestroyOnUnmount makes fields created by controls default to AutoRemove.
func WithDestroyOnUnmount(enabled bool) Option {
	return func(o *options) {
		o.destroyOnUnmount = enabled
	}
}
