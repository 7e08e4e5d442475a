package httpserver

import (
	"context"
	"log/slog"
	"time"
)

// Option configures the server.
type Option func(*options)

type options struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	log             *slog.Logger
	onStop          []func(context.Context)
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty address")
	}
	return func(o *options) { o.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	mustPositive("read timeout", d)
	return func(o *options) { o.readTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	mustPositive("write timeout", d)
	return func(o *options) { o.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	mustPositive("idle timeout", d)
	return func(o *options) { o.idleTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown, stop hooks included.
func WithShutdownTimeout(d time.Duration) Option {
	mustPositive("shutdown timeout", d)
	return func(o *options) { o.shutdownTimeout = d }
}

// WithLogger sets the server logger. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithStopHook registers fn to run after the listener has stopped, such as
// closing the form registry. Hooks run in registration order.
func WithStopHook(fn func(context.Context)) Option {
	if fn == nil {
		panic("httpserver: nil stop hook")
	}
	return func(o *options) { o.onStop = append(o.onStop, fn) }
}

func mustPositive(what string, d time.Duration) {
	if d <= 0 {
		panic("httpserver: " + what + " must be positive")
	}
}
