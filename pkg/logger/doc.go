// Package logger builds the slog loggers used by the engine, its HTTP
// adapter and the demo command.
//
// New returns a *slog.Logger configured through options: output format
// (JSON or text), level, static attributes, and context extractors that add
// request-scoped attributes such as the request id to every record logged
// with a context:
//
//	log := logger.New(
//		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//		logger.WithAttr(slog.String("service", "formkit-demo")),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// Attribute helpers keep key names uniform: Form, Field, Step, Refs,
// Component and Event name engine objects; Error skips a nil error.
//
// WithForm and WithField tag a context with the form and field being worked
// on. Every record logged with that context gets "form" and "field"
// attributes, unless the record or the logger already carries those keys:
//
//	ctx = logger.WithField(logger.WithForm(ctx, "signup"), "email")
//	log.DebugContext(ctx, "field event") // ... form=signup field=email
//
// Discard is the default logger of every engine component that was given
// none.
package logger
