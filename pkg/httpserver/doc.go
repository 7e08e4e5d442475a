// Package httpserver runs the form API with configurable timeouts and
// graceful shutdown.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// drains connections within the shutdown timeout and runs the stop hooks,
// which is where the demo closes its form registry so pending submissions are
// cancelled:
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(context.Context) { _ = registry.Close() }),
//	)
//	err := srv.Run(ctx, router)
//
// HealthCheckHandler serves liveness and readiness checks.
package httpserver
