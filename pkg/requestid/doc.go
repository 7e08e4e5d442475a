// Package requestid tags every HTTP request served by the form API with a
// correlation identifier.
//
// Middleware reuses a well-formed X-Request-ID header sent by the client and
// generates a UUID otherwise. The identifier is stored in the request context
// and echoed in the response header. Field events and submissions triggered by
// the request carry that context, so log records and diagnostics emitted while
// handling it can be joined by installing LoggerExtractor on the logger:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
