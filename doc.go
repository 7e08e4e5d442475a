// Package formkit is a form-state engine: given a declarative schema of
// fields and validation rules, it tracks per-field values, focus, touched
// and dirty flags and validation errors, and aggregates them into form-level
// status for a view layer.
//
// Key Features:
//
//   - Compact rule expressions ("required|min:3") parsed by pkg/validator
//   - Synchronous and asynchronous validators with last-write-wins results
//   - Derived form validity and dirtiness, never stored separately
//   - Coalesced submission with captured handler failures
//   - Snapshot stack for step-based forms, exportable as a msgpack token
//   - Reference-counted form registry owned by the caller
//   - Structured diagnostics instead of console warnings
//
// Basic Usage:
//
//	registry := formkit.NewRegistry(formkit.WithLogger(log))
//	defer registry.Close()
//
//	form, err := registry.ExtendForm("login", formkit.Config{
//		Schema: formkit.Schema{
//			"email":    {Initial: "", Rules: "required|email"},
//			"password": {Initial: "", Rules: "required|min:8"},
//		},
//		OnSubmit: func(ctx context.Context, values map[string]any) error {
//			return signIn(ctx, values["email"].(string), values["password"].(string))
//		},
//	})
//	if err != nil {
//		// malformed rules or a conflicting schema: *formkit.ConfigurationError
//	}
//
//	email, _ := form.EnsureField("email")
//	email.OnChange("not-an-email")
//	form.IsValid() // false
//
//	email.OnChange("a@b.com")
//	form.IsValid() // true: password has no field yet
//
//	_, _ = form.EnsureField("password")
//	form.IsValid() // false: password is required
//
// Errors:
//
// Configuration problems are returned as *ConfigurationError at the point
// of registration. Rule failures are data stored on fields as
// ValidationErrors. A failing submit handler is captured as a
// *SubmissionError and kept in Form.SubmitError; the form stays usable.
// Async validation results superseded by a newer edit are dropped and
// reported as a stale_validation diagnostic.
//
// Concurrency:
//
// Every exported method is safe for concurrent use. Field observers and
// state subscribers are notified outside internal locks, after the change
// they describe has been applied.
package formkit
