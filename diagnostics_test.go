package formkit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
)

func TestSlogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	sink := formkit.NewSlogSink(log)

	sink.Report(context.Background(), formkit.Diagnostic{Code: formkit.DiagStaleValidation, Field: "email", Message: "dropped"})
	assert.Zero(t, buf.Len(), "stale results log at debug")

	sink.Report(context.Background(), formkit.Diagnostic{
		Code:    formkit.DiagInitialValueType,
		Form:    "login",
		Field:   "agree",
		Message: "initial value does not match input type",
		Attrs:   map[string]any{"expected": "boolean"},
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, formkit.DiagInitialValueType, rec["code"])
	assert.Equal(t, "login", rec["form"])
	assert.Equal(t, "agree", rec["field"])
	assert.Equal(t, "boolean", rec["expected"])
}

func TestTeeDiagnostics(t *testing.T) {
	t.Parallel()

	a := &formkit.DiagnosticRecorder{}
	b := &formkit.DiagnosticRecorder{}
	var seen []string
	sink := formkit.TeeDiagnostics(a, nil, b, formkit.DiagnosticFunc(func(_ context.Context, d formkit.Diagnostic) {
		seen = append(seen, d.Code)
	}))

	sink.Report(context.Background(), formkit.Diagnostic{Code: "x"})
	assert.Equal(t, []string{"x"}, a.Codes())
	assert.Equal(t, []string{"x"}, b.Codes())
	assert.Equal(t, []string{"x"}, seen)

	a.Reset()
	assert.Empty(t, a.All())
}

func TestFormDiagnosticsWiring(t *testing.T) {
	t.Parallel()

	rec := &formkit.DiagnosticRecorder{}
	form := newSignupForm(t, func(context.Context, map[string]any) error {
		return assert.AnError
	}, formkit.WithDiagnostics(rec))
	fillSignup(t, form)

	require.Error(t, form.Submit(context.Background()))
	all := rec.All()
	require.Len(t, all, 1)
	assert.Equal(t, formkit.DiagSubmitFailed, all[0].Code)
	assert.Equal(t, "signup", all[0].Form)
}
