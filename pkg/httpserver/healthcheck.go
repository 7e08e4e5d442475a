package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Check reports whether a dependency can serve requests.
type Check func(ctx context.Context) error

type health struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthCheckHandler answers liveness checks when no checks are given and
// readiness checks otherwise. The first failing check yields 503.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		body, status := health{Status: "alive"}, http.StatusOK
		if len(checks) > 0 {
			body.Status = "ready"
		}
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
				body, status = health{Status: "not_ready", Error: err.Error()}, http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
