package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Response is the JSON envelope of every endpoint.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

var (
	errFormNotFound  = errors.New("form not found")
	errUnknownEvent  = errors.New("unknown field event")
	errUnknownAction = errors.New("unknown form action")
	errBadBody       = errors.New("malformed request body")
)

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps engine errors to HTTP statuses. data, when not nil, is
// sent alongside the error so clients can render the form state.
func writeError(w http.ResponseWriter, err error, data any) {
	status, code := classify(err)
	detail := &ErrorDetail{Code: code, Message: err.Error()}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		detail.Details = make(map[string][]string)
		for _, e := range fieldErrs {
			detail.Details[e.Field] = append(detail.Details[e.Field], e.Message)
		}
	}

	writeJSON(w, status, Response{Data: data, Error: detail})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errFormNotFound):
		return http.StatusNotFound, "form_not_found"
	case errors.Is(err, errUnknownEvent), errors.Is(err, errUnknownAction):
		return http.StatusNotFound, "unknown_route"
	case errors.Is(err, errBadBody), errors.Is(err, formkit.ErrSnapshotToken):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, formkit.ErrSchemaConflict):
		return http.StatusConflict, "schema_conflict"
	case formkit.IsConfigurationError(err):
		return http.StatusBadRequest, "configuration_error"
	case errors.Is(err, formkit.ErrFormInvalid):
		return http.StatusUnprocessableEntity, "form_invalid"
	case formkit.IsSubmissionError(err):
		return http.StatusBadGateway, "submission_failed"
	case errors.Is(err, formkit.ErrFormDisposed):
		return http.StatusGone, "form_disposed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
