package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/control"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/requestid"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

const maxBodySize = 1 << 20

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithSubmitFunc sets the submit handler of forms created over HTTP.
func WithSubmitFunc(fn formkit.SubmitFunc) Option {
	return func(h *Handler) {
		h.onSubmit = fn
	}
}

// WithTranslator localises validation messages into the request language,
// taken from the "lang" query parameter or Accept-Language.
func WithTranslator(tr *i18n.Translator) Option {
	return func(h *Handler) {
		h.tr = tr
	}
}

// Handler exposes a form registry over HTTP.
type Handler struct {
	registry *formkit.Registry
	log      *slog.Logger
	onSubmit formkit.SubmitFunc
	tr       *i18n.Translator
}

// New returns a Handler serving forms from registry.
func New(registry *formkit.Registry, opts ...Option) *Handler {
	h := &Handler{
		registry: registry,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("httpapi"))
	return h
}

// Routes mounts the form endpoints:
//
//	PUT    /forms/{form}                         take a reference, creating the form from the schema body
//	DELETE /forms/{form}                         release a reference
//	GET    /forms/{form}                         form state
//	POST   /forms/{form}/fields/{field}/{event}  change, focus or blur a field
//	POST   /forms/{form}/{action}                submit, reset, touch, next or previous
//	GET    /forms/{form}/snapshots               export the snapshot stack
//	PUT    /forms/{form}/snapshots               import a snapshot stack
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	if h.tr != nil {
		r.Use(i18n.Middleware(i18n.DefaultLangExtractor(
			i18n.WithSupportedLanguages(h.tr.SupportedLanguages()...),
		)))
	}

	r.Route("/forms/{form}", func(r chi.Router) {
		r.Use(formScope)
		r.Put("/", h.extendForm)
		r.Delete("/", h.releaseForm)
		r.Get("/", h.formState)
		r.Post("/fields/{field}/{event}", h.fieldEvent)
		r.Get("/snapshots", h.exportSnapshots)
		r.Put("/snapshots", h.importSnapshots)
		r.Post("/{action}", h.formAction)
	})

	return r
}

// formScope tags the request context with the form name for logging.
func formScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithForm(r.Context(), chi.URLParam(r, "form"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type extendRequest struct {
	Schema map[string]any `json:"schema"`
}

func (h *Handler) extendForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "form")

	schema, err := decodeSchema(w, r)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	form, err := h.registry.ExtendForm(name, formkit.Config{Schema: schema, OnSubmit: h.onSubmit})
	if err != nil {
		h.log.WarnContext(r.Context(), "extend form failed", logger.Error(err))
		writeError(w, err, nil)
		return
	}

	h.writeState(w, http.StatusOK, form)
}

// decodeSchema reads a JSON body, or YAML when the content type says so.
func decodeSchema(w http.ResponseWriter, r *http.Request) (formkit.Schema, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		schema, err := formkit.LoadSchemaYAML(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadBody, err)
		}
		return schema, nil
	}

	var req extendRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", errBadBody, err)
	}
	return formkit.ParseSchema(req.Schema), nil
}

func (h *Handler) releaseForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "form")
	h.registry.UnregisterForm(name)
	writeJSON(w, http.StatusOK, Response{Meta: map[string]any{"refs": h.registry.Refs(name)}})
}

func (h *Handler) formState(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	h.writeState(w, http.StatusOK, form)
}

type fieldEventRequest struct {
	Props control.Props `json:"props"`
	Event control.Event `json:"event"`
}

func (h *Handler) fieldEvent(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	var req fieldEventRequest
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, fmt.Errorf("%w: %w", errBadBody, err), nil)
		return
	}
	req.Props.Name = chi.URLParam(r, "field")
	ctx := logger.WithField(r.Context(), req.Props.Name)

	ctrl, err := control.New(ctx, form, req.Props, control.WithTranslator(h.tr))
	if err != nil {
		writeError(w, err, nil)
		return
	}

	event := chi.URLParam(r, "event")
	switch event {
	case "change":
		ctrl.OnChange(req.Event)
	case "focus":
		ctrl.OnFocus()
	case "blur":
		ctrl.OnBlur()
	default:
		writeError(w, fmt.Errorf("%w: %q", errUnknownEvent, event), nil)
		return
	}

	h.log.DebugContext(ctx, "field event", logger.Event(event))
	writeJSON(w, http.StatusOK, Response{Data: ctrl.Render()})
}

func (h *Handler) formAction(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	action := chi.URLParam(r, "action")
	switch action {
	case "submit":
		if err := form.Submit(r.Context()); err != nil {
			errs := validator.Localize(h.tr, i18n.Locale(r.Context()), fieldErrors(form))
			if errors.Is(err, formkit.ErrFormInvalid) && len(errs) > 0 {
				err = fmt.Errorf("%w: %w", err, errs)
			}
			writeError(w, err, form.State())
			return
		}
	case "reset":
		form.Reset()
	case "touch":
		form.SetTouched()
	case "next":
		form.TakeSnapshot()
	case "previous":
		form.RestoreSnapshot()
	default:
		writeError(w, fmt.Errorf("%w: %q", errUnknownAction, action), nil)
		return
	}

	h.log.DebugContext(r.Context(), "form action", logger.Event(action))
	h.writeState(w, http.StatusOK, form)
}

func fieldErrors(form *formkit.Form) formkit.ValidationErrors {
	var out formkit.ValidationErrors
	for _, f := range form.Fields() {
		out = append(out, f.Errors()...)
	}
	return out
}

type snapshotToken struct {
	Token string `json:"token"`
}

func (h *Handler) exportSnapshots(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	token, err := form.ExportSnapshots()
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: snapshotToken{Token: token}, Meta: map[string]any{"step": form.Step()}})
}

func (h *Handler) importSnapshots(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}

	var req snapshotToken
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %w", errBadBody, err), nil)
		return
	}
	if err := form.ImportSnapshots(req.Token); err != nil {
		writeError(w, err, nil)
		return
	}
	h.writeState(w, http.StatusOK, form)
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) (*formkit.Form, bool) {
	name := chi.URLParam(r, "form")
	form, ok := h.registry.Form(name)
	if !ok {
		writeError(w, fmt.Errorf("%w: %q", errFormNotFound, name), nil)
		return nil, false
	}
	return form, true
}

func (h *Handler) writeState(w http.ResponseWriter, status int, form *formkit.Form) {
	writeJSON(w, status, Response{
		Data: form.State(),
		Meta: map[string]any{"refs": h.registry.Refs(form.Name())},
	})
}
