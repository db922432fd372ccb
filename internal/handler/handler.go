// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the session, registry and conference
// services.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/virtual-events/internal/conference"
	"github.com/Shivanand-hulikatti/virtual-events/internal/filter"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/service"
	"github.com/rs/zerolog"
)

// Handler holds all HTTP handlers for the virtual events API.
type Handler struct {
	app        *service.App
	conference *conference.Manager
	baseURL    string
	logger     zerolog.Logger
}

// New constructs a Handler. baseURL is the public address used in links
// handed to clients, such as calendar exports.
func New(app *service.App, conf *conference.Manager, baseURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		app:        app,
		conference: conf,
		baseURL:    baseURL,
		logger:     logger.With().Str("component", "http").Logger(),
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps domain errors to status codes. Anything unknown is
// logged and reported as a 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation service.ValidationError
		filterErr  filter.FilterError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &filterErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, conference.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, conference.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, conference.ErrEventNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, conference.ErrNotJoined):
		writeError(w, http.StatusConflict, err.Error())
	default:
		LoggerFromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
