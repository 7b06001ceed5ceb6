// Package api provides HTTP handlers for the FULA API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/resolve"
	"github.com/ashureev/fula/internal/session"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// Handler provides the catalog and session endpoints.
type Handler struct {
	resolver *resolve.Resolver
	sessions *session.Service
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(resolver *resolve.Resolver, sessions *session.Service) *Handler {
	return &Handler{
		resolver: resolver,
		sessions: sessions,
	}
}

// RegisterRoutes registers catalog and session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/personas", h.ListPersonas)
		r.Get("/personas/{id}", h.GetPersona)
		r.Get("/personas/{id}/metrics", h.GetMetrics)
		r.Get("/personas/{id}/phases/{phase}", h.GetPhase)
		r.Get("/scenarios", h.ListScenarios)
		r.Get("/phases", h.ListPhases)
		r.Get("/goals", h.ListGoals)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Put("/{field}", h.SetField)
			r.Post("/phase/next", h.NextPhase)
			r.Post("/phase/prev", h.PrevPhase)
			r.Post("/reset", h.Reset)
			r.Get("/report.pdf", h.Report)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrInvalidAction):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, calc.ErrNonPositiveBurn), errors.Is(err, calc.ErrZeroDenominator):
		Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("Request failed", "error", err, "path", r.URL.Path)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
