package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/fula/internal/identity"
	"github.com/ashureev/fula/internal/report"
	"github.com/ashureev/fula/internal/session"
	"github.com/go-chi/chi/v5"
)

// fieldActions maps PUT /api/session/{field} onto reducer action names.
var fieldActions = map[string]string{
	"persona":  "set_persona",
	"scenario": "set_scenario",
	"tone":     "set_tone",
	"phase":    "set_phase",
	"goals":    "set_goals",
}

type setRequest struct {
	Value json.RawMessage `json:"value"`
}

// GetSession returns the calling device's session view.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := requireDevice(w, r)
	if !ok {
		return
	}
	v, err := h.sessions.Get(r.Context(), deviceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, v)
}

// SetField replaces one selection of the session. The body is {"value": ...}.
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	name, known := fieldActions[field]
	if !known {
		Error(w, http.StatusNotFound, fmt.Sprintf("unknown session field %q", field))
		return
	}

	var req setRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := session.DecodeAction(name, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.dispatch(w, r, a)
}

// NextPhase advances the session one phase.
func (h *Handler) NextPhase(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.NextPhase{})
}

// PrevPhase moves the session back one phase.
func (h *Handler) PrevPhase(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.PrevPhase{})
}

// Reset restores the initial session and clears the stored record.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, session.Reset{})
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, a session.Action) {
	deviceID, ok := requireDevice(w, r)
	if !ok {
		return
	}
	v, err := h.sessions.Dispatch(r.Context(), deviceID, a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, v)
}

// Report renders the current persona and phase of the session as a PDF.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := requireDevice(w, r)
	if !ok {
		return
	}
	v, err := h.sessions.Get(r.Context(), deviceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if v.PersonaID == "" {
		Error(w, http.StatusConflict, "no persona selected")
		return
	}

	pdf, err := h.buildReport(v.State)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Session report generated", "device_id", deviceID, "persona_id", v.PersonaID, "phase", v.CurrentPhase)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="fula-persona-%s-%s.pdf"`, v.PersonaID, v.CurrentPhase))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Debug("Failed to write report", "error", err, "device_id", deviceID)
	}
}

func (h *Handler) buildReport(st session.State) ([]byte, error) {
	cat := h.resolver.Catalog()
	persona, err := cat.Persona(st.PersonaID)
	if err != nil {
		return nil, err
	}
	pc, err := h.resolver.Resolve(st.PersonaID, st.CurrentPhase)
	if err != nil {
		return nil, err
	}

	in := report.Input{
		Persona:   persona,
		Tone:      st.Tone,
		Goals:     st.Goals,
		Content:   pc,
		Generated: time.Now(),
	}
	if st.ScenarioID != "" {
		if sc, err := cat.Scenario(st.ScenarioID); err == nil {
			in.Scenario = &sc
		}
	}
	return report.Build(in)
}

func requireDevice(w http.ResponseWriter, r *http.Request) (string, bool) {
	deviceID := identity.DeviceIDFromContext(r.Context())
	if deviceID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return deviceID, true
}
