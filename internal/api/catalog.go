package api

import (
	"fmt"
	"net/http"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/session"
	"github.com/go-chi/chi/v5"
)

// personaListing is the list form of a persona: metadata without the profile or personality.
type personaListing struct {
	ID                  domain.PersonaID  `json:"id"`
	Name                string            `json:"name"`
	DescriptionFriendly string            `json:"description_friendly"`
	DescriptionDirect   string            `json:"description_direct"`
	DefaultTone         domain.Tone       `json:"default_tone"`
	DefaultScenario     domain.ScenarioID `json:"default_scenario"`
}

// ListPersonas returns every persona without its account profile.
func (h *Handler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	personas := h.resolver.Catalog().Personas()
	out := make([]personaListing, 0, len(personas))
	for _, p := range personas {
		out = append(out, personaListing{
			ID:                  p.ID,
			Name:                p.Name,
			DescriptionFriendly: p.DescriptionFriendly,
			DescriptionDirect:   p.DescriptionDirect,
			DefaultTone:         p.DefaultTone,
			DefaultScenario:     p.DefaultScenario,
		})
	}
	JSON(w, http.StatusOK, out)
}

// GetPersona returns one persona including its account profile and personality.
func (h *Handler) GetPersona(w http.ResponseWriter, r *http.Request) {
	p, err := h.resolver.Catalog().Persona(domain.PersonaID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// GetMetrics returns the headline metrics and health radar of a persona.
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	p, err := h.resolver.Catalog().Persona(domain.PersonaID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := calc.Compute(p.Profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	health, err := calc.HealthScores(p.Profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"persona_id": p.ID,
		"metrics":    m,
		"health":     health,
	})
}

// GetPhase resolves a persona's phase without touching session state.
// The tone defaults to the persona's default tone.
func (h *Handler) GetPhase(w http.ResponseWriter, r *http.Request) {
	id := domain.PersonaID(chi.URLParam(r, "id"))
	p, err := h.resolver.Catalog().Persona(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tone := p.DefaultTone
	if q := r.URL.Query().Get("tone"); q != "" {
		tone = domain.Tone(q)
		if !tone.Valid() {
			writeError(w, r, fmt.Errorf("%w: unknown tone %q", session.ErrInvalidAction, q))
			return
		}
	}

	pc, err := h.resolver.Resolve(id, domain.Phase(chi.URLParam(r, "phase")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, map[string]any{
		"persona_id":     pc.PersonaID,
		"phase":          pc.Phase,
		"title":          pc.Title,
		"tone":           tone,
		"messages":       pc.Rendered(tone),
		"agent_console":  pc.AgentConsole,
		"evidence_cards": pc.EvidenceCards,
		"visuals":        pc.Visuals,
	})
}

// ListScenarios returns the scenario library.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.resolver.Catalog().Scenarios())
}

// ListPhases returns the phase timeline.
func (h *Handler) ListPhases(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, domain.PhaseInfos())
}

// ListGoals returns the selectable goals and the selection limit.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"goals":     domain.Goals(),
		"max_goals": domain.MaxGoals,
	})
}
