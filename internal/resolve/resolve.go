// Package resolve turns a persona's profile and the current phase into the
// evidence cards, visuals and scripted content shown for that phase.
//
// EvidenceCards and Visuals are pure: the same inputs always yield equal output.
package resolve

import (
	"fmt"

	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/domain"
)

// ErrNotFound is returned for an unknown persona or phase.
var ErrNotFound = content.ErrNotFound

// PhaseContent is everything a view needs to render one phase of a session.
type PhaseContent struct {
	PersonaID     domain.PersonaID      `json:"persona_id"`
	Phase         domain.Phase          `json:"phase"`
	Title         string                `json:"title"`
	Messages      domain.Transcript     `json:"messages"`
	AgentConsole  []domain.AgentStatus  `json:"agent_console"`
	EvidenceCards []domain.EvidenceCard `json:"evidence_cards"`
	Visuals       []domain.Visual       `json:"visuals"`
}

// Rendered resolves the transcript in tone t.
func (pc PhaseContent) Rendered(t domain.Tone) []domain.RenderedMessage {
	return domain.RenderAll(pc.Messages, t)
}

// Resolver joins catalog scripts with the computed phase content.
type Resolver struct {
	catalog *content.Catalog
}

// New creates a resolver over catalog.
func New(catalog *content.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog exposes the underlying read-only catalog.
func (r *Resolver) Catalog() *content.Catalog {
	return r.catalog
}

// Resolve returns the content of persona id in phase ph.
func (r *Resolver) Resolve(id domain.PersonaID, ph domain.Phase) (PhaseContent, error) {
	if !ph.Valid() {
		return PhaseContent{}, fmt.Errorf("phase %q: %w", ph, ErrNotFound)
	}
	persona, err := r.catalog.Persona(id)
	if err != nil {
		return PhaseContent{}, err
	}
	script, err := r.catalog.Script(id, ph)
	if err != nil {
		return PhaseContent{}, err
	}

	cards, err := EvidenceCards(persona.Profile, ph)
	if err != nil {
		return PhaseContent{}, fmt.Errorf("persona %s: %w", id, err)
	}
	visuals, err := Visuals(persona.Profile, ph, id)
	if err != nil {
		return PhaseContent{}, fmt.Errorf("persona %s: %w", id, err)
	}

	return PhaseContent{
		PersonaID:     id,
		Phase:         ph,
		Title:         ph.Title(),
		Messages:      script.Messages,
		AgentConsole:  script.Agents,
		EvidenceCards: cards,
		Visuals:       visuals,
	}, nil
}
