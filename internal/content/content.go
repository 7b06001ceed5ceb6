// Package content loads the read-only persona catalog, scenario library
// and scripted phase transcripts from YAML.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/domain"
)

//go:embed data/*.yaml
var embedded embed.FS

const catalogFile = "catalog.yaml"

// ErrNotFound is returned for an unknown persona, scenario or phase.
var ErrNotFound = errors.New("not found")

// ErrInvalid wraps every validation failure of a content set.
var ErrInvalid = errors.New("invalid content")

// PhaseScript is the authored content of one persona in one phase.
type PhaseScript struct {
	Messages domain.Transcript
	Agents   []domain.AgentStatus
}

// Catalog holds every persona, scenario and script. It is immutable after Load.
type Catalog struct {
	personas  []domain.Persona
	scenarios []domain.Scenario
	scripts   map[domain.PersonaID]map[domain.Phase]PhaseScript
}

type catalogDoc struct {
	Scenarios []domain.Scenario `yaml:"scenarios"`
	Personas  []domain.Persona  `yaml:"personas"`
}

type scriptDoc struct {
	Persona domain.PersonaID                `yaml:"persona"`
	Phases  map[domain.Phase]phaseScriptDoc `yaml:"phases"`
}

type phaseScriptDoc struct {
	Messages []yamlMessage       `yaml:"messages"`
	Agents   []domain.AgentStatus `yaml:"agents"`
}

// yamlMessage decodes a transcript entry by its "type" key.
type yamlMessage struct {
	domain.Message
}

func (m *yamlMessage) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Type domain.MessageKind `yaml:"type"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}
	switch head.Type {
	case domain.KindAdvisor:
		var a domain.AdvisorMessage
		if err := n.Decode(&a); err != nil {
			return err
		}
		m.Message = &a
	case domain.KindUser:
		var u domain.UserMessage
		if err := n.Decode(&u); err != nil {
			return err
		}
		m.Message = &u
	default:
		return fmt.Errorf("line %d: unknown message type %q", n.Line, head.Type)
	}
	return nil
}

// Default loads the embedded content set.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Open loads content from dir when set, falling back to the embedded set.
func Open(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	return Load(os.DirFS(dir))
}

// Load reads catalog.yaml and every persona*.yaml script from fsys and validates them.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, catalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", catalogFile, err)
	}
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", catalogFile, err)
	}

	c := &Catalog{
		personas:  doc.Personas,
		scenarios: doc.Scenarios,
		scripts:   make(map[domain.PersonaID]map[domain.Phase]PhaseScript),
	}

	files, err := fs.Glob(fsys, "persona*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	for _, name := range files {
		if err := c.loadScript(fsys, name); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadScript(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	var doc scriptDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path.Base(name), err)
	}
	if doc.Persona == "" {
		return fmt.Errorf("%w: %s has no persona", ErrInvalid, name)
	}
	if _, dup := c.scripts[doc.Persona]; dup {
		return fmt.Errorf("%w: persona %s scripted twice", ErrInvalid, doc.Persona)
	}
	phases := make(map[domain.Phase]PhaseScript, len(doc.Phases))
	for ph, ps := range doc.Phases {
		if !ph.Valid() {
			return fmt.Errorf("%w: %s: unknown phase %q", ErrInvalid, name, ph)
		}
		msgs := make(domain.Transcript, 0, len(ps.Messages))
		for _, m := range ps.Messages {
			msgs = append(msgs, m.Message)
		}
		phases[ph] = PhaseScript{Messages: msgs, Agents: ps.Agents}
	}
	c.scripts[doc.Persona] = phases
	return nil
}

func (c *Catalog) validate() error {
	if len(c.personas) == 0 {
		return fmt.Errorf("%w: no personas", ErrInvalid)
	}
	scenarios := make(map[domain.ScenarioID]bool, len(c.scenarios))
	for _, s := range c.scenarios {
		if s.ID == "" || scenarios[s.ID] {
			return fmt.Errorf("%w: empty or duplicate scenario %q", ErrInvalid, s.ID)
		}
		scenarios[s.ID] = true
	}

	seen := make(map[domain.PersonaID]bool, len(c.personas))
	for _, p := range c.personas {
		if p.ID == "" || seen[p.ID] {
			return fmt.Errorf("%w: empty or duplicate persona %q", ErrInvalid, p.ID)
		}
		seen[p.ID] = true
		if !p.DefaultTone.Valid() {
			return fmt.Errorf("%w: persona %s: tone %q", ErrInvalid, p.ID, p.DefaultTone)
		}
		if !scenarios[p.DefaultScenario] {
			return fmt.Errorf("%w: persona %s: scenario %q", ErrInvalid, p.ID, p.DefaultScenario)
		}
		if err := validatePersonality(p.Personality); err != nil {
			return fmt.Errorf("%w: persona %s personality: %v", ErrInvalid, p.ID, err)
		}
		if _, err := calc.Compute(p.Profile); err != nil {
			return fmt.Errorf("%w: persona %s profile: %v", ErrInvalid, p.ID, err)
		}
		if _, err := calc.HealthScores(p.Profile); err != nil {
			return fmt.Errorf("%w: persona %s profile: %v", ErrInvalid, p.ID, err)
		}

		phases, ok := c.scripts[p.ID]
		if !ok {
			return fmt.Errorf("%w: persona %s has no script", ErrInvalid, p.ID)
		}
		for _, ph := range domain.Phases() {
			ps, ok := phases[ph]
			if !ok || len(ps.Messages) == 0 {
				return fmt.Errorf("%w: persona %s phase %s has no messages", ErrInvalid, p.ID, ph)
			}
			if err := validateScript(ps); err != nil {
				return fmt.Errorf("%w: persona %s phase %s: %v", ErrInvalid, p.ID, ph, err)
			}
		}
	}
	for id := range c.scripts {
		if !seen[id] {
			return fmt.Errorf("%w: script for unknown persona %s", ErrInvalid, id)
		}
	}
	return nil
}

func validatePersonality(pp domain.Personality) error {
	switch {
	case pp.Archetype == "":
		return errors.New("missing archetype")
	case pp.CorePersonality == "":
		return errors.New("missing core personality")
	case pp.MoneyStory == "":
		return errors.New("missing money story")
	case pp.Stress.Trigger == "" || pp.Stress.Countermeasure == "":
		return errors.New("missing stress trigger or countermeasure")
	case len(pp.Communication) == 0:
		return errors.New("missing communication guidance")
	}
	return nil
}

// Message IDs may repeat within a phase; the authored transcripts reuse some.
func validateScript(ps PhaseScript) error {
	for _, m := range ps.Messages {
		if m.MessageID() == "" {
			return errors.New("message without id")
		}
		if a, ok := m.(*domain.AdvisorMessage); ok {
			switch a.Severity {
			case "", domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh:
			default:
				return fmt.Errorf("message %s: severity %q", a.ID, a.Severity)
			}
		}
	}
	for _, a := range ps.Agents {
		if !a.Status.Valid() {
			return fmt.Errorf("agent %q: status %q", a.Name, a.Status)
		}
	}
	return nil
}

// Personas returns every persona in authored order.
func (c *Catalog) Personas() []domain.Persona {
	out := make([]domain.Persona, len(c.personas))
	copy(out, c.personas)
	return out
}

// Persona looks up a persona by id.
func (c *Catalog) Persona(id domain.PersonaID) (domain.Persona, error) {
	for _, p := range c.personas {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Persona{}, fmt.Errorf("persona %q: %w", id, ErrNotFound)
}

// Scenarios returns the scenario library in authored order.
func (c *Catalog) Scenarios() []domain.Scenario {
	out := make([]domain.Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// Scenario looks up a scenario by id.
func (c *Catalog) Scenario(id domain.ScenarioID) (domain.Scenario, error) {
	for _, s := range c.scenarios {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Scenario{}, fmt.Errorf("scenario %q: %w", id, ErrNotFound)
}

// Script returns the messages and agent console of a persona in a phase.
func (c *Catalog) Script(id domain.PersonaID, ph domain.Phase) (PhaseScript, error) {
	phases, ok := c.scripts[id]
	if !ok {
		return PhaseScript{}, fmt.Errorf("persona %q: %w", id, ErrNotFound)
	}
	ps, ok := phases[ph]
	if !ok {
		return PhaseScript{}, fmt.Errorf("phase %q: %w", ph, ErrNotFound)
	}
	return PhaseScript{
		Messages: append(domain.Transcript(nil), ps.Messages...),
		Agents:   append([]domain.AgentStatus(nil), ps.Agents...),
	}, nil
}
