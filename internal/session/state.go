// Package session holds the advisory session state machine and the service
// that persists it per device.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ashureev/fula/internal/domain"
)

// ErrInvalidAction is returned when an action carries an unknown or malformed value.
var ErrInvalidAction = errors.New("invalid action")

// State is the durable part of a session.
type State struct {
	PersonaID    domain.PersonaID  `json:"persona_id"`
	ScenarioID   domain.ScenarioID `json:"scenario_id"`
	Tone         domain.Tone       `json:"tone"`
	CurrentPhase domain.Phase      `json:"current_phase"`
	Goals        []string          `json:"goals"`
}

// Initial returns the state of a fresh or reset session.
func Initial() State {
	return State{
		Tone:         domain.ToneFriendly,
		CurrentPhase: domain.Phase0002,
		Goals:        []string{},
	}
}

// Catalog is the read-only lookup Reduce validates ids against.
type Catalog interface {
	Persona(id domain.PersonaID) (domain.Persona, error)
	Scenario(id domain.ScenarioID) (domain.Scenario, error)
}

// Action is a request to change session state.
type Action interface {
	Name() string
}

type (
	SetPersona  struct{ PersonaID domain.PersonaID }
	SetScenario struct{ ScenarioID domain.ScenarioID }
	SetTone     struct{ Tone domain.Tone }
	SetPhase    struct{ Phase domain.Phase }
	SetGoals    struct{ Goals []string }
	NextPhase   struct{}
	PrevPhase   struct{}
	Reset       struct{}
)

func (SetPersona) Name() string  { return "set_persona" }
func (SetScenario) Name() string { return "set_scenario" }
func (SetTone) Name() string     { return "set_tone" }
func (SetPhase) Name() string    { return "set_phase" }
func (SetGoals) Name() string    { return "set_goals" }
func (NextPhase) Name() string   { return "next_phase" }
func (PrevPhase) Name() string   { return "prev_phase" }
func (Reset) Name() string       { return "reset" }

// Reduce applies a to s and returns the new state. s is never modified; on
// error the returned state equals s.
func Reduce(c Catalog, s State, a Action) (State, error) {
	next := s.clone()
	switch a := a.(type) {
	case SetPersona:
		if _, err := c.Persona(a.PersonaID); err != nil {
			return s, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		next.PersonaID = a.PersonaID
	case SetScenario:
		if _, err := c.Scenario(a.ScenarioID); err != nil {
			return s, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		next.ScenarioID = a.ScenarioID
	case SetTone:
		if !a.Tone.Valid() {
			return s, fmt.Errorf("%w: tone %q", ErrInvalidAction, a.Tone)
		}
		next.Tone = a.Tone
	case SetPhase:
		if !a.Phase.Valid() {
			return s, fmt.Errorf("%w: phase %q", ErrInvalidAction, a.Phase)
		}
		next.CurrentPhase = a.Phase
	case SetGoals:
		if err := domain.ValidateGoals(a.Goals); err != nil {
			return s, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		next.Goals = append([]string{}, a.Goals...)
	case NextPhase:
		next.CurrentPhase = next.CurrentPhase.Next()
	case PrevPhase:
		next.CurrentPhase = next.CurrentPhase.Prev()
	case Reset:
		return Initial(), nil
	default:
		return s, fmt.Errorf("%w: unsupported action %T", ErrInvalidAction, a)
	}
	return next, nil
}

func (s State) clone() State {
	out := s
	out.Goals = append([]string{}, s.Goals...)
	return out
}

// DecodeAction builds an action from its wire name and JSON value.
func DecodeAction(name string, value json.RawMessage) (Action, error) {
	str := func() (string, error) {
		var v string
		if err := json.Unmarshal(value, &v); err != nil {
			return "", fmt.Errorf("%w: %s expects a string value", ErrInvalidAction, name)
		}
		return v, nil
	}

	switch name {
	case "set_persona":
		v, err := str()
		return SetPersona{PersonaID: domain.PersonaID(v)}, err
	case "set_scenario":
		v, err := str()
		return SetScenario{ScenarioID: domain.ScenarioID(v)}, err
	case "set_tone":
		v, err := str()
		return SetTone{Tone: domain.Tone(v)}, err
	case "set_phase":
		v, err := str()
		return SetPhase{Phase: domain.Phase(v)}, err
	case "set_goals":
		var goals []string
		if err := json.Unmarshal(value, &goals); err != nil {
			return nil, fmt.Errorf("%w: set_goals expects a list", ErrInvalidAction)
		}
		return SetGoals{Goals: goals}, nil
	case "next_phase":
		return NextPhase{}, nil
	case "prev_phase":
		return PrevPhase{}, nil
	case "reset":
		return Reset{}, nil
	}
	return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, name)
}

func stateFromRecord(rec *domain.SessionRecord) State {
	if rec == nil {
		return Initial()
	}
	s := State{
		PersonaID:    rec.PersonaID,
		ScenarioID:   rec.Scenario,
		Tone:         rec.Tone,
		CurrentPhase: rec.Phase,
		Goals:        append([]string{}, rec.Goals...),
	}
	if !s.Tone.Valid() {
		s.Tone = domain.ToneFriendly
	}
	if !s.CurrentPhase.Valid() {
		s.CurrentPhase = domain.Phase0002
	}
	return s
}

func (s State) record(deviceID string) *domain.SessionRecord {
	return &domain.SessionRecord{
		DeviceID:  deviceID,
		Namespace: domain.StorageNamespace,
		PersonaID: s.PersonaID,
		Scenario:  s.ScenarioID,
		Tone:      s.Tone,
		Phase:     s.CurrentPhase,
		Goals:     append([]string{}, s.Goals...),
	}
}
