package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/resolve"
	"github.com/ashureev/fula/internal/store"
)

// PersonaSummary is the persona header shown above the transcript.
type PersonaSummary struct {
	ID          domain.PersonaID `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
}

// View is a session state plus everything derived from it. Derived fields are
// recomputed on every read and never stored.
type View struct {
	State
	Persona       *PersonaSummary          `json:"persona,omitempty"`
	Scenario      *domain.Scenario         `json:"scenario,omitempty"`
	PhaseTitle    string                   `json:"phase_title"`
	Metrics       *calc.Metrics            `json:"metrics,omitempty"`
	Messages      []domain.RenderedMessage `json:"messages"`
	AgentConsole  []domain.AgentStatus     `json:"agent_console"`
	EvidenceCards []domain.EvidenceCard    `json:"evidence_cards"`
	Visuals       []domain.Visual          `json:"visuals"`
	GoalsConflict bool                     `json:"goals_conflict"`
}

// Listener receives the new view after a device's session changes.
type Listener func(deviceID string, v View)

// Service loads, reduces and persists session state per device.
type Service struct {
	repo     store.Repository
	resolver *resolve.Resolver

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int
}

// NewService creates a session service.
func NewService(repo store.Repository, resolver *resolve.Resolver) *Service {
	return &Service{
		repo:      repo,
		resolver:  resolver,
		locks:     make(map[string]*sync.Mutex),
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn for change notifications. The returned func removes it.
func (s *Service) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// Get returns the current view of a device's session.
func (s *Service) Get(ctx context.Context, deviceID string) (View, error) {
	st, err := s.load(ctx, deviceID)
	if err != nil {
		return View{}, err
	}
	return s.view(st)
}

// Dispatch applies an action to a device's session, persists the result and
// notifies listeners. Invalid actions return ErrInvalidAction and change nothing.
func (s *Service) Dispatch(ctx context.Context, deviceID string, a Action) (View, error) {
	mu := s.lockFor(deviceID)
	mu.Lock()
	defer mu.Unlock()

	st, err := s.load(ctx, deviceID)
	if err != nil {
		return View{}, err
	}

	next, err := Reduce(s.resolver.Catalog(), st, a)
	if err != nil {
		return View{}, err
	}

	if _, ok := a.(Reset); ok {
		err = s.repo.DeleteSessionState(ctx, deviceID, domain.StorageNamespace)
	} else {
		err = s.repo.UpsertSessionState(ctx, next.record(deviceID))
	}
	if err != nil {
		return View{}, fmt.Errorf("save session: %w", err)
	}

	slog.Debug("session action applied",
		"device_id", deviceID,
		"action", a.Name(),
		"persona_id", next.PersonaID,
		"phase", next.CurrentPhase)

	v, err := s.view(next)
	if err != nil {
		return View{}, err
	}
	s.notify(deviceID, v)
	return v, nil
}

// Forget drops the per-device lock of a device that no longer exists.
func (s *Service) Forget(deviceID string) {
	s.locksMu.Lock()
	delete(s.locks, deviceID)
	s.locksMu.Unlock()
}

func (s *Service) lockFor(deviceID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[deviceID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[deviceID] = mu
	}
	return mu
}

func (s *Service) load(ctx context.Context, deviceID string) (State, error) {
	rec, err := s.repo.GetSessionState(ctx, deviceID, domain.StorageNamespace)
	if err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	st := stateFromRecord(rec)

	// Selections that no longer exist in the catalog are dropped.
	cat := s.resolver.Catalog()
	if st.PersonaID != "" {
		if _, err := cat.Persona(st.PersonaID); err != nil {
			slog.Warn("dropping unknown persona from stored session", "device_id", deviceID, "persona_id", st.PersonaID)
			st.PersonaID = ""
		}
	}
	if st.ScenarioID != "" {
		if _, err := cat.Scenario(st.ScenarioID); err != nil {
			st.ScenarioID = ""
		}
	}
	if domain.ValidateGoals(st.Goals) != nil {
		st.Goals = []string{}
	}
	return st, nil
}

func (s *Service) view(st State) (View, error) {
	v := View{
		State:         st,
		PhaseTitle:    st.CurrentPhase.Title(),
		Messages:      []domain.RenderedMessage{},
		AgentConsole:  []domain.AgentStatus{},
		EvidenceCards: []domain.EvidenceCard{},
		Visuals:       []domain.Visual{},
		GoalsConflict: domain.GoalsConflict(st.Goals),
	}

	cat := s.resolver.Catalog()
	if st.ScenarioID != "" {
		if sc, err := cat.Scenario(st.ScenarioID); err == nil {
			v.Scenario = &sc
		}
	}
	if st.PersonaID == "" {
		return v, nil
	}

	persona, err := cat.Persona(st.PersonaID)
	if err != nil {
		return v, nil
	}
	v.Persona = &PersonaSummary{
		ID:          persona.ID,
		Name:        persona.Name,
		Description: persona.Description(st.Tone),
	}

	pc, err := s.resolver.Resolve(st.PersonaID, st.CurrentPhase)
	if errors.Is(err, content.ErrNotFound) {
		return v, nil
	}
	if err != nil {
		return View{}, fmt.Errorf("resolve phase: %w", err)
	}
	m, err := calc.Compute(persona.Profile)
	if err != nil {
		return View{}, fmt.Errorf("compute metrics: %w", err)
	}

	v.Metrics = &m
	v.Messages = pc.Rendered(st.Tone)
	v.AgentConsole = pc.AgentConsole
	v.EvidenceCards = pc.EvidenceCards
	v.Visuals = pc.Visuals
	return v, nil
}

func (s *Service) notify(deviceID string, v View) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, fn := range s.listeners {
		fn(deviceID, v)
	}
}
