package session

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/domain"
)

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	c, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default() error = %v", err)
	}
	return c
}

func TestInitialState(t *testing.T) {
	want := State{Tone: domain.ToneFriendly, CurrentPhase: domain.Phase0002, Goals: []string{}}
	if diff := cmp.Diff(want, Initial()); diff != "" {
		t.Errorf("Initial() mismatch (-want +got):\n%s", diff)
	}
}

func TestReduceSetters(t *testing.T) {
	c := testCatalog(t)
	s := Initial()

	steps := []Action{
		SetPersona{PersonaID: "2"},
		SetScenario{ScenarioID: domain.ScenarioConcentration},
		SetTone{Tone: domain.ToneDirect},
		SetPhase{Phase: domain.Phase1418},
		SetGoals{Goals: []string{domain.GoalFreedom, domain.GoalProperty}},
	}
	for _, a := range steps {
		var err error
		s, err = Reduce(c, s, a)
		if err != nil {
			t.Fatalf("Reduce(%s) error = %v", a.Name(), err)
		}
	}

	want := State{
		PersonaID:    "2",
		ScenarioID:   domain.ScenarioConcentration,
		Tone:         domain.ToneDirect,
		CurrentPhase: domain.Phase1418,
		Goals:        []string{domain.GoalFreedom, domain.GoalProperty},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	reset, err := Reduce(c, s, Reset{})
	if err != nil {
		t.Fatalf("Reduce(reset) error = %v", err)
	}
	if diff := cmp.Diff(Initial(), reset); diff != "" {
		t.Errorf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestReduceRejectsInvalid(t *testing.T) {
	c := testCatalog(t)
	start := State{PersonaID: "1", Tone: domain.ToneFriendly, CurrentPhase: domain.Phase0610, Goals: []string{}}

	tests := []struct {
		name string
		a    Action
	}{
		{"unknown persona", SetPersona{PersonaID: "5"}},
		{"empty persona", SetPersona{}},
		{"unknown scenario", SetScenario{ScenarioID: "moonshot"}},
		{"unknown tone", SetTone{Tone: "sarcastic"}},
		{"unknown phase", SetPhase{Phase: "30-32"}},
		{"too many goals", SetGoals{Goals: []string{"Retire Early", "Pay Off Debt", "Increase Income", "Start Business"}}},
		{"unknown goal", SetGoals{Goals: []string{"Buy a boat"}}},
		{"duplicate goal", SetGoals{Goals: []string{"Retire Early", "Retire Early"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(c, start, tt.a)
			if !errors.Is(err, ErrInvalidAction) {
				t.Fatalf("Reduce error = %v, want ErrInvalidAction", err)
			}
			if diff := cmp.Diff(start, got); diff != "" {
				t.Errorf("state changed on error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduceDoesNotAliasGoals(t *testing.T) {
	c := testCatalog(t)
	goals := []string{"Retire Early"}
	s, err := Reduce(c, Initial(), SetGoals{Goals: goals})
	if err != nil {
		t.Fatalf("Reduce error = %v", err)
	}
	goals[0] = "Pay Off Debt"
	if s.Goals[0] != "Retire Early" {
		t.Errorf("state goals aliased caller slice: %v", s.Goals)
	}
}

func TestPhaseNavigationClamps(t *testing.T) {
	c := testCatalog(t)

	s, _ := Reduce(c, Initial(), PrevPhase{})
	if s.CurrentPhase != domain.Phase0002 {
		t.Errorf("prev from first = %s, want 00-02", s.CurrentPhase)
	}

	s, _ = Reduce(c, s, NextPhase{})
	if s.CurrentPhase != domain.Phase0206 {
		t.Errorf("next from first = %s, want 02-06", s.CurrentPhase)
	}

	s.CurrentPhase = domain.Phase2830
	s, _ = Reduce(c, s, NextPhase{})
	if s.CurrentPhase != domain.Phase2830 {
		t.Errorf("next from last = %s, want 28-30", s.CurrentPhase)
	}
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Action
	}{
		{"set_persona", `"3"`, SetPersona{PersonaID: "3"}},
		{"set_scenario", `"audit"`, SetScenario{ScenarioID: domain.ScenarioAudit}},
		{"set_tone", `"direct"`, SetTone{Tone: domain.ToneDirect}},
		{"set_phase", `"22-25"`, SetPhase{Phase: domain.Phase2225}},
		{"set_goals", `["Retire Early"]`, SetGoals{Goals: []string{"Retire Early"}}},
		{"next_phase", ``, NextPhase{}},
		{"prev_phase", ``, PrevPhase{}},
		{"reset", ``, Reset{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAction(tt.name, json.RawMessage(tt.value))
			if err != nil {
				t.Fatalf("DecodeAction error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("action mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := DecodeAction("launch", nil); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("unknown action error = %v, want ErrInvalidAction", err)
	}
	if _, err := DecodeAction("set_tone", json.RawMessage(`42`)); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("non-string tone error = %v, want ErrInvalidAction", err)
	}
}
