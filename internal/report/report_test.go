package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/resolve"
)

func TestBuildEveryPhase(t *testing.T) {
	cat, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default() error = %v", err)
	}
	r := resolve.New(cat)
	persona, _ := cat.Persona("1")
	sc, _ := cat.Scenario(persona.DefaultScenario)

	for _, ph := range domain.Phases() {
		pc, err := r.Resolve(persona.ID, ph)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", ph, err)
		}
		out, err := Build(Input{
			Persona:   persona,
			Scenario:  &sc,
			Tone:      domain.ToneDirect,
			Goals:     []string{domain.GoalFreedom, domain.GoalProperty},
			Content:   pc,
			Generated: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("Build(%s) error = %v", ph, err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF-")) {
			t.Errorf("Build(%s) output is not a PDF", ph)
		}
	}
}

func TestBuildRejectsInvalidProfile(t *testing.T) {
	_, err := Build(Input{
		Persona: domain.Persona{ID: "x", Profile: domain.AccountProfile{Age: 30, PretaxIncome: 1}},
		Tone:    domain.ToneFriendly,
	})
	if !errors.Is(err, calc.ErrNonPositiveBurn) {
		t.Errorf("Build error = %v, want ErrNonPositiveBurn", err)
	}
}
