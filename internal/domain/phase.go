package domain

import "fmt"

// Phase is one of the nine fixed stages of a 30-minute advisory session.
type Phase string

const (
	Phase0002 Phase = "00-02"
	Phase0206 Phase = "02-06"
	Phase0610 Phase = "06-10"
	Phase1014 Phase = "10-14"
	Phase1418 Phase = "14-18"
	Phase1822 Phase = "18-22"
	Phase2225 Phase = "22-25"
	Phase2528 Phase = "25-28"
	Phase2830 Phase = "28-30"
)

var phaseOrder = []Phase{
	Phase0002, Phase0206, Phase0610, Phase1014, Phase1418,
	Phase1822, Phase2225, Phase2528, Phase2830,
}

var phaseTitles = map[Phase]string{
	Phase0002: "Session Framing",
	Phase0206: "Reality Snapshot",
	Phase0610: "Directional Progress",
	Phase1014: "Blind Spots",
	Phase1418: "Monte Carlo (Failure Paths)",
	Phase1822: "Devil's Advocate / Talk Me Out Of It",
	Phase2225: "Conditions to Proceed",
	Phase2528: "Liquidity Crisis Drill",
	Phase2830: "Advisor Stance + Next Review Triggers",
}

// Phases returns the phases in session order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// ParsePhase validates s as a phase label.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if p.Index() < 0 {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

// Index returns the position of p in session order, or -1 if p is unknown.
func (p Phase) Index() int {
	for i, q := range phaseOrder {
		if q == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the nine phases.
func (p Phase) Valid() bool { return p.Index() >= 0 }

// Title is the human-readable stage name.
func (p Phase) Title() string { return phaseTitles[p] }

// Next returns the following phase; the last phase returns itself.
func (p Phase) Next() Phase {
	i := p.Index()
	if i < 0 || i == len(phaseOrder)-1 {
		return p
	}
	return phaseOrder[i+1]
}

// Prev returns the preceding phase; the first phase returns itself.
func (p Phase) Prev() Phase {
	i := p.Index()
	if i <= 0 {
		return p
	}
	return phaseOrder[i-1]
}

// PhaseInfo is the listing form of a phase.
type PhaseInfo struct {
	ID    Phase  `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

// PhaseInfos lists all phases with display labels.
func PhaseInfos() []PhaseInfo {
	out := make([]PhaseInfo, 0, len(phaseOrder))
	for _, p := range phaseOrder {
		out = append(out, PhaseInfo{ID: p, Label: string(p[:2]) + "–" + string(p[3:]), Title: p.Title()})
	}
	return out
}
