package calc

import (
	"strings"

	"github.com/ashureev/fula/internal/domain"
)

// Illustrative federal rate band applied to embedded gains.
const (
	LowTaxRate  = 0.15
	HighTaxRate = 0.37
)

// TaxSummary reduces a tax profile's positions to the labels shown on the tax lens card.
type TaxSummary struct {
	TotalGains      float64              `json:"total_gains"`
	HasShortTerm    bool                 `json:"has_short_term"`
	DividendHeavy   bool                 `json:"dividend_heavy"`
	GainExposure    RiskLabel            `json:"gain_exposure"`
	ShortTermRisk   RiskLabel            `json:"short_term_risk"`
	TaxDragRisk     RiskLabel            `json:"tax_drag_risk"`
	DominantHolding domain.HoldingPeriod `json:"dominant_holding"`
	ImpactLow       float64              `json:"impact_low"`
	ImpactHigh      float64              `json:"impact_high"`
}

// SummarizeTax returns false when the profile has no taxable positions.
func SummarizeTax(p domain.AccountProfile) (TaxSummary, bool) {
	if !p.HasTaxablePositions() {
		return TaxSummary{}, false
	}

	var s TaxSummary
	var anyShort, anyMixed bool
	for _, pos := range p.TaxProfile.TaxablePositions {
		s.TotalGains += pos.EmbeddedGain()
		switch pos.HoldingPeriod {
		case domain.HoldingShortTerm:
			anyShort = true
		case domain.HoldingMixed:
			anyMixed = true
		}
		if strings.Contains(pos.Ticker, "Dividend") || strings.Contains(pos.Ticker, "dividend") {
			s.DividendHeavy = true
		}
	}
	s.HasShortTerm = anyShort || anyMixed

	switch {
	case s.TotalGains > 50000:
		s.GainExposure = RiskHigh
	case s.TotalGains > 20000:
		s.GainExposure = RiskMedium
	default:
		s.GainExposure = RiskLow
	}

	switch {
	case !s.HasShortTerm:
		s.ShortTermRisk = RiskLow
	case s.TotalGains > 30000:
		s.ShortTermRisk = RiskHigh
	default:
		s.ShortTermRisk = RiskMedium
	}

	s.TaxDragRisk = RiskLow
	if s.DividendHeavy {
		s.TaxDragRisk = RiskMedium
	}

	switch {
	case anyMixed:
		s.DominantHolding = domain.HoldingMixed
	case anyShort:
		s.DominantHolding = domain.HoldingShortTerm
	default:
		s.DominantHolding = domain.HoldingLongTerm
	}

	s.ImpactLow = s.TotalGains * LowTaxRate
	s.ImpactHigh = s.TotalGains * HighTaxRate
	return s, true
}
