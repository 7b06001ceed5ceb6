package resolve

import (
	"fmt"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/money"
)

type cardBuilder func(p domain.AccountProfile, m calc.Metrics) []card

type card struct {
	title string
	body  []domain.Block
}

var cardBuilders = map[domain.Phase]cardBuilder{
	domain.Phase0206: snapshotCards,
	domain.Phase0610: snapshotCards,
	domain.Phase1014: blindSpotCards,
	domain.Phase1418: ruinCards,
	domain.Phase2225: conditionCards,
	domain.Phase2528: liquidityCards,
	domain.Phase2830: stanceCards,
}

// EvidenceCards derives the evidence shown beside the transcript of a phase.
// Phases without evidence return an empty, non-nil slice.
func EvidenceCards(p domain.AccountProfile, phase domain.Phase) ([]domain.EvidenceCard, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("phase %q: %w", phase, ErrNotFound)
	}
	m, err := calc.Compute(p)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	out := []domain.EvidenceCard{}
	build, ok := cardBuilders[phase]
	if !ok {
		return out, nil
	}
	for i, c := range build(p, m) {
		out = append(out, domain.EvidenceCard{
			ID:    fmt.Sprintf("card-%s-%d", phase, i),
			Phase: phase,
			Title: c.title,
			Body:  c.body,
		})
	}
	return out, nil
}

func snapshotCards(p domain.AccountProfile, m calc.Metrics) []card {
	return []card{
		{
			title: "Reality Snapshot",
			body: []domain.Block{
				domain.Field("Runway", "~"+money.Months(m.Runway)),
				domain.Field("Time Independence Index", money.Months(m.TII)),
				domain.Field("Liquid Assets", money.USD(m.LiquidAssets)),
			},
		},
		{
			title: "Financial Freedom (Time Independence Index)",
			body:  []domain.Block{domain.Text(money.Months(m.TII) + " of runway")},
		},
		{
			title: "PAW/UAW (Millionaire Next Door lens)",
			body: []domain.Block{
				domain.Field("Classification", fmt.Sprintf("%s (Ratio: %.2f)", m.PAW.Label.Short(), m.PAW.Ratio)),
			},
		},
	}
}

func blindSpotCards(p domain.AccountProfile, _ calc.Metrics) []card {
	cards := []card{{
		title: "Blind Spots",
		body: []domain.Block{domain.List("",
			"Stress changes decisions",
			"Liquidity disappears when needed",
			"Overlap risk: multiple failures at once",
		)},
	}}
	if s, ok := calc.SummarizeTax(p); ok {
		cards = append(cards, taxLensCard(s, s.TaxDragRisk,
			"Taxable positions create ongoing tax drag through dividends and interest. Consider location-aware allocation (conceptual). Rebalance in tax-advantaged accounts first to reduce unnecessary realized gains.",
			"Confirm holding period classification",
			"State-specific tax impacts",
			"Real estate depreciation/recapture (if property)",
			"Passive activity limitations",
			"Loss harvesting strategies",
		))
	}
	return cards
}

func ruinCards(domain.AccountProfile, calc.Metrics) []card {
	return []card{{
		title: "Ruin Analysis",
		body: []domain.Block{
			domain.Field("Base Path", "Steady progress if disciplined"),
			domain.Field("Bad Path", "6-month disruption collapses buffer"),
			domain.Field("Ugly Path", "Overlap creates forced moves"),
		},
	}}
}

func conditionCards(p domain.AccountProfile, _ calc.Metrics) []card {
	cards := []card{{
		title: "Conditions to Proceed",
		body: []domain.Block{domain.List("",
			"1. 12+ months liquidity post-purchase",
			"2. No refi dependence",
			"3. 6+ months vacancy tolerance",
			"4. Capex reserve prefunded",
			"5. Exit without forced sale",
			"6. Rate shock survivable",
			"7. Does not delay freedom goal",
			"8. You can walk away",
		)},
	}}
	// Before a purchase the drag rating is always shown as Medium.
	if s, ok := calc.SummarizeTax(p); ok {
		cards = append(cards, taxLensCard(s, calc.RiskMedium,
			"Prefer rebalancing in tax-advantaged accounts first. Plan tax reserve before any realization events.",
			"Tax reserve calculation before realization",
			"Staging sales for bracket management",
			"State-specific implications",
			"Property depreciation/recapture (if applicable)",
			"Loss harvesting constraints",
		))
	}
	return cards
}

func taxLensCard(s calc.TaxSummary, drag calc.RiskLabel, note string, questions ...string) card {
	impact := fmt.Sprintf("%s–%s if all positions sold (illustrative range)",
		money.USD(s.ImpactLow), money.USD(s.ImpactHigh))
	return card{
		title: "Tax Lens — Net-of-Tax Reality",
		body: []domain.Block{
			domain.Field("Realized gain exposure", string(s.GainExposure)),
			domain.Field("Short-term realization risk", string(s.ShortTermRisk)),
			domain.Field("Tax drag risk (ongoing)", string(drag)),
			domain.Field("Account location note", note),
			domain.Callout(domain.CalloutWarning, "Net-of-tax impact range", impact),
			domain.Callout(domain.CalloutInfo, "Questions for CPA", "", questions...),
		},
	}
}

func liquidityCards(p domain.AccountProfile, m calc.Metrics) []card {
	return []card{
		{
			title: "Liquidity Stress Test",
			body: []domain.Block{
				domain.Field("Current liquid buffer", money.USD(m.LiquidAssets)),
				domain.Field("Current runway", "~"+money.Months(m.Runway)),
				domain.Callout(domain.CalloutDanger, "Crisis scenario", "",
					"Credit lines frozen",
					"Brokerage access delayed (settlement risk)",
					"Retirement accounts inaccessible (penalty)",
					"Only checking + savings available immediately",
				),
				domain.Callout(domain.CalloutWarning, "Time-to-cash ladder", "See visual below for conversion timeline"),
			},
		},
		{
			title: "Crisis Readiness",
			body: []domain.Block{
				domain.Field("Immediate access (0-7 days)", money.USD(p.Checking)),
				domain.Field("Short-term access (8-30 days)", money.USD(p.Savings)),
				domain.Field("Emergency runway (cash only)", money.Months(m.Runway)),
				domain.Text("Note: In crisis, only cash and near-cash assets are accessible. Brokerage and retirement accounts may have delays, penalties, or be unavailable when most needed."),
			},
		},
	}
}

func stanceCards(p domain.AccountProfile, m calc.Metrics) []card {
	// Compute already rejected a non-positive burn.
	share, _ := calc.ObligationShareOfBurn(p)
	return []card{
		{
			title: "Advisor Stance & Recommendation",
			body: []domain.Block{
				domain.Callout(domain.CalloutInfo, "Stance: Caution", "Wait unless all conditions met. Your freedom is worth more than activity."),
				domain.List("Current Position",
					fmt.Sprintf("Runway: %.1f months (target: 9+ months)", m.Runway),
					fmt.Sprintf("Time Independence: %.1f months", m.TII),
					"Fixed cost ratio: "+money.Percent(share),
				),
				domain.List("Next Review Triggers",
					"Runway reaches 9 months → reassess opportunity",
					"Fixed costs fall below 40% of monthly burn → reassess",
					"Capex reserves fully funded without buffer reduction → reassess",
					"All 8 conditions met simultaneously → proceed with caution",
				),
			},
		},
		{
			title: "Priority Actions",
			body: []domain.Block{
				domain.List("Build Buffer First",
					"Increase runway to 9+ months before considering new obligations",
					"Reduce fixed costs if ratio exceeds 50%",
					"Prefund capex reserves (target: 6-12 months property expenses)",
					"Maintain tax reserve for any planned realizations",
				),
				domain.List("Monitor Triggers",
					"Track runway monthly",
					"Review fixed cost ratio quarterly",
					"Reassess when conditions change, not on calendar schedule",
				),
			},
		},
	}
}
