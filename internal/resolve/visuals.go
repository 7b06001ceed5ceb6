package resolve

import (
	"fmt"
	"math"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/domain"
)

const (
	targetRunwayMonths = 6
	maxCashFlowMonths  = 24
	cashFlowHorizon    = 1.5
)

type visualBuilder func(in visualInput) []domain.VisualData

type visualInput struct {
	profile domain.AccountProfile
	metrics calc.Metrics
	health  domain.FinancialHealth
	persona domain.PersonaID
}

var visualBuilders = map[domain.Phase]visualBuilder{
	domain.Phase0002: framingVisuals,
	domain.Phase0206: snapshotVisuals,
	domain.Phase0610: progressVisuals,
	domain.Phase1014: blindSpotVisuals,
	domain.Phase1418: failurePathVisuals,
	domain.Phase1822: devilsAdvocateVisuals,
	domain.Phase2225: conditionVisuals,
	domain.Phase2528: crisisVisuals,
}

// Visuals derives the chart descriptors of a phase. Some charts only apply to
// specific personas, so the persona id takes part in the dispatch.
func Visuals(p domain.AccountProfile, phase domain.Phase, persona domain.PersonaID) ([]domain.Visual, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("phase %q: %w", phase, ErrNotFound)
	}
	m, err := calc.Compute(p)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}
	health, err := calc.HealthScores(p)
	if err != nil {
		return nil, fmt.Errorf("health scores: %w", err)
	}

	out := []domain.Visual{}
	build, ok := visualBuilders[phase]
	if !ok {
		return out, nil
	}
	for _, d := range build(visualInput{profile: p, metrics: m, health: health, persona: persona}) {
		out = append(out, domain.NewVisual(phase, d))
	}
	return out, nil
}

func framingVisuals(in visualInput) []domain.VisualData {
	if in.persona != "1" {
		return nil
	}
	return []domain.VisualData{
		domain.PaperVsStress{
			Left: domain.Column{
				Title:   "Looks Fine on Paper",
				Bullets: []string{"High income", "Growing net worth", "Bills paid on time"},
			},
			Right: domain.Column{
				Title:   "Breaks Under Stress",
				Bullets: []string{"Obligations persist", "Liquidity converts slowly", "Stress forces timing"},
			},
		},
		in.health,
	}
}

func snapshotVisuals(in visualInput) []domain.VisualData {
	p := in.profile
	return []domain.VisualData{
		cashLadder(p),
		domain.AssetAllocation{
			Checking:   p.Checking,
			Savings:    p.Savings,
			Brokerage:  p.Brokerage,
			Retirement: p.Retirement,
		},
	}
}

func progressVisuals(in visualInput) []domain.VisualData {
	p := in.profile
	return []domain.VisualData{
		domain.IncomeExpense{
			MonthlyIncome:   calc.MonthlyIncome(p),
			MonthlyExpenses: p.MonthlyBurn,
			Breakdown: domain.ExpenseBreakdown{
				Mortgage:    p.MortgagePITI,
				CreditCards: p.CreditCardMins,
				OtherDebt:   p.OtherDebt,
				Living:      p.MonthlyBurn - calc.MonthlyObligations(p),
			},
		},
		in.health,
	}
}

func blindSpotVisuals(in visualInput) []domain.VisualData {
	out := []domain.VisualData{
		domain.Runway{
			RunwayMonths: in.metrics.Runway,
			MonthlyBurn:  in.profile.MonthlyBurn,
			LiquidAssets: in.metrics.LiquidAssets,
			TargetRunway: targetRunwayMonths,
		},
	}
	if in.persona == "1" || in.persona == "2" {
		out = append(out, domain.DependencyMap{
			Nodes: []domain.DependencyNode{
				{ID: "Income", Dependencies: []string{}},
				{ID: "Housing", Dependencies: []string{"Income"}},
				{ID: "Investments", Dependencies: []string{"Income"}},
				{ID: "Credit", Dependencies: []string{"Income", "Housing"}},
			},
			Edges: []domain.DependencyEdge{
				{From: "Income", To: "Housing", Label: "Required"},
				{From: "Income", To: "Investments", Label: "Funds"},
				{From: "Income", To: "Credit", Label: "Qualifies"},
				{From: "Housing", To: "Credit", Label: "Secures"},
			},
		})
	}

	s, ok := calc.SummarizeTax(in.profile)
	if !ok {
		return out
	}
	return append(out,
		domain.RealizedVsUnrealized{
			Unrealized: domain.Explainer{Title: "Unrealized", Description: "Paper gain, no tax due today"},
			Realized:   domain.Explainer{Title: "Realized", Description: "Sale triggers tax event"},
		},
		domain.HoldingPeriodGauge{HoldingPeriod: s.DominantHolding},
		domain.FundingSourceComparison{Sources: []domain.FundingSource{
			{Label: "Cash", TaxNote: "No tax event", Risk: domain.SeverityLow},
			{Label: "Sell Taxable", TaxNote: "Tax event; depends on gain", Risk: domain.SeverityMedium},
			{Label: "Sell Retirement", TaxNote: "Penalties/ordinary income risk (conceptual)", Risk: domain.SeverityHigh},
			{Label: "Borrow (HELOC)", TaxNote: "Rate risk; not tax-free safety", Risk: domain.SeverityMedium},
		}},
	)
}

func failurePathVisuals(in visualInput) []domain.VisualData {
	months := int(math.Min(maxCashFlowMonths, math.Ceil(in.metrics.Runway*cashFlowHorizon)))
	return []domain.VisualData{
		domain.BaseBadUgly{
			Base: domain.Path{
				Label:         "Base",
				Trigger:       "Income steady, markets normal",
				Consequence:   "Slow runway increase if disciplined",
				PressurePoint: "Spending discipline required",
			},
			Bad: domain.Path{
				Label:         "Bad",
				Trigger:       "6-month income disruption",
				Consequence:   "Buffer collapses, defensive decisions",
				PressurePoint: "Forced delay of investments",
			},
			Ugly: domain.Path{
				Label:         "Ugly",
				Trigger:       "Overlap: disruption + credit tightening",
				Consequence:   "Options narrow, trapped by timing",
				PressurePoint: "Forced selling or expensive borrowing",
			},
		},
		domain.CashFlow{
			Months:          months,
			MonthlyIncome:   calc.MonthlyIncome(in.profile),
			MonthlyExpenses: in.profile.MonthlyBurn,
			StartingBalance: in.metrics.LiquidAssets,
		},
	}
}

func devilsAdvocateVisuals(in visualInput) []domain.VisualData {
	if in.persona != "1" {
		return nil
	}
	return []domain.VisualData{domain.DependencyMap{
		Nodes: []domain.DependencyNode{
			{ID: "Job Income", Dependencies: []string{}},
			{ID: "Primary Residence", Dependencies: []string{"Job Income"}},
			{ID: "Investment Property", Dependencies: []string{"Job Income", "Primary Residence"}},
			{ID: "Credit Access", Dependencies: []string{"Job Income", "Primary Residence"}},
		},
		Edges: []domain.DependencyEdge{
			{From: "Job Income", To: "Primary Residence", Label: "Pays mortgage"},
			{From: "Job Income", To: "Investment Property", Label: "Qualifies loan"},
			{From: "Primary Residence", To: "Investment Property", Label: "Equity secures"},
			{From: "Job Income", To: "Credit Access", Label: "Enables"},
		},
	}}
}

// The assumption table applies whenever a tax profile exists, even one without positions.
func conditionVisuals(in visualInput) []domain.VisualData {
	if in.profile.TaxProfile == nil {
		return nil
	}
	return []domain.VisualData{domain.AssumptionTable{Assumptions: []domain.Assumption{
		{
			Assumption: "Holding period classification",
			Why:        "Determines whether gains are taxed at long-term (15-23%) or short-term (24-37%) rates, directly impacting net proceeds from sales.",
			IfFails:    "If classification is wrong, you could pay higher short-term rates on what should be long-term gains, reducing net proceeds by 9-14 percentage points.",
		},
		{
			Assumption: "Illustrative rates",
			Why:        "Actual tax rates vary by income bracket and state. These illustrative rates (long-term: 15-23%, short-term: 24-37%) are estimates for planning purposes.",
			IfFails:    "If actual rates differ significantly, net-of-tax impact could be materially different than projected, affecting decision-making and liquidity planning.",
		},
		{
			Assumption: "State impacts",
			Why:        "State taxes can add 0-13%+ on top of federal rates, significantly affecting net proceeds, especially for high-income earners or in high-tax states.",
			IfFails:    "If state taxes are ignored or underestimated, net proceeds could be materially lower than expected, creating liquidity shortfalls or funding gaps.",
		},
		{
			Assumption: "Passive activity rules (if property)",
			Why:        "Passive activity loss limitations can defer deductions and affect the tax treatment of real estate investments, impacting net cash flow and tax strategy.",
			IfFails:    "If passive activity rules apply unexpectedly, losses may not be immediately deductible, creating cash flow timing mismatches and reducing effective tax benefits.",
		},
	}}}
}

func crisisVisuals(in visualInput) []domain.VisualData {
	return []domain.VisualData{cashLadder(in.profile)}
}

func cashLadder(p domain.AccountProfile) domain.TimeToCashLadder {
	return domain.TimeToCashLadder{Buckets: []domain.CashBucket{
		{Range: "0–7 days", Source: "Checking", Amount: p.Checking, Friction: "Immediate"},
		{Range: "8–30 days", Source: "Savings", Amount: p.Savings, Friction: "Transfer time"},
		{Range: "31–90 days", Source: "Brokerage", Amount: p.Brokerage, Friction: "Sell + settlement"},
		{Range: "90+ days", Source: "Retirement", Amount: p.Retirement, Friction: "Penalty/friction"},
	}}
}
