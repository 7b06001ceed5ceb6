// Package calc derives liquidity and wealth metrics from an account profile.
//
// Every function is pure and never yields a non-finite value. A non-positive
// burn or a zero benchmark is an error; an undefined share inside a composite
// score is left out of it.
package calc

import (
	"errors"
	"math"

	"github.com/ashureev/fula/internal/domain"
)

var (
	// ErrNonPositiveBurn is returned when a profile's monthly burn is zero or negative.
	ErrNonPositiveBurn = errors.New("monthly burn must be positive")
	// ErrZeroDenominator is returned when a ratio's own denominator (income for
	// leverage, the wealth benchmark for PAW) is zero.
	ErrZeroDenominator = errors.New("metric denominator is zero")
)

// PAWLabel classifies net worth against the expected-net-worth benchmark.
type PAWLabel string

const (
	UnderAccumulator      PAWLabel = "Under-accumulator"
	AverageAccumulator    PAWLabel = "Average"
	ProdigiousAccumulator PAWLabel = "Prodigious-accumulator"
)

// Short returns the UAW / Average / PAW abbreviation.
func (l PAWLabel) Short() string {
	switch l {
	case UnderAccumulator:
		return "UAW"
	case ProdigiousAccumulator:
		return "PAW"
	default:
		return "Average"
	}
}

// PAW is the wealth-accumulation ratio and its classification.
type PAW struct {
	Ratio float64  `json:"ratio"`
	Label PAWLabel `json:"label"`
}

// RiskLabel grades an overlap risk score.
type RiskLabel string

const (
	RiskLow    RiskLabel = "Low"
	RiskMedium RiskLabel = "Medium"
	RiskHigh   RiskLabel = "High"
)

// OverlapRisk is a 0-100 score in steps of 25.
type OverlapRisk struct {
	Score   int       `json:"score"`
	Label   RiskLabel `json:"label"`
	Signals []string  `json:"signals"`
}

const (
	overlapStep            = 25
	fixedCostThreshold     = 0.5
	leverageThreshold      = 0.3
	thinRunwayMonths       = 6
	brokerageShareLimit    = 0.4
	pawUnderBound          = 0.5
	pawProdigiousBound     = 1.5
	benchmarkIncomeDivisor = 10
)

// LiquidAssets is checking plus savings.
func LiquidAssets(p domain.AccountProfile) float64 {
	return p.Checking + p.Savings
}

// MonthlyIncome is pretax income spread over twelve months.
func MonthlyIncome(p domain.AccountProfile) float64 {
	return p.PretaxIncome / 12
}

// MonthlyObligations is mortgage plus card minimums plus other debt service.
func MonthlyObligations(p domain.AccountProfile) float64 {
	return p.MortgagePITI + p.CreditCardMins + p.OtherDebt
}

// Runway is the number of months checking and savings cover the monthly burn.
func Runway(p domain.AccountProfile) (float64, error) {
	if p.MonthlyBurn <= 0 {
		return 0, ErrNonPositiveBurn
	}
	return LiquidAssets(p) / p.MonthlyBurn, nil
}

// TII is the time independence index: runway including brokerage assets.
func TII(p domain.AccountProfile) (float64, error) {
	if p.MonthlyBurn <= 0 {
		return 0, ErrNonPositiveBurn
	}
	return (LiquidAssets(p) + p.Brokerage) / p.MonthlyBurn, nil
}

// ENW is the expected net worth benchmark: age times pretax income over ten.
func ENW(p domain.AccountProfile) float64 {
	return float64(p.Age) * p.PretaxIncome / benchmarkIncomeDivisor
}

// PAWRatio compares net worth to the ENW benchmark.
func PAWRatio(p domain.AccountProfile) (PAW, error) {
	enw := ENW(p)
	if enw == 0 {
		return PAW{}, ErrZeroDenominator
	}
	ratio := p.NetWorth / enw
	return PAW{Ratio: ratio, Label: ClassifyPAW(ratio)}, nil
}

// ClassifyPAW labels a ratio: below 0.5 under, 0.5 through 1.5 average, above 1.5 prodigious.
func ClassifyPAW(ratio float64) PAWLabel {
	switch {
	case ratio < pawUnderBound:
		return UnderAccumulator
	case ratio <= pawProdigiousBound:
		return AverageAccumulator
	default:
		return ProdigiousAccumulator
	}
}

// Leverage is monthly obligations over yearly pretax income.
func Leverage(p domain.AccountProfile) (float64, error) {
	if p.PretaxIncome == 0 {
		return 0, ErrZeroDenominator
	}
	return MonthlyObligations(p) / p.PretaxIncome, nil
}

// OverlapRiskScore adds 25 points for each simultaneous fragility signal.
// A signal whose share is undefined (zero income or zero net worth) stays off.
func OverlapRiskScore(p domain.AccountProfile) (OverlapRisk, error) {
	runway, err := Runway(p)
	if err != nil {
		return OverlapRisk{}, err
	}

	risk := OverlapRisk{Signals: []string{}}
	flag := func(hit bool, signal string) {
		if hit {
			risk.Score += overlapStep
			risk.Signals = append(risk.Signals, signal)
		}
	}
	flag(p.FixedCostRatio > fixedCostThreshold, "fixed costs above 50% of burn")
	if leverage, err := Leverage(p); err == nil {
		flag(leverage > leverageThreshold, "obligations above 30% of income")
	}
	flag(runway < thinRunwayMonths, "runway below 6 months")
	if p.NetWorth != 0 {
		flag(p.Brokerage/p.NetWorth > brokerageShareLimit, "brokerage above 40% of net worth")
	}

	risk.Label = ClassifyRisk(risk.Score)
	return risk, nil
}

// ClassifyRisk labels an overlap score: 75 and up high, 50 and up medium.
func ClassifyRisk(score int) RiskLabel {
	switch {
	case score >= 75:
		return RiskHigh
	case score >= 50:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ObligationShareOfBurn is monthly obligations as a fraction of monthly burn.
func ObligationShareOfBurn(p domain.AccountProfile) (float64, error) {
	if p.MonthlyBurn <= 0 {
		return 0, ErrNonPositiveBurn
	}
	return MonthlyObligations(p) / p.MonthlyBurn, nil
}

// HealthScores computes the five financial health gauges, each clamped to [0, 100].
// A gauge whose denominator is zero scores 0.
func HealthScores(p domain.AccountProfile) (domain.FinancialHealth, error) {
	runway, err := Runway(p)
	if err != nil {
		return domain.FinancialHealth{}, err
	}
	h := domain.FinancialHealth{Liquidity: clamp(runway / 12 * 100)}
	if p.PretaxIncome != 0 {
		h.Solvency = clamp(p.NetWorth / (p.PretaxIncome * 5) * 100)
		h.Leverage = clamp(100 - MonthlyObligations(p)/MonthlyIncome(p)*100)
	}
	if p.NetWorth != 0 {
		h.Diversification = clamp((p.Brokerage + p.Retirement) / p.NetWorth * 100)
	}
	if enw := ENW(p); enw != 0 {
		h.Growth = clamp(p.NetWorth / enw * 100)
	}
	return h, nil
}

// Metrics bundles every headline number for a profile.
type Metrics struct {
	Runway       float64     `json:"runway_months"`
	TII          float64     `json:"tii_months"`
	ENW          float64     `json:"enw"`
	PAW          PAW         `json:"paw"`
	OverlapRisk  OverlapRisk `json:"overlap_risk"`
	LiquidAssets float64     `json:"liquid_assets"`
	Obligations  float64     `json:"monthly_obligations"`
}

// Compute derives all headline metrics. It fails only when burn is not positive
// or the wealth benchmark is zero.
func Compute(p domain.AccountProfile) (Metrics, error) {
	runway, err := Runway(p)
	if err != nil {
		return Metrics{}, err
	}
	tii, err := TII(p)
	if err != nil {
		return Metrics{}, err
	}
	paw, err := PAWRatio(p)
	if err != nil {
		return Metrics{}, err
	}
	risk, err := OverlapRiskScore(p)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{
		Runway:       runway,
		TII:          tii,
		ENW:          ENW(p),
		PAW:          paw,
		OverlapRisk:  risk,
		LiquidAssets: LiquidAssets(p),
		Obligations:  MonthlyObligations(p),
	}, nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
