package domain

// HoldingPeriod classifies how long a taxable position has been held.
type HoldingPeriod string

const (
	HoldingShortTerm HoldingPeriod = "Short-term"
	HoldingLongTerm  HoldingPeriod = "Long-term"
	HoldingMixed     HoldingPeriod = "Mixed"
)

// FilingStatus is the tax filing status of a persona.
type FilingStatus string

const (
	FilingSingle  FilingStatus = "Single"
	FilingMarried FilingStatus = "Married"
)

// TaxPosition is one taxable brokerage holding.
type TaxPosition struct {
	Ticker        string        `json:"ticker" yaml:"ticker"`
	MarketValue   float64       `json:"market_value" yaml:"market_value"`
	CostBasis     float64       `json:"cost_basis" yaml:"cost_basis"`
	HoldingPeriod HoldingPeriod `json:"holding_period" yaml:"holding_period"`
}

// EmbeddedGain is the unrealized gain (or loss, when negative) of the position.
func (p TaxPosition) EmbeddedGain() float64 {
	return p.MarketValue - p.CostBasis
}

// TaxProfile holds the optional tax context of a persona.
type TaxProfile struct {
	FilingStatus         FilingStatus  `json:"filing_status" yaml:"filing_status"`
	State                string        `json:"state" yaml:"state"`
	MarginalBracketLabel string        `json:"marginal_bracket_label" yaml:"marginal_bracket_label"`
	TaxablePositions     []TaxPosition `json:"taxable_positions" yaml:"taxable_positions"`
	RealizedGainsYTD     float64       `json:"realized_gains_ytd" yaml:"realized_gains_ytd"`
	LossesYTD            float64       `json:"losses_ytd" yaml:"losses_ytd"`
}

// AccountProfile is a persona's static financial snapshot. Amounts are USD;
// obligations and burn are monthly, income is yearly.
type AccountProfile struct {
	Age            int     `json:"age" yaml:"age"`
	PretaxIncome   float64 `json:"pretax_income" yaml:"pretax_income"`
	MonthlyBurn    float64 `json:"monthly_burn" yaml:"monthly_burn"`
	Checking       float64 `json:"checking" yaml:"checking"`
	Savings        float64 `json:"savings" yaml:"savings"`
	Brokerage      float64 `json:"brokerage" yaml:"brokerage"`
	Retirement     float64 `json:"retirement" yaml:"retirement"`
	MortgagePITI   float64 `json:"mortgage_piti" yaml:"mortgage_piti"`
	CreditCardMins float64 `json:"credit_card_mins" yaml:"credit_card_mins"`
	OtherDebt      float64 `json:"other_debt" yaml:"other_debt"`
	NetWorth       float64 `json:"net_worth" yaml:"net_worth"`
	FixedCostRatio float64 `json:"fixed_cost_ratio" yaml:"fixed_cost_ratio"`

	IlliquidEquity *float64    `json:"illiquid_equity,omitempty" yaml:"illiquid_equity,omitempty"`
	EquityComp     *float64    `json:"equity_comp,omitempty" yaml:"equity_comp,omitempty"`
	TaxProfile     *TaxProfile `json:"tax_profile,omitempty" yaml:"tax_profile,omitempty"`
}

// HasTaxablePositions reports whether the profile carries at least one taxable position.
func (p AccountProfile) HasTaxablePositions() bool {
	return p.TaxProfile != nil && len(p.TaxProfile.TaxablePositions) > 0
}
