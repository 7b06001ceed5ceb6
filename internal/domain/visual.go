package domain

// VisualType is the chart tag a view uses to pick a renderer.
type VisualType string

const (
	VisualPaperVsStress    VisualType = "paperVsStress"
	VisualFinancialHealth  VisualType = "financialHealth"
	VisualTimeToCashLadder VisualType = "timeToCashLadder"
	VisualAssetAllocation  VisualType = "assetAllocation"
	VisualIncomeExpense    VisualType = "incomeExpense"
	VisualRunway           VisualType = "runwayVisualization"
	VisualDependencyMap    VisualType = "dependencyMap"
	VisualRealizedVsUnreal VisualType = "realizedVsUnrealized"
	VisualHoldingPeriod    VisualType = "holdingPeriodGauge"
	VisualFundingSources   VisualType = "fundingSourceComparison"
	VisualBaseBadUgly      VisualType = "baseBadUgly"
	VisualCashFlow         VisualType = "cashFlow"
	VisualAssumptionTable  VisualType = "assumptionTable"
)

// VisualData is implemented by every chart payload.
type VisualData interface {
	VisualType() VisualType
}

// Visual is a chart descriptor: a type tag plus its data.
type Visual struct {
	Type  VisualType `json:"type"`
	Phase Phase      `json:"phase"`
	Data  VisualData `json:"data"`
}

// NewVisual tags data with its type and phase.
func NewVisual(phase Phase, data VisualData) Visual {
	return Visual{Type: data.VisualType(), Phase: phase, Data: data}
}

// Column is one side of a PaperVsStress comparison.
type Column struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

type PaperVsStress struct {
	Left  Column `json:"left"`
	Right Column `json:"right"`
}

func (PaperVsStress) VisualType() VisualType { return VisualPaperVsStress }

// FinancialHealth scores are percentages clamped to [0, 100].
type FinancialHealth struct {
	Liquidity       float64 `json:"liquidity"`
	Solvency        float64 `json:"solvency"`
	Leverage        float64 `json:"leverage"`
	Diversification float64 `json:"diversification"`
	Growth          float64 `json:"growth"`
}

func (FinancialHealth) VisualType() VisualType { return VisualFinancialHealth }

// CashBucket is one rung of the time-to-cash ladder.
type CashBucket struct {
	Range    string  `json:"range"`
	Source   string  `json:"source"`
	Amount   float64 `json:"amount"`
	Friction string  `json:"friction"`
}

type TimeToCashLadder struct {
	Buckets []CashBucket `json:"buckets"`
}

func (TimeToCashLadder) VisualType() VisualType { return VisualTimeToCashLadder }

type AssetAllocation struct {
	Checking   float64 `json:"checking"`
	Savings    float64 `json:"savings"`
	Brokerage  float64 `json:"brokerage"`
	Retirement float64 `json:"retirement"`
}

func (AssetAllocation) VisualType() VisualType { return VisualAssetAllocation }

type ExpenseBreakdown struct {
	Mortgage    float64 `json:"mortgage"`
	CreditCards float64 `json:"credit_cards"`
	OtherDebt   float64 `json:"other_debt"`
	Living      float64 `json:"living"`
}

type IncomeExpense struct {
	MonthlyIncome   float64          `json:"monthly_income"`
	MonthlyExpenses float64          `json:"monthly_expenses"`
	Breakdown       ExpenseBreakdown `json:"breakdown"`
}

func (IncomeExpense) VisualType() VisualType { return VisualIncomeExpense }

type Runway struct {
	RunwayMonths float64 `json:"runway_months"`
	MonthlyBurn  float64 `json:"monthly_burn"`
	LiquidAssets float64 `json:"liquid_assets"`
	TargetRunway float64 `json:"target_runway"`
}

func (Runway) VisualType() VisualType { return VisualRunway }

type DependencyNode struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies"`
}

type DependencyEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

type DependencyMap struct {
	Nodes []DependencyNode `json:"nodes"`
	Edges []DependencyEdge `json:"edges"`
}

func (DependencyMap) VisualType() VisualType { return VisualDependencyMap }

type Explainer struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type RealizedVsUnrealized struct {
	Unrealized Explainer `json:"unrealized"`
	Realized   Explainer `json:"realized"`
}

func (RealizedVsUnrealized) VisualType() VisualType { return VisualRealizedVsUnreal }

type HoldingPeriodGauge struct {
	HoldingPeriod HoldingPeriod `json:"holding_period"`
}

func (HoldingPeriodGauge) VisualType() VisualType { return VisualHoldingPeriod }

type FundingSource struct {
	Label   string   `json:"label"`
	TaxNote string   `json:"tax_note"`
	Risk    Severity `json:"risk"`
}

type FundingSourceComparison struct {
	Sources []FundingSource `json:"sources"`
}

func (FundingSourceComparison) VisualType() VisualType { return VisualFundingSources }

// Path is one branch of the base/bad/ugly narrative.
type Path struct {
	Label         string `json:"label"`
	Trigger       string `json:"trigger"`
	Consequence   string `json:"consequence"`
	PressurePoint string `json:"pressure_point"`
}

type BaseBadUgly struct {
	Base Path `json:"base"`
	Bad  Path `json:"bad"`
	Ugly Path `json:"ugly"`
}

func (BaseBadUgly) VisualType() VisualType { return VisualBaseBadUgly }

type CashFlow struct {
	Months          int     `json:"months"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	StartingBalance float64 `json:"starting_balance"`
}

func (CashFlow) VisualType() VisualType { return VisualCashFlow }

type Assumption struct {
	Assumption string `json:"assumption"`
	Why        string `json:"why"`
	IfFails    string `json:"if_fails"`
}

type AssumptionTable struct {
	Assumptions []Assumption `json:"assumptions"`
}

func (AssumptionTable) VisualType() VisualType { return VisualAssumptionTable }
