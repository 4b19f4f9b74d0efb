package withdrawal

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// StrategyContext provides the inputs every strategy plans from.
// BracketBuffer: stay this many euros below the bracket edge (bracket_fill)
// Selector: the fixed 0-10 selector (custom)
type StrategyContext struct {
	Request       domain.ScenarioRequest
	TaxYear       *domain.TaxYearConfig
	BracketBuffer decimal.Decimal
	Selector      decimal.Decimal
}

// WithdrawalPlan is a strategy's choice of lump-sum selector and what it
// implies for taxable income.
// Selector: 0-10 selector to request, truncated to two places
// LumpSumAmount: the withdrawal the engine will apply for Selector
// BracketEdge: the edge bracket_fill stayed under, nil otherwise
// LimitingBenefit: benefit whose ceiling capped the selector, if any
type WithdrawalPlan struct {
	StrategyUsed    string             `json:"strategy_used"`
	Selector        decimal.Decimal    `json:"selector"`
	LumpSumAmount   decimal.Decimal    `json:"lump_sum_amount"`
	AnnualPension   decimal.Decimal    `json:"annual_pension"`
	Eligible        bool               `json:"eligible"`
	TaxableBefore   decimal.Decimal    `json:"taxable_before"`
	TaxableAfter    decimal.Decimal    `json:"taxable_after"`
	BracketFilled   bool               `json:"bracket_filled"`
	BracketEdge     *decimal.Decimal   `json:"bracket_edge,omitempty"`
	LimitingBenefit domain.BenefitName `json:"limiting_benefit,omitempty"`
	Notes           []string           `json:"notes,omitempty"`
}

// Strategy decides how much of the pension to withdraw as a lump sum.
type Strategy interface {
	Name() string
	Plan(ctx StrategyContext) (WithdrawalPlan, error)
}

// Outcome pairs a plan with the scenario calculated for it.
type Outcome struct {
	Plan   WithdrawalPlan         `json:"plan"`
	Result *domain.ScenarioResult `json:"-"`
}
