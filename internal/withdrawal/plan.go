package withdrawal

import (
	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ten  = decimal.NewFromInt(domain.LumpSumSelectorMax)
	cent = decimal.RequireFromString("0.01")
)

// newPlan starts a plan with the pension and taxable income the request
// implies before any lump sum.
func newPlan(name string, ctx StrategyContext) (WithdrawalPlan, error) {
	if ctx.TaxYear == nil {
		return WithdrawalPlan{}, domain.NewConfigurationError("plan_withdrawal", "tax_year", "missing", nil)
	}
	req := ctx.Request
	req.LumpSumPercentage = decimal.Zero
	if err := req.Validate(); err != nil {
		return WithdrawalPlan{}, err
	}
	lump, err := calculation.EvaluateLumpSum(req, ctx.TaxYear.LumpSum.EligibilityAge)
	if err != nil {
		return WithdrawalPlan{}, err
	}
	before := req.GrossIncome.Sub(lump.AnnualPension)
	return WithdrawalPlan{
		StrategyUsed:  name,
		Selector:      decimal.Zero,
		LumpSumAmount: decimal.Zero,
		AnnualPension: lump.AnnualPension,
		Eligible:      lump.Eligible,
		TaxableBefore: before,
		TaxableAfter:  before,
	}, nil
}

// selectorFor converts room in taxable income into the largest selector
// whose lump sum fits in it.
func selectorFor(room, annual decimal.Decimal) decimal.Decimal {
	if !room.IsPositive() || !annual.IsPositive() {
		return decimal.Zero
	}
	sel := room.Mul(ten).Div(annual).Truncate(2)
	if sel.GreaterThan(ten) {
		return ten
	}
	return sel
}

// finish fixes the selector and derives the amount the engine will apply.
func (p *WithdrawalPlan) finish(selector decimal.Decimal) {
	if !p.Eligible {
		p.Selector = decimal.Zero
		p.Notes = append(p.Notes, "below eligibility age - lump sum not applied")
		return
	}
	p.Selector = selector
	p.LumpSumAmount = domain.RoundCurrency(domain.FractionFromLumpSumSelector(selector).Of(p.AnnualPension))
	p.TaxableAfter = p.TaxableBefore.Add(p.LumpSumAmount)
}
