package withdrawal

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// BenefitPreservingStrategy withdraws the largest lump sum that keeps every
// benefit the household holds without one. Benefits already lost before the
// lump sum do not constrain it.
type BenefitPreservingStrategy struct{}

func NewBenefitPreservingStrategy() *BenefitPreservingStrategy { return &BenefitPreservingStrategy{} }

func (s *BenefitPreservingStrategy) Name() string { return "benefit_preserving" }

func (s *BenefitPreservingStrategy) Plan(ctx StrategyContext) (WithdrawalPlan, error) {
	plan, err := newPlan(s.Name(), ctx)
	if err != nil {
		return WithdrawalPlan{}, err
	}

	var (
		room     decimal.Decimal
		limiting domain.BenefitName
	)
	for _, th := range ctx.TaxYear.OrderedThresholds() {
		if !th.Eligible(plan.TaxableBefore) {
			continue
		}
		r := th.Ceiling.Sub(plan.TaxableBefore)
		if limiting == "" || r.LessThan(room) {
			room, limiting = r, th.Name
		}
	}

	if limiting == "" {
		plan.Notes = append(plan.Notes, "no benefit held - nothing to preserve")
		plan.finish(ten)
		return plan, nil
	}

	sel := selectorFor(room, plan.AnnualPension)
	plan.finish(sel)
	if plan.Eligible && sel.LessThan(ten) {
		plan.LimitingBenefit = limiting
	}
	return plan, nil
}
