package withdrawal

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
)

// BracketFillStrategy withdraws as much as fits before the tax base crosses
// into the next bracket, less BracketBuffer. In the top bracket there is no
// edge and the full lump sum is taken.
type BracketFillStrategy struct{}

func NewBracketFillStrategy() *BracketFillStrategy { return &BracketFillStrategy{} }

func (s *BracketFillStrategy) Name() string { return "bracket_fill" }

func (s *BracketFillStrategy) Plan(ctx StrategyContext) (WithdrawalPlan, error) {
	plan, err := newPlan(s.Name(), ctx)
	if err != nil {
		return WithdrawalPlan{}, err
	}
	if ctx.BracketBuffer.IsNegative() {
		return WithdrawalPlan{}, domain.NewInvalidInput("bracket_fill", "bracket_buffer", "negative")
	}

	allowances := ctx.TaxYear.Allowances.Total()
	base := calculation.TaxBase(plan.TaxableBefore, ctx.TaxYear.Allowances)
	bracket, _, err := calculation.FindBracket(base, ctx.TaxYear.Brackets)
	if err != nil {
		return WithdrawalPlan{}, err
	}
	if bracket.Unbounded() {
		plan.Notes = append(plan.Notes, "already in the top bracket - no edge to fill to")
		plan.finish(ten)
		return plan, nil
	}

	edge := *bracket.Max
	plan.BracketEdge = &edge
	// Room in taxable income: the base must stay strictly below the edge.
	room := edge.Sub(ctx.BracketBuffer).Sub(cent).Sub(plan.TaxableBefore.Sub(allowances))
	sel := selectorFor(room, plan.AnnualPension)
	plan.finish(sel)
	if plan.Eligible && sel.LessThan(ten) {
		plan.BracketFilled = true
		plan.Notes = append(plan.Notes, fmt.Sprintf("stopped %s below the %s bracket edge",
			ctx.BracketBuffer.StringFixed(2), edge.StringFixed(0)))
	}
	return plan, nil
}
