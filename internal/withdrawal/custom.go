package withdrawal

import "fmt"

// CustomStrategy requests a fixed selector. A selector outside 0-10 falls
// back to the standard strategy.
type CustomStrategy struct{}

func NewCustomStrategy() *CustomStrategy { return &CustomStrategy{} }

func (s *CustomStrategy) Name() string { return "custom" }

func (s *CustomStrategy) Plan(ctx StrategyContext) (WithdrawalPlan, error) {
	if ctx.Selector.IsNegative() || ctx.Selector.GreaterThan(ten) {
		plan, err := NewStandardStrategy().Plan(ctx)
		if err != nil {
			return WithdrawalPlan{}, err
		}
		plan.StrategyUsed = "custom->standard_fallback"
		plan.Notes = append(plan.Notes, fmt.Sprintf("selector %s outside 0-10 - falling back to standard", ctx.Selector))
		return plan, nil
	}

	plan, err := newPlan(s.Name(), ctx)
	if err != nil {
		return WithdrawalPlan{}, err
	}
	plan.finish(ctx.Selector.Truncate(2))
	return plan, nil
}
