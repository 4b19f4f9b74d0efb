package withdrawal

// StandardStrategy keeps the full annual pension.
type StandardStrategy struct{}

func NewStandardStrategy() *StandardStrategy { return &StandardStrategy{} }

func (s *StandardStrategy) Name() string { return "none" }

func (s *StandardStrategy) Plan(ctx StrategyContext) (WithdrawalPlan, error) {
	return newPlan(s.Name(), ctx)
}

// FullStrategy withdraws the full permitted lump sum.
type FullStrategy struct{}

func NewFullStrategy() *FullStrategy { return &FullStrategy{} }

func (s *FullStrategy) Name() string { return "full" }

func (s *FullStrategy) Plan(ctx StrategyContext) (WithdrawalPlan, error) {
	plan, err := newPlan(s.Name(), ctx)
	if err != nil {
		return WithdrawalPlan{}, err
	}
	plan.finish(ten)
	return plan, nil
}
