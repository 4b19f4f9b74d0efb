package withdrawal

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/transform"
	"golang.org/x/sync/errgroup"
)

var strategies = map[string]func() Strategy{
	"none":               func() Strategy { return NewStandardStrategy() },
	"full":               func() Strategy { return NewFullStrategy() },
	"bracket_fill":       func() Strategy { return NewBracketFillStrategy() },
	"benefit_preserving": func() Strategy { return NewBenefitPreservingStrategy() },
	"custom":             func() Strategy { return NewCustomStrategy() },
}

// CreateStrategy returns the strategy registered under name.
func CreateStrategy(name string) (Strategy, error) {
	f, ok := strategies[name]
	if !ok {
		return nil, domain.NewInvalidInput("create_strategy", "strategy", "unknown_value")
	}
	return f(), nil
}

// AvailableStrategies lists the strategy names, sorted.
func AvailableStrategies() []string {
	names := make([]string, 0, len(strategies))
	for n := range strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply returns the request with the plan's selector.
func Apply(req domain.ScenarioRequest, plan WithdrawalPlan) (domain.ScenarioRequest, error) {
	return transform.ApplyTransforms(req, []transform.ScenarioTransform{
		&transform.SetLumpSum{Selector: plan.Selector},
	})
}

// Evaluate plans with s and calculates the resulting scenario.
func Evaluate(ctx context.Context, calc calculation.Calculator, s Strategy, sctx StrategyContext) (*Outcome, error) {
	plan, err := s.Plan(sctx)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.Name(), err)
	}
	req, err := Apply(sctx.Request, plan)
	if err != nil {
		return nil, err
	}
	res, err := calc.Calculate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.Name(), err)
	}
	return &Outcome{Plan: plan, Result: res}, nil
}

// EvaluateAll runs the named strategies concurrently. Outcomes keep the
// order of names.
func EvaluateAll(ctx context.Context, calc calculation.Calculator, names []string, sctx StrategyContext) ([]*Outcome, error) {
	list := make([]Strategy, len(names))
	for i, name := range names {
		s, err := CreateStrategy(name)
		if err != nil {
			return nil, err
		}
		list[i] = s
	}

	outcomes := make([]*Outcome, len(list))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range list {
		i, s := i, s
		g.Go(func() error {
			o, err := Evaluate(gctx, calc, s, sctx)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
