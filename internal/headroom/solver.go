package headroom

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/transform"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver searches for benefit-preserving lump sums and income headroom.
type Solver struct {
	Calc    calculation.Calculator
	TaxYear *domain.TaxYearConfig
	Options SolverOptions
}

// NewSolver creates a new headroom solver
func NewSolver(calc calculation.Calculator, taxYear *domain.TaxYearConfig, options SolverOptions) *Solver {
	return &Solver{
		Calc:    calc,
		TaxYear: taxYear,
		Options: options,
	}
}

// NewDefaultSolver creates a solver over a local engine with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, engine.TaxYear(), DefaultSolverOptions())
}

// MaxLumpSumKeepingBenefits finds the largest 0-10 selector at which no
// benefit held without a lump sum is lost. Benefit loss is monotone in the
// selector, so a bisection between a safe and an unsafe selector converges.
func (s *Solver) MaxLumpSumKeepingBenefits(ctx context.Context, req domain.ScenarioRequest) (*LumpSumHeadroom, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, &Error{Operation: "max_lump_sum", Message: "invalid request", Cause: err}
	}

	out := &LumpSumHeadroom{
		Request:     req,
		Eligible:    req.EffectiveAge() >= s.TaxYear.LumpSum.EligibilityAge,
		MaxSelector: decimal.Zero,
	}
	if !out.Eligible {
		res, err := s.evaluate(ctx, req, decimal.Zero)
		if err != nil {
			return nil, err
		}
		out.Result = res
		out.MaxLumpSumAmount = decimal.Zero
		out.ConvergenceInfo = fmt.Sprintf("not eligible before age %d", s.TaxYear.LumpSum.EligibilityAge)
		return out, nil
	}

	hi := decimal.NewFromInt(domain.LumpSumSelectorMax)
	full, err := s.evaluate(ctx, req, hi)
	if err != nil {
		return nil, err
	}
	out.Iterations = 1
	if lost := firstLost(full); lost == "" {
		out.MaxSelector = hi
		out.MaxLumpSumAmount = full.LumpSumAmount
		out.FullLumpSumSafe = true
		out.Result = full
		out.ConvergenceInfo = "full lump sum keeps all benefits"
		return out, nil
	}

	lo := decimal.Zero
	limiting := firstLost(full)
	for out.Iterations < s.Options.MaxIterations && hi.Sub(lo).GreaterThan(s.Options.Tolerance) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		res, err := s.evaluate(ctx, req, mid)
		if err != nil {
			return nil, err
		}
		out.Iterations++

		if lost := firstLost(res); lost != "" {
			hi = mid
			limiting = lost
		} else {
			lo = mid
		}
	}

	if hi.Sub(lo).GreaterThan(s.Options.Tolerance) {
		out.ConvergenceInfo = fmt.Sprintf("max iterations (%d) reached", s.Options.MaxIterations)
	} else {
		out.ConvergenceInfo = "binary search converged"
	}

	// Rounding down keeps the reported selector on the safe side.
	out.MaxSelector = lo.RoundFloor(2)
	res, err := s.evaluate(ctx, req, out.MaxSelector)
	if err != nil {
		return nil, err
	}
	out.Result = res
	out.MaxLumpSumAmount = res.LumpSumAmount
	out.LimitingBenefit = limiting
	return out, nil
}

// IncomeHeadroom reports, per benefit, how much taxable income remains
// before the ceiling at the request as given.
func (s *Solver) IncomeHeadroom(ctx context.Context, req domain.ScenarioRequest) ([]BenefitHeadroom, error) {
	res, err := s.Calc.Calculate(ctx, req)
	if err != nil {
		return nil, &Error{Operation: "income_headroom", Message: "failed to calculate scenario", Cause: err}
	}

	// One extra unit of gross adds (1 - pension share) of taxable income.
	keep := decimal.NewFromInt(1).Sub(req.PensionFraction().Decimal())
	taxable := res.TaxableIncomeWithLumpSum

	thresholds := s.TaxYear.OrderedThresholds()
	out := make([]BenefitHeadroom, 0, len(thresholds))
	for _, th := range thresholds {
		h := BenefitHeadroom{
			Name:          th.Name,
			Ceiling:       th.Ceiling,
			TaxableIncome: taxable,
			Eligible:      th.Eligible(taxable),
			Headroom:      domain.RoundCurrency(th.Ceiling.Sub(taxable)),
			GrossHeadroom: decimal.Zero,
		}
		if h.Eligible && keep.IsPositive() {
			h.GrossHeadroom = h.Headroom.Div(keep).RoundFloor(2)
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *Solver) evaluate(ctx context.Context, req domain.ScenarioRequest, selector decimal.Decimal) (*domain.ScenarioResult, error) {
	modified, err := transform.ApplyTransforms(req, []transform.ScenarioTransform{
		&transform.SetLumpSum{Selector: selector},
	})
	if err != nil {
		return nil, &Error{Operation: "max_lump_sum", Message: "failed to apply lump-sum transform", Cause: err}
	}
	res, err := s.Calc.Calculate(ctx, modified)
	if err != nil {
		return nil, &Error{Operation: "max_lump_sum", Message: "failed to calculate scenario", Cause: err}
	}
	return res, nil
}

func firstLost(res *domain.ScenarioResult) domain.BenefitName {
	for _, b := range res.Benefits {
		if b.Lost() {
			return b.Name
		}
	}
	return ""
}
