package calculation

import (
	"context"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator computes a scenario. Engine is the local implementation; the
// remote client implements it against the calculation service.
type Calculator interface {
	Calculate(ctx context.Context, req domain.ScenarioRequest) (*domain.ScenarioResult, error)
}

// Engine is the scenario engine for one tax year. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	cfg    *domain.TaxYearConfig
	Logger Logger
}

// NewEngine creates an engine over a validated tax-year table.
func NewEngine(cfg *domain.TaxYearConfig) *Engine {
	return &Engine{cfg: cfg, Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. Nil selects the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// TaxYear returns the table the engine calculates with.
func (e *Engine) TaxYear() *domain.TaxYearConfig {
	return e.cfg
}

// Calculate validates req and computes the itemized result with its rule trace.
func (e *Engine) Calculate(ctx context.Context, req domain.ScenarioRequest) (*domain.ScenarioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		e.Logger.Debugf("rejected request: %v", err)
		return nil, err
	}

	lump, err := EvaluateLumpSum(req, e.cfg.LumpSum.EligibilityAge)
	if err != nil {
		return nil, err
	}

	// The before snapshot is fixed before the lump sum is added.
	contribution := lump.AnnualPension
	taxableBefore := req.GrossIncome.Sub(contribution)
	taxableWith := taxableBefore.Add(lump.LumpSumAmount)

	baseBefore := TaxBase(taxableBefore, e.cfg.Allowances)
	baseWith := TaxBase(taxableWith, e.cfg.Allowances)

	taxBefore, err := ProgressiveTax(baseBefore, e.cfg.Brackets)
	if err != nil {
		return nil, err
	}
	tax, err := ProgressiveTax(baseWith, e.cfg.Brackets)
	if err != nil {
		return nil, err
	}
	active, _, err := FindBracket(baseWith, e.cfg.Brackets)
	if err != nil {
		return nil, err
	}

	aow, ww := Premiums(taxableWith, e.cfg.Premiums)
	benefits := CalculateBenefits(taxableWith, req, e.cfg)

	trace, statuses, err := e.trace(req, lump, taxableBefore, taxableWith, baseBefore, baseWith)
	if err != nil {
		return nil, err
	}

	deductions := contribution.Add(tax).Add(aow).Add(ww)
	// The lump sum is taxed but not counted as income; see NetIncomeWithLumpSum.
	net := req.GrossIncome.Sub(deductions).Add(benefits.Total())

	effective := decimal.Zero
	if taxableWith.IsPositive() {
		effective = tax.Div(taxableWith).Mul(decimal.NewFromInt(100)).RoundBank(2)
	}

	result := &domain.ScenarioResult{
		TaxYear:                    e.cfg.Year,
		Request:                    req,
		GrossIncome:                domain.RoundCurrency(req.GrossIncome),
		PensionContributionAmount:  contribution,
		TaxableIncomeBeforeLumpSum: domain.RoundCurrency(taxableBefore),
		TaxableIncomeWithLumpSum:   domain.RoundCurrency(taxableWith),
		TaxBase:                    domain.RoundCurrency(baseWith),
		TaxBaseBeforeLumpSum:       domain.RoundCurrency(baseBefore),
		IncomeTax:                  tax,
		IncomeTaxBeforeLumpSum:     taxBefore,
		LumpSumTaxEffect:           tax.Sub(taxBefore),
		EffectiveTaxRate:           effective,
		MarginalRate:               active.Rate,
		AOWPremium:                 aow,
		WWPremium:                  ww,
		HousingAllowance:           benefits.HousingAllowance,
		HealthcareSubsidy:          benefits.HealthcareSubsidy,
		ChildBenefit:               benefits.ChildBenefit,
		TotalBenefits:              benefits.Total(),
		TotalDeductions:            domain.RoundCurrency(deductions),
		NetIncome:                  domain.RoundCurrency(net),
		NetIncomeWithLumpSum:       domain.RoundCurrency(net.Add(lump.LumpSumAmount)),
		LumpSumAmount:              lump.LumpSumAmount,
		RemainingPensionCapital:    lump.RemainingAnnualPension,
		LumpSum:                    lump,
		Benefits:                   statuses,
		Trace:                      trace,
	}

	e.Logger.Debugf("scenario: gross=%s taxable=%s tax=%s net=%s events=%d",
		result.GrossIncome, result.TaxableIncomeWithLumpSum, result.IncomeTax, result.NetIncome, len(trace))
	return result, nil
}

// trace assembles the rule trace in display order: lump-sum eligibility,
// bracket movement, then benefit thresholds.
func (e *Engine) trace(req domain.ScenarioRequest, lump domain.LumpSumOutcome,
	taxableBefore, taxableWith, baseBefore, baseWith decimal.Decimal) (domain.RuleTrace, []domain.BenefitStatus, error) {

	trace := domain.RuleTrace{}
	if ev, ok := lumpSumEvent(req, lump); ok {
		trace = append(trace, ev)
	}

	ev, moved, err := bracketEvent(baseBefore, baseWith, e.cfg.Brackets)
	if err != nil {
		return nil, nil, err
	}
	if moved {
		trace = append(trace, ev)
	}

	thresholds := e.cfg.OrderedThresholds()
	events, err := EvaluateThresholds(taxableBefore, taxableWith, thresholds)
	if err != nil {
		return nil, nil, err
	}
	trace = append(trace, events...)

	return trace, BenefitStatuses(taxableBefore, taxableWith, thresholds), nil
}
