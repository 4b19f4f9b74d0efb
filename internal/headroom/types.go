package headroom

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// SolverOptions configures the binary search.
type SolverOptions struct {
	Tolerance     decimal.Decimal // selector width at which the search stops
	MaxIterations int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.01"),
		MaxIterations: 50,
	}
}

// Validate checks the options are usable.
func (o SolverOptions) Validate() error {
	if !o.Tolerance.IsPositive() {
		return &Error{Operation: "validate_options", Message: "tolerance must be positive"}
	}
	if o.MaxIterations <= 0 {
		return &Error{Operation: "validate_options", Message: "max iterations must be positive"}
	}
	return nil
}

// LumpSumHeadroom is the largest lump-sum selector that keeps every benefit
// the household has without a lump sum.
type LumpSumHeadroom struct {
	Request          domain.ScenarioRequest `json:"request"`
	Eligible         bool                   `json:"eligible"`
	MaxSelector      decimal.Decimal        `json:"max_selector"`
	MaxLumpSumAmount decimal.Decimal        `json:"max_lump_sum_amount"`
	FullLumpSumSafe  bool                   `json:"full_lump_sum_safe"`
	// LimitingBenefit is the first benefit lost just above MaxSelector.
	LimitingBenefit domain.BenefitName     `json:"limiting_benefit,omitempty"`
	Iterations      int                    `json:"iterations"`
	ConvergenceInfo string                 `json:"convergence_info"`
	Result          *domain.ScenarioResult `json:"-"`
}

// BenefitHeadroom is the room left under one benefit ceiling.
type BenefitHeadroom struct {
	Name          domain.BenefitName `json:"name"`
	Ceiling       decimal.Decimal    `json:"ceiling"`
	TaxableIncome decimal.Decimal    `json:"taxable_income"`
	Eligible      bool               `json:"eligible"`
	// Headroom is ceiling minus taxable income; negative when already above.
	Headroom decimal.Decimal `json:"headroom"`
	// GrossHeadroom is the extra gross income that uses up Headroom once the
	// pension contribution is deducted. Zero when not eligible.
	GrossHeadroom decimal.Decimal `json:"gross_headroom"`
}

// Report combines both analyses for one request.
type Report struct {
	LumpSum *LumpSumHeadroom  `json:"lump_sum"`
	Income  []BenefitHeadroom `json:"income"`
}

// Error represents errors from the headroom solver
type Error struct {
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
