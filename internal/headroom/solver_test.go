package headroom

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSolver(t *testing.T) *Solver {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return NewDefaultSolver(calculation.NewEngine(cfg))
}

func req(gross, pension string, age int) domain.ScenarioRequest {
	return domain.ScenarioRequest{
		GrossIncome:                   decimal.RequireFromString(gross),
		PensionContributionPercentage: decimal.RequireFromString(pension),
		LumpSumPercentage:             decimal.NewFromInt(10),
		HousingCosts:                  decimal.NewFromInt(400),
		MaritalStatus:                 domain.MaritalSingle,
	}.WithAge(age)
}

func TestNewDefaultSolver(t *testing.T) {
	solver := newSolver(t)
	assert.Equal(t, DefaultSolverOptions(), solver.Options)
	assert.Equal(t, 2025, solver.TaxYear.Year)
}

func TestSolverOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultSolverOptions().Validate())
	assert.Error(t, SolverOptions{Tolerance: decimal.Zero, MaxIterations: 5}.Validate())
	assert.Error(t, SolverOptions{Tolerance: decimal.NewFromInt(1), MaxIterations: 0}.Validate())
}

func TestMaxLumpSumKeepingBenefits_FullIsSafe(t *testing.T) {
	// 50000 / 5%: before 47500, after 50000, child benefit ceiling 50000 is inclusive.
	got, err := newSolver(t).MaxLumpSumKeepingBenefits(context.Background(), req("50000", "5", 67))
	require.NoError(t, err)

	assert.True(t, got.FullLumpSumSafe)
	assert.Equal(t, "10", got.MaxSelector.String())
	assert.Equal(t, "2500", got.MaxLumpSumAmount.String())
	assert.Empty(t, got.LimitingBenefit)
}

func TestMaxLumpSumKeepingBenefits_Bisects(t *testing.T) {
	// before 36000, annual pension 4000; healthcare ceiling 38520 leaves 2520,
	// which is selector 6.3.
	got, err := newSolver(t).MaxLumpSumKeepingBenefits(context.Background(), req("40000", "10", 70))
	require.NoError(t, err)

	assert.False(t, got.FullLumpSumSafe)
	assert.Equal(t, domain.BenefitHealthcareAllowance, got.LimitingBenefit)
	assert.True(t, got.MaxSelector.LessThanOrEqual(decimal.RequireFromString("6.3")))
	assert.True(t, got.MaxSelector.GreaterThanOrEqual(decimal.RequireFromString("6.28")), got.MaxSelector.String())
	assert.True(t, got.Result.TaxableIncomeWithLumpSum.LessThanOrEqual(decimal.NewFromInt(38520)))
	for _, b := range got.Result.Benefits {
		assert.False(t, b.Lost(), b.Name)
	}
	assert.Equal(t, "binary search converged", got.ConvergenceInfo)
}

func TestMaxLumpSumKeepingBenefits_Ineligible(t *testing.T) {
	got, err := newSolver(t).MaxLumpSumKeepingBenefits(context.Background(), req("40000", "10", 60))
	require.NoError(t, err)
	assert.False(t, got.Eligible)
	assert.True(t, got.MaxSelector.IsZero())
	assert.True(t, got.MaxLumpSumAmount.IsZero())
}

func TestMaxLumpSumKeepingBenefits_IterationCap(t *testing.T) {
	solver := newSolver(t)
	solver.Options.MaxIterations = 3
	got, err := solver.MaxLumpSumKeepingBenefits(context.Background(), req("40000", "10", 70))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Iterations)
	assert.Contains(t, got.ConvergenceInfo, "max iterations")
	assert.False(t, got.Result.Benefits[0].Lost())
}

func TestMaxLumpSumKeepingBenefits_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSolver(t).MaxLumpSumKeepingBenefits(ctx, req("40000", "10", 70))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMaxLumpSumKeepingBenefits_InvalidRequest(t *testing.T) {
	bad := req("40000", "10", 70)
	bad.MaritalStatus = "x"
	_, err := newSolver(t).MaxLumpSumKeepingBenefits(context.Background(), bad)
	var he *Error
	require.True(t, errors.As(err, &he))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIncomeHeadroom(t *testing.T) {
	r := req("40000", "10", 60) // lump sum not applied, taxable 36000
	got, err := newSolver(t).IncomeHeadroom(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.BenefitHealthcareAllowance, got[0].Name)
	assert.Equal(t, "2520", got[0].Headroom.String())
	assert.Equal(t, "2800", got[0].GrossHeadroom.String()) // 2520 / 0.9
	assert.True(t, got[0].Eligible)

	assert.Equal(t, "6000", got[1].Headroom.String())
	assert.Equal(t, "14000", got[2].Headroom.String())
}

func TestIncomeHeadroom_AboveCeiling(t *testing.T) {
	got, err := newSolver(t).IncomeHeadroom(context.Background(), req("60000", "0", 60))
	require.NoError(t, err)
	assert.False(t, got[0].Eligible)
	assert.True(t, got[0].Headroom.IsNegative())
	assert.True(t, got[0].GrossHeadroom.IsZero())
}

func TestAnalyze(t *testing.T) {
	report, err := newSolver(t).Analyze(context.Background(), req("40000", "10", 70))
	require.NoError(t, err)
	require.NotNil(t, report.LumpSum)
	assert.Len(t, report.Income, 3)

	table := (&TableFormatter{}).Format(report)
	assert.Contains(t, table, "BENEFIT HEADROOM")
	assert.Contains(t, table, "healthcare_allowance")

	js, err := (&JSONFormatter{}).Format(report)
	require.NoError(t, err)
	assert.Contains(t, js, `"max_selector"`)
}
