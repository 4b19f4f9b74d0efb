package calculation

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return NewEngine(cfg)
}

func request(gross, pension, lump string, age int) domain.ScenarioRequest {
	return domain.ScenarioRequest{
		GrossIncome:                   d(gross),
		PensionContributionPercentage: d(pension),
		LumpSumPercentage:             d(lump),
		HousingCosts:                  d("400"),
		MaritalStatus:                 domain.MaritalSingle,
	}.WithAge(age)
}

func TestNewEngine(t *testing.T) {
	engine := newTestEngine(t)

	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.Equal(t, 2025, engine.TaxYear().Year)
}

func TestEngine_SetLogger(t *testing.T) {
	engine := newTestEngine(t)

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	_, err := engine.Calculate(context.Background(), request("50000", "5", "0", 62))
	require.NoError(t, err)
	assert.NotEmpty(t, customLogger.messages, "Should log through custom logger")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestEngine_Calculate_BelowEligibilityAge(t *testing.T) {
	res, err := newTestEngine(t).Calculate(context.Background(), request("50000", "5", "0", 62))
	require.NoError(t, err)

	assert.Equal(t, "2500", res.PensionContributionAmount.String())
	assert.True(t, res.LumpSumAmount.IsZero())
	assert.Equal(t, "47500", res.TaxableIncomeBeforeLumpSum.String())
	assert.True(t, res.TaxableIncomeWithLumpSum.Equal(res.TaxableIncomeBeforeLumpSum))
	assert.Equal(t, "42593", res.TaxBase.String())
	assert.Equal(t, "5613.58", res.IncomeTax.String())
	assert.Equal(t, "9286.25", res.AOWPremium.String())
	assert.Equal(t, "1045", res.WWPremium.String())
	assert.True(t, res.TotalBenefits.IsZero())
	assert.Equal(t, "31555.17", res.NetIncome.String())
	assert.Empty(t, res.Trace, "no lump sum requested, nothing changes")
}

func TestEngine_Calculate_FullLumpSumAtEligibility(t *testing.T) {
	res, err := newTestEngine(t).Calculate(context.Background(), request("50000", "5", "10", 67))
	require.NoError(t, err)

	assert.True(t, res.LumpSum.Eligible)
	assert.Equal(t, "2500", res.LumpSum.AnnualPension.String())
	assert.Equal(t, "2500", res.LumpSumAmount.String())
	assert.True(t, res.RemainingPensionCapital.IsZero())
	assert.True(t, res.TaxableIncomeWithLumpSum.Equal(res.TaxableIncomeBeforeLumpSum.Add(d("2500"))))
	assert.Equal(t, "6209.83", res.IncomeTax.String())
	assert.Equal(t, "596.25", res.LumpSumTaxEffect.String())
	assert.Equal(t, "30415.17", res.NetIncome.String())
	assert.Equal(t, "32915.17", res.NetIncomeWithLumpSum.String())
	assert.Equal(t, "208.33", res.LumpSum.MonthlyBefore.String())
	assert.True(t, res.LumpSum.MonthlyAfter.IsZero())

	// 47500 and 50000 are both above the healthcare and housing ceilings and
	// 50000 sits exactly on the child benefit ceiling, so no benefit changes.
	require.Len(t, res.Trace, 1)
	assert.Equal(t, domain.RuleLumpSumEligibility, res.Trace[0].RuleName)
	assert.True(t, res.Trace[0].Triggered)
	for _, s := range res.Benefits {
		assert.False(t, s.Lost(), s.Name)
	}
}

func TestEngine_Calculate_IneligibleSelectorIsPreviewOnly(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Calculate(context.Background(), request("50000", "5", "10", 66))
	require.NoError(t, err)
	zero, err := engine.Calculate(context.Background(), request("50000", "5", "0", 66))
	require.NoError(t, err)

	assert.True(t, res.LumpSumAmount.IsZero())
	assert.True(t, res.NetIncome.Equal(zero.NetIncome))
	assert.True(t, res.IncomeTax.Equal(zero.IncomeTax))
	require.Len(t, res.Trace, 1)
	assert.Equal(t, domain.RuleLumpSumEligibility, res.Trace[0].RuleName)
	assert.False(t, res.Trace[0].Triggered)
}

func TestEngine_Calculate_OmittedAgeNeverEligible(t *testing.T) {
	req := request("50000", "5", "10", 0)
	req.Age = nil
	res, err := newTestEngine(t).Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.LumpSum.Eligible)
	assert.True(t, res.LumpSumAmount.IsZero())
}

func TestEngine_Calculate_HealthcareCrossing(t *testing.T) {
	res, err := newTestEngine(t).Calculate(context.Background(), request("40000", "10", "10", 70))
	require.NoError(t, err)

	assert.Equal(t, "36000", res.TaxableIncomeBeforeLumpSum.String())
	assert.Equal(t, "40000", res.TaxableIncomeWithLumpSum.String())
	require.Len(t, res.Trace, 2)
	assert.Equal(t, domain.RuleLumpSumEligibility, res.Trace[0].RuleName)

	ev := res.Trace[1]
	assert.Equal(t, domain.ThresholdRule(domain.BenefitHealthcareAllowance), ev.RuleName)
	require.NotNil(t, ev.Crossed)
	assert.True(t, *ev.Crossed)
	assert.Equal(t, "38520", ev.ThresholdValue.String())
	assert.Contains(t, ev.ImpactDescription, "lost")
	assert.True(t, res.HealthcareSubsidy.IsZero(), "subsidy follows the after snapshot")
}

func TestEngine_Calculate_TraceOrder(t *testing.T) {
	res, err := newTestEngine(t).Calculate(context.Background(), request("45000", "10", "10", 67))
	require.NoError(t, err)

	var names []domain.RuleName
	for _, e := range res.Trace {
		names = append(names, e.RuleName)
	}
	assert.Equal(t, []domain.RuleName{
		domain.RuleLumpSumEligibility,
		domain.RuleTaxBracketProgression,
		domain.ThresholdRule(domain.BenefitHousingAllowance),
	}, names)
	assert.Equal(t, "0.2385", res.MarginalRate.String())
}

func TestEngine_Calculate_RejectsInvalid(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Calculate(context.Background(), request("-1", "5", "0", 62))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.Calculate(context.Background(), request("50000", "5", "11", 67))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_Calculate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestEngine(t).Calculate(ctx, request("50000", "5", "0", 62))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Calculate_Deterministic(t *testing.T) {
	engine := newTestEngine(t)
	req := request("45000", "10", "10", 67)

	first, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestScenarioResult_Response(t *testing.T) {
	res, err := newTestEngine(t).Calculate(context.Background(), request("50000", "5", "10", 67))
	require.NoError(t, err)

	resp := res.Response(false)
	assert.Nil(t, resp.Trace)
	assert.True(t, resp.TaxableIncome.Equal(res.TaxableIncomeWithLumpSum))
	assert.True(t, resp.PensionContribution.Equal(res.PensionContributionAmount))
	withTrace := res.Response(true)
	require.NotNil(t, withTrace.Trace)
	assert.Len(t, *withTrace.Trace, len(res.Trace))
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
