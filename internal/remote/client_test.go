package remote

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/compare"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/headroom"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// engineHandler serves the scenario endpoint from the local engine.
func engineHandler(t *testing.T) fasthttp.RequestHandler {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	engine := calculation.NewEngine(cfg)

	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != ScenarioPath || !ctx.IsPost() {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		var req domain.ScenarioRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
			return
		}
		res, err := engine.Calculate(context.Background(), req)
		if err != nil {
			var de *domain.Error
			if errors.As(err, &de) {
				body, _ := json.Marshal(errorBody{Code: string(de.Code), Field: de.Field, Reason: de.Reason})
				ctx.SetBody(body)
			}
			ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
			return
		}
		body, _ := json.Marshal(res.Response(ctx.QueryArgs().GetBool("trace")))
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	}
}

func newTestClient(t *testing.T, h fasthttp.RequestHandler) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: h}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	c := NewClient("http://calc.test/", nil)
	c.HTTP.Dial = func(string) (net.Conn, error) { return ln.Dial() }
	return c
}

func lumpSumRequest() domain.ScenarioRequest {
	return domain.ScenarioRequest{
		GrossIncome:                   decimal.NewFromInt(50000),
		PensionContributionPercentage: decimal.NewFromInt(5),
		LumpSumPercentage:             decimal.NewFromInt(10),
		HousingCosts:                  decimal.NewFromInt(400),
		MaritalStatus:                 domain.MaritalSingle,
	}.WithAge(67)
}

func TestClient_CalculateScenario(t *testing.T) {
	c := newTestClient(t, engineHandler(t))
	assert.Equal(t, "http://calc.test", c.BaseURL)

	resp, err := c.CalculateScenario(context.Background(), lumpSumRequest())
	require.NoError(t, err)
	assert.Equal(t, "30415.17", resp.NetIncome.StringFixed(2))
	assert.Equal(t, "50000.00", resp.TaxableIncomeWithLumpSum.StringFixed(2))
	require.NotNil(t, resp.Trace)
	require.Len(t, *resp.Trace, 1)
	assert.Equal(t, domain.RuleLumpSumEligibility, (*resp.Trace)[0].RuleName)
}

func TestClient_CalculateMatchesLocalEngine(t *testing.T) {
	c := newTestClient(t, engineHandler(t))
	cfg, err := config.Default()
	require.NoError(t, err)

	var calc calculation.Calculator = c
	remote, err := calc.Calculate(context.Background(), lumpSumRequest())
	require.NoError(t, err)
	local, err := calculation.NewEngine(cfg).Calculate(context.Background(), lumpSumRequest())
	require.NoError(t, err)

	assert.True(t, remote.NetIncome.Equal(local.NetIncome))
	assert.True(t, remote.IncomeTax.Equal(local.IncomeTax))
	assert.True(t, remote.LumpSumAmount.Equal(local.LumpSumAmount))
	assert.True(t, remote.TotalBenefits.Equal(local.TotalBenefits))
	assert.True(t, remote.RemainingPensionCapital.IsZero())
	require.Len(t, remote.Trace, len(local.Trace))
	for i := range local.Trace {
		assert.Equal(t, local.Trace[i].RuleName, remote.Trace[i].RuleName)
		assert.Equal(t, local.Trace[i].Triggered, remote.Trace[i].Triggered)
		assert.True(t, local.Trace[i].ThresholdValue.Equal(*remote.Trace[i].ThresholdValue))
	}
}

// healthcareEdgeRequest loses the healthcare allowance with the full lump
// sum: taxable income moves from 36000 to 40000 past the 38520 ceiling.
func healthcareEdgeRequest() domain.ScenarioRequest {
	return domain.ScenarioRequest{
		GrossIncome:                   decimal.NewFromInt(40000),
		PensionContributionPercentage: decimal.NewFromInt(10),
		LumpSumPercentage:             decimal.NewFromInt(10),
		MaritalStatus:                 domain.MaritalSingle,
	}.WithAge(70)
}

func TestClient_ResultCarriesDerivedFields(t *testing.T) {
	c := newTestClient(t, engineHandler(t))
	cfg := c.TaxYear()

	remote, err := c.Calculate(context.Background(), healthcareEdgeRequest())
	require.NoError(t, err)
	local, err := calculation.NewEngine(cfg).Calculate(context.Background(), healthcareEdgeRequest())
	require.NoError(t, err)

	assert.Equal(t, local.TaxYear, remote.TaxYear)
	assert.Equal(t, local.TaxBase.String(), remote.TaxBase.String())
	assert.Equal(t, local.TaxBaseBeforeLumpSum.String(), remote.TaxBaseBeforeLumpSum.String())
	assert.Equal(t, local.MarginalRate.String(), remote.MarginalRate.String())
	assert.Equal(t, local.IncomeTaxBeforeLumpSum.String(), remote.IncomeTaxBeforeLumpSum.String())
	assert.Equal(t, local.LumpSumTaxEffect.String(), remote.LumpSumTaxEffect.String())
	assert.Equal(t, local.NetIncomeWithLumpSum.String(), remote.NetIncomeWithLumpSum.String())
	assert.Equal(t, local.RemainingPensionCapital.String(), remote.RemainingPensionCapital.String())

	assert.True(t, remote.LumpSum.Eligible)
	assert.Equal(t, "4000", remote.LumpSum.AnnualPension.String())
	assert.Equal(t, local.LumpSum.MonthlyBefore.String(), remote.LumpSum.MonthlyBefore.String())
	assert.Equal(t, local.LumpSum.MonthlyAfter.String(), remote.LumpSum.MonthlyAfter.String())

	require.Len(t, remote.Benefits, len(local.Benefits))
	for i := range local.Benefits {
		assert.Equal(t, local.Benefits[i].Name, remote.Benefits[i].Name)
		assert.Equal(t, local.Benefits[i].EligibleBefore, remote.Benefits[i].EligibleBefore)
		assert.Equal(t, local.Benefits[i].EligibleAfter, remote.Benefits[i].EligibleAfter)
	}
	assert.True(t, remote.Benefits[0].Lost(), "healthcare allowance is lost")
}

func TestClient_HeadroomMatchesLocalEngine(t *testing.T) {
	c := newTestClient(t, engineHandler(t))
	cfg := c.TaxYear()
	ctx := context.Background()

	local, err := headroom.NewDefaultSolver(calculation.NewEngine(cfg)).MaxLumpSumKeepingBenefits(ctx, healthcareEdgeRequest())
	require.NoError(t, err)
	remote, err := headroom.NewSolver(c, cfg, headroom.DefaultSolverOptions()).MaxLumpSumKeepingBenefits(ctx, healthcareEdgeRequest())
	require.NoError(t, err)

	assert.False(t, local.FullLumpSumSafe)
	assert.Equal(t, domain.BenefitHealthcareAllowance, local.LimitingBenefit)
	assert.Equal(t, local.FullLumpSumSafe, remote.FullLumpSumSafe)
	assert.Equal(t, local.LimitingBenefit, remote.LimitingBenefit)
	assert.Equal(t, local.MaxSelector.String(), remote.MaxSelector.String())
	assert.Equal(t, local.MaxLumpSumAmount.String(), remote.MaxLumpSumAmount.String())
}

func TestClient_CompareReportsExceededThresholds(t *testing.T) {
	c := newTestClient(t, engineHandler(t))
	cfg := c.TaxYear()

	keep := healthcareEdgeRequest()
	keep.LumpSumPercentage = decimal.Zero
	scenarios := []domain.NamedScenario{
		{Name: "keep_pension", Request: keep},
		{Name: "full_lump_sum", Request: healthcareEdgeRequest()},
	}

	remote, err := compare.NewCompareEngine(c, cfg).Compare(context.Background(), scenarios, compare.CompareOptions{})
	require.NoError(t, err)
	local, err := compare.NewCompareEngine(calculation.NewEngine(cfg), cfg).Compare(context.Background(), scenarios, compare.CompareOptions{})
	require.NoError(t, err)

	require.Len(t, remote.AlternativeResults, 1)
	assert.Contains(t, remote.AlternativeResults[0].ExceededThresholds, domain.BenefitHealthcareAllowance)
	for i, r := range remote.All() {
		assert.Equal(t, local.All()[i].ExceededThresholds, r.ExceededThresholds, r.ScenarioName)
	}
}

func TestClient_RequestBodyUsesNumbers(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		_ = json.Unmarshal(ctx.PostBody(), &body)
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	})

	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = false })
	for _, withoutQuotes := range []bool{false, true} {
		decimal.MarshalJSONWithoutQuotes = withoutQuotes
		body = nil
		_, _ = c.CalculateScenario(context.Background(), lumpSumRequest())
		require.NotNil(t, body)
		assert.Equal(t, float64(50000), body["gross_income"])
		assert.Equal(t, float64(5), body["pension_contribution_percentage"])
		assert.Equal(t, float64(10), body["lump_sum_percentage"])
		assert.Equal(t, float64(400), body["housing_costs"])
		assert.Equal(t, float64(67), body["age"])
		assert.Equal(t, "single", body["marital_status"])
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		handler fasthttp.RequestHandler
		want    error
		reason  string
	}{
		{
			name:    "server error",
			handler: func(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(fasthttp.StatusServiceUnavailable) },
			want:    domain.ErrUpstreamUnavailable,
			reason:  "status_503",
		},
		{
			name: "malformed body",
			handler: func(ctx *fasthttp.RequestCtx) {
				ctx.SetContentType("application/json")
				ctx.SetBodyString("{not json")
			},
			want:   domain.ErrUpstreamUnavailable,
			reason: "malformed_response",
		},
		{
			name:    "rejected without body",
			handler: func(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(fasthttp.StatusBadRequest) },
			want:    domain.ErrInvalidInput,
			reason:  "rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.CalculateScenario(context.Background(), lumpSumRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var de *domain.Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.reason, de.Reason)
		})
	}
}

func TestClient_InvalidInputKeepsField(t *testing.T) {
	c := newTestClient(t, engineHandler(t))
	req := lumpSumRequest()
	req.GrossIncome = decimal.NewFromInt(-1)

	_, err := c.CalculateScenario(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "gross_income", de.Field)
	assert.Equal(t, "negative", de.Reason)
}

func TestClient_Timeout(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(300 * time.Millisecond)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.CalculateScenario(ctx, lumpSumRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_TransportFailure(t *testing.T) {
	c := NewClient("http://calc.test", nil)
	dialErr := errors.New("connection refused")
	c.HTTP.Dial = func(string) (net.Conn, error) { return nil, dialErr }

	_, err := c.CalculateScenario(context.Background(), lumpSumRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "transport", de.Reason)
}

func TestClient_CancelledContext(t *testing.T) {
	c := NewClient("http://calc.test", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CalculateScenario(ctx, lumpSumRequest())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
