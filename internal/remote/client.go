// Package remote calls an external calculation service that serves the
// scenario endpoint. Client satisfies calculation.Calculator so callers can
// switch between the local engine and the service. The wire response carries
// amounts only; Client derives the tax base, bracket rate, lump-sum outcome and
// benefit statuses from its tax-year table.
package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

// ScenarioPath is the calculation endpoint relative to the base URL.
const ScenarioPath = "/api/v1/calculations/scenario"

// DefaultTimeout applies when the context carries no deadline.
const DefaultTimeout = 10 * time.Second

// Client posts scenario requests to the calculation service.
type Client struct {
	BaseURL string
	Timeout time.Duration
	HTTP    *fasthttp.Client
	// Year must match the table the service calculates with.
	Year *domain.TaxYearConfig
}

// NewClient creates a client for baseURL, e.g. "http://localhost:8000".
// A nil taxYear selects the embedded default table.
func NewClient(baseURL string, taxYear *domain.TaxYearConfig) *Client {
	if taxYear == nil {
		taxYear = config.MustDefault()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: DefaultTimeout,
		Year:    taxYear,
		HTTP: &fasthttp.Client{
			Name:                "rpnl",
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 90 * time.Second,
		},
	}
}

// CalculateScenario posts req and decodes the response including the trace.
func (c *Client) CalculateScenario(ctx context.Context, req domain.ScenarioRequest) (*domain.ScenarioResponse, error) {
	const op = "calculate_scenario"
	if err := ctx.Err(); err != nil {
		return nil, domain.NewUpstreamUnavailable(op, "cancelled", err)
	}

	body, err := json.Marshal(newWireRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(c.BaseURL + ScenarioPath + "?trace=true")
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBody(body)

	if err := c.HTTP.DoDeadline(httpReq, httpResp, c.deadline(ctx)); err != nil {
		reason := "transport"
		if errors.Is(err, fasthttp.ErrTimeout) {
			reason = "timeout"
		}
		return nil, domain.NewUpstreamUnavailable(op, reason, err)
	}

	status := httpResp.StatusCode()
	switch {
	case status >= 500:
		return nil, domain.NewUpstreamUnavailable(op, fmt.Sprintf("status_%d", status), nil)
	case status >= 400:
		var eb errorBody
		field, reason := "request", "rejected"
		if json.Unmarshal(httpResp.Body(), &eb) == nil && eb.Reason != "" {
			field, reason = eb.Field, eb.Reason
		}
		return nil, domain.NewInvalidInput(op, field, reason)
	case status != fasthttp.StatusOK:
		return nil, domain.NewUpstreamUnavailable(op, fmt.Sprintf("status_%d", status), nil)
	}

	var resp domain.ScenarioResponse
	if err := json.Unmarshal(httpResp.Body(), &resp); err != nil {
		return nil, domain.NewUpstreamUnavailable(op, "malformed_response", err)
	}
	return &resp, nil
}

// Calculate implements calculation.Calculator on top of CalculateScenario.
func (c *Client) Calculate(ctx context.Context, req domain.ScenarioRequest) (*domain.ScenarioResult, error) {
	resp, err := c.CalculateScenario(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.toResult(req, resp)
}

// TaxYear returns the table results are completed against.
func (c *Client) TaxYear() *domain.TaxYearConfig {
	return c.Year
}

func (c *Client) deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return time.Now().Add(timeout)
}

// toResult takes every amount from the response and rebuilds the rest from
// the two taxable incomes it reports.
func (c *Client) toResult(req domain.ScenarioRequest, resp *domain.ScenarioResponse) (*domain.ScenarioResult, error) {
	cfg := c.Year
	before, with := resp.TaxableIncomeBeforeLumpSum, resp.TaxableIncomeWithLumpSum

	lump, err := calculation.EvaluateLumpSum(req, cfg.LumpSum.EligibilityAge)
	if err != nil {
		return nil, err
	}
	// The service's figure wins over ours.
	lump.LumpSumAmount = domain.RoundCurrency(with.Sub(before))
	lump.RemainingAnnualPension = lump.AnnualPension.Sub(lump.LumpSumAmount)
	lump.MonthlyAfter = domain.Monthly(lump.RemainingAnnualPension)

	baseBefore := calculation.TaxBase(before, cfg.Allowances)
	baseWith := calculation.TaxBase(with, cfg.Allowances)
	taxBefore, err := calculation.ProgressiveTax(baseBefore, cfg.Brackets)
	if err != nil {
		return nil, err
	}
	active, _, err := calculation.FindBracket(baseWith, cfg.Brackets)
	if err != nil {
		return nil, err
	}

	benefits := resp.HousingAllowance.Add(resp.HealthcareSubsidy).Add(resp.ChildBenefit)
	res := &domain.ScenarioResult{
		TaxYear:                    cfg.Year,
		Request:                    req,
		GrossIncome:                resp.GrossIncome,
		PensionContributionAmount:  resp.PensionContribution,
		TaxableIncomeBeforeLumpSum: before,
		TaxableIncomeWithLumpSum:   with,
		TaxBase:                    domain.RoundCurrency(baseWith),
		TaxBaseBeforeLumpSum:       domain.RoundCurrency(baseBefore),
		IncomeTax:                  resp.IncomeTax,
		IncomeTaxBeforeLumpSum:     taxBefore,
		LumpSumTaxEffect:           resp.IncomeTax.Sub(taxBefore),
		MarginalRate:               active.Rate,
		AOWPremium:                 resp.AOWPremium,
		WWPremium:                  resp.WWPremium,
		HousingAllowance:           resp.HousingAllowance,
		HealthcareSubsidy:          resp.HealthcareSubsidy,
		ChildBenefit:               resp.ChildBenefit,
		TotalBenefits:              benefits,
		TotalDeductions:            resp.PensionContribution.Add(resp.IncomeTax).Add(resp.AOWPremium).Add(resp.WWPremium),
		NetIncome:                  resp.NetIncome,
		NetIncomeWithLumpSum:       domain.RoundCurrency(resp.NetIncome.Add(lump.LumpSumAmount)),
		LumpSumAmount:              lump.LumpSumAmount,
		RemainingPensionCapital:    lump.RemainingAnnualPension,
		LumpSum:                    lump,
		Benefits:                   calculation.BenefitStatuses(before, with, cfg.OrderedThresholds()),
		Trace:                      domain.RuleTrace{},
	}
	if resp.Trace != nil {
		res.Trace = *resp.Trace
	}
	if with.IsPositive() {
		res.EffectiveTaxRate = resp.IncomeTax.Div(with).Mul(decimal.NewFromInt(100)).RoundBank(2)
	}
	return res, nil
}
