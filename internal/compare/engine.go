package compare

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/transform"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// MarginalPressureLimit is the share of an income step lost to tax and
// benefit withdrawal above which an insight is raised.
var MarginalPressureLimit = decimal.RequireFromString("0.4")

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	Calc              calculation.Calculator
	TaxYear           *domain.TaxYearConfig
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calc calculation.Calculator, taxYear *domain.TaxYearConfig) *CompareEngine {
	return &CompareEngine{
		Calc:              calc,
		TaxYear:           taxYear,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(taxYear.LumpSum.EligibilityAge),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // defaults to the first scenario
	Templates        []string // templates applied to the base, appended as alternatives
	Concurrency      int      // max scenarios in flight; 0 means no limit
}

// Compare calculates every scenario concurrently and compares each against
// the base. Results keep input order; template scenarios follow.
func (ce *CompareEngine) Compare(ctx context.Context, scenarios []domain.NamedScenario, options CompareOptions) (*ComparisonSet, error) {
	if len(scenarios) == 0 {
		return nil, domain.NewInvalidInput("compare", "scenarios", "missing")
	}

	baseIdx := 0
	if options.BaseScenarioName != "" {
		baseIdx = -1
		for i, s := range scenarios {
			if s.Name == options.BaseScenarioName {
				baseIdx = i
				break
			}
		}
		if baseIdx < 0 {
			return nil, domain.NewInvalidInput("compare", "base", "unknown_value")
		}
	}
	base := scenarios[baseIdx]

	all := make([]domain.NamedScenario, len(scenarios), len(scenarios)+len(options.Templates))
	copy(all, scenarios)
	descriptions := make(map[int]string)
	for _, name := range options.Templates {
		tmpl, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, domain.NewInvalidInput("compare", "template:"+name, "unknown_value")
		}
		req, err := transform.ApplyTransforms(base.Request, tmpl.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", name, err)
		}
		descriptions[len(all)] = tmpl.Description
		all = append(all, domain.NamedScenario{Name: base.Name + "_" + tmpl.Name, Request: req})
	}

	results, err := ce.calculateAll(ctx, all, options.Concurrency)
	if err != nil {
		return nil, err
	}

	metrics := make([]ComparisonResult, len(all))
	for i := range all {
		metrics[i] = ce.MetricsCalculator.CalculateMetrics(all[i], results[i])
		metrics[i].Description = descriptions[i]
	}

	baseResult := metrics[baseIdx]
	compSet := &ComparisonSet{
		TaxYear:          ce.TaxYear.Year,
		BaseScenarioName: base.Name,
		BaseResult:       &baseResult,
	}
	for i, m := range metrics {
		if i == baseIdx {
			continue
		}
		compSet.AlternativeResults = append(compSet.AlternativeResults, ce.MetricsCalculator.CalculateComparison(m, baseResult))
	}

	compSet.Insights = GenerateInsights(compSet.All())
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// CompareTemplates compares one base request against named templates.
func (ce *CompareEngine) CompareTemplates(ctx context.Context, base domain.NamedScenario, templates []string) (*ComparisonSet, error) {
	return ce.Compare(ctx, []domain.NamedScenario{base}, CompareOptions{
		BaseScenarioName: base.Name,
		Templates:        templates,
	})
}

// calculateAll fans out one calculation per scenario. The first failure
// cancels the rest.
func (ce *CompareEngine) calculateAll(ctx context.Context, scenarios []domain.NamedScenario, limit int) ([]*domain.ScenarioResult, error) {
	results := make([]*domain.ScenarioResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range scenarios {
		i := i
		g.Go(func() error {
			res, err := ce.Calc.Calculate(gctx, scenarios[i].Request)
			if err != nil {
				return fmt.Errorf("failed to calculate scenario %s: %w", scenarios[i].Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GenerateInsights derives best-net, lowest-tax, threshold and marginal
// pressure observations. Ties go to the earlier scenario.
func GenerateInsights(results []ComparisonResult) []Insight {
	var insights []Insight
	if len(results) == 0 {
		return insights
	}

	best, lowest := 0, 0
	for i, r := range results {
		if r.NetIncome.GreaterThan(results[best].NetIncome) {
			best = i
		}
		if r.IncomeTax.LessThan(results[lowest].IncomeTax) {
			lowest = i
		}
	}
	insights = append(insights,
		Insight{Kind: InsightBestNetIncome, Scenario: results[best].ScenarioName, Value: results[best].NetIncome},
		Insight{Kind: InsightLowestTax, Scenario: results[lowest].ScenarioName, Value: results[lowest].IncomeTax},
	)

	for _, r := range results {
		for _, b := range r.ExceededThresholds {
			insights = append(insights, Insight{
				Kind:     InsightThresholdExceeded,
				Scenario: r.ScenarioName,
				Benefit:  b,
				Value:    r.Result.TaxableIncomeWithLumpSum,
			})
		}
	}

	sorted := make([]ComparisonResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GrossIncome.LessThan(sorted[j].GrossIncome)
	})
	one := decimal.NewFromInt(1)
	for i := 0; i+1 < len(sorted); i++ {
		cur, next := sorted[i], sorted[i+1]
		incomeDiff := next.GrossIncome.Sub(cur.GrossIncome)
		if !incomeDiff.IsPositive() {
			continue
		}
		rate := one.Sub(next.NetIncome.Sub(cur.NetIncome).Div(incomeDiff))
		if rate.GreaterThan(MarginalPressureLimit) {
			insights = append(insights, Insight{
				Kind:     InsightMarginalPressure,
				Scenario: cur.ScenarioName,
				Other:    next.ScenarioName,
				Value:    rate.Mul(decimal.NewFromInt(100)).RoundBank(1),
			})
		}
	}

	for i := range insights {
		insights[i].Message = insightMessage(insights[i])
	}
	return insights
}
