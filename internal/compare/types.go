package compare

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// Direction of a change relative to the base scenario.
type Direction string

const (
	DirectionUp        Direction = "up"
	DirectionDown      Direction = "down"
	DirectionUnchanged Direction = "unchanged"
)

// Delta is the change of one metric against the base scenario.
type Delta struct {
	Absolute  decimal.Decimal `json:"absolute"`
	Percent   decimal.Decimal `json:"percent"` // zero when the base value is zero
	Direction Direction       `json:"direction"`
}

// NewDelta computes value minus base.
func NewDelta(base, value decimal.Decimal) Delta {
	abs := value.Sub(base)
	d := Delta{Absolute: abs, Percent: decimal.Zero, Direction: DirectionUnchanged}
	if !base.IsZero() {
		d.Percent = abs.Div(base.Abs()).Mul(decimal.NewFromInt(100)).RoundBank(2)
	}
	switch abs.Sign() {
	case 1:
		d.Direction = DirectionUp
	case -1:
		d.Direction = DirectionDown
	}
	return d
}

// Deltas groups the compared metrics.
type Deltas struct {
	GrossIncome         Delta `json:"gross_income"`
	PensionContribution Delta `json:"pension_contribution"`
	IncomeTax           Delta `json:"income_tax"`
	TotalBenefits       Delta `json:"total_benefits"`
	NetIncome           Delta `json:"net_income"`
}

// ComparisonResult represents a single scenario with its key metrics
type ComparisonResult struct {
	ID           string                 `json:"id"`
	ScenarioName string                 `json:"scenario_name"`
	Description  string                 `json:"description,omitempty"`
	Request      domain.ScenarioRequest `json:"request"`
	Result       *domain.ScenarioResult `json:"-"`

	// Key Metrics
	GrossIncome         decimal.Decimal `json:"gross_income"`
	PensionContribution decimal.Decimal `json:"pension_contribution"`
	LumpSumAmount       decimal.Decimal `json:"lump_sum_amount"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	TotalBenefits       decimal.Decimal `json:"total_benefits"`
	NetIncome           decimal.Decimal `json:"net_income"`
	NetWithLumpSum      decimal.Decimal `json:"net_income_with_lump_sum"`
	EffectiveTaxRate    decimal.Decimal `json:"effective_tax_rate"`
	MarginalRate        decimal.Decimal `json:"marginal_rate"`

	// Benefits whose ceiling the scenario's taxable income exceeds
	ExceededThresholds []domain.BenefitName `json:"exceeded_thresholds,omitempty"`

	// Comparison to Base; nil on the base itself
	Deltas *Deltas `json:"deltas,omitempty"`
}

// InsightKind classifies an insight.
type InsightKind string

const (
	InsightBestNetIncome     InsightKind = "best_net_income"
	InsightLowestTax         InsightKind = "lowest_tax"
	InsightThresholdExceeded InsightKind = "threshold_exceeded"
	InsightMarginalPressure  InsightKind = "marginal_pressure"
)

// Insight is one observation across the compared scenarios.
type Insight struct {
	Kind     InsightKind        `json:"kind"`
	Scenario string             `json:"scenario"`
	Other    string             `json:"other,omitempty"`
	Benefit  domain.BenefitName `json:"benefit,omitempty"`
	Value    decimal.Decimal    `json:"value"`
	Message  string             `json:"message"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	TaxYear            int                `json:"tax_year"`
	BaseScenarioName   string             `json:"base_scenario_name"`
	BaseResult         *ComparisonResult  `json:"base_result"`
	AlternativeResults []ComparisonResult `json:"alternative_results"`
	Insights           []Insight          `json:"insights"`
	Recommendations    []string           `json:"recommendations"`
	Source             string             `json:"source,omitempty"`
}

// All returns the base followed by the alternatives, in input order.
func (cs *ComparisonSet) All() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// MetricsCalculator extracts key metrics from scenario results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario result
func (mc *MetricsCalculator) CalculateMetrics(s domain.NamedScenario, res *domain.ScenarioResult) ComparisonResult {
	result := ComparisonResult{
		ID:                  ScenarioID(s),
		ScenarioName:        s.Name,
		Request:             s.Request,
		Result:              res,
		GrossIncome:         res.GrossIncome,
		PensionContribution: res.PensionContributionAmount,
		LumpSumAmount:       res.LumpSumAmount,
		IncomeTax:           res.IncomeTax,
		TotalBenefits:       res.TotalBenefits,
		NetIncome:           res.NetIncome,
		NetWithLumpSum:      res.NetIncomeWithLumpSum,
		EffectiveTaxRate:    res.EffectiveTaxRate,
		MarginalRate:        res.MarginalRate,
	}
	for _, b := range res.Benefits {
		if !b.EligibleAfter {
			result.ExceededThresholds = append(result.ExceededThresholds, b.Name)
		}
	}
	return result
}

// CalculateComparison computes deltas between a scenario and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.Deltas = &Deltas{
		GrossIncome:         NewDelta(base.GrossIncome, scenario.GrossIncome),
		PensionContribution: NewDelta(base.PensionContribution, scenario.PensionContribution),
		IncomeTax:           NewDelta(base.IncomeTax, scenario.IncomeTax),
		TotalBenefits:       NewDelta(base.TotalBenefits, scenario.TotalBenefits),
		NetIncome:           NewDelta(base.NetIncome, scenario.NetIncome),
	}
	return scenario
}

// GenerateRecommendations renders the insights as readable lines
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := make([]string, 0, len(compSet.Insights))
	for _, in := range compSet.Insights {
		recommendations = append(recommendations, in.Message)
	}
	return recommendations
}

func insightMessage(in Insight) string {
	switch in.Kind {
	case InsightBestNetIncome:
		return fmt.Sprintf("Best net income: %s (€%s)", in.Scenario, in.Value.StringFixed(2))
	case InsightLowestTax:
		return fmt.Sprintf("Lowest tax: %s (€%s)", in.Scenario, in.Value.StringFixed(2))
	case InsightThresholdExceeded:
		return fmt.Sprintf("%s: taxable income exceeds the %s ceiling (€%s)", in.Scenario, in.Benefit, in.Value.StringFixed(2))
	case InsightMarginalPressure:
		return fmt.Sprintf("High marginal pressure between %s and %s: %s%%", in.Scenario, in.Other, in.Value.StringFixed(1))
	}
	return string(in.Kind)
}
