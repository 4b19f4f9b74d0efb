package domain

import (
	"github.com/shopspring/decimal"
)

// MaritalStatus selects single or partner rates for allowances.
type MaritalStatus string

const (
	MaritalSingle  MaritalStatus = "single"
	MaritalMarried MaritalStatus = "married"
)

// Valid reports whether s is a recognized status.
func (s MaritalStatus) Valid() bool {
	return s == MaritalSingle || s == MaritalMarried
}

const (
	// DefaultAge is used when a request omits age. It is below every
	// lump-sum eligibility age so omitting age never unlocks a withdrawal.
	DefaultAge = 62

	LumpSumSelectorMax = 10
	MaxChildren        = 10
	MaxAge             = 130
)

// ScenarioRequest is the input to a single scenario calculation.
type ScenarioRequest struct {
	GrossIncome                   decimal.Decimal `json:"gross_income" yaml:"gross_income"`
	PensionContributionPercentage decimal.Decimal `json:"pension_contribution_percentage" yaml:"pension_contribution_percentage"`
	// LumpSumPercentage is the 0-10 selector; 10 withdraws the full annual pension.
	LumpSumPercentage decimal.Decimal `json:"lump_sum_percentage" yaml:"lump_sum_percentage"`
	HousingCosts      decimal.Decimal `json:"housing_costs" yaml:"housing_costs"` // monthly
	ChildrenCount     int             `json:"children_count" yaml:"children_count"`
	MaritalStatus     MaritalStatus   `json:"marital_status" yaml:"marital_status"`
	Age               *int            `json:"age,omitempty" yaml:"age,omitempty"`
}

// EffectiveAge returns the request age or DefaultAge when omitted.
func (r ScenarioRequest) EffectiveAge() int {
	if r.Age == nil {
		return DefaultAge
	}
	return *r.Age
}

// WithAge returns a copy of r with age set.
func (r ScenarioRequest) WithAge(age int) ScenarioRequest {
	r.Age = &age
	return r
}

// PensionFraction is the contribution percentage as a 0-1 fraction.
func (r ScenarioRequest) PensionFraction() Fraction {
	return FractionFromPercent(r.PensionContributionPercentage)
}

// LumpSumFraction is the lump-sum selector as a 0-1 fraction of the annual pension.
func (r ScenarioRequest) LumpSumFraction() Fraction {
	return FractionFromLumpSumSelector(r.LumpSumPercentage)
}

// Validate rejects out-of-range values. Nothing is clamped.
func (r ScenarioRequest) Validate() error {
	const op = "validate_request"
	if r.GrossIncome.IsNegative() {
		return NewInvalidInput(op, "gross_income", "negative")
	}
	if r.PensionContributionPercentage.IsNegative() || r.PensionContributionPercentage.GreaterThan(hundred) {
		return NewInvalidInput(op, "pension_contribution_percentage", "out_of_range")
	}
	if r.LumpSumPercentage.IsNegative() || r.LumpSumPercentage.GreaterThan(lumpSumScale) {
		return NewInvalidInput(op, "lump_sum_percentage", "out_of_range")
	}
	if r.HousingCosts.IsNegative() {
		return NewInvalidInput(op, "housing_costs", "negative")
	}
	if r.ChildrenCount < 0 || r.ChildrenCount > MaxChildren {
		return NewInvalidInput(op, "children_count", "out_of_range")
	}
	if !r.MaritalStatus.Valid() {
		return NewInvalidInput(op, "marital_status", "unknown_value")
	}
	if r.Age != nil && (*r.Age < 0 || *r.Age > MaxAge) {
		return NewInvalidInput(op, "age", "out_of_range")
	}
	return nil
}

// RuleName identifies a rule in the trace.
type RuleName string

const (
	RuleLumpSumEligibility    RuleName = "lump_sum_eligibility"
	RuleTaxBracketProgression RuleName = "tax_bracket_progression"
)

// ThresholdRule returns the trace rule name for a benefit ceiling.
func ThresholdRule(b BenefitName) RuleName {
	return RuleName(string(b) + "_threshold")
}

// RuleEvent records a rule whose evaluation changed the outcome.
type RuleEvent struct {
	RuleName             RuleName         `json:"rule_name"`
	Triggered            bool             `json:"triggered"`
	ConditionDescription string           `json:"condition_description"`
	ImpactDescription    string           `json:"impact_description"`
	ThresholdValue       *decimal.Decimal `json:"threshold_value,omitempty"`
	Crossed              *bool            `json:"crossed,omitempty"`
}

// RuleTrace is ordered: lump-sum eligibility, bracket movement, then benefit
// thresholds in declared order.
type RuleTrace []RuleEvent

// Find returns the event for name, if present.
func (t RuleTrace) Find(name RuleName) (RuleEvent, bool) {
	for _, e := range t {
		if e.RuleName == name {
			return e, true
		}
	}
	return RuleEvent{}, false
}

// LumpSumOutcome is the financially binding lump-sum result.
type LumpSumOutcome struct {
	Eligible               bool            `json:"eligible"`
	EligibilityAge         int             `json:"eligibility_age"`
	AnnualPension          decimal.Decimal `json:"annual_pension"`
	LumpSumAmount          decimal.Decimal `json:"lump_sum_amount"`
	RemainingAnnualPension decimal.Decimal `json:"remaining_annual_pension"`
	MonthlyBefore          decimal.Decimal `json:"monthly_before"`
	MonthlyAfter           decimal.Decimal `json:"monthly_after"`
}

// BenefitStatus is the eligibility of one benefit before and after the lump sum.
type BenefitStatus struct {
	Name           BenefitName     `json:"name"`
	Ceiling        decimal.Decimal `json:"ceiling"`
	EligibleBefore bool            `json:"eligible_before"`
	EligibleAfter  bool            `json:"eligible_after"`
}

// Lost reports whether the lump sum pushed income over the ceiling.
func (s BenefitStatus) Lost() bool {
	return s.EligibleBefore && !s.EligibleAfter
}

// ScenarioResult is the fully itemized outcome of one calculation. All
// amounts are annual and rounded to cents.
type ScenarioResult struct {
	TaxYear                    int             `json:"tax_year"`
	Request                    ScenarioRequest `json:"request"`
	GrossIncome                decimal.Decimal `json:"gross_income"`
	PensionContributionAmount  decimal.Decimal `json:"pension_contribution"`
	TaxableIncomeBeforeLumpSum decimal.Decimal `json:"taxable_income_before_lump_sum"`
	TaxableIncomeWithLumpSum   decimal.Decimal `json:"taxable_income_with_lump_sum"`
	TaxBase                    decimal.Decimal `json:"tax_base"`
	TaxBaseBeforeLumpSum       decimal.Decimal `json:"tax_base_before_lump_sum"`
	IncomeTax                  decimal.Decimal `json:"income_tax"`
	IncomeTaxBeforeLumpSum     decimal.Decimal `json:"income_tax_before_lump_sum"`
	LumpSumTaxEffect           decimal.Decimal `json:"lump_sum_tax_effect"`
	EffectiveTaxRate           decimal.Decimal `json:"effective_tax_rate"`
	MarginalRate               decimal.Decimal `json:"marginal_rate"`
	AOWPremium                 decimal.Decimal `json:"aow_premium"`
	WWPremium                  decimal.Decimal `json:"ww_premium"`
	HousingAllowance           decimal.Decimal `json:"housing_allowance"`
	HealthcareSubsidy          decimal.Decimal `json:"healthcare_subsidy"`
	ChildBenefit               decimal.Decimal `json:"child_benefit"`
	TotalBenefits              decimal.Decimal `json:"total_benefits"`
	TotalDeductions            decimal.Decimal `json:"total_deductions"`
	NetIncome                  decimal.Decimal `json:"net_income"`
	NetIncomeWithLumpSum       decimal.Decimal `json:"net_income_with_lump_sum"`
	LumpSumAmount              decimal.Decimal `json:"lump_sum_amount"`
	RemainingPensionCapital    decimal.Decimal `json:"remaining_pension_capital"`
	LumpSum                    LumpSumOutcome  `json:"lump_sum"`
	Benefits                   []BenefitStatus `json:"benefits"`
	Trace                      RuleTrace       `json:"trace"`
}

// ScenarioResponse is the wire shape served by the calculation endpoint.
type ScenarioResponse struct {
	GrossIncome                decimal.Decimal `json:"gross_income"`
	IncomeTax                  decimal.Decimal `json:"income_tax"`
	TaxableIncome              decimal.Decimal `json:"taxable_income"`
	AOWPremium                 decimal.Decimal `json:"aow_premium"`
	WWPremium                  decimal.Decimal `json:"ww_premium"`
	HousingAllowance           decimal.Decimal `json:"housing_allowance"`
	HealthcareSubsidy          decimal.Decimal `json:"healthcare_subsidy"`
	ChildBenefit               decimal.Decimal `json:"child_benefit"`
	NetIncome                  decimal.Decimal `json:"net_income"`
	PensionContribution        decimal.Decimal `json:"pension_contribution"`
	TaxableIncomeBeforeLumpSum decimal.Decimal `json:"taxable_income_before_lump_sum"`
	TaxableIncomeWithLumpSum   decimal.Decimal `json:"taxable_income_with_lump_sum"`
	Trace                      *RuleTrace      `json:"trace,omitempty"`
}

// Response projects the result onto the wire shape. Trace is included only
// when withTrace is set, and then always, even when empty.
func (r *ScenarioResult) Response(withTrace bool) ScenarioResponse {
	resp := ScenarioResponse{
		GrossIncome:                r.GrossIncome,
		IncomeTax:                  r.IncomeTax,
		TaxableIncome:              r.TaxableIncomeWithLumpSum,
		AOWPremium:                 r.AOWPremium,
		WWPremium:                  r.WWPremium,
		HousingAllowance:           r.HousingAllowance,
		HealthcareSubsidy:          r.HealthcareSubsidy,
		ChildBenefit:               r.ChildBenefit,
		NetIncome:                  r.NetIncome,
		PensionContribution:        r.PensionContributionAmount,
		TaxableIncomeBeforeLumpSum: r.TaxableIncomeBeforeLumpSum,
		TaxableIncomeWithLumpSum:   r.TaxableIncomeWithLumpSum,
	}
	if withTrace {
		trace := r.Trace
		if trace == nil {
			trace = RuleTrace{}
		}
		resp.Trace = &trace
	}
	return resp
}

// NamedScenario pairs a request with a display name.
type NamedScenario struct {
	Name    string          `json:"name" yaml:"name"`
	Request ScenarioRequest `json:"request" yaml:"request"`
}
