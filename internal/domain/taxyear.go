package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BenefitName identifies an income-dependent allowance.
type BenefitName string

const (
	BenefitHealthcareAllowance BenefitName = "healthcare_allowance"
	BenefitHousingAllowance    BenefitName = "housing_allowance"
	BenefitChildBenefit        BenefitName = "child_benefit"
)

// BenefitOrder returns the declared evaluation and display order.
func BenefitOrder() []BenefitName {
	return []BenefitName{BenefitHealthcareAllowance, BenefitHousingAllowance, BenefitChildBenefit}
}

// KnownBenefit reports whether name is a recognized benefit.
func KnownBenefit(name BenefitName) bool {
	for _, b := range BenefitOrder() {
		if b == name {
			return true
		}
	}
	return false
}

// TaxBracket is the half-open range [Min, Max) taxed at Rate. A nil Max
// marks the unbounded top bracket.
type TaxBracket struct {
	Min  decimal.Decimal  `yaml:"min" json:"min"`
	Max  *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

func (b TaxBracket) Unbounded() bool {
	return b.Max == nil
}

// Contains reports whether income falls in [Min, Max).
func (b TaxBracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || income.LessThan(*b.Max)
}

// BenefitThreshold is a single income ceiling; income <= Ceiling is eligible.
type BenefitThreshold struct {
	Name    BenefitName     `yaml:"name" json:"name"`
	Ceiling decimal.Decimal `yaml:"ceiling" json:"ceiling"`
}

func (t BenefitThreshold) Eligible(income decimal.Decimal) bool {
	return income.LessThanOrEqual(t.Ceiling)
}

// TaxAllowances are deducted from taxable income before the bracket table.
type TaxAllowances struct {
	General decimal.Decimal `yaml:"general" json:"general"`
	Labour  decimal.Decimal `yaml:"labour" json:"labour"`
}

// Total returns the combined allowance.
func (a TaxAllowances) Total() decimal.Decimal {
	return a.General.Add(a.Labour)
}

// PremiumRates are the national insurance premium rates.
type PremiumRates struct {
	AOWRate decimal.Decimal `yaml:"aow_rate" json:"aow_rate"`
	WWRate  decimal.Decimal `yaml:"ww_rate" json:"ww_rate"`
}

// LumpSumRules gates the lump-sum withdrawal.
type LumpSumRules struct {
	EligibilityAge int `yaml:"eligibility_age" json:"eligibility_age"`
}

// HealthcareRules parameterizes the healthcare allowance (zorgtoeslag).
type HealthcareRules struct {
	BaseSingle     decimal.Decimal `yaml:"base_single" json:"base_single"`
	BaseMarried    decimal.Decimal `yaml:"base_married" json:"base_married"`
	ReductionStart decimal.Decimal `yaml:"reduction_start" json:"reduction_start"`
	ReductionRate  decimal.Decimal `yaml:"reduction_rate" json:"reduction_rate"`
}

// HousingRules parameterizes the housing allowance (huurtoeslag).
type HousingRules struct {
	MaxMonthlyCostsSingle  decimal.Decimal `yaml:"max_monthly_costs_single" json:"max_monthly_costs_single"`
	MaxMonthlyCostsMarried decimal.Decimal `yaml:"max_monthly_costs_married" json:"max_monthly_costs_married"`
	CoverageRate           decimal.Decimal `yaml:"coverage_rate" json:"coverage_rate"`
}

// ChildRules parameterizes the child benefit (kindgebonden budget).
type ChildRules struct {
	PerChild              decimal.Decimal `yaml:"per_child" json:"per_child"`
	SupplementRate        decimal.Decimal `yaml:"supplement_rate" json:"supplement_rate"`
	SupplementIncomeLimit decimal.Decimal `yaml:"supplement_income_limit" json:"supplement_income_limit"`
}

type BenefitRules struct {
	Healthcare HealthcareRules `yaml:"healthcare" json:"healthcare"`
	Housing    HousingRules    `yaml:"housing" json:"housing"`
	Child      ChildRules      `yaml:"child" json:"child"`
}

// TaxYearConfig holds every constant for one tax year. It is loaded once and
// only read afterwards.
type TaxYearConfig struct {
	Year        int                             `yaml:"year" json:"year"`
	Description string                          `yaml:"description,omitempty" json:"description,omitempty"`
	Brackets    []TaxBracket                    `yaml:"brackets" json:"brackets"`
	Thresholds  map[BenefitName]decimal.Decimal `yaml:"thresholds" json:"thresholds"`
	Allowances  TaxAllowances                   `yaml:"allowances" json:"allowances"`
	Premiums    PremiumRates                    `yaml:"premiums" json:"premiums"`
	LumpSum     LumpSumRules                    `yaml:"lump_sum" json:"lump_sum"`
	Benefits    BenefitRules                    `yaml:"benefits" json:"benefits"`
	Rules       RuleCatalog                     `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// OrderedThresholds returns the ceilings in declared benefit order. Names
// missing from the table are skipped; validation rejects that case at load.
func (c *TaxYearConfig) OrderedThresholds() []BenefitThreshold {
	out := make([]BenefitThreshold, 0, len(c.Thresholds))
	for _, name := range BenefitOrder() {
		if ceiling, ok := c.Thresholds[name]; ok {
			out = append(out, BenefitThreshold{Name: name, Ceiling: ceiling})
		}
	}
	return out
}

// Threshold returns the ceiling for name.
func (c *TaxYearConfig) Threshold(name BenefitName) (BenefitThreshold, bool) {
	ceiling, ok := c.Thresholds[name]
	return BenefitThreshold{Name: name, Ceiling: ceiling}, ok
}

// Validate checks the bracket partition invariant, the threshold table and the
// rule catalog.
func (c *TaxYearConfig) Validate() error {
	const op = "validate_tax_year"
	if c.Year <= 0 {
		return NewConfigurationError(op, "year", "missing", nil)
	}
	if len(c.Brackets) == 0 {
		return NewConfigurationError(op, "brackets", "missing", nil)
	}
	if !c.Brackets[0].Min.IsZero() {
		return NewConfigurationError(op, bracketField(0), "gap", nil)
	}
	for i, b := range c.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return NewConfigurationError(op, bracketField(i), "rate_out_of_range", nil)
		}
		last := i == len(c.Brackets)-1
		if b.Max == nil {
			if !last {
				return NewConfigurationError(op, bracketField(i), "unbounded_not_last", nil)
			}
			continue
		}
		if last {
			return NewConfigurationError(op, bracketField(i), "bounded_last", nil)
		}
		if !b.Max.GreaterThan(b.Min) {
			return NewConfigurationError(op, bracketField(i), "empty_range", nil)
		}
		next := c.Brackets[i+1].Min
		switch {
		case next.GreaterThan(*b.Max):
			return NewConfigurationError(op, bracketField(i+1), "gap", nil)
		case next.LessThan(*b.Max):
			return NewConfigurationError(op, bracketField(i+1), "overlap", nil)
		}
	}

	names := make([]string, 0, len(c.Thresholds))
	for name := range c.Thresholds {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, n := range names {
		if !KnownBenefit(BenefitName(n)) {
			return NewConfigurationError(op, "thresholds."+n, "unknown_value", nil)
		}
		if c.Thresholds[BenefitName(n)].IsNegative() {
			return NewConfigurationError(op, "thresholds."+n, "negative", nil)
		}
	}
	for _, name := range BenefitOrder() {
		if _, ok := c.Thresholds[name]; !ok {
			return NewConfigurationError(op, "thresholds."+string(name), "missing", nil)
		}
	}

	if c.LumpSum.EligibilityAge <= 0 || c.LumpSum.EligibilityAge > MaxAge {
		return NewConfigurationError(op, "lump_sum.eligibility_age", "out_of_range", nil)
	}
	if c.Allowances.General.IsNegative() || c.Allowances.Labour.IsNegative() {
		return NewConfigurationError(op, "allowances", "negative", nil)
	}
	if c.Premiums.AOWRate.IsNegative() || c.Premiums.WWRate.IsNegative() {
		return NewConfigurationError(op, "premiums", "negative", nil)
	}
	return c.Rules.Validate()
}
