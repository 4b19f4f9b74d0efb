package transform

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	selectorMax = decimal.NewFromInt(domain.LumpSumSelectorMax)
)

// SetLumpSum sets the 0-10 lump-sum selector.
type SetLumpSum struct {
	Selector decimal.Decimal
}

func (t *SetLumpSum) Name() string { return "set_lump_sum" }

func (t *SetLumpSum) Description() string {
	return fmt.Sprintf("Withdraw %s/10 of the annual pension as a lump sum", t.Selector.String())
}

func (t *SetLumpSum) Validate(domain.ScenarioRequest) error {
	if t.Selector.IsNegative() || t.Selector.GreaterThan(selectorMax) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("selector must be within 0-10, got %s", t.Selector), nil)
	}
	return nil
}

func (t *SetLumpSum) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	base.LumpSumPercentage = t.Selector
	return base, nil
}

// SetPensionPercentage sets the pension contribution percentage.
type SetPensionPercentage struct {
	Percent decimal.Decimal
}

func (t *SetPensionPercentage) Name() string { return "set_pension_percentage" }

func (t *SetPensionPercentage) Description() string {
	return fmt.Sprintf("Contribute %s%% of gross income to the pension", t.Percent.String())
}

func (t *SetPensionPercentage) Validate(domain.ScenarioRequest) error {
	if t.Percent.IsNegative() || t.Percent.GreaterThan(hundred) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("percent must be within 0-100, got %s", t.Percent), nil)
	}
	return nil
}

func (t *SetPensionPercentage) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	base.PensionContributionPercentage = t.Percent
	return base, nil
}

// AdjustPensionPercentage adds Delta percentage points to the contribution.
type AdjustPensionPercentage struct {
	Delta decimal.Decimal
}

func (t *AdjustPensionPercentage) Name() string { return "adjust_pension_percentage" }

func (t *AdjustPensionPercentage) Description() string {
	return fmt.Sprintf("Change the pension contribution by %s percentage points", t.Delta.String())
}

func (t *AdjustPensionPercentage) Validate(base domain.ScenarioRequest) error {
	next := base.PensionContributionPercentage.Add(t.Delta)
	if next.IsNegative() || next.GreaterThan(hundred) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("resulting percentage %s is outside 0-100", next), nil)
	}
	return nil
}

func (t *AdjustPensionPercentage) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	base.PensionContributionPercentage = base.PensionContributionPercentage.Add(t.Delta)
	return base, nil
}

// SetAge sets the age used for the lump-sum gate.
type SetAge struct {
	Age int
}

func (t *SetAge) Name() string { return "set_age" }

func (t *SetAge) Description() string { return fmt.Sprintf("Evaluate at age %d", t.Age) }

func (t *SetAge) Validate(domain.ScenarioRequest) error {
	if t.Age < 0 || t.Age > domain.MaxAge {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("age must be within 0-%d, got %d", domain.MaxAge, t.Age), nil)
	}
	return nil
}

func (t *SetAge) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	return base.WithAge(t.Age), nil
}

// AdjustIncome changes gross income by a fixed amount and/or a percentage.
// The percentage is applied first.
type AdjustIncome struct {
	Amount  decimal.Decimal
	Percent decimal.Decimal
}

func (t *AdjustIncome) Name() string { return "adjust_income" }

func (t *AdjustIncome) Description() string {
	switch {
	case !t.Percent.IsZero() && !t.Amount.IsZero():
		return fmt.Sprintf("Change gross income by %s%% and %s", t.Percent, t.Amount)
	case !t.Percent.IsZero():
		return fmt.Sprintf("Change gross income by %s%%", t.Percent)
	default:
		return fmt.Sprintf("Change gross income by %s", t.Amount)
	}
}

func (t *AdjustIncome) adjusted(base domain.ScenarioRequest) decimal.Decimal {
	factor := hundred.Add(t.Percent).Div(hundred)
	return domain.RoundCurrency(base.GrossIncome.Mul(factor).Add(t.Amount))
}

func (t *AdjustIncome) Validate(base domain.ScenarioRequest) error {
	if next := t.adjusted(base); next.IsNegative() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("resulting income %s is negative", next), nil)
	}
	return nil
}

func (t *AdjustIncome) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	base.GrossIncome = t.adjusted(base)
	return base, nil
}

// SetMaritalStatus switches between single and partner allowances.
type SetMaritalStatus struct {
	Status domain.MaritalStatus
}

func (t *SetMaritalStatus) Name() string { return "set_marital_status" }

func (t *SetMaritalStatus) Description() string {
	return fmt.Sprintf("Set marital status to %s", t.Status)
}

func (t *SetMaritalStatus) Validate(domain.ScenarioRequest) error {
	if !t.Status.Valid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown marital status %q", t.Status), nil)
	}
	return nil
}

func (t *SetMaritalStatus) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	base.MaritalStatus = t.Status
	return base, nil
}

// SetChildren sets the number of children.
type SetChildren struct {
	Count int
}

func (t *SetChildren) Name() string { return "set_children" }

func (t *SetChildren) Description() string { return fmt.Sprintf("Set children to %d", t.Count) }

func (t *SetChildren) Validate(domain.ScenarioRequest) error {
	if t.Count < 0 || t.Count > domain.MaxChildren {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("children must be within 0-%d, got %d", domain.MaxChildren, t.Count), nil)
	}
	return nil
}

func (t *SetChildren) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	base.ChildrenCount = t.Count
	return base, nil
}

// SetHousingCosts sets the monthly housing costs.
type SetHousingCosts struct {
	Monthly decimal.Decimal
}

func (t *SetHousingCosts) Name() string { return "set_housing_costs" }

func (t *SetHousingCosts) Description() string {
	return fmt.Sprintf("Set monthly housing costs to %s", t.Monthly.StringFixed(2))
}

func (t *SetHousingCosts) Validate(domain.ScenarioRequest) error {
	if t.Monthly.IsNegative() {
		return NewTransformError(t.Name(), "validate", "housing costs cannot be negative", nil)
	}
	return nil
}

func (t *SetHousingCosts) Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	base.HousingCosts = t.Monthly
	return base, nil
}
