package calculation

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// BenefitAmounts are the annual allowances a household receives.
type BenefitAmounts struct {
	HealthcareSubsidy decimal.Decimal
	HousingAllowance  decimal.Decimal
	ChildBenefit      decimal.Decimal
}

// Total sums all allowances.
func (b BenefitAmounts) Total() decimal.Decimal {
	return b.HealthcareSubsidy.Add(b.HousingAllowance).Add(b.ChildBenefit)
}

// CalculateBenefits computes every allowance for taxable income. A benefit
// whose ceiling is exceeded pays nothing.
func CalculateBenefits(income decimal.Decimal, req domain.ScenarioRequest, cfg *domain.TaxYearConfig) BenefitAmounts {
	var out BenefitAmounts
	if th, ok := cfg.Threshold(domain.BenefitHealthcareAllowance); ok && th.Eligible(income) {
		out.HealthcareSubsidy = healthcareSubsidy(income, req.MaritalStatus, cfg.Benefits.Healthcare)
	}
	if th, ok := cfg.Threshold(domain.BenefitHousingAllowance); ok && th.Eligible(income) {
		out.HousingAllowance = housingAllowance(income, th.Ceiling, req, cfg.Benefits.Housing)
	}
	if th, ok := cfg.Threshold(domain.BenefitChildBenefit); ok && th.Eligible(income) {
		out.ChildBenefit = childBenefit(income, req.ChildrenCount, cfg.Benefits.Child)
	}
	return out
}

// healthcareSubsidy: base amount reduced by a share of income above the
// reduction start, floored at zero.
func healthcareSubsidy(income decimal.Decimal, status domain.MaritalStatus, r domain.HealthcareRules) decimal.Decimal {
	base := r.BaseSingle
	if status == domain.MaritalMarried {
		base = r.BaseMarried
	}
	excess := decimal.Max(decimal.Zero, income.Sub(r.ReductionStart))
	subsidy := base.Sub(excess.Mul(r.ReductionRate))
	return domain.RoundCurrency(decimal.Max(decimal.Zero, subsidy))
}

// housingAllowance covers a share of capped rent, tapering linearly to zero
// at the ceiling.
func housingAllowance(income, ceiling decimal.Decimal, req domain.ScenarioRequest, r domain.HousingRules) decimal.Decimal {
	if !req.HousingCosts.IsPositive() || !ceiling.IsPositive() {
		return decimal.Zero
	}
	maxCosts := r.MaxMonthlyCostsSingle
	if req.MaritalStatus == domain.MaritalMarried {
		maxCosts = r.MaxMonthlyCostsMarried
	}
	annualCosts := decimal.Min(req.HousingCosts, maxCosts).Mul(decimal.NewFromInt(12))
	factor := ceiling.Sub(income).Div(ceiling)
	return domain.RoundCurrency(annualCosts.Mul(factor).Mul(r.CoverageRate))
}

func childBenefit(income decimal.Decimal, children int, r domain.ChildRules) decimal.Decimal {
	if children <= 0 {
		return decimal.Zero
	}
	total := decimal.NewFromInt(int64(children)).Mul(r.PerChild)
	if income.LessThan(r.SupplementIncomeLimit) {
		total = total.Add(total.Mul(r.SupplementRate))
	}
	return domain.RoundCurrency(total)
}
