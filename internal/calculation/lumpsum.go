package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// EvaluateLumpSum computes the binding lump-sum withdrawal for req. When the
// requested age is below eligibilityAge the withdrawal is zero whatever the
// selector says.
func EvaluateLumpSum(req domain.ScenarioRequest, eligibilityAge int) (domain.LumpSumOutcome, error) {
	if req.GrossIncome.IsNegative() {
		return domain.LumpSumOutcome{}, domain.NewInvalidInput("evaluate_lump_sum", "gross_income", "negative")
	}
	if req.PensionContributionPercentage.IsNegative() || req.PensionContributionPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return domain.LumpSumOutcome{}, domain.NewInvalidInput("evaluate_lump_sum", "pension_contribution_percentage", "out_of_range")
	}
	if req.LumpSumPercentage.IsNegative() || req.LumpSumPercentage.GreaterThan(decimal.NewFromInt(domain.LumpSumSelectorMax)) {
		return domain.LumpSumOutcome{}, domain.NewInvalidInput("evaluate_lump_sum", "lump_sum_percentage", "out_of_range")
	}

	annual := domain.RoundCurrency(req.PensionFraction().Of(req.GrossIncome))
	out := domain.LumpSumOutcome{
		Eligible:       req.EffectiveAge() >= eligibilityAge,
		EligibilityAge: eligibilityAge,
		AnnualPension:  annual,
		LumpSumAmount:  decimal.Zero,
	}
	if out.Eligible {
		out.LumpSumAmount = domain.RoundCurrency(req.LumpSumFraction().Of(annual))
	}
	out.RemainingAnnualPension = annual.Sub(out.LumpSumAmount)
	out.MonthlyBefore = domain.Monthly(annual)
	out.MonthlyAfter = domain.Monthly(out.RemainingAnnualPension)
	return out, nil
}

// lumpSumEvent reports the eligibility gate. It is emitted only when a
// non-zero selector was requested, since otherwise the gate changes nothing.
func lumpSumEvent(req domain.ScenarioRequest, out domain.LumpSumOutcome) (domain.RuleEvent, bool) {
	if !req.LumpSumPercentage.IsPositive() {
		return domain.RuleEvent{}, false
	}
	age := decimal.NewFromInt(int64(out.EligibilityAge))
	ev := domain.RuleEvent{
		RuleName:             domain.RuleLumpSumEligibility,
		Triggered:            out.Eligible,
		ConditionDescription: fmt.Sprintf("age %d >= %d", req.EffectiveAge(), out.EligibilityAge),
		ThresholdValue:       &age,
	}
	if out.Eligible {
		ev.ImpactDescription = fmt.Sprintf("lump sum %s withdrawn, annual pension reduced to %s",
			out.LumpSumAmount.StringFixed(2), out.RemainingAnnualPension.StringFixed(2))
	} else {
		ev.ImpactDescription = "lump sum not applied, age below eligibility age"
	}
	return ev, true
}
