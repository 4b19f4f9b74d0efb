package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// ApproachingShare is the fraction of a ceiling below it that counts as
// approaching: 10% of 42000 means anything from 37800 up.
var ApproachingShare = decimal.RequireFromString("0.10")

// EvaluateThresholds compares eligibility before and after and returns one
// event per benefit whose eligibility changed, in the order given.
func EvaluateThresholds(before, after decimal.Decimal, thresholds []domain.BenefitThreshold) ([]domain.RuleEvent, error) {
	if before.IsNegative() || after.IsNegative() {
		return nil, domain.NewInvalidInput("evaluate_thresholds", "taxable_income", "negative")
	}
	var events []domain.RuleEvent
	for _, th := range thresholds {
		eligibleBefore := th.Eligible(before)
		eligibleAfter := th.Eligible(after)
		if eligibleBefore == eligibleAfter {
			continue
		}
		events = append(events, thresholdEvent(th, after, eligibleBefore, eligibleAfter))
	}
	return events, nil
}

// BenefitStatuses reports eligibility for every threshold, before and after
// the lump sum, whether or not it changed.
func BenefitStatuses(before, after decimal.Decimal, thresholds []domain.BenefitThreshold) []domain.BenefitStatus {
	statuses := make([]domain.BenefitStatus, 0, len(thresholds))
	for _, th := range thresholds {
		statuses = append(statuses, domain.BenefitStatus{
			Name:           th.Name,
			Ceiling:        th.Ceiling,
			EligibleBefore: th.Eligible(before),
			EligibleAfter:  th.Eligible(after),
		})
	}
	return statuses
}

func thresholdEvent(th domain.BenefitThreshold, after decimal.Decimal, eligibleBefore, eligibleAfter bool) domain.RuleEvent {
	crossed := eligibleBefore && !eligibleAfter
	ceiling := th.Ceiling
	op := "<="
	if !eligibleAfter {
		op = ">"
	}
	impact := fmt.Sprintf("%s regained", th.Name)
	if crossed {
		impact = fmt.Sprintf("%s lost", th.Name)
	}
	return domain.RuleEvent{
		RuleName:             domain.ThresholdRule(th.Name),
		Triggered:            true,
		ConditionDescription: fmt.Sprintf("taxable income %s %s %s", after.StringFixed(2), op, ceiling.StringFixed(2)),
		ImpactDescription:    impact,
		ThresholdValue:       &ceiling,
		Crossed:              &crossed,
	}
}

// bracketEvent reports movement between brackets caused by the lump sum.
func bracketEvent(before, after decimal.Decimal, brackets []domain.TaxBracket) (domain.RuleEvent, bool, error) {
	from, fromIdx, err := FindBracket(before, brackets)
	if err != nil {
		return domain.RuleEvent{}, false, err
	}
	to, toIdx, err := FindBracket(after, brackets)
	if err != nil {
		return domain.RuleEvent{}, false, err
	}
	if fromIdx == toIdx {
		return domain.RuleEvent{}, false, nil
	}

	crossed := toIdx > fromIdx
	boundary := to.Min
	if !crossed {
		boundary = from.Min
	}
	return domain.RuleEvent{
		RuleName:             domain.RuleTaxBracketProgression,
		Triggered:            true,
		ConditionDescription: fmt.Sprintf("tax base %s moved from bracket %d to bracket %d", after.StringFixed(2), fromIdx+1, toIdx+1),
		ImpactDescription:    fmt.Sprintf("marginal rate %s -> %s", from.Rate.String(), to.Rate.String()),
		ThresholdValue:       &boundary,
		Crossed:              &crossed,
	}, true, nil
}

// ThresholdStatus is the position of income relative to a ceiling.
type ThresholdStatus string

const (
	StatusBelow ThresholdStatus = "BELOW"
	StatusAbove ThresholdStatus = "ABOVE"
)

// ThresholdDistance describes how far income is from one benefit ceiling.
type ThresholdDistance struct {
	Name            domain.BenefitName `json:"name"`
	Ceiling         decimal.Decimal    `json:"ceiling"`
	Distance        decimal.Decimal    `json:"distance"`         // ceiling - income; negative when above
	DistancePercent decimal.Decimal    `json:"distance_percent"` // of the ceiling
	Status          ThresholdStatus    `json:"status"`
	Approaching     bool               `json:"approaching"`
}

// ThresholdDistances reports the distance from income to every ceiling in
// declared order. Income at the ceiling counts as BELOW since it is eligible.
func ThresholdDistances(income decimal.Decimal, cfg *domain.TaxYearConfig) ([]ThresholdDistance, error) {
	if income.IsNegative() {
		return nil, domain.NewInvalidInput("threshold_distances", "taxable_income", "negative")
	}
	thresholds := cfg.OrderedThresholds()
	out := make([]ThresholdDistance, 0, len(thresholds))
	for _, th := range thresholds {
		distance := th.Ceiling.Sub(income)
		d := ThresholdDistance{
			Name:            th.Name,
			Ceiling:         th.Ceiling,
			Distance:        domain.RoundCurrency(distance),
			DistancePercent: decimal.Zero,
			Status:          StatusAbove,
		}
		if th.Ceiling.IsPositive() {
			d.DistancePercent = distance.Div(th.Ceiling).Mul(decimal.NewFromInt(100)).RoundBank(2)
		}
		if th.Eligible(income) {
			d.Status = StatusBelow
			d.Approaching = distance.LessThanOrEqual(th.Ceiling.Mul(ApproachingShare))
		}
		out = append(out, d)
	}
	return out, nil
}
