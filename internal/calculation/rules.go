package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// RuleStep is one intermediate value in a rule explanation.
type RuleStep struct {
	Step        string           `json:"step"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Calculation string           `json:"calculation,omitempty"`
}

// RuleExplanation shows how one rule produced its figure for a scenario.
type RuleExplanation struct {
	Rule   domain.RuleDefinition  `json:"rule"`
	Input  domain.ScenarioRequest `json:"input"`
	Steps  []RuleStep             `json:"steps"`
	Result decimal.Decimal        `json:"result"`
}

// ImpactKind says whether a rule lowers or raises net income.
type ImpactKind string

const (
	ImpactDeduction ImpactKind = "deduction"
	ImpactBenefit   ImpactKind = "benefit"
)

// RuleImpact is the amount one rule moved net income by.
type RuleImpact struct {
	Rule   domain.RuleDefinition `json:"rule"`
	Impact decimal.Decimal       `json:"impact"`
	Kind   ImpactKind            `json:"type"`
}

func step(name string, amount decimal.Decimal, calc string) RuleStep {
	a := amount
	return RuleStep{Step: name, Amount: &a, Calculation: calc}
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// ExplainRule lists the steps rule id took for a calculated scenario. The
// rule must be in the tax year's catalog.
func ExplainRule(cfg *domain.TaxYearConfig, res *domain.ScenarioResult, id string) (*RuleExplanation, error) {
	rule, ok := cfg.Rules.Rule(id)
	if !ok {
		return nil, domain.NewInvalidInput("explain_rule", "rule", "unknown_value")
	}
	out := &RuleExplanation{Rule: rule, Input: res.Request}
	withLump := res.TaxableIncomeWithLumpSum

	switch id {
	case domain.RulePensionContribution:
		pct := res.Request.PensionContributionPercentage
		out.Steps = []RuleStep{
			step("Gross income", res.GrossIncome, ""),
			step("Apply contribution rate", res.PensionContributionAmount,
				fmt.Sprintf("%s × %s%%", money(res.GrossIncome), pct.String())),
		}
		out.Result = res.PensionContributionAmount

	case domain.RuleLumpSum:
		lump := res.LumpSum
		gate := "not eligible"
		if lump.Eligible {
			gate = "eligible"
		}
		out.Steps = []RuleStep{
			step("Annual pension", lump.AnnualPension, ""),
			{Step: "Check eligibility age", Calculation: fmt.Sprintf("age %d >= %d: %s",
				res.Request.EffectiveAge(), lump.EligibilityAge, gate)},
			step("Apply selector", lump.LumpSumAmount,
				fmt.Sprintf("%s × %s/%d", money(lump.AnnualPension), res.Request.LumpSumPercentage.String(), domain.LumpSumSelectorMax)),
			step("Remaining annual pension", lump.RemainingAnnualPension, ""),
		}
		out.Result = lump.LumpSumAmount

	case domain.RuleTaxBase:
		out.Steps = []RuleStep{
			step("Taxable income before lump sum", res.TaxableIncomeBeforeLumpSum, ""),
			step("Add lump sum", res.LumpSumAmount, ""),
			step("Subtract tax allowances", cfg.Allowances.Total(),
				fmt.Sprintf("general %s + labour %s", money(cfg.Allowances.General), money(cfg.Allowances.Labour))),
		}
		out.Result = res.TaxBase

	case domain.RuleIncomeTax:
		slices, err := BracketBreakdown(res.TaxBase, cfg.Brackets)
		if err != nil {
			return nil, err
		}
		out.Steps = []RuleStep{step("Tax base", res.TaxBase, "")}
		for i, s := range slices {
			if !s.TaxableAmount.IsPositive() {
				continue
			}
			out.Steps = append(out.Steps, step(fmt.Sprintf("Bracket %d", i+1), s.Tax,
				fmt.Sprintf("%s × %s", money(s.TaxableAmount), percent(s.Bracket.Rate))))
		}
		out.Result = res.IncomeTax

	case domain.RuleAOWPremium:
		out.Steps = []RuleStep{
			step("Taxable income with lump sum", withLump, ""),
			step("Apply AOW rate", res.AOWPremium, fmt.Sprintf("%s × %s", money(withLump), cfg.Premiums.AOWRate.String())),
		}
		out.Result = res.AOWPremium

	case domain.RuleWWPremium:
		out.Steps = []RuleStep{
			step("Taxable income with lump sum", withLump, ""),
			step("Apply WW rate", res.WWPremium, fmt.Sprintf("%s × %s", money(withLump), cfg.Premiums.WWRate.String())),
		}
		out.Result = res.WWPremium

	case domain.RuleNetIncome:
		out.Steps = []RuleStep{
			step("Gross income", res.GrossIncome, ""),
			step("Less pension contribution", res.PensionContributionAmount.Neg(), ""),
			step("Less income tax", res.IncomeTax.Neg(), ""),
			step("Less AOW premium", res.AOWPremium.Neg(), ""),
			step("Less WW premium", res.WWPremium.Neg(), ""),
			step("Plus benefits", res.TotalBenefits, ""),
		}
		if res.LumpSumAmount.IsPositive() {
			out.Steps = append(out.Steps, step("Lump sum paid on top", res.NetIncomeWithLumpSum,
				fmt.Sprintf("%s + %s", money(res.NetIncome), money(res.LumpSumAmount))))
		}
		out.Result = res.NetIncome

	default:
		name := domain.BenefitName(id)
		th, ok := cfg.Threshold(name)
		if !ok {
			return nil, domain.NewInvalidInput("explain_rule", "rule", "unknown_value")
		}
		verdict := "not eligible"
		if th.Eligible(withLump) {
			verdict = "eligible"
		}
		amount := benefitAmount(res, name)
		out.Steps = []RuleStep{
			step("Taxable income with lump sum", withLump, ""),
			step("Compare with ceiling", th.Ceiling, fmt.Sprintf("%s <= %s: %s", money(withLump), money(th.Ceiling), verdict)),
			step("Annual amount", amount, ""),
		}
		out.Result = amount
	}
	return out, nil
}

func benefitAmount(res *domain.ScenarioResult, name domain.BenefitName) decimal.Decimal {
	switch name {
	case domain.BenefitHealthcareAllowance:
		return res.HealthcareSubsidy
	case domain.BenefitHousingAllowance:
		return res.HousingAllowance
	case domain.BenefitChildBenefit:
		return res.ChildBenefit
	}
	return decimal.Zero
}

// RuleImpacts lists, in catalog order, every rule that moves net income
// directly. Intermediate rules (lump sum, tax base, net income) are skipped.
func RuleImpacts(cfg *domain.TaxYearConfig, res *domain.ScenarioResult) []RuleImpact {
	var out []RuleImpact
	for _, r := range cfg.Rules {
		var impact RuleImpact
		switch r.ID {
		case domain.RulePensionContribution:
			impact = RuleImpact{Impact: res.PensionContributionAmount, Kind: ImpactDeduction}
		case domain.RuleIncomeTax:
			impact = RuleImpact{Impact: res.IncomeTax, Kind: ImpactDeduction}
		case domain.RuleAOWPremium:
			impact = RuleImpact{Impact: res.AOWPremium, Kind: ImpactDeduction}
		case domain.RuleWWPremium:
			impact = RuleImpact{Impact: res.WWPremium, Kind: ImpactDeduction}
		default:
			if !domain.KnownBenefit(domain.BenefitName(r.ID)) {
				continue
			}
			impact = RuleImpact{Impact: benefitAmount(res, domain.BenefitName(r.ID)), Kind: ImpactBenefit}
		}
		impact.Rule = r
		out = append(out, impact)
	}
	return out
}
