package calculation

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Box 1 brackets apply to the tax base: taxable income (gross minus the
//    pension contribution, plus any lump sum) minus the general and labour
//    tax credits, floored at zero.
//
// 2. National insurance premiums (AOW, WW) are levied on the full taxable
//    income including the lump sum. They are not capped at the first bracket.
//
// 3. Bracket tables are validated when loaded; the functions below assume a
//    contiguous partition of [0, inf).

// ProgressiveTax computes marginal-rate tax on income over an ordered bracket
// table, rounded to cents half-to-even.
func ProgressiveTax(income decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, error) {
	if income.IsNegative() {
		return decimal.Zero, domain.NewInvalidInput("progressive_tax", "taxable_income", "negative")
	}
	return domain.RoundCurrency(accumulateTax(income, brackets)), nil
}

// accumulateTax is the unrounded bracket sum.
func accumulateTax(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	for _, b := range brackets {
		if income.LessThanOrEqual(b.Min) {
			break
		}
		upper := income
		if b.Max != nil {
			upper = decimal.Min(income, *b.Max)
		}
		tax = tax.Add(upper.Sub(b.Min).Mul(b.Rate))
	}
	return tax
}

// FindBracket returns the bracket containing income and its index.
func FindBracket(income decimal.Decimal, brackets []domain.TaxBracket) (domain.TaxBracket, int, error) {
	if income.IsNegative() {
		return domain.TaxBracket{}, -1, domain.NewInvalidInput("find_bracket", "taxable_income", "negative")
	}
	for i, b := range brackets {
		if b.Contains(income) {
			return b, i, nil
		}
	}
	return domain.TaxBracket{}, -1, domain.NewConfigurationError("find_bracket", "brackets", "gap", nil)
}

// BracketSlice is the portion of income taxed in one bracket.
type BracketSlice struct {
	Bracket       domain.TaxBracket `json:"bracket"`
	TaxableAmount decimal.Decimal   `json:"taxable_amount"`
	Tax           decimal.Decimal   `json:"tax"`
}

// BracketBreakdown itemizes the tax on taxBase per bracket. Brackets the
// income does not reach are omitted.
func BracketBreakdown(taxBase decimal.Decimal, brackets []domain.TaxBracket) ([]BracketSlice, error) {
	if taxBase.IsNegative() {
		return nil, domain.NewInvalidInput("bracket_breakdown", "tax_base", "negative")
	}
	var out []BracketSlice
	for _, b := range brackets {
		if taxBase.LessThanOrEqual(b.Min) {
			break
		}
		upper := taxBase
		if b.Max != nil {
			upper = decimal.Min(taxBase, *b.Max)
		}
		amount := upper.Sub(b.Min)
		out = append(out, BracketSlice{
			Bracket:       b,
			TaxableAmount: domain.RoundCurrency(amount),
			Tax:           domain.RoundCurrency(amount.Mul(b.Rate)),
		})
	}
	return out, nil
}

// TaxBase subtracts the yearly tax credits from taxable income, floored at zero.
func TaxBase(taxable decimal.Decimal, allowances domain.TaxAllowances) decimal.Decimal {
	base := taxable.Sub(allowances.Total())
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}

// Premiums returns the AOW and WW premiums on taxable income.
func Premiums(taxable decimal.Decimal, rates domain.PremiumRates) (aow, ww decimal.Decimal) {
	aow = domain.RoundCurrency(taxable.Mul(rates.AOWRate))
	ww = domain.RoundCurrency(taxable.Mul(rates.WWRate))
	return aow, ww
}
