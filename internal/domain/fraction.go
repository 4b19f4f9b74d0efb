package domain

import "github.com/shopspring/decimal"

var (
	hundred      = decimal.NewFromInt(100)
	lumpSumScale = decimal.NewFromInt(LumpSumSelectorMax)
	monthsInYear = decimal.NewFromInt(12)
)

// Fraction is a share of an amount in [0, 1]. Request percentages use two
// different scales (0-100 for the pension contribution, 0-10 for the lump
// sum) and are converted to a Fraction once, at the request boundary.
type Fraction struct {
	value decimal.Decimal
}

// FractionFromPercent converts a 0-100 percentage.
func FractionFromPercent(p decimal.Decimal) Fraction {
	return Fraction{value: p.Div(hundred)}
}

// FractionFromLumpSumSelector converts the 0-10 lump-sum selector. A selector
// of 10 takes the whole annual pension.
func FractionFromLumpSumSelector(s decimal.Decimal) Fraction {
	return Fraction{value: s.Div(lumpSumScale)}
}

// Of applies the fraction to amount without rounding.
func (f Fraction) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(f.value)
}

// Decimal returns the fraction as a 0-1 decimal.
func (f Fraction) Decimal() decimal.Decimal {
	return f.value
}

func (f Fraction) IsZero() bool {
	return f.value.IsZero()
}

// RoundCurrency rounds to cents using round-half-to-even.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Monthly divides an annual amount by twelve and rounds to cents.
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return RoundCurrency(annual.Div(monthsInYear))
}
