package payroll

import (
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// TaxBracket applies Rate to the whole annual income when it is at most UpTo.
// A nil UpTo is the open top bracket.
type TaxBracket struct {
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

// TaxBrackets is a flat lookup table ordered by UpTo ascending, open bracket last.
// Rates are not layered across ranges: a single rate applies to the whole income.
type TaxBrackets []TaxBracket

func bracketLimit(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultTaxBrackets: <=50,000 at 15%, <=100,000 at 25%, above at 35%.
var DefaultTaxBrackets = TaxBrackets{
	{UpTo: bracketLimit(50000), Rate: decimal.RequireFromString("0.15")},
	{UpTo: bracketLimit(100000), Rate: decimal.RequireFromString("0.25")},
	{UpTo: nil, Rate: decimal.RequireFromString("0.35")},
}

// RateFor returns the rate of the first bracket that holds annualIncome.
func (b TaxBrackets) RateFor(annualIncome decimal.Decimal) decimal.Decimal {
	for _, bracket := range b {
		if bracket.UpTo == nil || annualIncome.LessThanOrEqual(*bracket.UpTo) {
			return bracket.Rate
		}
	}
	if len(b) == 0 {
		return decimal.Zero
	}
	return b[len(b)-1].Rate
}

// MonthlyTax annualizes monthlyGross, applies the bracket rate and scales back
// to one month. Non-positive income is not taxed.
func (b TaxBrackets) MonthlyTax(monthlyGross decimal.Decimal) decimal.Decimal {
	if !monthlyGross.IsPositive() {
		return decimal.Zero
	}
	annual := monthlyGross.Mul(monthsPerYear)
	return annual.Mul(b.RateFor(annual)).Div(monthsPerYear)
}

// TaxCalculator maps a monthly gross to its monthly tax.
type TaxCalculator interface {
	MonthlyTax(monthlyGross decimal.Decimal) decimal.Decimal
}
