package payroll

import "github.com/shopspring/decimal"

type taxBracket struct {
	upTo *decimal.Decimal // nil for the open top bracket
	base decimal.Decimal  // tax owed at the bracket's lower bound
	from decimal.Decimal  // lower bound
	rate decimal.Decimal
}

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

var taxBrackets = []taxBracket{
	{upTo: ptr(mustDec("5000000")), base: mustDec("0"), from: mustDec("0"), rate: mustDec("0")},
	{upTo: ptr(mustDec("10000000")), base: mustDec("0"), from: mustDec("5000000"), rate: mustDec("0.05")},
	{upTo: ptr(mustDec("18000000")), base: mustDec("250000"), from: mustDec("10000000"), rate: mustDec("0.10")},
	{upTo: ptr(mustDec("32000000")), base: mustDec("1050000"), from: mustDec("18000000"), rate: mustDec("0.15")},
	{upTo: ptr(mustDec("52000000")), base: mustDec("3150000"), from: mustDec("32000000"), rate: mustDec("0.20")},
	{upTo: ptr(mustDec("80000000")), base: mustDec("7150000"), from: mustDec("52000000"), rate: mustDec("0.25")},
	{upTo: nil, base: mustDec("14150000"), from: mustDec("80000000"), rate: mustDec("0.30")},
}

// Tax is the progressive income tax on a month's taxable income. Income at or
// below the first threshold, including negative income, is untaxed.
func Tax(income decimal.Decimal) decimal.Decimal {
	for _, b := range taxBrackets {
		if b.upTo == nil || income.LessThanOrEqual(*b.upTo) {
			if b.rate.IsZero() {
				return decimal.Zero
			}
			return b.base.Add(income.Sub(b.from).Mul(b.rate)).Round(CurrencyScale)
		}
	}
	return decimal.Zero
}
