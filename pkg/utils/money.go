package utils

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places stored for currency amounts
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount half away from zero to currency precision
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// PercentOf returns pct percent of amount, unrounded
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// Average divides total by count rounded to currency precision; zero when count is zero
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return RoundMoney(total.Div(decimal.NewFromInt(int64(count))))
}
