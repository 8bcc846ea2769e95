package models

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places every amount column keeps.
const MoneyScale = 4

// FitsMoneyScale reports whether d is stored without rounding.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}
