package common

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the display currency for provider prices.
const DefaultCurrency = money.USD

// FormatMoney renders amount in the currency's display form, e.g. "$1,234.50".
// Amounts are rounded to the currency's minor unit.
func FormatMoney(amount float64, currency string) string {
	// money.New never returns a nil currency; unknown codes get a generic one
	cur := *money.New(0, currency).Currency()
	minor := decimal.NewFromFloat(amount).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
