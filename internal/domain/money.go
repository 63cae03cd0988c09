package domain

import "github.com/shopspring/decimal"

// FormatGBP renders an amount for user-facing messages: £ prefix, two
// decimal places.
func FormatGBP(amount decimal.Decimal) string {
	return "£" + amount.StringFixed(2)
}
