package types

import "github.com/shopspring/decimal"

// FormatBRL renders an amount the way the storefront displays prices,
// e.g. "R$ 115.00".
func FormatBRL(amount decimal.Decimal) string {
	return "R$ " + amount.StringFixed(2)
}
