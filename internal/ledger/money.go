package ledger

import "github.com/shopspring/decimal"

// FormatAmount renders an amount with two decimals, e.g. "119.00".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMoney renders an amount as dollars, e.g. "$64.50" or "-$5.00".
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatRate renders a VAT rate as "19%".
func FormatRate(rate decimal.Decimal) string {
	return rate.String() + "%"
}
