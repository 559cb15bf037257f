package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money builds a whole-unit amount
func Money(units int64) decimal.Decimal {
	return decimal.NewFromInt(units)
}

// FormatMoney renders an amount as $1,234,567.89
func FormatMoney(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}
