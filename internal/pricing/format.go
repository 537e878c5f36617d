package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIDR renders an amount as Indonesian rupiah with no fraction digits
// and '.' as the thousands separator, e.g. "Rp 1.715.000".
func FormatIDR(amount decimal.Decimal) string {
	digits := amount.Round(0).Abs().StringFixed(0)

	var b strings.Builder
	b.WriteString("Rp ")
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}

	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
