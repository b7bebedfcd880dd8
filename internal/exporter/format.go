package exporter

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders d as dollars with thousands separators and exactly
// two decimal places, e.g. "$1,234.56" or "-$12.00".
func FormatCurrency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// groupThousands inserts a comma every three digits from the right
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
