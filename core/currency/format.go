package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount for display in the es-BO locale: dot-separated
// thousands, comma decimals, two decimal places. Display only; formatted
// strings are never stored or compared.
func Format(amount decimal.Decimal, code Code) string {
	switch code {
	case BOB:
		return "Bs " + localize(amount)
	default:
		return "USDT " + localize(amount)
	}
}

// localize produces "1.234.567,89" from a decimal amount
func localize(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
