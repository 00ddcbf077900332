// Package amountwords spells rupee amounts in English using the Indian
// numbering system (crore, lakh, thousand, hundred).
//
// The output is embedded in printed quotations, so the exact spacing and
// the bare "Zero" result for a zero amount must not change.
package amountwords

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	crore    = 10000000
	lakh     = 100000
	thousand = 1000
	hundred  = 100
)

var single = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}

var teens = [...]string{
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen",
	"Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

// Rupees renders amount as "<words> Rupees[ and <words> Paise]".
// Negative amounts are spelled as their absolute value.
func Rupees(amount decimal.Decimal) string {
	amount = amount.Abs()
	if amount.IsZero() {
		return "Zero"
	}

	fraction := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart() % 100
	rupees := amount.Truncate(0).IntPart()

	out := strings.TrimSpace(groups(rupees) + "Rupees")
	if fraction > 0 {
		out += " and " + FormatTenth(int(fraction)) + " Paise"
	}
	return strings.TrimSpace(out)
}

// FormatTenth spells 0-99. Zero is the empty string.
func FormatTenth(n int) string {
	switch {
	case n < 0 || n > 99:
		return ""
	case n < 10:
		return single[n]
	case n < 20:
		return teens[n-10]
	case n%10 == 0:
		return tens[n/10]
	default:
		return tens[n/10] + " " + single[n%10]
	}
}

// groups peels crore, lakh, thousand and hundred off n in that order. Each
// non-zero group ends with a trailing space.
func groups(n int64) string {
	var b strings.Builder

	if c := n / crore; c > 0 {
		if c > 99 {
			// Counts beyond 99 crore are spelled with the same grouping.
			b.WriteString(strings.TrimSpace(groups(c)))
		} else {
			b.WriteString(FormatTenth(int(c)))
		}
		b.WriteString(" Crore ")
		n %= crore
	}
	if l := n / lakh; l > 0 {
		b.WriteString(FormatTenth(int(l)))
		b.WriteString(" Lakh ")
		n %= lakh
	}
	if t := n / thousand; t > 0 {
		b.WriteString(FormatTenth(int(t)))
		b.WriteString(" Thousand ")
		n %= thousand
	}
	if h := n / hundred; h > 0 {
		b.WriteString(single[h])
		b.WriteString(" Hundred ")
		n %= hundred
	}
	if n > 0 {
		b.WriteString(FormatTenth(int(n)))
		b.WriteString(" ")
	}
	return b.String()
}
