package gst

import (
	"github.com/shopspring/decimal"
)

var (
	singles = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens   = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens    = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

func formatTens(n int64) string {
	switch {
	case n < 10:
		return singles[n]
	case n < 20:
		return teens[n-10]
	default:
		s := tens[n/10]
		if n%10 != 0 {
			s += " " + singles[n%10]
		}
		return s
	}
}

// formatNumber spells out n using the Indian numbering system. Amounts past
// a crore recurse on the crore count, so "1 Arab" reads as "One Hundred Crore".
func formatNumber(n int64) string {
	switch {
	case n < 100:
		return formatTens(n)
	case n < 1000:
		s := singles[n/100] + " Hundred"
		if n%100 != 0 {
			s += " " + formatTens(n%100)
		}
		return s
	case n < 100000:
		s := formatNumber(n/1000) + " Thousand"
		if n%1000 != 0 {
			s += " " + formatNumber(n%1000)
		}
		return s
	case n < 10000000:
		s := formatNumber(n/100000) + " Lakh"
		if n%100000 != 0 {
			s += " " + formatNumber(n%100000)
		}
		return s
	default:
		s := formatNumber(n/10000000) + " Crore"
		if n%10000000 != 0 {
			s += " " + formatNumber(n%10000000)
		}
		return s
	}
}

// AmountInWords spells out a rupee amount using the Indian numbering system
// (lakh, crore), e.g. 1040.50 -> "One Thousand Forty Rupees and Fifty Paise
// Only". Used when rendering the printed invoice.
func AmountInWords(amount decimal.Decimal) string {
	rounded := Round2(amount)
	rupees := rounded.IntPart()
	paise := rounded.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	if rupees == 0 {
		if paise > 0 {
			return "Zero Rupees and " + formatTens(paise) + " Paise Only"
		}
		return "Zero Rupees Only"
	}

	words := formatNumber(rupees) + " Rupees"
	if paise > 0 {
		words += " and " + formatTens(paise) + " Paise"
	}
	return words + " Only"
}
