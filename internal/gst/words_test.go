package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "Zero Rupees Only"},
		{0.50, "Zero Rupees and Fifty Paise Only"},
		{7, "Seven Rupees Only"},
		{42, "Forty Two Rupees Only"},
		{1040, "One Thousand Forty Rupees Only"},
		{1040.25, "One Thousand Forty Rupees and Twenty Five Paise Only"},
		{999, "Nine Hundred Ninety Nine Rupees Only"},
		{250000, "Two Lakh Fifty Thousand Rupees Only"},
		{30000000, "Three Crore Rupees Only"},
		{1000000000, "One Hundred Crore Rupees Only"},
		{2513400000, "Two Hundred Fifty One Crore Thirty Four Lakh Rupees Only"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, AmountInWords(decimal.NewFromFloat(tt.amount)))
		})
	}
}
