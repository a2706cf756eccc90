package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalYearLabel(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "july maps to current fiscal year",
			date:     time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC),
			expected: "2024-25",
		},
		{
			name:     "march 31 belongs to previous fiscal year",
			date:     time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
			expected: "2023-24",
		},
		{
			name:     "april 1 starts a new fiscal year",
			date:     time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			expected: "2024-25",
		},
		{
			name:     "january maps to previous calendar year label",
			date:     time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
			expected: "2024-25",
		},
		{
			name:     "century rollover keeps two digit suffix",
			date:     time.Date(2099, time.May, 1, 0, 0, 0, 0, time.UTC),
			expected: "2099-00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FiscalYearLabel(tt.date))
		})
	}
}

func TestFiscalYearWindow(t *testing.T) {
	date := time.Date(2024, time.December, 25, 12, 0, 0, 0, time.UTC)

	start := FiscalYearStart(date)
	end := FiscalYearEnd(date)

	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), end)

	// the window boundaries map back to the same label
	assert.Equal(t, FiscalYearLabel(date), FiscalYearLabel(start))
	assert.Equal(t, FiscalYearLabel(date), FiscalYearLabel(end))
}
