package gst

import (
	"testing"

	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(qty int64, rate, gstRate float64) Item {
	return Item{
		Quantity: decimal.NewFromInt(qty),
		Rate:     decimal.NewFromFloat(rate),
		GSTRate:  decimal.NewFromFloat(gstRate),
	}
}

func TestCalculateSameState(t *testing.T) {
	items := []Item{
		item(2, 500, 18), // amount 1000, tax 180
		item(1, 200, 12), // amount 200, tax 24
	}

	breakup, err := Calculate(items, true)
	require.NoError(t, err)

	// split equally between CGST and SGST, nothing in IGST
	assert.True(t, breakup.CGST.Equal(breakup.SGST), "CGST %s != SGST %s", breakup.CGST, breakup.SGST)
	assert.True(t, breakup.IGST.IsZero())
	assert.True(t, breakup.CGST.Equal(decimal.NewFromFloat(102)), "got %s", breakup.CGST)
	assert.True(t, breakup.Total().Equal(decimal.NewFromFloat(204)))
}

func TestCalculateInterState(t *testing.T) {
	items := []Item{
		item(2, 500, 18),
		item(1, 200, 12),
	}

	breakup, err := Calculate(items, false)
	require.NoError(t, err)

	assert.True(t, breakup.CGST.IsZero())
	assert.True(t, breakup.SGST.IsZero())
	assert.True(t, breakup.IGST.Equal(decimal.NewFromFloat(204)), "got %s", breakup.IGST)
}

func TestCalculateConservation(t *testing.T) {
	// the split never changes the total tax amount
	items := []Item{
		item(3, 333.33, 18),
		item(7, 0.01, 5),
		item(1, 999.99, 28),
	}

	expected := decimal.Zero
	for _, it := range items {
		expected = expected.Add(it.Amount().Mul(it.GSTRate).Div(decimal.NewFromInt(100)))
	}

	epsilon := decimal.NewFromFloat(0.01)
	for _, sameState := range []bool{true, false} {
		breakup, err := Calculate(items, sameState)
		require.NoError(t, err)
		diff := breakup.Total().Sub(expected).Abs()
		assert.True(t, diff.LessThanOrEqual(epsilon),
			"sameState=%v: total %s, expected %s", sameState, breakup.Total(), expected)
	}
}

func TestCalculateInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{name: "empty items", items: []Item{}},
		{name: "zero quantity", items: []Item{item(0, 100, 18)}},
		{name: "negative rate", items: []Item{item(1, -100, 18)}},
		{name: "negative gst rate", items: []Item{item(1, 100, -18)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.items, true)
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []Item{
		item(2, 500, 18),
		item(1, 200, 12),
	}
	assert.True(t, Subtotal(items).Equal(decimal.NewFromInt(1200)))
}
