package gst

import (
	"testing"

	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeTotalPercentageDiscount(t *testing.T) {
	// subtotal 1000, 10% discount -> base 900; shipping 50;
	// same-state tax 90 (45+45) computed on the pre-discount subtotal;
	// total = 900 + 50 + 90 = 1040.00
	subtotal := decimal.NewFromInt(1000)
	breakup := Breakup{
		CGST: decimal.NewFromInt(45),
		SGST: decimal.NewFromInt(45),
		IGST: decimal.Zero,
	}

	total, err := FinalizeTotal(subtotal, breakup, decimal.NewFromInt(10), types.DiscountTypePercentage, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1040)), "got %s", total)
}

func TestFinalizeTotalFixedDiscount(t *testing.T) {
	total, err := FinalizeTotal(
		decimal.NewFromInt(500),
		Breakup{IGST: decimal.NewFromInt(90)},
		decimal.NewFromInt(100),
		types.DiscountTypeFixed,
		decimal.Zero,
	)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(490)), "got %s", total)
}

func TestFinalizeTotalClampsOversizedFixedDiscount(t *testing.T) {
	// a fixed discount larger than the subtotal clamps the base at zero
	total, err := FinalizeTotal(
		decimal.NewFromInt(100),
		Breakup{IGST: decimal.NewFromInt(18)},
		decimal.NewFromInt(500),
		types.DiscountTypeFixed,
		decimal.NewFromInt(40),
	)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(58)), "got %s", total)
}

func TestFinalizeTotalRoundsHalfUp(t *testing.T) {
	total, err := FinalizeTotal(
		decimal.NewFromFloat(100.005),
		Breakup{},
		decimal.Zero,
		types.DiscountTypeFixed,
		decimal.Zero,
	)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(100.01)), "got %s", total)
}

func TestFinalizeTotalIdempotent(t *testing.T) {
	subtotal := decimal.NewFromFloat(1234.56)
	breakup := Breakup{
		CGST: decimal.NewFromFloat(111.1104),
		SGST: decimal.NewFromFloat(111.1104),
	}

	first, err := FinalizeTotal(subtotal, breakup, decimal.NewFromFloat(7.5), types.DiscountTypePercentage, decimal.NewFromFloat(49.99))
	require.NoError(t, err)
	second, err := FinalizeTotal(subtotal, breakup, decimal.NewFromFloat(7.5), types.DiscountTypePercentage, decimal.NewFromFloat(49.99))
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestFinalizeTotalInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		discount decimal.Decimal
		dtype    types.DiscountType
		shipping decimal.Decimal
	}{
		{
			name:     "negative discount",
			discount: decimal.NewFromInt(-5),
			dtype:    types.DiscountTypeFixed,
			shipping: decimal.Zero,
		},
		{
			name:     "negative shipping",
			discount: decimal.Zero,
			dtype:    types.DiscountTypeFixed,
			shipping: decimal.NewFromInt(-10),
		},
		{
			name:     "unknown discount type",
			discount: decimal.Zero,
			dtype:    types.DiscountType("bogus"),
			shipping: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FinalizeTotal(decimal.NewFromInt(100), Breakup{}, tt.discount, tt.dtype, tt.shipping)
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}
