package gst

import (
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// Round2 rounds a currency amount to 2 decimal places using half-up
// rounding (0.005 rounds to 0.01). Amounts in this system are never
// negative, so decimal's round-half-away-from-zero is exactly half-up.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FinalizeTotal combines subtotal, tax breakup, discount and shipping into
// the final payable amount. The discount applies to the subtotal only; tax
// is computed on the pre-discount subtotal and added unchanged. A fixed
// discount larger than the subtotal clamps the discounted base to zero
// rather than erroring, so an over-generous discount can never produce a
// negative invoice.
func FinalizeTotal(subtotal decimal.Decimal, breakup Breakup, discount decimal.Decimal, discountType types.DiscountType, shipping decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid subtotal").
			WithHint("Subtotal must be a positive number").
			Mark(ierr.ErrValidation)
	}
	if discount.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid discount").
			WithHint("Discount must be a positive number").
			Mark(ierr.ErrValidation)
	}
	if shipping.IsNegative() {
		return decimal.Zero, ierr.NewError("invalid shipping charges").
			WithHint("Shipping charges must be a positive number").
			Mark(ierr.ErrValidation)
	}
	if err := discountType.Validate(); err != nil {
		return decimal.Zero, err
	}

	discountAmount := discount
	if discountType == types.DiscountTypePercentage {
		discountAmount = subtotal.Mul(discount).Div(hundred)
	}

	base := subtotal.Sub(discountAmount)
	if base.IsNegative() {
		base = decimal.Zero
	}

	return Round2(base.Add(shipping).Add(breakup.Total())), nil
}
