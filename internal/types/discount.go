package types

import (
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/samber/lo"
)

// DiscountType determines how an invoice discount is applied to the subtotal
type DiscountType string

const (
	// DiscountTypeFixed subtracts a flat amount from the subtotal
	DiscountTypeFixed DiscountType = "fixed"
	// DiscountTypePercentage subtracts subtotal * value / 100
	DiscountTypePercentage DiscountType = "percentage"
)

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) Validate() error {
	allowed := []DiscountType{
		DiscountTypeFixed,
		DiscountTypePercentage,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid discount type").
			WithHint("Discount type must be fixed or percentage").
			Mark(ierr.ErrValidation)
	}
	return nil
}
