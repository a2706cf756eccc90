package gst

import (
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/shopspring/decimal"
)

// Item is the minimal view of an invoice line item needed for tax
// calculation
type Item struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	GSTRate  decimal.Decimal
}

// Amount returns quantity * rate at full precision
func (i Item) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.Rate)
}

// Breakup holds the GST split for an invoice. For intra-state supplies the
// tax is split equally between CGST and SGST; for inter-state supplies the
// whole tax accumulates into IGST. The two modes are mutually exclusive.
type Breakup struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Total returns the summed tax across all components
func (b Breakup) Total() decimal.Decimal {
	return b.CGST.Add(b.SGST).Add(b.IGST)
}

var two = decimal.NewFromInt(2)
var hundred = decimal.NewFromInt(100)

// Calculate computes the GST breakup for a set of line items. It is pure
// and keeps full decimal precision; rounding happens once, in FinalizeTotal.
func Calculate(items []Item, sameState bool) (Breakup, error) {
	if len(items) == 0 {
		return Breakup{}, ierr.NewError("no line items").
			WithHint("An invoice requires at least one line item").
			Mark(ierr.ErrValidation)
	}

	breakup := Breakup{
		CGST: decimal.Zero,
		SGST: decimal.Zero,
		IGST: decimal.Zero,
	}

	for i, item := range items {
		if item.Quantity.LessThan(decimal.NewFromInt(1)) {
			return Breakup{}, ierr.NewError("invalid quantity").
				WithHint("Quantity must be at least 1").
				WithReportableDetails(map[string]any{
					"line":     i,
					"quantity": item.Quantity,
				}).
				Mark(ierr.ErrValidation)
		}
		if item.Rate.IsNegative() {
			return Breakup{}, ierr.NewError("invalid rate").
				WithHint("Rate must be a positive number").
				WithReportableDetails(map[string]any{
					"line": i,
					"rate": item.Rate,
				}).
				Mark(ierr.ErrValidation)
		}
		if item.GSTRate.IsNegative() {
			return Breakup{}, ierr.NewError("invalid gst rate").
				WithHint("GST rate must be a positive number").
				WithReportableDetails(map[string]any{
					"line":     i,
					"gst_rate": item.GSTRate,
				}).
				Mark(ierr.ErrValidation)
		}

		itemTax := item.Amount().Mul(item.GSTRate).Div(hundred)
		if sameState {
			half := itemTax.Div(two)
			breakup.CGST = breakup.CGST.Add(half)
			breakup.SGST = breakup.SGST.Add(half)
		} else {
			breakup.IGST = breakup.IGST.Add(itemTax)
		}
	}

	return breakup, nil
}

// Subtotal returns the pre-tax, pre-discount sum of item amounts
func Subtotal(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}
	return subtotal
}
