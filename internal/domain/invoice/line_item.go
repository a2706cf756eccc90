package invoice

import (
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem represents a single line item in an invoice. Line items are
// owned exclusively by their invoice and are immutable once the invoice is
// finalized.
type LineItem struct {
	ID          string          `db:"id" json:"id"`
	InvoiceID   string          `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	Rate        decimal.Decimal `db:"rate" json:"rate"`
	GSTRate     decimal.Decimal `db:"gst_rate" json:"gst_rate"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	types.BaseModel
}

// Validate validates the invoice line item
func (li *LineItem) Validate() error {
	if li.Description == "" {
		return ierr.NewError("line item description is required").
			WithHint("Description is required").
			Mark(ierr.ErrValidation)
	}
	if li.Quantity < 1 {
		return ierr.NewError("invalid line item quantity").
			WithHint("Quantity must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if li.Rate.IsNegative() {
		return ierr.NewError("invalid line item rate").
			WithHint("Rate must be a positive number").
			Mark(ierr.ErrValidation)
	}
	if li.GSTRate.IsNegative() {
		return ierr.NewError("invalid line item gst rate").
			WithHint("GST rate must be a positive number").
			Mark(ierr.ErrValidation)
	}
	if !li.Amount.Equal(decimal.NewFromInt(li.Quantity).Mul(li.Rate)) {
		return ierr.NewError("line item amount does not match quantity and rate").
			WithHint("Amount must equal quantity times rate").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (li *LineItem) TableName() string {
	return "invoice_line_items"
}
