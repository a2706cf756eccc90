package invoice

import (
	"time"

	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/gst"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model. Amounts are finalized at
// creation time and immutable afterwards; only PaymentStatus and Version
// change as payments reconcile.
type Invoice struct {
	ID                  string              `db:"id" json:"id"`
	InvoiceNumber       string              `db:"invoice_number" json:"invoice_number"`
	IssuerID            string              `db:"issuer_id" json:"issuer_id"`
	CustomerID          string              `db:"customer_id" json:"customer_id"`
	InvoiceDate         time.Time           `db:"invoice_date" json:"invoice_date"`
	DueDate             *time.Time          `db:"due_date" json:"due_date,omitempty"`
	Currency            string              `db:"currency" json:"currency"`
	IsSameState         bool                `db:"is_same_state" json:"is_same_state"`
	Subtotal            decimal.Decimal     `db:"subtotal" json:"subtotal"`
	CGST                decimal.Decimal     `db:"cgst" json:"cgst"`
	SGST                decimal.Decimal     `db:"sgst" json:"sgst"`
	IGST                decimal.Decimal     `db:"igst" json:"igst"`
	Discount            decimal.Decimal     `db:"discount" json:"discount"`
	DiscountType        types.DiscountType  `db:"discount_type" json:"discount_type"`
	ShippingCharges     decimal.Decimal     `db:"shipping_charges" json:"shipping_charges"`
	Total               decimal.Decimal     `db:"total" json:"total"`
	PaymentStatus       types.PaymentStatus `db:"payment_status" json:"payment_status"`
	Notes               string              `db:"notes" json:"notes,omitempty"`
	TermsAndConditions  string              `db:"terms_and_conditions" json:"terms_and_conditions,omitempty"`
	PaymentInstructions string              `db:"payment_instructions" json:"payment_instructions,omitempty"`
	Metadata            types.Metadata      `db:"metadata" json:"metadata,omitempty"`
	LineItems           []*LineItem         `db:"-" json:"line_items,omitempty"`
	Version             int                 `db:"version" json:"version"`
	types.BaseModel
}

// GSTItems projects the line items into the calculator's input type
func (i *Invoice) GSTItems() []gst.Item {
	items := make([]gst.Item, len(i.LineItems))
	for idx, li := range i.LineItems {
		items[idx] = gst.Item{
			Quantity: decimal.NewFromInt(li.Quantity),
			Rate:     li.Rate,
			GSTRate:  li.GSTRate,
		}
	}
	return items
}

// Validate checks the structural and financial invariants of a finalized
// invoice
func (i *Invoice) Validate() error {
	if i.IssuerID == "" {
		return ierr.NewError("issuer id is required").
			WithHint("Issuer ID is required").
			Mark(ierr.ErrValidation)
	}
	if i.CustomerID == "" {
		return ierr.NewError("customer id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}
	if i.InvoiceNumber == "" {
		return ierr.NewError("invoice number is required").
			WithHint("Invoice number is required").
			Mark(ierr.ErrValidation)
	}
	if len(i.LineItems) == 0 {
		return ierr.NewError("invoice has no line items").
			WithHint("An invoice requires at least one line item").
			Mark(ierr.ErrValidation)
	}
	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if err := i.PaymentStatus.Validate(); err != nil {
		return err
	}

	// tax components are mutually exclusive by jurisdiction
	if i.IsSameState {
		if !i.IGST.IsZero() {
			return ierr.NewError("igst must be zero for same state invoices").
				WithHint("Intra-state invoices carry CGST and SGST only").
				Mark(ierr.ErrValidation)
		}
	} else {
		if !i.CGST.IsZero() || !i.SGST.IsZero() {
			return ierr.NewError("cgst and sgst must be zero for inter state invoices").
				WithHint("Inter-state invoices carry IGST only").
				Mark(ierr.ErrValidation)
		}
	}

	// the stored total must re-derive from the stored components
	breakup := gst.Breakup{CGST: i.CGST, SGST: i.SGST, IGST: i.IGST}
	expected, err := gst.FinalizeTotal(i.Subtotal, breakup, i.Discount, i.DiscountType, i.ShippingCharges)
	if err != nil {
		return err
	}
	if !i.Total.Equal(expected) {
		return ierr.NewError("invoice total does not match its components").
			WithHint("Invoice total is inconsistent").
			WithReportableDetails(map[string]any{
				"total":    i.Total,
				"expected": expected,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (i *Invoice) TableName() string {
	return "invoices"
}
