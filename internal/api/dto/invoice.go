package dto

import (
	"time"

	"github.com/gstflow/gstflow/internal/domain/invoice"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/gst"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/gstflow/gstflow/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceLineItemRequest is one billable line of a new invoice
type CreateInvoiceLineItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	Rate        decimal.Decimal `json:"rate" validate:"required"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
}

// CreateInvoiceRequest creates a finalized invoice with tax applied and an
// allocated invoice number
type CreateInvoiceRequest struct {
	IssuerID            string                         `json:"issuer_id" validate:"required"`
	CustomerID          string                         `json:"customer_id" validate:"required"`
	InvoiceDate         *time.Time                     `json:"invoice_date,omitempty"`
	DueDate             *time.Time                     `json:"due_date,omitempty"`
	Currency            string                         `json:"currency,omitempty"`
	IsSameState         bool                           `json:"is_same_state"`
	Discount            decimal.Decimal                `json:"discount"`
	DiscountType        types.DiscountType             `json:"discount_type,omitempty"`
	ShippingCharges     decimal.Decimal                `json:"shipping_charges"`
	Notes               string                         `json:"notes,omitempty"`
	TermsAndConditions  string                         `json:"terms_and_conditions,omitempty"`
	PaymentInstructions string                         `json:"payment_instructions,omitempty"`
	Metadata            types.Metadata                 `json:"metadata,omitempty"`
	LineItems           []CreateInvoiceLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	for _, item := range r.LineItems {
		if item.Rate.IsNegative() {
			return ierr.NewError("line item rate cannot be negative").
				WithHint("Rate must be zero or greater").
				Mark(ierr.ErrValidation)
		}
		if item.GSTRate.IsNegative() {
			return ierr.NewError("line item gst rate cannot be negative").
				WithHint("GST rate must be zero or greater").
				Mark(ierr.ErrValidation)
		}
	}
	if r.Discount.IsNegative() {
		return ierr.NewError("discount cannot be negative").
			WithHint("Discount must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	if r.ShippingCharges.IsNegative() {
		return ierr.NewError("shipping charges cannot be negative").
			WithHint("Shipping charges must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	// an omitted type means a flat discount
	if r.DiscountType == "" {
		r.DiscountType = types.DiscountTypeFixed
	}
	if err := r.DiscountType.Validate(); err != nil {
		return err
	}
	return nil
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	*invoice.Invoice
	AmountInWords string `json:"amount_in_words,omitempty"`
}

// NewInvoiceResponse creates a response from a domain invoice
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	return &InvoiceResponse{
		Invoice:       inv,
		AmountInWords: gst.AmountInWords(inv.Total),
	}
}

// ListInvoicesResponse is the paginated invoice list
type ListInvoicesResponse struct {
	Items  []*InvoiceResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// NextInvoiceNumberResponse previews the next invoice number without
// consuming it
type NextInvoiceNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	FiscalYear    string `json:"fiscal_year"`
}

// PaymentStatusResponse reports the reconciled payment position of an invoice
type PaymentStatusResponse struct {
	InvoiceID     string              `json:"invoice_id"`
	InvoiceNumber string              `json:"invoice_number"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	Total         decimal.Decimal     `json:"total"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	AmountDue     decimal.Decimal     `json:"amount_due"`
	AttemptCount  int                 `json:"attempt_count"`
}
