package dto

import (
	"github.com/gstflow/gstflow/internal/domain/payment"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/gstflow/gstflow/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePaymentLinkRequest records a payment attempt against an invoice and
// produces a gateway payment link plus QR payload
type CreatePaymentLinkRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
	// Gateway routes the attempt; the configured default is used when empty
	Gateway types.PaymentGatewayType `json:"gateway,omitempty"`
	// Amount defaults to the full invoice total when nil
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

func (r *CreatePaymentLinkRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Gateway != "" {
		if err := r.Gateway.Validate(); err != nil {
			return err
		}
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentAttemptResponse represents a payment attempt in API responses
type PaymentAttemptResponse struct {
	*payment.PaymentAttempt
}

// NewPaymentAttemptResponse creates a response from a domain attempt
func NewPaymentAttemptResponse(pa *payment.PaymentAttempt) *PaymentAttemptResponse {
	if pa == nil {
		return nil
	}
	return &PaymentAttemptResponse{PaymentAttempt: pa}
}

// ListPaymentAttemptsResponse lists the attempts recorded against an invoice
type ListPaymentAttemptsResponse struct {
	Items []*PaymentAttemptResponse `json:"items"`
	Total int                       `json:"total"`
}

// SendReminderResponse reports whether a reminder went out
type SendReminderResponse struct {
	Sent bool `json:"sent"`
}
