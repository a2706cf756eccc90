package payment

import (
	"time"

	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// PaymentAttempt represents one gateway-initiated request to collect money
// against an invoice. Attempts form the invoice's audit trail and are never
// deleted; only ReconciliationService mutates them after creation.
type PaymentAttempt struct {
	ID string `db:"id" json:"id"`
	// InvoiceID is a non-owning back-reference to the invoice being paid
	InvoiceID string `db:"invoice_id" json:"invoice_id"`
	// IdempotencyKey prevents duplicate attempt creation for the same
	// logical payment-link request
	IdempotencyKey string `db:"idempotency_key" json:"idempotency_key"`
	// ReceiptRef is the short human-facing reference quoted on receipts
	// and payment reminders
	ReceiptRef     string                  `db:"receipt_ref" json:"receipt_ref"`
	Amount         decimal.Decimal         `db:"amount" json:"amount"`
	PaymentStatus  types.PaymentStatus     `db:"payment_status" json:"payment_status"`
	PaymentMethod  types.PaymentMethodType `db:"payment_method" json:"payment_method"`
	// Gateway names the gateway this attempt was routed through
	Gateway types.PaymentGatewayType `db:"gateway" json:"gateway"`
	// PaymentLink is the hosted checkout URL handed to the customer
	PaymentLink string `db:"payment_link" json:"payment_link"`
	// QRPayload is the raw payload to encode as a QR code (a UPI intent
	// URI or the hosted link itself)
	QRPayload string `db:"qr_payload" json:"qr_payload"`
	// GatewayTransactionID is the transaction reference reported by the
	// gateway once the attempt reaches a terminal state
	GatewayTransactionID *string    `db:"gateway_transaction_id" json:"gateway_transaction_id,omitempty"`
	PaidAt               *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	ReminderSentAt       *time.Time `db:"reminder_sent_at" json:"reminder_sent_at,omitempty"`
	types.BaseModel
}

// Validate validates the payment attempt
func (pa *PaymentAttempt) Validate() error {
	if pa.InvoiceID == "" {
		return ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}
	if pa.Amount.IsZero() || pa.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if err := pa.PaymentStatus.ValidateForAttempt(); err != nil {
		return err
	}
	if err := pa.Gateway.Validate(); err != nil {
		return err
	}
	return nil
}

func (pa *PaymentAttempt) TableName() string {
	return "payment_attempts"
}
