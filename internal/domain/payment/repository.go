package payment

import (
	"context"
)

// Repository defines the interface for payment attempt persistence.
// Attempts are append-and-update only; there is deliberately no delete.
type Repository interface {
	// Create stores a new payment attempt
	Create(ctx context.Context, attempt *PaymentAttempt) error

	// Get retrieves a payment attempt by ID
	Get(ctx context.Context, id string) (*PaymentAttempt, error)

	// Update persists mutations to an existing attempt
	Update(ctx context.Context, attempt *PaymentAttempt) error

	// ListByInvoice returns all attempts recorded against an invoice in
	// creation order
	ListByInvoice(ctx context.Context, invoiceID string) ([]*PaymentAttempt, error)

	// GetByIdempotencyKey retrieves an attempt by idempotency key
	GetByIdempotencyKey(ctx context.Context, key string) (*PaymentAttempt, error)
}
