package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/gstflow/gstflow/internal/domain/payment"
	ierr "github.com/gstflow/gstflow/internal/errors"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.PaymentAttempt]
}

// NewInMemoryPaymentStore creates a new in-memory payment attempt store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.PaymentAttempt](),
	}
}

func copyAttempt(pa *payment.PaymentAttempt) *payment.PaymentAttempt {
	if pa == nil {
		return nil
	}
	cp := *pa
	if pa.GatewayTransactionID != nil {
		txID := *pa.GatewayTransactionID
		cp.GatewayTransactionID = &txID
	}
	if pa.PaidAt != nil {
		paidAt := *pa.PaidAt
		cp.PaidAt = &paidAt
	}
	if pa.ReminderSentAt != nil {
		sentAt := *pa.ReminderSentAt
		cp.ReminderSentAt = &sentAt
	}
	return &cp
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, attempt *payment.PaymentAttempt) error {
	if attempt == nil {
		return fmt.Errorf("payment attempt cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, attempt.ID, copyAttempt(attempt))
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.PaymentAttempt, error) {
	attempt, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment attempt not found").
			WithHintf("Payment attempt with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyAttempt(attempt), nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, attempt *payment.PaymentAttempt) error {
	if attempt == nil {
		return fmt.Errorf("payment attempt cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.items[attempt.ID]
	if !exists {
		return ierr.NewError("payment attempt not found").
			WithHintf("Payment attempt with ID %s was not found", attempt.ID).
			Mark(ierr.ErrNotFound)
	}
	// same guard the SQL update carries: a terminal attempt never moves
	if stored.PaymentStatus.IsTerminal() {
		return ierr.NewError("payment attempt was updated concurrently").
			WithHintf("Payment attempt %s is already in a terminal state", attempt.ID).
			Mark(ierr.ErrVersionConflict)
	}

	attempt.UpdatedAt = time.Now().UTC()
	s.items[attempt.ID] = copyAttempt(attempt)
	return nil
}

func (s *InMemoryPaymentStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.PaymentAttempt, error) {
	attempts, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, pa *payment.PaymentAttempt, _ interface{}) bool {
			return pa.InvoiceID == invoiceID
		},
		func(i, j *payment.PaymentAttempt) bool {
			if !i.CreatedAt.Equal(j.CreatedAt) {
				return i.CreatedAt.Before(j.CreatedAt)
			}
			return i.ID < j.ID
		})
	if err != nil {
		return nil, err
	}

	result := make([]*payment.PaymentAttempt, len(attempts))
	for i, pa := range attempts {
		result[i] = copyAttempt(pa)
	}
	return result, nil
}

func (s *InMemoryPaymentStore) GetByIdempotencyKey(ctx context.Context, key string) (*payment.PaymentAttempt, error) {
	attempts, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, pa *payment.PaymentAttempt, _ interface{}) bool {
			return pa.IdempotencyKey == key
		}, nil)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, ierr.NewError("payment attempt not found").
			WithHint("No payment attempt exists for this idempotency key").
			Mark(ierr.ErrNotFound)
	}
	return copyAttempt(attempts[0]), nil
}
