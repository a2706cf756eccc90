package payment

import (
	"math/rand"
	"testing"

	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func attempt(status types.PaymentStatus, amount float64) *PaymentAttempt {
	return &PaymentAttempt{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_ATTEMPT),
		InvoiceID:     "inv_test",
		Amount:        decimal.NewFromFloat(amount),
		PaymentStatus: status,
	}
}

func TestFoldStatusPartialThenPaid(t *testing.T) {
	total := decimal.NewFromFloat(1000)

	attempts := []*PaymentAttempt{attempt(types.PaymentStatusPaid, 400)}
	assert.Equal(t, types.PaymentStatusPartial, FoldStatus(attempts, total))

	attempts = append(attempts, attempt(types.PaymentStatusPaid, 600))
	assert.Equal(t, types.PaymentStatusPaid, FoldStatus(attempts, total))
}

func TestFoldStatusFailed(t *testing.T) {
	total := decimal.NewFromFloat(500)
	attempts := []*PaymentAttempt{
		attempt(types.PaymentStatusFailed, 500),
		attempt(types.PaymentStatusFailed, 500),
	}
	assert.Equal(t, types.PaymentStatusFailed, FoldStatus(attempts, total))
}

func TestFoldStatusPendingDominatesFailed(t *testing.T) {
	total := decimal.NewFromFloat(500)
	attempts := []*PaymentAttempt{
		attempt(types.PaymentStatusFailed, 500),
		attempt(types.PaymentStatusPending, 500),
	}
	assert.Equal(t, types.PaymentStatusPending, FoldStatus(attempts, total))
}

func TestFoldStatusNoAttempts(t *testing.T) {
	assert.Equal(t, types.PaymentStatusPending, FoldStatus(nil, decimal.NewFromFloat(100)))
}

func TestFoldStatusZeroTotalInvoice(t *testing.T) {
	assert.Equal(t, types.PaymentStatusPaid, FoldStatus(nil, decimal.Zero))
}

func TestFoldStatusWithinEpsilon(t *testing.T) {
	// a rounding-level shortfall still counts as fully paid
	total := decimal.NewFromFloat(100.00)
	attempts := []*PaymentAttempt{attempt(types.PaymentStatusPaid, 99.99)}
	assert.Equal(t, types.PaymentStatusPaid, FoldStatus(attempts, total))

	attempts = []*PaymentAttempt{attempt(types.PaymentStatusPaid, 99.97)}
	assert.Equal(t, types.PaymentStatusPartial, FoldStatus(attempts, total))
}

func TestFoldStatusOrderIndependent(t *testing.T) {
	total := decimal.NewFromFloat(1000)
	attempts := []*PaymentAttempt{
		attempt(types.PaymentStatusPaid, 250),
		attempt(types.PaymentStatusFailed, 250),
		attempt(types.PaymentStatusPending, 500),
		attempt(types.PaymentStatusPaid, 250),
	}

	expected := FoldStatus(attempts, total)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]*PaymentAttempt, len(attempts))
		copy(shuffled, attempts)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, expected, FoldStatus(shuffled, total))
	}
}

func TestPaidSumIgnoresNonPaid(t *testing.T) {
	attempts := []*PaymentAttempt{
		attempt(types.PaymentStatusPaid, 100),
		attempt(types.PaymentStatusPending, 200),
		attempt(types.PaymentStatusFailed, 300),
	}
	assert.True(t, PaidSum(attempts).Equal(decimal.NewFromInt(100)))
}
