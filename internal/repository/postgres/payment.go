package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/gstflow/gstflow/internal/domain/payment"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/logger"
	"github.com/gstflow/gstflow/internal/postgres"
	"github.com/gstflow/gstflow/internal/types"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

const attemptColumns = `id, invoice_id, idempotency_key, receipt_ref, amount,
	payment_status, payment_method, gateway, payment_link, qr_payload,
	gateway_transaction_id, paid_at, reminder_sent_at, tenant_id, status,
	created_at, updated_at, created_by, updated_by`

func (r *paymentRepository) Create(ctx context.Context, attempt *payment.PaymentAttempt) error {
	q := r.db.GetQuerier(ctx)

	_, err := q.ExecContext(ctx, `
		INSERT INTO payment_attempts (`+attemptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		attempt.ID, attempt.InvoiceID, attempt.IdempotencyKey, attempt.ReceiptRef,
		attempt.Amount, attempt.PaymentStatus, attempt.PaymentMethod, attempt.Gateway,
		attempt.PaymentLink, attempt.QRPayload, attempt.GatewayTransactionID,
		attempt.PaidAt, attempt.ReminderSentAt, attempt.TenantID, attempt.Status,
		attempt.CreatedAt, attempt.UpdatedAt, attempt.CreatedBy, attempt.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment attempt").
			WithReportableDetails(map[string]any{
				"invoice_id": attempt.InvoiceID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.PaymentAttempt, error) {
	q := r.db.GetQuerier(ctx)

	var attempt payment.PaymentAttempt
	err := q.GetContext(ctx, &attempt, `
		SELECT `+attemptColumns+`
		FROM payment_attempts
		WHERE id = $1 AND status != $2`, id, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("payment attempt not found").
			WithHintf("Payment attempt with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment attempt").
			Mark(ierr.ErrDatabase)
	}
	return &attempt, nil
}

func (r *paymentRepository) Update(ctx context.Context, attempt *payment.PaymentAttempt) error {
	q := r.db.GetQuerier(ctx)

	attempt.UpdatedAt = time.Now().UTC()
	// the stored row must still be non-terminal: once an attempt is PAID or
	// FAILED no write may move it, so a concurrent webhook that got there
	// first makes this a conflict rather than an overwrite
	res, err := q.ExecContext(ctx, `
		UPDATE payment_attempts
		SET payment_status = $1, gateway_transaction_id = $2, paid_at = $3,
			reminder_sent_at = $4, updated_at = $5, updated_by = $6
		WHERE id = $7 AND status != $8 AND payment_status NOT IN ($9, $10)`,
		attempt.PaymentStatus, attempt.GatewayTransactionID, attempt.PaidAt,
		attempt.ReminderSentAt, attempt.UpdatedAt, attempt.UpdatedBy,
		attempt.ID, types.StatusDeleted,
		types.PaymentStatusPaid, types.PaymentStatusFailed,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update payment attempt").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update payment attempt").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		// distinguish a missing row from one another writer finalized
		if _, getErr := r.Get(ctx, attempt.ID); getErr != nil {
			return getErr
		}
		return ierr.NewError("payment attempt was updated concurrently").
			WithHintf("Payment attempt %s is already in a terminal state", attempt.ID).
			Mark(ierr.ErrVersionConflict)
	}
	return nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.PaymentAttempt, error) {
	q := r.db.GetQuerier(ctx)

	var attempts []*payment.PaymentAttempt
	err := q.SelectContext(ctx, &attempts, `
		SELECT `+attemptColumns+`
		FROM payment_attempts
		WHERE invoice_id = $1 AND status != $2
		ORDER BY created_at, id`, invoiceID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment attempts").
			Mark(ierr.ErrDatabase)
	}
	return attempts, nil
}

func (r *paymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*payment.PaymentAttempt, error) {
	q := r.db.GetQuerier(ctx)

	var attempt payment.PaymentAttempt
	err := q.GetContext(ctx, &attempt, `
		SELECT `+attemptColumns+`
		FROM payment_attempts
		WHERE idempotency_key = $1 AND status != $2`, key, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("payment attempt not found").
			WithHint("No payment attempt exists for this idempotency key").
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment attempt").
			Mark(ierr.ErrDatabase)
	}
	return &attempt, nil
}
