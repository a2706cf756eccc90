package service

import (
	"context"
	"time"

	"github.com/gstflow/gstflow/internal/domain/payment"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/gateway"
	"github.com/gstflow/gstflow/internal/types"
)

// maxReconcileRetries bounds the optimistic-lock retry loop when concurrent
// notifications land on the same invoice
const maxReconcileRetries = 3

// ReconciliationService applies normalized gateway notifications to payment
// attempts and keeps the invoice's payment status consistent with the full
// attempt history.
type ReconciliationService interface {
	// ApplyNotification transitions the referenced attempt to the notified
	// state and re-derives the invoice payment status. It is idempotent: a
	// duplicate of an already applied terminal notification is a no-op. A
	// notification that contradicts an earlier terminal state fails with
	// ErrConflictingNotification and the earlier state wins.
	ApplyNotification(ctx context.Context, n *gateway.Notification) error
}

type reconciliationService struct {
	ServiceParams
}

func NewReconciliationService(params ServiceParams) ReconciliationService {
	return &reconciliationService{ServiceParams: params}
}

func (s *reconciliationService) ApplyNotification(ctx context.Context, n *gateway.Notification) error {
	if n == nil || n.AttemptID == "" {
		return ierr.NewError("notification has no attempt reference").
			WithHint("Gateway notification must reference a payment attempt").
			Mark(ierr.ErrValidation)
	}
	if !n.Status.IsTerminal() {
		return ierr.NewError("notification status is not terminal").
			WithHintf("Gateway notifications must report PAID or FAILED, got '%s'", n.Status).
			Mark(ierr.ErrValidation)
	}

	var invoiceID string
	for i := 0; i < maxReconcileRetries; i++ {
		attempt, err := s.PaymentRepo.Get(ctx, n.AttemptID)
		if err != nil {
			return err
		}
		invoiceID = attempt.InvoiceID

		if attempt.PaymentStatus.IsTerminal() {
			if attempt.PaymentStatus == n.Status {
				// replayed webhook; the first delivery already applied it.
				// Still re-fold the invoice in case that delivery died
				// before persisting the derived status.
				s.Logger.Debugw("duplicate gateway notification ignored",
					"attempt_id", attempt.ID,
					"status", n.Status)
				return s.reconcileInvoice(ctx, attempt.InvoiceID)
			}
			s.Logger.Warnw("conflicting gateway notification rejected",
				"attempt_id", attempt.ID,
				"recorded_status", attempt.PaymentStatus,
				"notified_status", n.Status)
			return ierr.NewError("notification conflicts with recorded attempt state").
				WithHintf("Attempt is already %s and cannot become %s", attempt.PaymentStatus, n.Status).
				WithReportableDetails(map[string]any{
					"attempt_id":      attempt.ID,
					"recorded_status": attempt.PaymentStatus,
					"notified_status": n.Status,
				}).
				Mark(ierr.ErrConflictingNotification)
		}

		attempt.PaymentStatus = n.Status
		if n.GatewayTransactionID != nil {
			attempt.GatewayTransactionID = n.GatewayTransactionID
		}
		if n.Status == types.PaymentStatusPaid {
			now := time.Now().UTC()
			attempt.PaidAt = &now
		}

		err = s.PaymentRepo.Update(ctx, attempt)
		if err == nil {
			s.Logger.Infow("applied gateway notification",
				"attempt_id", attempt.ID,
				"invoice_id", attempt.InvoiceID,
				"status", n.Status)
			return s.reconcileInvoice(ctx, attempt.InvoiceID)
		}
		// a concurrent notification finalized the attempt between our read
		// and write; re-read so the first writer's state decides duplicate
		// versus conflict
		if !ierr.IsVersionConflict(err) {
			return err
		}
	}

	return ierr.NewError("notification conflicts with recorded attempt state").
		WithHintf("Attempt %s kept changing concurrently", n.AttemptID).
		WithReportableDetails(map[string]any{
			"attempt_id": n.AttemptID,
			"invoice_id": invoiceID,
		}).
		Mark(ierr.ErrConflictingNotification)
}

// reconcileInvoice folds the full attempt history into the invoice's payment
// status and persists it under the optimistic version check, retrying when a
// concurrent reconciliation got there first. Each retry re-reads both the
// invoice and the attempts, so the last write still reflects every applied
// notification.
func (s *reconciliationService) reconcileInvoice(ctx context.Context, invoiceID string) error {
	var lastErr error
	for i := 0; i < maxReconcileRetries; i++ {
		inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}

		attempts, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		derived := payment.FoldStatus(attempts, inv.Total)
		if derived == inv.PaymentStatus {
			return nil
		}

		inv.PaymentStatus = derived
		err = s.InvoiceRepo.Update(ctx, inv)
		if err == nil {
			s.Logger.Infow("reconciled invoice payment status",
				"invoice_id", inv.ID,
				"payment_status", derived)
			return nil
		}
		if !ierr.IsVersionConflict(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
