package notification

import (
	"context"

	"github.com/gstflow/gstflow/internal/domain/invoice"
	"github.com/gstflow/gstflow/internal/domain/payment"
	"github.com/gstflow/gstflow/internal/logger"
)

// Dispatcher delivers payment reminders to customers. The core only flags
// pending attempts; actual email/SMS transport lives behind this interface.
type Dispatcher interface {
	SendPaymentReminder(ctx context.Context, inv *invoice.Invoice, attempts []*payment.PaymentAttempt) error
}

// logDispatcher is the default dispatcher: it records the handoff and does
// nothing else. Real transports replace it at wiring time.
type logDispatcher struct {
	logger *logger.Logger
}

func NewLogDispatcher(logger *logger.Logger) Dispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) SendPaymentReminder(ctx context.Context, inv *invoice.Invoice, attempts []*payment.PaymentAttempt) error {
	refs := make([]string, 0, len(attempts))
	for _, pa := range attempts {
		refs = append(refs, pa.ReceiptRef)
	}
	d.logger.Infow("payment reminder dispatched",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"pending_attempts", len(attempts),
		"receipt_refs", refs,
	)
	return nil
}
