package service

import (
	"context"
	"time"

	"github.com/gstflow/gstflow/internal/api/dto"
	"github.com/gstflow/gstflow/internal/domain/payment"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/idempotency"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// PaymentService records payment attempts and produces gateway payment links
type PaymentService interface {
	CreatePaymentLink(ctx context.Context, req *dto.CreatePaymentLinkRequest) (*dto.PaymentAttemptResponse, error)
	GetPaymentAttempt(ctx context.Context, id string) (*dto.PaymentAttemptResponse, error)
	ListPaymentAttempts(ctx context.Context, invoiceID string) (*dto.ListPaymentAttemptsResponse, error)
	SendReminder(ctx context.Context, invoiceID string) (*dto.SendReminderResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

// CreatePaymentLink records a pending payment attempt against an invoice and
// hands back the gateway's hosted link and QR payload. Repeating the same
// request returns the already recorded attempt instead of creating a new one.
func (s *paymentService) CreatePaymentLink(ctx context.Context, req *dto.CreatePaymentLinkRequest) (*dto.PaymentAttemptResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	if inv.PaymentStatus == types.PaymentStatusPaid {
		return nil, ierr.NewError("invoice is already paid").
			WithHint("Cannot create a payment link for a paid invoice").
			Mark(ierr.ErrInvalidOperation)
	}

	gatewayType := req.Gateway
	if gatewayType == "" {
		gatewayType = s.GatewayFactory.DefaultGateway()
	}

	amount := s.amountDue(ctx, inv.ID, inv.Total)
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !amount.IsPositive() {
		return nil, ierr.NewError("nothing left to collect").
			WithHint("The invoice has no outstanding amount").
			Mark(ierr.ErrInvalidOperation)
	}

	idempKey := s.IdempGen.GenerateKey(idempotency.ScopePaymentLink, map[string]interface{}{
		"invoice_id": inv.ID,
		"gateway":    string(gatewayType),
		"amount":     amount.String(),
	})
	if existing, err := s.PaymentRepo.GetByIdempotencyKey(ctx, idempKey); err == nil {
		if !existing.PaymentStatus.IsTerminal() {
			return dto.NewPaymentAttemptResponse(existing), nil
		}
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	attempt := &payment.PaymentAttempt{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_ATTEMPT),
		InvoiceID:      inv.ID,
		IdempotencyKey: idempKey,
		ReceiptRef:     types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		Amount:         amount,
		PaymentStatus:  types.PaymentStatusPending,
		PaymentMethod:  types.PaymentMethodTypeUPI,
		Gateway:        gatewayType,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	generator, err := s.GatewayFactory.GetGateway(gatewayType)
	if err != nil {
		return nil, err
	}
	link, err := generator.GeneratePaymentLink(ctx, inv, attempt.ID, amount)
	if err != nil {
		return nil, err
	}
	attempt.PaymentLink = link.Link
	attempt.QRPayload = link.QRPayload

	if err := attempt.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	s.Logger.Infow("created payment link",
		"attempt_id", attempt.ID,
		"invoice_id", inv.ID,
		"gateway", gatewayType,
		"amount", amount)

	return dto.NewPaymentAttemptResponse(attempt), nil
}

func (s *paymentService) GetPaymentAttempt(ctx context.Context, id string) (*dto.PaymentAttemptResponse, error) {
	if id == "" {
		return nil, ierr.NewError("payment attempt id is required").
			WithHint("Payment attempt ID is required").
			Mark(ierr.ErrValidation)
	}

	attempt, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentAttemptResponse(attempt), nil
}

func (s *paymentService) ListPaymentAttempts(ctx context.Context, invoiceID string) (*dto.ListPaymentAttemptsResponse, error) {
	if _, err := s.InvoiceRepo.Get(ctx, invoiceID); err != nil {
		return nil, err
	}

	attempts, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentAttemptResponse, len(attempts))
	for i, pa := range attempts {
		items[i] = dto.NewPaymentAttemptResponse(pa)
	}
	return &dto.ListPaymentAttemptsResponse{Items: items, Total: len(items)}, nil
}

// SendReminder stamps ReminderSentAt on every pending attempt and hands the
// invoice to the notification dispatcher. Returns false when there is nothing
// pending to remind about.
func (s *paymentService) SendReminder(ctx context.Context, invoiceID string) (*dto.SendReminderResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var pending []*payment.PaymentAttempt
	for _, pa := range attempts {
		if pa.PaymentStatus == types.PaymentStatusPending {
			pending = append(pending, pa)
		}
	}
	if len(pending) == 0 {
		return &dto.SendReminderResponse{Sent: false}, nil
	}

	for _, pa := range pending {
		pa.ReminderSentAt = &now
		if err := s.PaymentRepo.Update(ctx, pa); err != nil {
			return nil, err
		}
	}

	if err := s.Dispatcher.SendPaymentReminder(ctx, inv, pending); err != nil {
		return nil, err
	}

	s.Logger.Infow("sent payment reminder",
		"invoice_id", invoiceID,
		"pending_attempts", len(pending))

	return &dto.SendReminderResponse{Sent: true}, nil
}

// amountDue computes the outstanding amount from the attempt history; on a
// lookup failure it falls back to the full total
func (s *paymentService) amountDue(ctx context.Context, invoiceID string, total decimal.Decimal) decimal.Decimal {
	attempts, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return total
	}
	due := total.Sub(payment.PaidSum(attempts))
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
