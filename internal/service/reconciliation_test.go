package service

import (
	"testing"

	"github.com/gstflow/gstflow/internal/api/dto"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/gateway"
	"github.com/gstflow/gstflow/internal/idempotency"
	"github.com/gstflow/gstflow/internal/notification"
	"github.com/gstflow/gstflow/internal/testutil"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceSuite struct {
	testutil.BaseServiceTestSuite
	invoiceService InvoiceService
	paymentService PaymentService
	service        ReconciliationService
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceSuite))
}

func (s *ReconciliationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		InvoiceRepo:    s.GetStores().InvoiceRepo,
		PaymentRepo:    s.GetStores().PaymentRepo,
		GatewayFactory: gateway.NewFactory(s.GetConfig()),
		Dispatcher:     notification.NewLogDispatcher(s.GetLogger()),
		IdempGen:       idempotency.NewGenerator(),
	}
	s.invoiceService = NewInvoiceService(params)
	s.paymentService = NewPaymentService(params)
	s.service = NewReconciliationService(params)
}

// createInvoiceWithTotal creates a same-state invoice whose total equals
// rate * 1.18 rounded; with rate 1000 the total is 1180.00
func (s *ReconciliationServiceSuite) createInvoiceTotal1180() *dto.InvoiceResponse {
	resp, err := s.invoiceService.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		IssuerID:    "issuer-1",
		CustomerID:  "customer-1",
		IsSameState: true,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{
				Description: "Retainer",
				Quantity:    1,
				Rate:        decimal.NewFromInt(1000),
				GSTRate:     decimal.NewFromInt(18),
			},
		},
	})
	s.Require().NoError(err)
	return resp
}

func (s *ReconciliationServiceSuite) createLink(invoiceID string, amount decimal.Decimal) *dto.PaymentAttemptResponse {
	resp, err := s.paymentService.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: invoiceID,
		Amount:    lo.ToPtr(amount),
	})
	s.Require().NoError(err)
	return resp
}

func (s *ReconciliationServiceSuite) TestFullPaymentMarksInvoicePaid() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	err := s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID:            link.ID,
		Status:               types.PaymentStatusPaid,
		GatewayTransactionID: lo.ToPtr("txn_123"),
	})
	s.NoError(err)

	attempt, err := s.paymentService.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, attempt.PaymentStatus)
	s.NotNil(attempt.PaidAt)
	s.Equal("txn_123", *attempt.GatewayTransactionID)

	status, err := s.invoiceService.GetPaymentStatus(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, status.PaymentStatus)

	stored, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, stored.PaymentStatus)
}

func (s *ReconciliationServiceSuite) TestPartialThenFullPayment() {
	inv := s.createInvoiceTotal1180()

	first := s.createLink(inv.ID, decimal.NewFromInt(400))
	err := s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: first.ID,
		Status:    types.PaymentStatusPaid,
	})
	s.NoError(err)

	stored, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPartial, stored.PaymentStatus)

	second := s.createLink(inv.ID, decimal.NewFromInt(780))
	err = s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: second.ID,
		Status:    types.PaymentStatusPaid,
	})
	s.NoError(err)

	stored, err = s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, stored.PaymentStatus)
}

func (s *ReconciliationServiceSuite) TestDuplicateNotificationIsNoOp() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	n := &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusPaid,
	}
	s.NoError(s.service.ApplyNotification(s.GetContext(), n))

	attempt, err := s.paymentService.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	firstPaidAt := attempt.PaidAt
	s.Require().NotNil(firstPaidAt)

	// replayed delivery keeps the original PaidAt
	s.NoError(s.service.ApplyNotification(s.GetContext(), n))

	attempt, err = s.paymentService.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	s.True(attempt.PaidAt.Equal(*firstPaidAt))

	status, err := s.invoiceService.GetPaymentStatus(s.GetContext(), inv.ID)
	s.NoError(err)
	s.True(status.AmountPaid.Equal(inv.Total))
}

func (s *ReconciliationServiceSuite) TestConflictingTerminalStateFirstWriterWins() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	s.NoError(s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusPaid,
	}))

	err := s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusFailed,
	})
	s.Error(err)
	s.True(ierr.IsConflictingNotification(err))

	attempt, err := s.paymentService.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, attempt.PaymentStatus)

	stored, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, stored.PaymentStatus)
}

func (s *ReconciliationServiceSuite) TestFailedAttemptMarksInvoiceFailed() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	s.NoError(s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusFailed,
	}))

	stored, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusFailed, stored.PaymentStatus)

	attempt, err := s.paymentService.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	s.Nil(attempt.PaidAt)
}

func (s *ReconciliationServiceSuite) TestNotificationForUnknownAttempt() {
	err := s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: "pay_missing",
		Status:    types.PaymentStatusPaid,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ReconciliationServiceSuite) TestNonTerminalNotificationRejected() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	err := s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusPending,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ReconciliationServiceSuite) TestStoreRejectsWriteToTerminalAttempt() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	s.NoError(s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusPaid,
	}))

	// a writer holding a stale pre-terminal read must not overwrite the
	// finalized state
	stale, err := s.GetStores().PaymentRepo.Get(s.GetContext(), link.ID)
	s.Require().NoError(err)
	stale.PaymentStatus = types.PaymentStatusFailed
	err = s.GetStores().PaymentRepo.Update(s.GetContext(), stale)
	s.Error(err)
	s.True(ierr.IsVersionConflict(err))

	attempt, err := s.paymentService.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, attempt.PaymentStatus)
}

func (s *ReconciliationServiceSuite) TestConcurrentConflictingNotifications() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	errs := make(chan error, 2)
	for _, status := range []types.PaymentStatus{types.PaymentStatusPaid, types.PaymentStatusFailed} {
		go func(st types.PaymentStatus) {
			errs <- s.service.ApplyNotification(s.GetContext(), &gateway.Notification{
				AttemptID: link.ID,
				Status:    st,
			})
		}(status)
	}

	var applied, conflicted int
	for i := 0; i < 2; i++ {
		err := <-errs
		if err == nil {
			applied++
			continue
		}
		s.True(ierr.IsConflictingNotification(err))
		conflicted++
	}
	s.Equal(1, applied)
	s.Equal(1, conflicted)

	// whichever delivery landed first decided the terminal state, and the
	// invoice fold agrees with it
	attempt, err := s.paymentService.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	s.True(attempt.PaymentStatus.IsTerminal())

	stored, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(attempt.PaymentStatus, stored.PaymentStatus)
}

func (s *ReconciliationServiceSuite) TestRedeliveryHealsUnreconciledInvoice() {
	inv := s.createInvoiceTotal1180()
	link := s.createLink(inv.ID, inv.Total)

	n := &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusPaid,
	}
	s.NoError(s.service.ApplyNotification(s.GetContext(), n))

	// simulate a first delivery that stamped the attempt but never
	// persisted the derived invoice status
	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	stored.PaymentStatus = types.PaymentStatusPending
	s.Require().NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), stored))

	s.NoError(s.service.ApplyNotification(s.GetContext(), n))

	healed, err := s.invoiceService.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, healed.PaymentStatus)
}
