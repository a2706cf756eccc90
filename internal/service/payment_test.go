package service

import (
	"strings"
	"testing"

	"github.com/gstflow/gstflow/internal/api/dto"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/gateway"
	"github.com/gstflow/gstflow/internal/idempotency"
	"github.com/gstflow/gstflow/internal/notification"
	"github.com/gstflow/gstflow/internal/testutil"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	invoiceService InvoiceService
	service        PaymentService
	reconciler     ReconciliationService
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
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
	s.service = NewPaymentService(params)
	s.reconciler = NewReconciliationService(params)
}

func (s *PaymentServiceSuite) createInvoice() *dto.InvoiceResponse {
	resp, err := s.invoiceService.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		IssuerID:    "issuer-1",
		CustomerID:  "customer-1",
		IsSameState: true,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			{
				Description: "Design work",
				Quantity:    1,
				Rate:        decimal.NewFromInt(1000),
				GSTRate:     decimal.NewFromInt(18),
			},
		},
	})
	s.Require().NoError(err)
	return resp
}

func (s *PaymentServiceSuite) TestCreatePaymentLinkDefaultGateway() {
	inv := s.createInvoice()

	resp, err := s.service.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: inv.ID,
	})
	s.NoError(err)
	s.Equal(types.PaymentGatewayTypeRazorpay, resp.Gateway)
	s.Equal(types.PaymentStatusPending, resp.PaymentStatus)
	s.NotEmpty(resp.PaymentLink)
	s.NotEmpty(resp.QRPayload)
	s.True(resp.Amount.Equal(inv.Total))
}

func (s *PaymentServiceSuite) TestCreatePaymentLinkStampsReceiptRef() {
	inv := s.createInvoice()

	resp, err := s.service.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: inv.ID,
	})
	s.NoError(err)
	s.True(strings.HasPrefix(resp.ReceiptRef, types.SHORT_ID_PREFIX_RECEIPT), "receipt ref: %s", resp.ReceiptRef)
	s.LessOrEqual(len(resp.ReceiptRef), 12)

	// the reference survives persistence
	stored, err := s.service.GetPaymentAttempt(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(resp.ReceiptRef, stored.ReceiptRef)
}

func (s *PaymentServiceSuite) TestCreatePaymentLinkGooglePayUsesUPIIntent() {
	inv := s.createInvoice()

	resp, err := s.service.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: inv.ID,
		Gateway:   types.PaymentGatewayTypeGooglePay,
	})
	s.NoError(err)
	s.True(strings.HasPrefix(resp.QRPayload, "upi://pay?"), "qr payload: %s", resp.QRPayload)
}

func (s *PaymentServiceSuite) TestCreatePaymentLinkIsIdempotent() {
	inv := s.createInvoice()
	req := &dto.CreatePaymentLinkRequest{InvoiceID: inv.ID}

	first, err := s.service.CreatePaymentLink(s.GetContext(), req)
	s.NoError(err)
	second, err := s.service.CreatePaymentLink(s.GetContext(), req)
	s.NoError(err)
	s.Equal(first.ID, second.ID)

	attempts, err := s.service.ListPaymentAttempts(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(1, attempts.Total)
}

func (s *PaymentServiceSuite) TestCreatePaymentLinkUnknownInvoice() {
	_, err := s.service.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: "inv_missing",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestCreatePaymentLinkRejectsPaidInvoice() {
	inv := s.createInvoice()

	link, err := s.service.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: inv.ID,
	})
	s.NoError(err)

	err = s.reconciler.ApplyNotification(s.GetContext(), &gateway.Notification{
		AttemptID: link.ID,
		Status:    types.PaymentStatusPaid,
	})
	s.NoError(err)

	_, err = s.service.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: inv.ID,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestSendReminderStampsPendingAttempts() {
	inv := s.createInvoice()
	link, err := s.service.CreatePaymentLink(s.GetContext(), &dto.CreatePaymentLinkRequest{
		InvoiceID: inv.ID,
	})
	s.NoError(err)
	s.Nil(link.ReminderSentAt)

	resp, err := s.service.SendReminder(s.GetContext(), inv.ID)
	s.NoError(err)
	s.True(resp.Sent)

	updated, err := s.service.GetPaymentAttempt(s.GetContext(), link.ID)
	s.NoError(err)
	s.NotNil(updated.ReminderSentAt)
}

func (s *PaymentServiceSuite) TestSendReminderWithoutPendingAttempts() {
	inv := s.createInvoice()

	resp, err := s.service.SendReminder(s.GetContext(), inv.ID)
	s.NoError(err)
	s.False(resp.Sent)
}
