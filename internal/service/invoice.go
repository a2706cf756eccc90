package service

import (
	"context"
	"time"

	"github.com/gstflow/gstflow/internal/api/dto"
	"github.com/gstflow/gstflow/internal/domain/invoice"
	"github.com/gstflow/gstflow/internal/domain/payment"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/gst"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceService finalizes, numbers and serves invoices
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	GetNextInvoiceNumber(ctx context.Context, issuerID string) (*dto.NextInvoiceNumberResponse, error)
	GetPaymentStatus(ctx context.Context, id string) (*dto.PaymentStatusResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

// CreateInvoice computes the tax breakup and final total, allocates the next
// invoice number for the issuer's fiscal year, and persists the invoice with
// its line items. Amounts are immutable afterwards.
func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	invoiceDate := time.Now().UTC()
	if req.InvoiceDate != nil {
		invoiceDate = req.InvoiceDate.UTC()
	}

	items := make([]gst.Item, len(req.LineItems))
	for i, li := range req.LineItems {
		items[i] = gst.Item{
			Quantity: decimal.NewFromInt(li.Quantity),
			Rate:     li.Rate,
			GSTRate:  li.GSTRate,
		}
	}

	breakup, err := gst.Calculate(items, req.IsSameState)
	if err != nil {
		return nil, err
	}
	// tax components are stored at currency precision so the stored total
	// re-derives from the stored components
	breakup.CGST = gst.Round2(breakup.CGST)
	breakup.SGST = gst.Round2(breakup.SGST)
	breakup.IGST = gst.Round2(breakup.IGST)

	subtotal := gst.Round2(gst.Subtotal(items))

	total, err := gst.FinalizeTotal(subtotal, breakup, req.Discount, req.DiscountType, req.ShippingCharges)
	if err != nil {
		return nil, err
	}

	// allocation is the only numbering path; no fallback on failure
	invoiceNumber, err := s.InvoiceRepo.NextInvoiceNumber(ctx, req.IssuerID, invoiceDate)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	inv := &invoice.Invoice{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber:       invoiceNumber,
		IssuerID:            req.IssuerID,
		CustomerID:          req.CustomerID,
		InvoiceDate:         invoiceDate,
		DueDate:             req.DueDate,
		Currency:            currency,
		IsSameState:         req.IsSameState,
		Subtotal:            subtotal,
		CGST:                breakup.CGST,
		SGST:                breakup.SGST,
		IGST:                breakup.IGST,
		Discount:            req.Discount,
		DiscountType:        req.DiscountType,
		ShippingCharges:     req.ShippingCharges,
		Total:               total,
		PaymentStatus:       types.PaymentStatusPending,
		Notes:               req.Notes,
		TermsAndConditions:  req.TermsAndConditions,
		PaymentInstructions: req.PaymentInstructions,
		Metadata:            req.Metadata,
		Version:             0,
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}

	inv.LineItems = make([]*invoice.LineItem, len(req.LineItems))
	for i, li := range req.LineItems {
		inv.LineItems[i] = &invoice.LineItem{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
			InvoiceID:   inv.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
			GSTRate:     li.GSTRate,
			Amount:      decimal.NewFromInt(li.Quantity).Mul(li.Rate),
			BaseModel:   types.GetDefaultBaseModel(ctx),
		}
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"issuer_id", inv.IssuerID,
		"total", inv.Total)

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = dto.NewInvoiceResponse(inv)
	}

	return &dto.ListInvoicesResponse{
		Items:  items,
		Total:  count,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}

// GetNextInvoiceNumber previews the number the next creation would take. It
// does not consume a sequence value, so a concurrent creation may still claim
// the previewed number.
func (s *invoiceService) GetNextInvoiceNumber(ctx context.Context, issuerID string) (*dto.NextInvoiceNumberResponse, error) {
	if issuerID == "" {
		return nil, ierr.NewError("issuer id is required").
			WithHint("Issuer ID is required").
			Mark(ierr.ErrValidation)
	}

	now := time.Now().UTC()
	number, err := s.InvoiceRepo.PeekInvoiceNumber(ctx, issuerID, now)
	if err != nil {
		return nil, err
	}

	return &dto.NextInvoiceNumberResponse{
		InvoiceNumber: number,
		FiscalYear:    types.FiscalYearLabel(now),
	}, nil
}

// GetPaymentStatus re-derives the invoice's payment position from the full
// attempt history rather than trusting the stored flag
func (s *invoiceService) GetPaymentStatus(ctx context.Context, id string) (*dto.PaymentStatusResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	attempts, err := s.PaymentRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	paidSum := payment.PaidSum(attempts)
	amountDue := inv.Total.Sub(paidSum)
	if amountDue.IsNegative() {
		amountDue = decimal.Zero
	}

	return &dto.PaymentStatusResponse{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		PaymentStatus: payment.FoldStatus(attempts, inv.Total),
		Total:         inv.Total,
		AmountPaid:    paidSum,
		AmountDue:     amountDue,
		AttemptCount:  len(attempts),
	}, nil
}
