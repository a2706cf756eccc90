package v1

import (
	"net/http"

	"github.com/gstflow/gstflow/internal/api/dto"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/logger"
	"github.com/gstflow/gstflow/internal/service"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreatePaymentLink records a payment attempt and returns the gateway link
// and QR payload
func (h *PaymentHandler) CreatePaymentLink(c *gin.Context) {
	var req dto.CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.CreatePaymentLink(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorw("failed to create payment link", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPaymentAttempt returns a payment attempt by ID
func (h *PaymentHandler) GetPaymentAttempt(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid payment attempt id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.GetPaymentAttempt(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListPaymentAttempts lists the attempts recorded against an invoice
func (h *PaymentHandler) ListPaymentAttempts(c *gin.Context) {
	invoiceID := c.Param("id")
	if invoiceID == "" {
		c.Error(ierr.NewError("invalid invoice id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.ListPaymentAttempts(c.Request.Context(), invoiceID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendReminder dispatches a payment reminder for the invoice's pending
// attempts
func (h *PaymentHandler) SendReminder(c *gin.Context) {
	invoiceID := c.Param("id")
	if invoiceID == "" {
		c.Error(ierr.NewError("invalid invoice id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.SendReminder(c.Request.Context(), invoiceID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
