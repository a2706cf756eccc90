package v1

import (
	"io"
	"net/http"

	"github.com/gstflow/gstflow/internal/config"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/gateway"
	"github.com/gstflow/gstflow/internal/logger"
	"github.com/gstflow/gstflow/internal/service"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/gin-gonic/gin"
)

// signatureHeader carries the HMAC signature on incoming gateway callbacks
const signatureHeader = "X-Webhook-Signature"

type WebhookHandler struct {
	reconciliationService service.ReconciliationService
	config                *config.Configuration
	logger                *logger.Logger
}

func NewWebhookHandler(
	reconciliationService service.ReconciliationService,
	config *config.Configuration,
	logger *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		reconciliationService: reconciliationService,
		config:                config,
		logger:                logger,
	}
}

// HandleWebhook verifies, normalizes and applies a gateway payment callback.
// A replayed or conflicting notification is acknowledged with 200 so the
// gateway stops retrying; the recorded state is never overwritten.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	gatewayType := types.PaymentGatewayType(c.Param("gateway"))
	if err := gatewayType.Validate(); err != nil {
		c.Error(err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).WithHint("could not read webhook body").Mark(ierr.ErrValidation))
		return
	}

	secret := ""
	if gw, ok := h.config.Payment.Gateways[string(gatewayType)]; ok {
		secret = gw.WebhookSecret
	}
	if !gateway.VerifySignature(body, c.GetHeader(signatureHeader), secret) {
		h.logger.Warnw("webhook signature verification failed", "gateway", gatewayType)
		c.Error(ierr.NewError("invalid webhook signature").
			WithHint("Webhook signature verification failed").
			Mark(ierr.ErrValidation))
		return
	}

	notification, err := gateway.ParseNotification(gatewayType, body)
	if err != nil {
		h.logger.Errorw("failed to parse webhook payload", "gateway", gatewayType, "error", err)
		c.Error(err)
		return
	}

	err = h.reconciliationService.ApplyNotification(c.Request.Context(), notification)
	if err != nil {
		if ierr.IsConflictingNotification(err) {
			// first writer wins; acknowledge so the gateway stops retrying
			c.JSON(http.StatusOK, gin.H{"status": "acknowledged"})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
