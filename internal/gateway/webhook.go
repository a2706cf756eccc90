package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/samber/lo"
)

// Notification is the normalized form of a gateway webhook, the only
// shape ReconciliationService consumes.
type Notification struct {
	AttemptID            string
	Status               types.PaymentStatus
	GatewayTransactionID *string
}

// razorpayPayload mirrors the nested razorpay webhook envelope
type razorpayPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string `json:"id"`
				Notes struct {
					AttemptID string `json:"attempt_id"`
				} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// flatPayload covers paytm, phonepe and googlepay callbacks, which all
// report a flat event envelope
type flatPayload struct {
	Event         string `json:"event"`
	AttemptID     string `json:"attemptId"`
	TransactionID string `json:"transactionId"`
}

// ParseNotification normalizes a raw gateway callback body into a
// Notification. Signature verification happens before this at the HTTP
// seam; this only maps gateway-specific event names onto payment statuses.
func ParseNotification(gatewayType types.PaymentGatewayType, body []byte) (*Notification, error) {
	if err := gatewayType.Validate(); err != nil {
		return nil, err
	}

	if gatewayType == types.PaymentGatewayTypeRazorpay {
		var p razorpayPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Malformed webhook payload").
				Mark(ierr.ErrValidation)
		}

		n := &Notification{AttemptID: p.Payload.Payment.Entity.Notes.AttemptID}
		if p.Payload.Payment.Entity.ID != "" {
			n.GatewayTransactionID = lo.ToPtr(p.Payload.Payment.Entity.ID)
		}
		switch p.Event {
		case "payment.authorized", "payment.captured":
			n.Status = types.PaymentStatusPaid
		case "payment.failed":
			n.Status = types.PaymentStatusFailed
		default:
			return nil, unknownEvent(gatewayType, p.Event)
		}
		return n, nil
	}

	var p flatPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Malformed webhook payload").
			Mark(ierr.ErrValidation)
	}

	n := &Notification{AttemptID: p.AttemptID}
	if p.TransactionID != "" {
		n.GatewayTransactionID = lo.ToPtr(p.TransactionID)
	}
	switch p.Event {
	case "PAYMENT_SUCCESS":
		n.Status = types.PaymentStatusPaid
	case "PAYMENT_FAILURE":
		n.Status = types.PaymentStatusFailed
	default:
		return nil, unknownEvent(gatewayType, p.Event)
	}
	return n, nil
}

func unknownEvent(gatewayType types.PaymentGatewayType, event string) error {
	return ierr.NewError("unknown webhook event").
		WithHintf("Event '%s' is not handled for gateway '%s'", event, gatewayType).
		WithReportableDetails(map[string]any{
			"gateway": gatewayType,
			"event":   event,
		}).
		Mark(ierr.ErrValidation)
}

// VerifySignature checks the HMAC-SHA256 hex signature a gateway attaches
// to its webhook delivery. An empty configured secret disables the check
// (local development).
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
