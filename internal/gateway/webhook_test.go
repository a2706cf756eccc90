package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotificationRazorpay(t *testing.T) {
	body := []byte(`{
		"event": "payment.authorized",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_rzp_123",
					"notes": {"attempt_id": "pay_01ABC"}
				}
			}
		}
	}`)

	n, err := ParseNotification(types.PaymentGatewayTypeRazorpay, body)
	require.NoError(t, err)
	assert.Equal(t, "pay_01ABC", n.AttemptID)
	assert.Equal(t, types.PaymentStatusPaid, n.Status)
	require.NotNil(t, n.GatewayTransactionID)
	assert.Equal(t, "pay_rzp_123", *n.GatewayTransactionID)
}

func TestParseNotificationRazorpayFailed(t *testing.T) {
	body := []byte(`{
		"event": "payment.failed",
		"payload": {"payment": {"entity": {"notes": {"attempt_id": "pay_01ABC"}}}}
	}`)

	n, err := ParseNotification(types.PaymentGatewayTypeRazorpay, body)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusFailed, n.Status)
	assert.Nil(t, n.GatewayTransactionID)
}

func TestParseNotificationPaytm(t *testing.T) {
	body := []byte(`{"event": "PAYMENT_SUCCESS", "attemptId": "pay_02XYZ", "transactionId": "txn_777"}`)

	n, err := ParseNotification(types.PaymentGatewayTypePaytm, body)
	require.NoError(t, err)
	assert.Equal(t, "pay_02XYZ", n.AttemptID)
	assert.Equal(t, types.PaymentStatusPaid, n.Status)
	require.NotNil(t, n.GatewayTransactionID)
	assert.Equal(t, "txn_777", *n.GatewayTransactionID)
}

func TestParseNotificationUnknownEvent(t *testing.T) {
	body := []byte(`{"event": "payment.refunded"}`)

	_, err := ParseNotification(types.PaymentGatewayTypePhonePe, body)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestParseNotificationMalformedBody(t *testing.T) {
	_, err := ParseNotification(types.PaymentGatewayTypeRazorpay, []byte("{not json"))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestParseNotificationInvalidGateway(t *testing.T) {
	_, err := ParseNotification(types.PaymentGatewayType("stripe"), []byte(`{}`))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"PAYMENT_SUCCESS"}`)

	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifySignature(body, signature, "whsec"))
	assert.False(t, VerifySignature(body, "deadbeef", "whsec"))

	// empty secret disables verification
	assert.True(t, VerifySignature(body, "anything", ""))
}
