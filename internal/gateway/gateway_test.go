package gateway

import (
	"context"
	"testing"

	"github.com/gstflow/gstflow/internal/config"
	"github.com/gstflow/gstflow/internal/domain/invoice"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		ID:            "inv_01TEST",
		InvoiceNumber: "INV-2024-25-0001",
	}
}

func TestFactoryResolvesAllGateways(t *testing.T) {
	f := NewFactory(config.GetDefaultConfig())

	for _, gt := range []types.PaymentGatewayType{
		types.PaymentGatewayTypeRazorpay,
		types.PaymentGatewayTypePhonePe,
		types.PaymentGatewayTypePaytm,
		types.PaymentGatewayTypeGooglePay,
	} {
		g, err := f.GetGateway(gt)
		require.NoError(t, err)
		assert.Equal(t, gt, g.GatewayType())
	}

	_, err := f.GetGateway(types.PaymentGatewayType("stripe"))
	require.Error(t, err)
}

func TestHostedLinkGenerators(t *testing.T) {
	f := NewFactory(config.GetDefaultConfig())
	amount := decimal.NewFromInt(500)

	tests := []struct {
		gateway  types.PaymentGatewayType
		expected string
	}{
		{types.PaymentGatewayTypeRazorpay, "https://rzp.io/i/pay_01ABC"},
		{types.PaymentGatewayTypePhonePe, "https://phonepe.io/pay/pay_01ABC"},
		{types.PaymentGatewayTypePaytm, "https://paytm.com/link/pay_01ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.gateway.String(), func(t *testing.T) {
			g, err := f.GetGateway(tt.gateway)
			require.NoError(t, err)

			link, err := g.GeneratePaymentLink(context.Background(), testInvoice(), "pay_01ABC", amount)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, link.Link)
			assert.Equal(t, link.Link, link.QRPayload)
		})
	}
}

func TestGooglePayGeneratesUPIIntent(t *testing.T) {
	f := NewFactory(config.GetDefaultConfig())

	g, err := f.GetGateway(types.PaymentGatewayTypeGooglePay)
	require.NoError(t, err)

	link, err := g.GeneratePaymentLink(context.Background(), testInvoice(), "pay_01ABC", decimal.NewFromFloat(1040.5))
	require.NoError(t, err)

	assert.Contains(t, link.Link, "upi://pay?")
	assert.Contains(t, link.Link, "am=1040.50")
	assert.Contains(t, link.Link, "cu=INR")
	assert.Equal(t, link.Link, link.QRPayload)
}

func TestBuildUPIIntentEscapesNote(t *testing.T) {
	intent := BuildUPIIntent("merchant@upi", "Acme & Co", decimal.NewFromInt(100), "Invoice INV-2024-25-0001")
	assert.Contains(t, intent, "pa=merchant%40upi")
	assert.Contains(t, intent, "pn=Acme+%26+Co")
}
