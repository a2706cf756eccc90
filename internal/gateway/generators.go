package gateway

import (
	"context"
	"fmt"

	"github.com/gstflow/gstflow/internal/config"
	"github.com/gstflow/gstflow/internal/domain/invoice"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// The hosted-checkout generators below construct the collection URLs the
// way each gateway's payment-link API returns them, keyed by the attempt
// ID so the webhook can be correlated back. The outbound API calls
// themselves (order creation, checksum signing) are the gateway
// integration's concern, not the core's.

type razorpayGenerator struct {
	cfg *config.Configuration
}

func newRazorpayGenerator(cfg *config.Configuration) *razorpayGenerator {
	return &razorpayGenerator{cfg: cfg}
}

func (g *razorpayGenerator) GatewayType() types.PaymentGatewayType {
	return types.PaymentGatewayTypeRazorpay
}

func (g *razorpayGenerator) GeneratePaymentLink(ctx context.Context, inv *invoice.Invoice, attemptID string, amount decimal.Decimal) (*PaymentLink, error) {
	link := fmt.Sprintf("https://rzp.io/i/%s", attemptID)
	return &PaymentLink{Link: link, QRPayload: link}, nil
}

type phonePeGenerator struct {
	cfg *config.Configuration
}

func newPhonePeGenerator(cfg *config.Configuration) *phonePeGenerator {
	return &phonePeGenerator{cfg: cfg}
}

func (g *phonePeGenerator) GatewayType() types.PaymentGatewayType {
	return types.PaymentGatewayTypePhonePe
}

func (g *phonePeGenerator) GeneratePaymentLink(ctx context.Context, inv *invoice.Invoice, attemptID string, amount decimal.Decimal) (*PaymentLink, error) {
	link := fmt.Sprintf("https://phonepe.io/pay/%s", attemptID)
	return &PaymentLink{Link: link, QRPayload: link}, nil
}

type paytmGenerator struct {
	cfg *config.Configuration
}

func newPaytmGenerator(cfg *config.Configuration) *paytmGenerator {
	return &paytmGenerator{cfg: cfg}
}

func (g *paytmGenerator) GatewayType() types.PaymentGatewayType {
	return types.PaymentGatewayTypePaytm
}

func (g *paytmGenerator) GeneratePaymentLink(ctx context.Context, inv *invoice.Invoice, attemptID string, amount decimal.Decimal) (*PaymentLink, error) {
	link := fmt.Sprintf("https://paytm.com/link/%s", attemptID)
	return &PaymentLink{Link: link, QRPayload: link}, nil
}

// googlePayGenerator produces a UPI intent deep link against the
// merchant's VPA instead of a hosted page
type googlePayGenerator struct {
	cfg *config.Configuration
}

func newGooglePayGenerator(cfg *config.Configuration) *googlePayGenerator {
	return &googlePayGenerator{cfg: cfg}
}

func (g *googlePayGenerator) GatewayType() types.PaymentGatewayType {
	return types.PaymentGatewayTypeGooglePay
}

func (g *googlePayGenerator) GeneratePaymentLink(ctx context.Context, inv *invoice.Invoice, attemptID string, amount decimal.Decimal) (*PaymentLink, error) {
	vpa := g.cfg.Payment.MerchantVPA
	name := g.cfg.Payment.MerchantName
	note := fmt.Sprintf("Payment for Invoice %s", inv.InvoiceNumber)

	intent := BuildUPIIntent(vpa, name, amount, note)
	return &PaymentLink{Link: intent, QRPayload: intent}, nil
}
