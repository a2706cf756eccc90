package gateway

import (
	"context"

	"github.com/gstflow/gstflow/internal/config"
	"github.com/gstflow/gstflow/internal/domain/invoice"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
	"github.com/shopspring/decimal"
)

// PaymentLink is what a gateway hands back for a collection request: a
// hosted checkout URL and the raw payload to render as a QR code.
type PaymentLink struct {
	Link      string `json:"payment_link"`
	QRPayload string `json:"qr_payload"`
}

// LinkGenerator is the single capability the core consumes from a payment
// gateway. Request/response shaping for the real gateway APIs lives behind
// this interface; the core only stores the returned identifiers on the
// payment attempt.
type LinkGenerator interface {
	GatewayType() types.PaymentGatewayType
	GeneratePaymentLink(ctx context.Context, inv *invoice.Invoice, attemptID string, amount decimal.Decimal) (*PaymentLink, error)
}

// Factory resolves the link generator for a gateway type
type Factory struct {
	cfg        *config.Configuration
	generators map[types.PaymentGatewayType]LinkGenerator
}

// NewFactory creates a factory with all supported gateway variants
// registered
func NewFactory(cfg *config.Configuration) *Factory {
	f := &Factory{
		cfg:        cfg,
		generators: make(map[types.PaymentGatewayType]LinkGenerator),
	}
	for _, g := range []LinkGenerator{
		newRazorpayGenerator(cfg),
		newPhonePeGenerator(cfg),
		newPaytmGenerator(cfg),
		newGooglePayGenerator(cfg),
	} {
		f.generators[g.GatewayType()] = g
	}
	return f
}

// GetGateway returns the link generator for the given gateway type
func (f *Factory) GetGateway(gatewayType types.PaymentGatewayType) (LinkGenerator, error) {
	if err := gatewayType.Validate(); err != nil {
		return nil, err
	}
	g, ok := f.generators[gatewayType]
	if !ok {
		return nil, ierr.NewError("gateway not registered").
			WithHintf("Gateway '%s' is not registered", gatewayType).
			Mark(ierr.ErrInvalidOperation)
	}
	return g, nil
}

// DefaultGateway returns the configured default gateway type
func (f *Factory) DefaultGateway() types.PaymentGatewayType {
	if f.cfg != nil && f.cfg.Payment.DefaultGateway != "" {
		return f.cfg.Payment.DefaultGateway
	}
	return types.PaymentGatewayTypeRazorpay
}

// SupportedGateways returns all registered gateway types
func (f *Factory) SupportedGateways() []types.PaymentGatewayType {
	gateways := make([]types.PaymentGatewayType, 0, len(f.generators))
	for g := range f.generators {
		gateways = append(gateways, g)
	}
	return gateways
}
