package service

import (
	"github.com/gstflow/gstflow/internal/config"
	"github.com/gstflow/gstflow/internal/domain/invoice"
	"github.com/gstflow/gstflow/internal/domain/payment"
	"github.com/gstflow/gstflow/internal/gateway"
	"github.com/gstflow/gstflow/internal/idempotency"
	"github.com/gstflow/gstflow/internal/logger"
	"github.com/gstflow/gstflow/internal/notification"
	"github.com/gstflow/gstflow/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     *postgres.DB

	// Repositories
	InvoiceRepo invoice.Repository
	PaymentRepo payment.Repository

	// Domain collaborators
	GatewayFactory *gateway.Factory
	Dispatcher     notification.Dispatcher
	IdempGen       *idempotency.Generator
}

// NewServiceParams wires the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	gatewayFactory *gateway.Factory,
	dispatcher notification.Dispatcher,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		InvoiceRepo:    invoiceRepo,
		PaymentRepo:    paymentRepo,
		GatewayFactory: gatewayFactory,
		Dispatcher:     dispatcher,
		IdempGen:       idempotency.NewGenerator(),
	}
}
