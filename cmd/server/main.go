package main

import (
	"context"
	"time"

	"github.com/gstflow/gstflow/internal/api"
	v1 "github.com/gstflow/gstflow/internal/api/v1"
	"github.com/gstflow/gstflow/internal/config"
	"github.com/gstflow/gstflow/internal/gateway"
	"github.com/gstflow/gstflow/internal/logger"
	"github.com/gstflow/gstflow/internal/notification"
	"github.com/gstflow/gstflow/internal/postgres"
	"github.com/gstflow/gstflow/internal/repository"
	"github.com/gstflow/gstflow/internal/service"
	"github.com/gstflow/gstflow/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,

			postgres.NewDB,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,

			// Gateways and notifications
			gateway.NewFactory,
			notification.NewLogDispatcher,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewReconciliationService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	reconciliationService service.ReconciliationService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Invoice: v1.NewInvoiceHandler(invoiceService, logger),
		Payment: v1.NewPaymentHandler(paymentService, logger),
		Webhook: v1.NewWebhookHandler(reconciliationService, cfg, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}
