package api

import (
	v1 "github.com/gstflow/gstflow/internal/api/v1"
	"github.com/gstflow/gstflow/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Invoice *v1.InvoiceHandler
	Payment *v1.PaymentHandler
	Webhook *v1.WebhookHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/next-number", handlers.Invoice.GetNextInvoiceNumber)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.GET("/:id/payment-status", handlers.Invoice.GetPaymentStatus)
		invoices.GET("/:id/payments", handlers.Payment.ListPaymentAttempts)
		invoices.POST("/:id/reminders", handlers.Payment.SendReminder)
	}

	payments := router.Group("/payments")
	{
		payments.POST("/links", handlers.Payment.CreatePaymentLink)
		payments.GET("/:id", handlers.Payment.GetPaymentAttempt)
		payments.POST("/webhook/:gateway", handlers.Webhook.HandleWebhook)
	}
}
