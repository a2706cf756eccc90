package repository

import (
	"github.com/gstflow/gstflow/internal/domain/invoice"
	"github.com/gstflow/gstflow/internal/domain/payment"
	"github.com/gstflow/gstflow/internal/logger"
	"github.com/gstflow/gstflow/internal/postgres"
	postgresRepo "github.com/gstflow/gstflow/internal/repository/postgres"
)

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}
