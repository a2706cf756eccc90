package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gstflow/gstflow/internal/domain/invoice"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/logger"
	"github.com/gstflow/gstflow/internal/postgres"
	"github.com/gstflow/gstflow/internal/types"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `id, invoice_number, issuer_id, customer_id, invoice_date, due_date,
	currency, is_same_state, subtotal, cgst, sgst, igst, discount, discount_type,
	shipping_charges, total, payment_status, notes, terms_and_conditions,
	payment_instructions, metadata, version, tenant_id, status, created_at, updated_at,
	created_by, updated_by`

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	// invoice and line items land together or not at all
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		_, err := q.ExecContext(ctx, `
			INSERT INTO invoices (`+invoiceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`,
			inv.ID, inv.InvoiceNumber, inv.IssuerID, inv.CustomerID, inv.InvoiceDate, inv.DueDate,
			inv.Currency, inv.IsSameState, inv.Subtotal, inv.CGST, inv.SGST, inv.IGST,
			inv.Discount, inv.DiscountType, inv.ShippingCharges, inv.Total, inv.PaymentStatus,
			inv.Notes, inv.TermsAndConditions, inv.PaymentInstructions, inv.Metadata, inv.Version,
			inv.TenantID, inv.Status, inv.CreatedAt, inv.UpdatedAt, inv.CreatedBy, inv.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create invoice").
				WithReportableDetails(map[string]any{
					"invoice_number": inv.InvoiceNumber,
				}).
				Mark(ierr.ErrDatabase)
		}

		for _, item := range inv.LineItems {
			_, err := q.ExecContext(ctx, `
				INSERT INTO invoice_line_items (id, invoice_id, description, quantity, rate,
					gst_rate, amount, tenant_id, status, created_at, updated_at, created_by, updated_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
				item.ID, item.InvoiceID, item.Description, item.Quantity, item.Rate,
				item.GSTRate, item.Amount, item.TenantID, item.Status,
				item.CreatedAt, item.UpdatedAt, item.CreatedBy, item.UpdatedBy,
			)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to create invoice line item").
					Mark(ierr.ErrDatabase)
			}
		}

		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	q := r.db.GetQuerier(ctx)

	var inv invoice.Invoice
	err := q.GetContext(ctx, &inv, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = $1 AND status != $2`, id, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	err = q.SelectContext(ctx, &inv.LineItems, `
		SELECT id, invoice_id, description, quantity, rate, gst_rate, amount,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		FROM invoice_line_items
		WHERE invoice_id = $1 AND status != $2
		ORDER BY created_at, id`, id, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice line items").
			Mark(ierr.ErrDatabase)
	}

	return &inv, nil
}

// Update persists payment status changes with optimistic concurrency: the
// row only updates when the caller's version matches, so two concurrent
// reconciliations cannot overwrite each other's fold.
func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	q := r.db.GetQuerier(ctx)

	inv.UpdatedAt = time.Now().UTC()
	res, err := q.ExecContext(ctx, `
		UPDATE invoices
		SET payment_status = $1, version = version + 1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND version = $5 AND status != $6`,
		inv.PaymentStatus, inv.UpdatedAt, inv.UpdatedBy, inv.ID, inv.Version, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		if _, getErr := r.Get(ctx, inv.ID); getErr != nil {
			return getErr
		}
		return ierr.NewError("invoice was modified concurrently").
			WithHint("Invoice was updated by another request, retry the operation").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
				"version":    inv.Version,
			}).
			Mark(ierr.ErrVersionConflict)
	}

	inv.Version++
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	query, args = applyInvoiceFilter(query, args, filter)
	query += ` ORDER BY invoice_date DESC, id DESC`

	if filter != nil && !filter.IsUnlimited() {
		args = append(args, filter.GetLimit(), filter.GetOffset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	var invoices []*invoice.Invoice
	if err := q.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT COUNT(*) FROM invoices WHERE status != $1`
	args := []interface{}{types.StatusDeleted}
	query, args = applyInvoiceFilter(query, args, filter)

	var count int
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

// NextInvoiceNumber performs the atomic increment-and-read on the issuer's
// fiscal-year counter. Raw SQL with ON CONFLICT ... RETURNING so that two
// concurrent creations can never read the same value; counting rows and
// adding one would race here.
func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context, issuerID string, asOf time.Time) (string, error) {
	fiscalYear := types.FiscalYearLabel(asOf)
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO invoice_sequences (issuer_id, fiscal_year, last_value, created_at, updated_at)
		VALUES ($1, $2, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (issuer_id, fiscal_year) DO UPDATE
		SET last_value = invoice_sequences.last_value + 1,
			updated_at = CURRENT_TIMESTAMP
		RETURNING last_value`

	var lastValue int64
	rows, err := q.QueryContext(ctx, query, issuerID, fiscalYear)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Invoice number allocation failed").
			Mark(ierr.ErrSequenceAllocation)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", ierr.NewError("no sequence value returned").
			WithHint("Invoice number allocation failed").
			Mark(ierr.ErrSequenceAllocation)
	}
	if err := rows.Scan(&lastValue); err != nil {
		return "", ierr.WithError(err).
			WithHint("Invoice number allocation failed").
			Mark(ierr.ErrSequenceAllocation)
	}

	r.logger.Infow("allocated invoice number",
		"issuer_id", issuerID,
		"fiscal_year", fiscalYear,
		"sequence", lastValue)

	return invoice.FormatInvoiceNumber(fiscalYear, lastValue), nil
}

func (r *invoiceRepository) PeekInvoiceNumber(ctx context.Context, issuerID string, asOf time.Time) (string, error) {
	fiscalYear := types.FiscalYearLabel(asOf)
	q := r.db.GetQuerier(ctx)

	var lastValue int64
	err := q.GetContext(ctx, &lastValue, `
		SELECT last_value FROM invoice_sequences
		WHERE issuer_id = $1 AND fiscal_year = $2`, issuerID, fiscalYear)
	if err != nil && err != sql.ErrNoRows {
		return "", ierr.WithError(err).
			WithHint("Failed to preview invoice number").
			Mark(ierr.ErrDatabase)
	}

	return invoice.FormatInvoiceNumber(fiscalYear, lastValue+1), nil
}
