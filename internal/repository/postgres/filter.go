package postgres

import (
	"fmt"

	"github.com/gstflow/gstflow/internal/types"
)

// applyInvoiceFilter appends WHERE clauses for the set filter fields.
// Placeholders continue from the args already collected.
func applyInvoiceFilter(query string, args []interface{}, filter *types.InvoiceFilter) (string, []interface{}) {
	if filter == nil {
		return query, args
	}

	if filter.IssuerID != "" {
		args = append(args, filter.IssuerID)
		query += fmt.Sprintf(" AND issuer_id = $%d", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.PaymentStatus != nil {
		args = append(args, *filter.PaymentStatus)
		query += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	if filter.FiscalYear != nil {
		// invoice numbers embed the fiscal year: INV-2024-25-0001
		args = append(args, fmt.Sprintf("INV-%s-%%", *filter.FiscalYear))
		query += fmt.Sprintf(" AND invoice_number LIKE $%d", len(args))
	}

	return query, args
}
