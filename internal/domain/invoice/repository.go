package invoice

import (
	"context"
	"time"

	"github.com/gstflow/gstflow/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create creates a new invoice together with its line items
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID including its line items
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update persists invoice mutations. The invoice's Version must match
	// the stored row; on mismatch the update fails with ErrVersionConflict
	// and the stored row is left untouched.
	Update(ctx context.Context, invoice *Invoice) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// NextInvoiceNumber atomically increments the issuer's counter for the
	// fiscal year that asOf falls in and returns the formatted invoice
	// number. Concurrent calls for the same issuer and fiscal year never
	// observe the same sequence value.
	NextInvoiceNumber(ctx context.Context, issuerID string, asOf time.Time) (string, error)

	// PeekInvoiceNumber formats the number the next allocation would
	// produce without consuming a sequence value. It is advisory only: a
	// concurrent creation can take the previewed number.
	PeekInvoiceNumber(ctx context.Context, issuerID string, asOf time.Time) (string, error)
}
