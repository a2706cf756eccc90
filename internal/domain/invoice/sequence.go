package invoice

import (
	"fmt"
	"time"
)

// InvoiceSequence represents an issuer's invoice number counter for one
// fiscal year. LastValue only ever moves forward; the row is the sole
// source of truth for numbering and is never reset within a fiscal year.
type InvoiceSequence struct {
	ID         string
	IssuerID   string
	FiscalYear string
	LastValue  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FormatInvoiceNumber renders a sequence value as an invoice number, e.g.
// INV-2024-25-0007. Sequences are zero padded to 4 digits and widen
// naturally past 9999 so numbers never truncate or collide.
func FormatInvoiceNumber(fiscalYear string, sequence int64) string {
	return fmt.Sprintf("INV-%s-%04d", fiscalYear, sequence)
}
