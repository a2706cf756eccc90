package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gstflow/gstflow/internal/domain/invoice"
	ierr "github.com/gstflow/gstflow/internal/errors"
	"github.com/gstflow/gstflow/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	// sequence counters keyed by issuer_id:fiscal_year, guarded separately
	// so allocation stays atomic under concurrent creations
	seqMu     sync.Mutex
	sequences map[string]int64
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
		sequences:     make(map[string]int64),
	}
}

// copyInvoice returns a deep copy so callers cannot mutate stored state
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}

	cp := *inv
	if len(inv.LineItems) > 0 {
		cp.LineItems = make([]*invoice.LineItem, len(inv.LineItems))
		for i, item := range inv.LineItems {
			itemCopy := *item
			cp.LineItems[i] = &itemCopy
		}
	}
	return &cp
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.items[inv.ID]
	if !exists {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	if stored.Version != inv.Version {
		return ierr.NewError("invoice was modified concurrently").
			WithHint("Invoice was updated by another request, retry the operation").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
				"version":    inv.Version,
			}).
			Mark(ierr.ErrVersionConflict)
	}

	inv.Version++
	inv.UpdatedAt = time.Now().UTC()
	s.items[inv.ID] = copyInvoice(inv)
	return nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}

	if f.IssuerID != "" && inv.IssuerID != f.IssuerID {
		return false
	}
	if f.CustomerID != nil && inv.CustomerID != *f.CustomerID {
		return false
	}
	if f.PaymentStatus != nil && inv.PaymentStatus != *f.PaymentStatus {
		return false
	}
	if f.FiscalYear != nil && !strings.HasPrefix(inv.InvoiceNumber, fmt.Sprintf("INV-%s-", *f.FiscalYear)) {
		return false
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	if !i.InvoiceDate.Equal(j.InvoiceDate) {
		return i.InvoiceDate.After(j.InvoiceDate)
	}
	return i.ID > j.ID
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*invoice.Invoice, len(invoices))
	for i, inv := range invoices {
		result[i] = copyInvoice(inv)
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) NextInvoiceNumber(ctx context.Context, issuerID string, asOf time.Time) (string, error) {
	fiscalYear := types.FiscalYearLabel(asOf)

	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	key := issuerID + ":" + fiscalYear
	s.sequences[key]++
	return invoice.FormatInvoiceNumber(fiscalYear, s.sequences[key]), nil
}

func (s *InMemoryInvoiceStore) PeekInvoiceNumber(ctx context.Context, issuerID string, asOf time.Time) (string, error) {
	fiscalYear := types.FiscalYearLabel(asOf)

	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	key := issuerID + ":" + fiscalYear
	return invoice.FormatInvoiceNumber(fiscalYear, s.sequences[key]+1), nil
}

// Clear resets invoices and sequence counters
func (s *InMemoryInvoiceStore) Clear() {
	s.InMemoryStore.Clear()
	s.seqMu.Lock()
	s.sequences = make(map[string]int64)
	s.seqMu.Unlock()
}
