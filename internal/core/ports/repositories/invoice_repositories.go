package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices pages through invoices dated within [from, to] (either bound
	// optional), newest first. It returns the invoices and a token for the next page.
	ListInvoices(ctx context.Context, from, to *time.Time, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// ListInvoiceIDsWithPrefix returns every invoice id starting with prefix.
	ListInvoiceIDsWithPrefix(ctx context.Context, prefix string) ([]string, error)

	CountInvoicesByCustomer(ctx context.Context, customerID string) (int, error)

	// ListItemNames returns the item names of every stored invoice, unsorted and
	// possibly repeated.
	ListItemNames(ctx context.Context) ([]string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoiceWithLedgerEntry persists the invoice and its "BY BILL" ledger
	// entry in one transaction.
	SaveInvoiceWithLedgerEntry(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry) error

	// UpdateInvoiceWithLedgerEntry rewrites the invoice and the ledger entry
	// linked to it in one transaction.
	UpdateInvoiceWithLedgerEntry(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry) error

	// DeleteInvoiceWithLedgerEntries removes the invoice and the ledger entries
	// linked to it in one transaction, reporting how many entries went with it.
	// A missing invoice is ErrNotFound and leaves the ledger untouched.
	DeleteInvoiceWithLedgerEntries(ctx context.Context, invoiceID string) (int64, error)

	MarkInvoicePaid(ctx context.Context, invoiceID string, updatedBy string, updatedAt time.Time) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
