package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// ListLedgerEntries returns a customer's entries dated within [from, to]
	// inclusive, ordered by entry date then creation order.
	ListLedgerEntries(ctx context.Context, customerID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// SumBeforeDate returns Σ(debit − credit) and the number of entries dated
	// strictly before the given day.
	SumBeforeDate(ctx context.Context, customerID string, before time.Time) (decimal.Decimal, int, error)

	FindLedgerEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListAllLedgerEntries returns every entry of every customer, ordered like ListLedgerEntries.
	ListAllLedgerEntries(ctx context.Context) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines write operations for ledger entries
type LedgerWriter interface {
	SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error
	UpdateLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error
	DeleteLedgerEntry(ctx context.Context, entryID string) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
