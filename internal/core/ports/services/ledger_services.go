package services

import (
	"context"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
)

// LedgerReaderSvc defines read operations for customer ledgers
type LedgerReaderSvc interface {
	// GetLedger materializes a customer's ledger for one financial year,
	// prefixed by the carried-forward opening balance when there is prior history.
	GetLedger(ctx context.Context, customerID string, fy domain.FinancialYear) (*domain.LedgerView, error)
}

// LedgerWriterSvc defines write operations for ledger entries
type LedgerWriterSvc interface {
	RecordPayment(ctx context.Context, customerID string, req dto.RecordPaymentRequest, actor string) (*domain.LedgerEntry, error)
	AddEntry(ctx context.Context, customerID string, req dto.LedgerEntryRequest, actor string) (*domain.LedgerEntry, error)
	UpdateEntry(ctx context.Context, entryID string, req dto.LedgerEntryRequest, actor string) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
