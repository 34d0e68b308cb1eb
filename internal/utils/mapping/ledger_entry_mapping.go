package mapping

import (
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:         d.EntryID,
		CustomerID:      d.CustomerID,
		EntryDate:       domain.DateOnly(d.EntryDate),
		Particulars:     d.Particulars,
		Debit:           d.Debit,
		Credit:          d.Credit,
		LinkedInvoiceID: d.LinkedInvoiceID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:         m.EntryID,
		CustomerID:      m.CustomerID,
		EntryDate:       domain.DateOnly(m.EntryDate),
		Particulars:     m.Particulars,
		Debit:           m.Debit,
		Credit:          m.Credit,
		LinkedInvoiceID: m.LinkedInvoiceID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
