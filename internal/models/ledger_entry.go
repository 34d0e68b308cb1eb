package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	CustomerID      string          `db:"customer_id"`
	EntryDate       time.Time       `db:"entry_date"`
	Particulars     string          `db:"particulars"`
	Debit           decimal.Decimal `db:"debit"`
	Credit          decimal.Decimal `db:"credit"`
	LinkedInvoiceID *string         `db:"linked_invoice_id"` // Nullable
	AuditFields
}
