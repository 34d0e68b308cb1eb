package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// OpeningBalanceParticulars marks the synthetic carried-forward row.
	OpeningBalanceParticulars = "Opening Balance"
	// InvoiceParticularsPrefix precedes the invoice id on invoice-linked rows.
	InvoiceParticularsPrefix = "BY BILL "
	// PaymentParticularsPrefix precedes the payment method on receipt rows.
	PaymentParticularsPrefix = "PAYMENT RECEIVED"
	// DefaultPaymentMethod is used when a payment names no method.
	DefaultPaymentMethod = "CASH"
)

// LedgerEntry is one dated line in a customer's running account.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"`
	CustomerID      string          `json:"customerID"`
	EntryDate       time.Time       `json:"entryDate"`
	Particulars     string          `json:"particulars"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	LinkedInvoiceID *string         `json:"linkedInvoiceID,omitempty"`
	AuditFields
}

// Net is the entry's effect on the running balance.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// NewOpeningBalanceEntry builds the synthetic row carrying a prior balance
// into a financial year. A positive balance is a debit, anything else a credit.
func NewOpeningBalanceEntry(customerID string, yearStart time.Time, carried decimal.Decimal) LedgerEntry {
	entry := LedgerEntry{
		CustomerID:  customerID,
		EntryDate:   yearStart,
		Particulars: OpeningBalanceParticulars,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
	}
	if carried.IsPositive() {
		entry.Debit = carried
	} else {
		entry.Credit = carried.Neg()
	}
	return entry
}

// DecoratedEntry is a ledger entry with its position and running balance.
type DecoratedEntry struct {
	LedgerEntry
	SerialNo       int             `json:"sNo"`
	Balance        decimal.Decimal `json:"balance"`
	BalanceDisplay string          `json:"balanceDisplay"`
}

// LedgerTotals aggregates a materialized ledger.
type LedgerTotals struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	FinalBalance   decimal.Decimal `json:"finalBalance"`
}

// LedgerView is derived from stored entries and never persisted.
type LedgerView struct {
	FinancialYear FinancialYear    `json:"financialYear,omitempty"`
	Entries       []DecoratedEntry `json:"entries"`
	Totals        LedgerTotals     `json:"totals"`
}
