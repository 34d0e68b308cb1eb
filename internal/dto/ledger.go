package dto

import (
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest records money received from a customer.
type RecordPaymentRequest struct {
	Date   string          `json:"date" binding:"required,datetime=2006-01-02" example:"2024-05-01"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	Method string          `json:"method" example:"UPI"`
}

// LedgerEntryRequest creates or edits a manual ledger entry. Method only
// applies when editing a payment row, whose particulars are rebuilt from it.
type LedgerEntryRequest struct {
	Date        string          `json:"date" binding:"required,datetime=2006-01-02" example:"2024-05-01"`
	Particulars string          `json:"particulars"`
	Debit       decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit      decimal.Decimal `json:"credit" swaggertype:"string"`
	Method      string          `json:"method,omitempty" example:"UPI"`
}

// LedgerEntryResponse defines the data returned for a stored ledger entry.
type LedgerEntryResponse struct {
	EntryID         string          `json:"entryID"`
	CustomerID      string          `json:"customerID"`
	Date            string          `json:"date"`
	Particulars     string          `json:"particulars"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	LinkedInvoiceID *string         `json:"linkedInvoiceID,omitempty"`
	Kind            string          `json:"kind"`
	Editable        bool            `json:"editable"`
}

// LedgerRowResponse is a ledger entry with its running balance.
type LedgerRowResponse struct {
	SerialNo int `json:"sNo"`
	LedgerEntryResponse
	Balance        decimal.Decimal `json:"balance"`
	BalanceDisplay string          `json:"balanceDisplay"`
}

// LedgerTotalsResponse aggregates the ledger.
type LedgerTotalsResponse struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	FinalBalance   decimal.Decimal `json:"finalBalance"`
}

// LedgerResponse is a customer's ledger for one financial year.
type LedgerResponse struct {
	CustomerID    string               `json:"customerID"`
	FinancialYear string               `json:"financialYear"`
	Entries       []LedgerRowResponse  `json:"entries"`
	Totals        LedgerTotalsResponse `json:"totals"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:         e.EntryID,
		CustomerID:      e.CustomerID,
		Date:            FormatDate(e.EntryDate),
		Particulars:     e.Particulars,
		Debit:           e.Debit,
		Credit:          e.Credit,
		LinkedInvoiceID: e.LinkedInvoiceID,
		Kind:            string(domain.Classify(*e)),
		Editable:        domain.CanEdit(*e),
	}
}

// ToLedgerRows converts decorated entries to response rows
func ToLedgerRows(entries []domain.DecoratedEntry) []LedgerRowResponse {
	rows := make([]LedgerRowResponse, len(entries))
	for i := range entries {
		rows[i] = LedgerRowResponse{
			SerialNo:            entries[i].SerialNo,
			LedgerEntryResponse: ToLedgerEntryResponse(&entries[i].LedgerEntry),
			Balance:             entries[i].Balance,
			BalanceDisplay:      entries[i].BalanceDisplay,
		}
	}
	return rows
}

// ToLedgerTotalsResponse converts ledger totals to their DTO
func ToLedgerTotalsResponse(t domain.LedgerTotals) LedgerTotalsResponse {
	return LedgerTotalsResponse(t)
}

// ToLedgerResponse converts a materialized ledger to its DTO
func ToLedgerResponse(customerID string, fy domain.FinancialYear, view *domain.LedgerView) LedgerResponse {
	return LedgerResponse{
		CustomerID:    customerID,
		FinancialYear: string(fy),
		Entries:       ToLedgerRows(view.Entries),
		Totals:        ToLedgerTotalsResponse(view.Totals),
	}
}
