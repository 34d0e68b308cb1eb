package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state stored with an invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "PENDING"
	InvoicePaid    InvoiceStatus = "PAID"
)

// Invoice is a row of the invoices table. Addresses and items are stored as
// JSON documents.
type Invoice struct {
	InvoiceID          string          `db:"invoice_id"`
	CustomerID         string          `db:"customer_id"`
	InvoiceDate        time.Time       `db:"invoice_date"`
	ClientName         string          `db:"client_name"`
	BillFrom           []byte          `db:"bill_from"`
	BillTo             []byte          `db:"bill_to"`
	Items              []byte          `db:"items"`
	TaxMode            string          `db:"tax_mode"`
	TaxPercent         decimal.Decimal `db:"tax_percent"`
	Subtotal           decimal.Decimal `db:"subtotal"`
	TaxAmount          decimal.Decimal `db:"tax_amount"`
	Total              decimal.Decimal `db:"total"`
	Status             InvoiceStatus   `db:"status"`
	ProjectDescription string          `db:"project_description"`
	PaymentTerms       string          `db:"payment_terms"`
	SuppliersRef       string          `db:"suppliers_ref"`
	OtherRef           string          `db:"other_ref"`
	HSN                string          `db:"hsn"`
	AuditFields
}
