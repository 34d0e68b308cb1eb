package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxMode selects how an invoice's tax percentage is chosen.
type TaxMode string

const (
	TaxModeAuto   TaxMode = "AUTO"
	TaxModeNone   TaxMode = "NONE"
	TaxModeManual TaxMode = "MANUAL"
)

// DefaultTaxPercent is the rate applied in TaxModeAuto.
var DefaultTaxPercent = decimal.NewFromInt(18)

// ParseTaxMode accepts the mode case-insensitively.
func ParseTaxMode(s string) (TaxMode, bool) {
	switch TaxMode(strings.ToUpper(strings.TrimSpace(s))) {
	case TaxModeAuto:
		return TaxModeAuto, true
	case TaxModeNone:
		return TaxModeNone, true
	case TaxModeManual:
		return TaxModeManual, true
	}
	return "", false
}

// InvoiceStatus tracks whether an invoice has been settled.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "PENDING"
	InvoicePaid    InvoiceStatus = "PAID"
)

// Address is a point-in-time copy of a party's billing details.
type Address struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostCode      string `json:"postCode"`
	Country       string `json:"country"`
	GSTIN         string `json:"gstin"`
}

// LineItem is one billed line. Its total is always quantity × rate; the only
// way to change quantity or rate is through a method that re-derives it.
type LineItem struct {
	name     string
	quantity int
	rate     decimal.Decimal
	unit     string
	total    decimal.Decimal
}

// NewLineItem clamps quantity to at least 1 and rate to at least 0.
func NewLineItem(name string, quantity int, rate decimal.Decimal, unit string) LineItem {
	if quantity < 1 {
		quantity = 1
	}
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	return LineItem{
		name:     strings.TrimSpace(name),
		quantity: quantity,
		rate:     rate,
		unit:     unit,
		total:    rate.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func (li LineItem) Name() string           { return li.name }
func (li LineItem) Quantity() int          { return li.quantity }
func (li LineItem) Rate() decimal.Decimal  { return li.rate }
func (li LineItem) Unit() string           { return li.unit }
func (li LineItem) Total() decimal.Decimal { return li.total }

// WithQuantity returns a copy with a new quantity and a re-derived total.
func (li LineItem) WithQuantity(quantity int) LineItem {
	return NewLineItem(li.name, quantity, li.rate, li.unit)
}

// WithRate returns a copy with a new rate and a re-derived total.
func (li LineItem) WithRate(rate decimal.Decimal) LineItem {
	return NewLineItem(li.name, li.quantity, rate, li.unit)
}

// IsValid reports whether the line can contribute to an invoice.
func (li LineItem) IsValid() bool {
	return li.name != "" && li.quantity > 0 && !li.rate.IsNegative()
}

type lineItemJSON struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Unit     string          `json:"unit"`
	Total    decimal.Decimal `json:"total"`
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		Name:     li.name,
		Quantity: li.quantity,
		Rate:     li.rate,
		Unit:     li.unit,
		Total:    li.total,
	})
}

// UnmarshalJSON ignores any stored total and re-derives it.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*li = NewLineItem(raw.Name, raw.Quantity, raw.Rate, raw.Unit)
	return nil
}

// InvoiceTotals is the output of the tax calculator.
type InvoiceTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
	Total      decimal.Decimal `json:"total"`
}

// Invoice is a tax invoice with snapshot addresses and derived totals.
type Invoice struct {
	InvoiceID          string        `json:"invoiceID"`
	CustomerID         string        `json:"customerID"`
	InvoiceDate        time.Time     `json:"invoiceDate"`
	ClientName         string        `json:"clientName"`
	BillFrom           Address       `json:"billFrom"`
	BillTo             Address       `json:"billTo"`
	Items              []LineItem    `json:"items"`
	TaxMode            TaxMode       `json:"taxMode"`
	Status             InvoiceStatus `json:"status"`
	ProjectDescription string        `json:"projectDescription"`
	PaymentTerms       string        `json:"paymentTerms"`
	SuppliersRef       string        `json:"suppliersRef"`
	OtherRef           string        `json:"otherRef"`
	HSN                string        `json:"hsn"`
	InvoiceTotals
	AuditFields
}

// IsPaid reports whether the invoice has been settled.
func (i Invoice) IsPaid() bool {
	return i.Status == InvoicePaid
}

// LedgerParticulars is the particulars text of the invoice's ledger row.
func (i Invoice) LedgerParticulars() string {
	return InvoiceParticularsPrefix + i.InvoiceID
}
