package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddressRequest is a party's billing details as submitted.
type AddressRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email" binding:"omitempty,email"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostCode      string `json:"postCode"`
	Country       string `json:"country"`
	GSTIN         string `json:"gstin"`
}

// ToDomain converts the request to an address snapshot.
func (a AddressRequest) ToDomain() domain.Address {
	return domain.Address(a)
}

// LineItemRequest is one submitted invoice line. Totals are always derived.
type LineItemRequest struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate" swaggertype:"string"`
	Unit     string          `json:"unit"`
}

// TaxPreviewRequest carries the inputs of the tax calculator.
type TaxPreviewRequest struct {
	Items      []LineItemRequest `json:"items" binding:"required,min=1"`
	TaxMode    string            `json:"taxMode" binding:"required"`
	TaxPercent *json.Number      `json:"taxPercent,omitempty" swaggertype:"number"`
}

// CreateInvoiceRequest defines the data needed to create a new invoice.
type CreateInvoiceRequest struct {
	ClientName         string            `json:"clientName" binding:"required"`
	InvoiceDate        string            `json:"invoiceDate" binding:"required,datetime=2006-01-02" example:"2024-05-01"`
	BillFrom           AddressRequest    `json:"billFrom"`
	BillTo             AddressRequest    `json:"billTo"`
	Items              []LineItemRequest `json:"items" binding:"required,min=1"`
	TaxMode            string            `json:"taxMode" binding:"required"`
	TaxPercent         *json.Number      `json:"taxPercent,omitempty" swaggertype:"number"`
	ProjectDescription string            `json:"projectDescription"`
	PaymentTerms       string            `json:"paymentTerms"`
	SuppliersRef       string            `json:"suppliersRef"`
	OtherRef           string            `json:"otherRef"`
	HSN                string            `json:"hsn"`
}

// UpdateInvoiceRequest replaces every editable field of an unpaid invoice.
type UpdateInvoiceRequest = CreateInvoiceRequest

// LineItemResponse is a stored invoice line.
type LineItemResponse struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Unit     string          `json:"unit"`
	Total    decimal.Decimal `json:"total"`
}

// TotalsResponse is the output of the tax calculator.
type TotalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxPercent decimal.Decimal `json:"taxPercent"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
	Total      decimal.Decimal `json:"total"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID          string             `json:"invoiceID"`
	CustomerID         string             `json:"customerID"`
	InvoiceDate        string             `json:"invoiceDate"`
	ClientName         string             `json:"clientName"`
	BillFrom           domain.Address     `json:"billFrom"`
	BillTo             domain.Address     `json:"billTo"`
	Items              []LineItemResponse `json:"items"`
	TaxMode            string             `json:"taxMode"`
	Status             string             `json:"status"`
	ProjectDescription string             `json:"projectDescription"`
	PaymentTerms       string             `json:"paymentTerms"`
	SuppliersRef       string             `json:"suppliersRef"`
	OtherRef           string             `json:"otherRef"`
	HSN                string             `json:"hsn"`
	TotalsResponse
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Year      string  `form:"year" binding:"omitempty,financialyear"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListInvoicesResponse is one page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// NextInvoiceIDResponse previews the id the next saved invoice will get.
type NextInvoiceIDResponse struct {
	InvoiceID     string `json:"invoiceID"`
	FinancialYear string `json:"financialYear"`
}

// ItemSuggestionsResponse lists previously billed item names.
type ItemSuggestionsResponse struct {
	Items []string `json:"items"`
}

// ToTotalsResponse converts calculator output to its DTO
func ToTotalsResponse(t domain.InvoiceTotals) TotalsResponse {
	return TotalsResponse{
		Subtotal:   t.Subtotal,
		TaxPercent: t.TaxPercent,
		TaxAmount:  t.TaxAmount,
		Total:      t.Total,
	}
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = LineItemResponse{
			Name:     item.Name(),
			Quantity: item.Quantity(),
			Rate:     item.Rate(),
			Unit:     item.Unit(),
			Total:    item.Total(),
		}
	}
	return InvoiceResponse{
		InvoiceID:          inv.InvoiceID,
		CustomerID:         inv.CustomerID,
		InvoiceDate:        FormatDate(inv.InvoiceDate),
		ClientName:         inv.ClientName,
		BillFrom:           inv.BillFrom,
		BillTo:             inv.BillTo,
		Items:              items,
		TaxMode:            string(inv.TaxMode),
		Status:             string(inv.Status),
		ProjectDescription: inv.ProjectDescription,
		PaymentTerms:       inv.PaymentTerms,
		SuppliersRef:       inv.SuppliersRef,
		OtherRef:           inv.OtherRef,
		HSN:                inv.HSN,
		TotalsResponse:     ToTotalsResponse(inv.InvoiceTotals),
		CreatedAt:          inv.CreatedAt,
		LastUpdatedAt:      inv.LastUpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain.Invoice to []InvoiceResponse.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return res
}
