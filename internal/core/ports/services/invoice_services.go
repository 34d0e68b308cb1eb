package services

import (
	"context"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices, optionally for one financial year.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// NextInvoiceID previews the id the next invoice created today would receive.
	NextInvoiceID(ctx context.Context) (string, domain.FinancialYear, error)

	// ItemSuggestions returns distinct previously billed item names, sorted.
	ItemSuggestions(ctx context.Context) ([]string, error)
}

// InvoiceWriterSvc defines write operations for invoice data
type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actor string) (*domain.Invoice, error)

	// UpdateInvoice rewrites an unpaid invoice and its ledger entry.
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, actor string) (*domain.Invoice, error)

	MarkInvoicePaid(ctx context.Context, invoiceID string, actor string) (*domain.Invoice, error)

	// DeleteInvoice removes the invoice and its linked ledger entry together.
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceCalculatorSvc defines pure calculations related to invoices
type InvoiceCalculatorSvc interface {
	PreviewTotals(req dto.TaxPreviewRequest) (domain.InvoiceTotals, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceCalculatorSvc
}
