package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultInvoicePageSize = 20

type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	customerRepo portsrepo.CustomerRepositoryFacade,
	options ...ServiceOption,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService:  newBaseService(options),
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// PreviewTotals runs the tax calculator without persisting anything. Incomplete
// lines are skipped, matching what a half-filled form would show.
func (s *invoiceService) PreviewTotals(req dto.TaxPreviewRequest) (domain.InvoiceTotals, error) {
	mode, manual, err := parseTaxInputs(req.TaxMode, req.TaxPercent)
	if err != nil {
		return domain.InvoiceTotals{}, err
	}
	items, err := buildLineItems(req.Items, false)
	if err != nil {
		return domain.InvoiceTotals{}, err
	}
	return accounting.ComputeTotals(items, mode, manual)
}

func (s *invoiceService) NextInvoiceID(ctx context.Context) (string, domain.FinancialYear, error) {
	fy := s.Settings.currentFinancialYear()
	id, err := s.nextInvoiceID(ctx, fy)
	if err != nil {
		return "", "", err
	}
	return id, fy, nil
}

func (s *invoiceService) nextInvoiceID(ctx context.Context, fy domain.FinancialYear) (string, error) {
	prefix := accounting.InvoiceIDPrefix(s.Settings.OrgPrefix, fy)
	existing, err := s.invoiceRepo.ListInvoiceIDsWithPrefix(ctx, prefix)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoice ids", slog.String("prefix", prefix))
		return "", fmt.Errorf("failed to list invoice ids: %w", err)
	}
	next := accounting.NextInvoiceID(s.Settings.OrgPrefix, fy, existing)
	s.LogDebug(ctx, "Allocated invoice id", slog.String("invoice_id", next), slog.Int("existing", len(existing)))
	return next, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actor string) (*domain.Invoice, error) {
	now := s.Settings.now()
	invoice, err := s.invoiceFromRequest(req)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected invoice", slog.String("client_name", req.ClientName))
		return nil, err
	}

	customer, err := s.findOrCreateCustomer(ctx, invoice.ClientName, invoice.BillTo, actor)
	if err != nil {
		return nil, err
	}
	invoice.CustomerID = customer.CustomerID

	// Numbering follows the financial year of today, not of the invoice date.
	invoice.InvoiceID, err = s.nextInvoiceID(ctx, s.Settings.currentFinancialYear())
	if err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoicePending
	invoice.AuditFields = domain.NewAuditFields(now, actor)

	entry := invoiceLedgerEntry(*invoice, uuid.NewString())
	entry.AuditFields = domain.NewAuditFields(now, actor)

	if err := s.invoiceRepo.SaveInvoiceWithLedgerEntry(ctx, *invoice, entry); err != nil {
		s.LogError(ctx, err, "Failed to save invoice", slog.String("invoice_id", invoice.InvoiceID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("customer_id", invoice.CustomerID),
		slog.String("total", invoice.Total.StringFixed(2)))
	return invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultInvoicePageSize
	}

	var from, to *time.Time
	if params.Year != "" {
		fy, err := domain.ParseFinancialYear(params.Year)
		if err != nil {
			return nil, err
		}
		start, end := fy.Bounds(s.Settings.FinancialYearStartMonth)
		from, to = &start, &end
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, from, to, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("year", params.Year))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return &dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, actor string) (*domain.Invoice, error) {
	existing, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if existing.IsPaid() {
		err := apperrors.NewPolicyViolation("PAID_INVOICE", "edit", "invoice "+invoiceID+" is paid")
		s.LogWarn(ctx, err, "Rejected edit of paid invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	updated, err := s.invoiceFromRequest(req)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected invoice update", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	customer, err := s.findOrCreateCustomer(ctx, updated.ClientName, updated.BillTo, actor)
	if err != nil {
		return nil, err
	}

	updated.InvoiceID = existing.InvoiceID
	updated.CustomerID = customer.CustomerID
	updated.Status = existing.Status
	updated.AuditFields = existing.AuditFields
	updated.Touch(s.Settings.now(), actor)

	// The entry id is only used if the linked row has gone missing and must be re-created.
	entry := invoiceLedgerEntry(*updated, uuid.NewString())
	entry.AuditFields = updated.AuditFields

	if err := s.invoiceRepo.UpdateInvoiceWithLedgerEntry(ctx, *updated, entry); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice updated", slog.String("invoice_id", invoiceID))
	return updated, nil
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, invoiceID string, actor string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsPaid() {
		return invoice, nil
	}

	now := s.Settings.now()
	if err := s.invoiceRepo.MarkInvoicePaid(ctx, invoiceID, actor, now); err != nil {
		s.LogError(ctx, err, "Failed to mark invoice paid", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	invoice.Status = domain.InvoicePaid
	invoice.Touch(now, actor)

	s.LogInfo(ctx, "Invoice marked paid", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// DeleteInvoice removes the invoice together with its "BY BILL" ledger rows.
func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	removed, err := s.invoiceRepo.DeleteInvoiceWithLedgerEntries(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		}
		return err
	}

	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID), slog.Int64("ledger_entries_removed", removed))
	return nil
}

func (s *invoiceService) ItemSuggestions(ctx context.Context) ([]string, error) {
	names, err := s.invoiceRepo.ListItemNames(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list item names")
		return nil, fmt.Errorf("failed to list item names: %w", err)
	}

	suggestions := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			suggestions = append(suggestions, name)
		}
	}
	slices.Sort(suggestions)
	return slices.Compact(suggestions), nil
}

// invoiceFromRequest validates the request and builds an invoice with derived
// totals. Identity, customer and audit fields are left for the caller.
func (s *invoiceService) invoiceFromRequest(req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	clientName := strings.TrimSpace(req.ClientName)
	if clientName == "" {
		return nil, fmt.Errorf("%w: client name is required", apperrors.ErrValidation)
	}
	invoiceDate, err := dto.ParseDate("invoiceDate", req.InvoiceDate)
	if err != nil {
		return nil, err
	}

	billFrom := req.BillFrom.ToDomain()
	if strings.TrimSpace(billFrom.Name) == "" {
		billFrom = s.Settings.BillFrom
	}
	if strings.TrimSpace(billFrom.Name) == "" || strings.TrimSpace(billFrom.StreetAddress) == "" {
		return nil, fmt.Errorf("%w: bill-from name and street address are required", apperrors.ErrValidation)
	}
	billTo := req.BillTo.ToDomain()
	if strings.TrimSpace(billTo.StreetAddress) == "" {
		return nil, fmt.Errorf("%w: bill-to street address is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(billTo.Name) == "" {
		billTo.Name = clientName
	}

	mode, manual, err := parseTaxInputs(req.TaxMode, req.TaxPercent)
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(req.Items, true)
	if err != nil {
		return nil, err
	}
	totals, err := accounting.ComputeTotals(items, mode, manual)
	if err != nil {
		return nil, err
	}

	return &domain.Invoice{
		InvoiceDate:        domain.DateOnly(invoiceDate),
		ClientName:         clientName,
		BillFrom:           billFrom,
		BillTo:             billTo,
		Items:              items,
		TaxMode:            mode,
		ProjectDescription: strings.TrimSpace(req.ProjectDescription),
		PaymentTerms:       strings.TrimSpace(req.PaymentTerms),
		SuppliersRef:       strings.TrimSpace(req.SuppliersRef),
		OtherRef:           strings.TrimSpace(req.OtherRef),
		HSN:                strings.TrimSpace(req.HSN),
		InvoiceTotals:      totals,
	}, nil
}

func (s *invoiceService) findOrCreateCustomer(ctx context.Context, name string, billTo domain.Address, actor string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByName(ctx, name)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up customer", slog.String("name", name))
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	created := domain.Customer{
		CustomerID:    uuid.NewString(),
		Name:          name,
		Email:         billTo.Email,
		StreetAddress: billTo.StreetAddress,
		City:          billTo.City,
		PostCode:      billTo.PostCode,
		Country:       billTo.Country,
		GSTIN:         billTo.GSTIN,
		AuditFields:   domain.NewAuditFields(s.Settings.now(), actor),
	}
	if err := s.customerRepo.SaveCustomer(ctx, created); err != nil {
		s.LogError(ctx, err, "Failed to create customer for invoice", slog.String("name", name))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.LogInfo(ctx, "Customer created from invoice", slog.String("customer_id", created.CustomerID), slog.String("name", name))
	return &created, nil
}

// invoiceLedgerEntry is the "BY BILL" debit row that mirrors an invoice.
func invoiceLedgerEntry(invoice domain.Invoice, entryID string) domain.LedgerEntry {
	linked := invoice.InvoiceID
	return domain.LedgerEntry{
		EntryID:         entryID,
		CustomerID:      invoice.CustomerID,
		EntryDate:       invoice.InvoiceDate,
		Particulars:     invoice.LedgerParticulars(),
		Debit:           invoice.Total,
		Credit:          decimal.Zero,
		LinkedInvoiceID: &linked,
	}
}

func parseTaxInputs(modeText string, percent *json.Number) (domain.TaxMode, decimal.Decimal, error) {
	mode, ok := domain.ParseTaxMode(modeText)
	if !ok {
		return "", decimal.Zero, fmt.Errorf("%w: unknown tax mode %q", apperrors.ErrValidation, modeText)
	}
	if mode != domain.TaxModeManual || percent == nil {
		return mode, decimal.Zero, nil
	}
	manual, err := accounting.ParseTaxPercent(percent.String())
	if err != nil {
		return "", decimal.Zero, err
	}
	return mode, manual, nil
}

// buildLineItems converts request lines. With strict set any incomplete line is a
// validation error; otherwise such lines are dropped.
func buildLineItems(reqs []dto.LineItemRequest, strict bool) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(reqs))
	for i, r := range reqs {
		if strings.TrimSpace(r.Name) == "" || r.Quantity < 1 || r.Rate.IsNegative() {
			if strict {
				return nil, fmt.Errorf("%w: item %d needs a name, a quantity of at least 1 and a non-negative rate", apperrors.ErrValidation, i+1)
			}
			continue
		}
		items = append(items, domain.NewLineItem(r.Name, r.Quantity, r.Rate, r.Unit))
	}
	return items, nil
}
