package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/SscSPs/ledger_invoicing_app/internal/render"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/pagination"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

type statementService struct {
	BaseService
	customerRepo portsrepo.CustomerReader
	ledger       portssvc.LedgerReaderSvc
}

// NewStatementService creates a statement service on top of the ledger service.
func NewStatementService(customerRepo portsrepo.CustomerReader, ledger portssvc.LedgerReaderSvc, options ...ServiceOption) portssvc.StatementSvcFacade {
	return &statementService{
		BaseService:  newBaseService(options),
		customerRepo: customerRepo,
		ledger:       ledger,
	}
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

func (s *statementService) PageSize() int {
	if s.Settings.StatementPageSize <= 0 {
		return pagination.DefaultStatementPageSize
	}
	return s.Settings.StatementPageSize
}

func (s *statementService) BuildStatement(ctx context.Context, customerID string, fy domain.FinancialYear) (*render.StatementDocument, error) {
	fy, err := s.Settings.resolveYear(fy)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	view, err := s.ledger.GetLedger(ctx, customerID, fy)
	if err != nil {
		return nil, err
	}

	start, end := fy.Bounds(s.Settings.FinancialYearStartMonth)
	return &render.StatementDocument{
		Business:      s.Settings.BillFrom,
		Customer:      *customer,
		FinancialYear: fy,
		PeriodStart:   start,
		PeriodEnd:     end,
		Pages:         pagination.PaginateStatement(view.Entries, s.PageSize()),
		Totals:        view.Totals,
		GeneratedAt:   s.Settings.now(),
		Formatter:     s.Settings.Formatter,
	}, nil
}

func (s *statementService) RenderStatement(ctx context.Context, customerID string, fy domain.FinancialYear, format string) (*dto.RenderedStatement, error) {
	renderer, err := render.NewRenderer(format)
	if err != nil {
		return nil, err
	}
	doc, err := s.BuildStatement(ctx, customerID, fy)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, *doc); err != nil {
		s.LogError(ctx, err, "Failed to render statement",
			slog.String("customer_id", customerID),
			slog.String("format", format))
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}

	s.LogInfo(ctx, "Statement rendered",
		slog.String("customer_id", customerID),
		slog.String("year", string(doc.FinancialYear)),
		slog.Int("pages", len(doc.Pages)))
	return &dto.RenderedStatement{
		ContentType: renderer.ContentType(),
		FileName:    statementFileName(doc.Customer.Name, doc.FinancialYear, renderer.FileExtension()),
		Body:        buf.Bytes(),
	}, nil
}

// statementFileName gives e.g. "statement_Acme_Traders_2024-25.pdf".
func statementFileName(customerName string, fy domain.FinancialYear, ext string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(customerName, "_"), "_")
	if name == "" {
		name = "customer"
	}
	return fmt.Sprintf("statement_%s_%s%s", name, fy, ext)
}
