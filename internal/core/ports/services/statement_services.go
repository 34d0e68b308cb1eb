package services

import (
	"context"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/SscSPs/ledger_invoicing_app/internal/render"
)

// StatementSvcFacade builds and renders paginated ledger statements.
type StatementSvcFacade interface {
	// BuildStatement paginates the customer's ledger for fy.
	BuildStatement(ctx context.Context, customerID string, fy domain.FinancialYear) (*render.StatementDocument, error)

	// RenderStatement builds the statement and renders it as pdf or html.
	RenderStatement(ctx context.Context, customerID string, fy domain.FinancialYear, format string) (*dto.RenderedStatement, error)

	// PageSize is the number of rows per statement page.
	PageSize() int
}
