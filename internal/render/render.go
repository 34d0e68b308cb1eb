// Package render turns paginated ledger statements into printable documents.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	FormatPDF  = "pdf"
	FormatHTML = "html"

	noEntriesText = "No entries found"
	dateLayout    = "02-01-2006"
)

// StatementDocument is everything a renderer needs for one customer-year.
type StatementDocument struct {
	Business      domain.Address
	Customer      domain.Customer
	FinancialYear domain.FinancialYear
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Pages         []pagination.StatementPage
	Totals        domain.LedgerTotals
	GeneratedAt   time.Time
	// Formatter renders amounts; nil uses the default English grouping.
	Formatter *utils.AmountFormatter
}

func (d StatementDocument) amount(v decimal.Decimal) string {
	if d.Formatter != nil {
		return d.Formatter.Format(v)
	}
	return utils.FormatAmount(v)
}

// leg renders a debit or credit cell, leaving zero legs blank.
func (d StatementDocument) leg(v decimal.Decimal) string {
	if v.IsZero() {
		return ""
	}
	return d.amount(v)
}

func (d StatementDocument) caption() string {
	return fmt.Sprintf("Financial Year: %s (%s to %s)", d.FinancialYear, d.PeriodStart.Format(dateLayout), d.PeriodEnd.Format(dateLayout))
}

// Renderer writes a statement document in one output format.
type Renderer interface {
	Render(w io.Writer, doc StatementDocument) error
	ContentType() string
	FileExtension() string
}

// NewRenderer picks a renderer by format name.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPDF:
		return NewPDFRenderer(), nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported statement format %q", apperrors.ErrValidation, format)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
