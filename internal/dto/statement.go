package dto

import "github.com/SscSPs/ledger_invoicing_app/internal/render"

// StatementPageResponse is the page contract consumed by renderers.
type StatementPageResponse struct {
	Index       int                 `json:"index"`
	Entries     []LedgerRowResponse `json:"entries"`
	IsFirstPage bool                `json:"isFirstPage"`
	IsLastPage  bool                `json:"isLastPage"`
}

// StatementPagesResponse is a paginated statement without rendering.
type StatementPagesResponse struct {
	CustomerID    string                  `json:"customerID"`
	FinancialYear string                  `json:"financialYear"`
	PageSize      int                     `json:"pageSize"`
	Pages         []StatementPageResponse `json:"pages"`
	Totals        LedgerTotalsResponse    `json:"totals"`
}

// StatementQuery selects the year and output format of a rendered statement.
type StatementQuery struct {
	Year   string `form:"year" binding:"omitempty,financialyear"`
	Format string `form:"format,default=pdf" binding:"omitempty,oneof=pdf html"`
}

// RenderedStatement is a finished document ready to be written out.
type RenderedStatement struct {
	ContentType string
	FileName    string
	Body        []byte
}

// ToStatementPagesResponse converts a statement document to its page contract DTO
func ToStatementPagesResponse(doc *render.StatementDocument, pageSize int) StatementPagesResponse {
	pages := make([]StatementPageResponse, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = StatementPageResponse{
			Index:       p.Index,
			Entries:     ToLedgerRows(p.Entries),
			IsFirstPage: p.IsFirstPage,
			IsLastPage:  p.IsLastPage,
		}
	}
	return StatementPagesResponse{
		CustomerID:    doc.Customer.CustomerID,
		FinancialYear: string(doc.FinancialYear),
		PageSize:      pageSize,
		Pages:         pages,
		Totals:        ToLedgerTotalsResponse(doc.Totals),
	}
}
