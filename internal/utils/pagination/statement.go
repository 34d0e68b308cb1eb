package pagination

import "github.com/SscSPs/ledger_invoicing_app/internal/core/domain"

// DefaultStatementPageSize is the number of ledger rows printed per page.
const DefaultStatementPageSize = 20

// StatementPage is one printable chunk of a statement. Renderers show the
// financial year caption only when IsFirstPage and the totals row only when
// IsLastPage; the column header repeats on every page.
type StatementPage struct {
	Index       int                     `json:"index"`
	Entries     []domain.DecoratedEntry `json:"entries"`
	IsFirstPage bool                    `json:"isFirstPage"`
	IsLastPage  bool                    `json:"isLastPage"`
}

// PaginateStatement splits balance-decorated entries into fixed-size pages in
// their given order. Zero entries yield zero pages. A non-positive pageSize
// uses DefaultStatementPageSize.
func PaginateStatement(entries []domain.DecoratedEntry, pageSize int) []StatementPage {
	if pageSize <= 0 {
		pageSize = DefaultStatementPageSize
	}
	if len(entries) == 0 {
		return []StatementPage{}
	}

	rows := make([]domain.DecoratedEntry, len(entries))
	copy(rows, entries)

	count := (len(rows) + pageSize - 1) / pageSize
	pages := make([]StatementPage, 0, count)
	for i := 0; i < count; i++ {
		start := i * pageSize
		end := min(start+pageSize, len(rows))
		pages = append(pages, StatementPage{
			Index:       i,
			Entries:     rows[start:end:end],
			IsFirstPage: i == 0,
			IsLastPage:  i == count-1,
		})
	}
	return pages
}
