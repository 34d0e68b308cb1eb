package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils"
	"github.com/shopspring/decimal"
)

// MaterializeOption configures Materialize.
type MaterializeOption func(*materializeConfig)

type materializeConfig struct {
	format func(decimal.Decimal) string
}

// WithDisplayFormatter overrides how running balances are rendered as text.
func WithDisplayFormatter(format func(decimal.Decimal) string) MaterializeOption {
	return func(c *materializeConfig) {
		if format != nil {
			c.format = format
		}
	}
}

// Materialize folds chronologically ordered entries into a ledger view with a
// running balance per row. Entries are not sorted or mutated. An opening
// balance row is only accepted as the first entry.
func Materialize(entries []domain.LedgerEntry, opts ...MaterializeOption) (domain.LedgerView, error) {
	cfg := materializeConfig{format: utils.FormatAmount}
	for _, opt := range opts {
		opt(&cfg)
	}

	for i := 1; i < len(entries); i++ {
		if domain.IsOpeningBalance(entries[i].Particulars) {
			return domain.LedgerView{}, fmt.Errorf("%w: opening balance found at position %d, it must be the first entry", apperrors.ErrValidation, i+1)
		}
	}

	view := domain.LedgerView{
		Entries: make([]domain.DecoratedEntry, 0, len(entries)),
		Totals: domain.LedgerTotals{
			OpeningBalance: decimal.Zero,
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
			FinalBalance:   decimal.Zero,
		},
	}

	balance := decimal.Zero
	for i, entry := range entries {
		balance = balance.Add(entry.Debit).Sub(entry.Credit)
		if i == 0 && domain.IsOpeningBalance(entry.Particulars) {
			view.Totals.OpeningBalance = balance
		}
		view.Totals.TotalDebit = view.Totals.TotalDebit.Add(entry.Debit)
		view.Totals.TotalCredit = view.Totals.TotalCredit.Add(entry.Credit)
		view.Entries = append(view.Entries, domain.DecoratedEntry{
			LedgerEntry:    entry,
			SerialNo:       i + 1,
			Balance:        balance,
			BalanceDisplay: cfg.format(balance),
		})
	}
	view.Totals.FinalBalance = balance
	return view, nil
}
