package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/models"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const ledgerEntryColumns = `entry_id, customer_id, entry_date, particulars, debit, credit, linked_invoice_id,
	created_at, created_by, last_updated_at, last_updated_by`

const ledgerEntryOrder = `ORDER BY entry_date ASC, created_at ASC, entry_id ASC`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanLedgerEntry(row rowScanner) (domain.LedgerEntry, error) {
	var m models.LedgerEntry
	var entryDate string
	var linked sql.NullString
	var audit auditText
	dest := append([]any{&m.EntryID, &m.CustomerID, &entryDate, &m.Particulars, &m.Debit, &m.Credit, &linked}, audit.dest()...)
	if err := row.Scan(dest...); err != nil {
		return domain.LedgerEntry{}, err
	}

	date, err := parseDate(entryDate)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("bad entry_date %q: %w", entryDate, err)
	}
	m.EntryDate = date
	if linked.Valid {
		m.LinkedInvoiceID = &linked.String
	}
	if m.AuditFields, err = audit.parse(); err != nil {
		return domain.LedgerEntry{}, err
	}
	return mapping.ToDomainLedgerEntry(m), nil
}

func (s *Store) queryLedgerEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertLedgerEntry(ctx context.Context, q execer, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	args := append([]any{
		m.EntryID, m.CustomerID, formatDate(m.EntryDate), m.Particulars,
		m.Debit.String(), m.Credit.String(), m.LinkedInvoiceID,
	}, auditArgs(m.AuditFields)...)
	if _, err := q.ExecContext(ctx, `INSERT INTO ledger_entries (`+ledgerEntryColumns+`) VALUES (`+placeholders(11)+`)`, args...); err != nil {
		return fmt.Errorf("failed to insert ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// SaveLedgerEntry inserts a single ledger entry.
func (s *Store) SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertLedgerEntry(ctx, s.db, entry)
}

// FindLedgerEntryByID retrieves a ledger entry by its ID.
func (s *Store) FindLedgerEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := scanLedgerEntry(s.db.QueryRowContext(ctx, `SELECT `+ledgerEntryColumns+` FROM ledger_entries WHERE entry_id = ?`, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}
	return &e, nil
}

// ListLedgerEntries retrieves a customer's entries dated within [from, to].
func (s *Store) ListLedgerEntries(ctx context.Context, customerID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryLedgerEntries(ctx, `
		SELECT `+ledgerEntryColumns+`
		FROM ledger_entries
		WHERE customer_id = ? AND entry_date >= ? AND entry_date <= ?
		`+ledgerEntryOrder,
		customerID, formatDate(from), formatDate(to))
}

// ListAllLedgerEntries retrieves every ledger entry.
func (s *Store) ListAllLedgerEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryLedgerEntries(ctx, `SELECT `+ledgerEntryColumns+` FROM ledger_entries ORDER BY customer_id ASC, entry_date ASC, created_at ASC, entry_id ASC`)
}

// SumBeforeDate returns the net of the entries dated strictly before the
// given day. Amounts are summed as decimals, not by SQLite.
func (s *Store) SumBeforeDate(ctx context.Context, customerID string, before time.Time) (decimal.Decimal, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT debit, credit FROM ledger_entries WHERE customer_id = ? AND entry_date < ?`,
		customerID, formatDate(before))
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum ledger entries for customer %s: %w", customerID, err)
	}
	defer rows.Close()

	sum := decimal.Zero
	count := 0
	for rows.Next() {
		var debit, credit decimal.Decimal
		if err := rows.Scan(&debit, &credit); err != nil {
			return decimal.Zero, 0, fmt.Errorf("failed to scan ledger amounts: %w", err)
		}
		sum = sum.Add(debit).Sub(credit)
		count++
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, 0, err
	}
	return sum, count, nil
}

// UpdateLedgerEntry rewrites the date, particulars and amounts of an entry.
func (s *Store) UpdateLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := mapping.ToModelLedgerEntry(entry)
	res, err := s.db.ExecContext(ctx, `
		UPDATE ledger_entries
		SET entry_date = ?, particulars = ?, debit = ?, credit = ?, last_updated_at = ?, last_updated_by = ?
		WHERE entry_id = ?`,
		formatDate(m.EntryDate), m.Particulars, m.Debit.String(), m.Credit.String(),
		formatTimestamp(m.LastUpdatedAt), m.LastUpdatedBy, m.EntryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry %s: %w", m.EntryID, err)
	}
	return requireAffected(res, "ledger entry "+m.EntryID)
}

// DeleteLedgerEntry removes a single entry.
func (s *Store) DeleteLedgerEntry(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE entry_id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry %s: %w", entryID, err)
	}
	return requireAffected(res, "ledger entry "+entryID)
}
