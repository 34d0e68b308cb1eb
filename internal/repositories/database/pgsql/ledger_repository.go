package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_invoicing_app/internal/models"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerEntryColumns = `entry_id, customer_id, entry_date, particulars, debit, credit, linked_invoice_id,
		       created_at, created_by, last_updated_at, last_updated_by`

// Entries of one day keep the order they were recorded in.
const ledgerEntryOrder = `ORDER BY entry_date ASC, created_at ASC, entry_id ASC`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.CustomerID,
		&m.EntryDate,
		&m.Particulars,
		&m.Debit,
		&m.Credit,
		&m.LinkedInvoiceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	var ms []models.LedgerEntry
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

// insertLedgerEntry is shared with the invoice repository, which writes the
// "BY BILL" row in the same transaction as the invoice.
func insertLedgerEntry(ctx context.Context, q execer, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := q.Exec(ctx, query,
		m.EntryID, m.CustomerID, m.EntryDate, m.Particulars, m.Debit, m.Credit, m.LinkedInvoiceID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// SaveLedgerEntry inserts a single ledger entry.
func (r *PgxLedgerRepository) SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	return insertLedgerEntry(ctx, r.Pool, entry)
}

// FindLedgerEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindLedgerEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE entry_id = $1;`
	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// ListLedgerEntries retrieves a customer's entries dated within [from, to].
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, customerID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE customer_id = $1 AND entry_date >= $2 AND entry_date <= $3
		` + ledgerEntryOrder + `;`
	rows, err := r.Pool.Query(ctx, query, customerID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for customer %s: %w", customerID, err)
	}
	return collectLedgerEntries(rows)
}

// ListAllLedgerEntries retrieves every ledger entry.
func (r *PgxLedgerRepository) ListAllLedgerEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries ORDER BY customer_id ASC, entry_date ASC, created_at ASC, entry_id ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return collectLedgerEntries(rows)
}

// SumBeforeDate returns the net of the entries dated strictly before the given day.
func (r *PgxLedgerRepository) SumBeforeDate(ctx context.Context, customerID string, before time.Time) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(debit - credit), 0), COUNT(*)
		FROM ledger_entries
		WHERE customer_id = $1 AND entry_date < $2;
	`
	var sum decimal.Decimal
	var count int
	if err := r.Pool.QueryRow(ctx, query, customerID, domain.DateOnly(before)).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum ledger entries for customer %s: %w", customerID, err)
	}
	return sum, count, nil
}

// UpdateLedgerEntry rewrites the date, particulars and amounts of an entry.
func (r *PgxLedgerRepository) UpdateLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		UPDATE ledger_entries
		SET entry_date = $2, particulars = $3, debit = $4, credit = $5, last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.EntryID, m.EntryDate, m.Particulars, m.Debit, m.Credit, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry %s: %w", m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, m.EntryID)
	}
	return nil
}

// DeleteLedgerEntry removes a single entry.
func (r *PgxLedgerRepository) DeleteLedgerEntry(ctx context.Context, entryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}
