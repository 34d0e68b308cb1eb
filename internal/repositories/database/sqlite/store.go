// Package sqlite provides a SQLite-backed implementation of the repository
// ports, used for single-user offline installs and by ledgerctl.
//
// Money is stored as decimal TEXT and never summed by SQLite. Dates are
// stored as YYYY-MM-DD and timestamps as fixed-width UTC text so that both
// sort lexically. Access is serialised with a sync.RWMutex.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store implements the customer, invoice and ledger repositories on one SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ portsrepo.CustomerRepositoryFacade = (*Store)(nil)
	_ portsrepo.InvoiceRepositoryFacade  = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade   = (*Store)(nil)
)

// New opens the database at dbPath and migrates its schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on"
	if dbPath != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CustomerRepo: store,
		InvoiceRepo:  store,
		LedgerRepo:   store,
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		street_address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		post_code TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		gstin TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL,
		last_updated_at TEXT NOT NULL,
		last_updated_by TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoices (
		invoice_id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(customer_id),
		invoice_date TEXT NOT NULL,
		client_name TEXT NOT NULL,
		bill_from TEXT NOT NULL,
		bill_to TEXT NOT NULL,
		items TEXT NOT NULL,
		tax_mode TEXT NOT NULL,
		tax_percent TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		tax_amount TEXT NOT NULL,
		total TEXT NOT NULL,
		status TEXT NOT NULL,
		project_description TEXT NOT NULL DEFAULT '',
		payment_terms TEXT NOT NULL DEFAULT '',
		suppliers_ref TEXT NOT NULL DEFAULT '',
		other_ref TEXT NOT NULL DEFAULT '',
		hsn TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL,
		last_updated_at TEXT NOT NULL,
		last_updated_by TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_customer ON invoices(customer_id);
	CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices(invoice_date, created_at);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		entry_id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(customer_id),
		entry_date TEXT NOT NULL,
		particulars TEXT NOT NULL,
		debit TEXT NOT NULL,
		credit TEXT NOT NULL,
		linked_invoice_id TEXT,
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL,
		last_updated_at TEXT NOT NULL,
		last_updated_by TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_entries_customer_date
		ON ledger_entries(customer_id, entry_date, created_at);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_linked_invoice
		ON ledger_entries(linked_invoice_id) WHERE linked_invoice_id IS NOT NULL;
	`
	_, err := s.db.Exec(schema)
	return err
}

// inTx runs fn inside a transaction, committing only when fn succeeds.
// Callers must hold s.mu.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// isUniqueViolation matches both UNIQUE columns and TEXT primary keys, which
// SQLite reports under a separate extended code.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// placeholders returns "?, ?, ..." for n columns.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
