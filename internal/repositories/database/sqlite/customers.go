package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/models"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/mapping"
)

const customerColumns = `customer_id, name, email, street_address, city, post_code, country, gstin,
	created_at, created_by, last_updated_at, last_updated_by`

type rowScanner interface {
	Scan(dest ...any) error
}

// auditText holds the audit columns as stored text until they are parsed.
type auditText struct {
	createdAt, createdBy, lastUpdatedAt, lastUpdatedBy string
}

func (a *auditText) dest() []any {
	return []any{&a.createdAt, &a.createdBy, &a.lastUpdatedAt, &a.lastUpdatedBy}
}

func (a auditText) parse() (models.AuditFields, error) {
	createdAt, err := parseTimestamp(a.createdAt)
	if err != nil {
		return models.AuditFields{}, fmt.Errorf("bad created_at %q: %w", a.createdAt, err)
	}
	updatedAt, err := parseTimestamp(a.lastUpdatedAt)
	if err != nil {
		return models.AuditFields{}, fmt.Errorf("bad last_updated_at %q: %w", a.lastUpdatedAt, err)
	}
	return models.AuditFields{
		CreatedAt:     createdAt,
		CreatedBy:     a.createdBy,
		LastUpdatedAt: updatedAt,
		LastUpdatedBy: a.lastUpdatedBy,
	}, nil
}

func auditArgs(a models.AuditFields) []any {
	return []any{formatTimestamp(a.CreatedAt), a.CreatedBy, formatTimestamp(a.LastUpdatedAt), a.LastUpdatedBy}
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var m models.Customer
	var audit auditText
	dest := append([]any{&m.CustomerID, &m.Name, &m.Email, &m.StreetAddress, &m.City, &m.PostCode, &m.Country, &m.GSTIN}, audit.dest()...)
	if err := row.Scan(dest...); err != nil {
		return domain.Customer{}, err
	}
	fields, err := audit.parse()
	if err != nil {
		return domain.Customer{}, err
	}
	m.AuditFields = fields
	return mapping.ToDomainCustomer(m), nil
}

// SaveCustomer inserts a new customer row.
func (s *Store) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := mapping.ToModelCustomer(customer)
	args := append([]any{m.CustomerID, m.Name, m.Email, m.StreetAddress, m.City, m.PostCode, m.Country, m.GSTIN}, auditArgs(m.AuditFields)...)
	_, err := s.db.ExecContext(ctx, `INSERT INTO customers (`+customerColumns+`) VALUES (`+placeholders(12)+`)`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: customer named %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save customer %s: %w", m.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by its ID.
func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = ?`, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return &c, nil
}

// FindCustomerByName retrieves a customer by its exact name.
func (s *Store) FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE name = ?`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer named %q", apperrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to find customer named %q: %w", name, err)
	}
	return &c, nil
}

// ListCustomers retrieves every customer ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpdateCustomer rewrites the mutable customer columns.
func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := mapping.ToModelCustomer(customer)
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET name = ?, email = ?, street_address = ?, city = ?, post_code = ?, country = ?, gstin = ?,
		    last_updated_at = ?, last_updated_by = ?
		WHERE customer_id = ?`,
		m.Name, m.Email, m.StreetAddress, m.City, m.PostCode, m.Country, m.GSTIN,
		formatTimestamp(m.LastUpdatedAt), m.LastUpdatedBy, m.CustomerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: customer named %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to update customer %s: %w", m.CustomerID, err)
	}
	return requireAffected(res, "customer "+m.CustomerID)
}

// DeleteCustomerWithEntries removes a customer together with its ledger entries.
func (s *Store) DeleteCustomerWithEntries(ctx context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE customer_id = ?`, customerID); err != nil {
			return fmt.Errorf("failed to delete ledger entries of customer %s: %w", customerID, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE customer_id = ?`, customerID)
		if err != nil {
			return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
		}
		return requireAffected(res, "customer "+customerID)
	})
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return nil
}
