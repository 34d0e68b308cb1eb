package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/models"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/mapping"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/pagination"
)

const invoiceColumns = `invoice_id, customer_id, invoice_date, client_name, bill_from, bill_to, items,
	tax_mode, tax_percent, subtotal, tax_amount, total, status,
	project_description, payment_terms, suppliers_ref, other_ref, hsn,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var m models.Invoice
	var invoiceDate, billFrom, billTo, items string
	var audit auditText
	dest := append([]any{
		&m.InvoiceID, &m.CustomerID, &invoiceDate, &m.ClientName, &billFrom, &billTo, &items,
		&m.TaxMode, &m.TaxPercent, &m.Subtotal, &m.TaxAmount, &m.Total, &m.Status,
		&m.ProjectDescription, &m.PaymentTerms, &m.SuppliersRef, &m.OtherRef, &m.HSN,
	}, audit.dest()...)
	if err := row.Scan(dest...); err != nil {
		return domain.Invoice{}, err
	}

	date, err := parseDate(invoiceDate)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("bad invoice_date %q: %w", invoiceDate, err)
	}
	m.InvoiceDate = date
	m.BillFrom, m.BillTo, m.Items = []byte(billFrom), []byte(billTo), []byte(items)
	if m.AuditFields, err = audit.parse(); err != nil {
		return domain.Invoice{}, err
	}
	return mapping.ToDomainInvoice(m)
}

func invoiceArgs(m models.Invoice) []any {
	return append([]any{
		m.InvoiceID, m.CustomerID, formatDate(m.InvoiceDate), m.ClientName,
		string(m.BillFrom), string(m.BillTo), string(m.Items),
		m.TaxMode, m.TaxPercent.String(), m.Subtotal.String(), m.TaxAmount.String(), m.Total.String(), string(m.Status),
		m.ProjectDescription, m.PaymentTerms, m.SuppliersRef, m.OtherRef, m.HSN,
	}, auditArgs(m.AuditFields)...)
}

// SaveInvoiceWithLedgerEntry inserts the invoice and its ledger entry in one transaction.
func (s *Store) SaveInvoiceWithLedgerEntry(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry) error {
	m, err := mapping.ToModelInvoice(invoice)
	if err != nil {
		return fmt.Errorf("failed to encode invoice %s: %w", invoice.InvoiceID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO invoices (`+invoiceColumns+`) VALUES (`+placeholders(22)+`)`, invoiceArgs(m)...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, m.InvoiceID)
			}
			return fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceID, err)
		}
		return insertLedgerEntry(ctx, tx, entry)
	})
}

// UpdateInvoiceWithLedgerEntry rewrites the invoice and its linked ledger row,
// recreating the row from entry when it has gone missing.
func (s *Store) UpdateInvoiceWithLedgerEntry(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry) error {
	m, err := mapping.ToModelInvoice(invoice)
	if err != nil {
		return fmt.Errorf("failed to encode invoice %s: %w", invoice.InvoiceID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE invoices
			SET customer_id = ?, invoice_date = ?, client_name = ?, bill_from = ?, bill_to = ?, items = ?,
			    tax_mode = ?, tax_percent = ?, subtotal = ?, tax_amount = ?, total = ?,
			    project_description = ?, payment_terms = ?, suppliers_ref = ?, other_ref = ?, hsn = ?,
			    last_updated_at = ?, last_updated_by = ?
			WHERE invoice_id = ?`,
			m.CustomerID, formatDate(m.InvoiceDate), m.ClientName, string(m.BillFrom), string(m.BillTo), string(m.Items),
			m.TaxMode, m.TaxPercent.String(), m.Subtotal.String(), m.TaxAmount.String(), m.Total.String(),
			m.ProjectDescription, m.PaymentTerms, m.SuppliersRef, m.OtherRef, m.HSN,
			formatTimestamp(m.LastUpdatedAt), m.LastUpdatedBy, m.InvoiceID,
		)
		if err != nil {
			return fmt.Errorf("failed to update invoice %s: %w", m.InvoiceID, err)
		}
		if err := requireAffected(res, "invoice "+m.InvoiceID); err != nil {
			return err
		}

		e := mapping.ToModelLedgerEntry(entry)
		res, err = tx.ExecContext(ctx, `
			UPDATE ledger_entries
			SET customer_id = ?, entry_date = ?, particulars = ?, debit = ?, credit = ?,
			    last_updated_at = ?, last_updated_by = ?
			WHERE linked_invoice_id = ?`,
			e.CustomerID, formatDate(e.EntryDate), e.Particulars, e.Debit.String(), e.Credit.String(),
			formatTimestamp(e.LastUpdatedAt), e.LastUpdatedBy, m.InvoiceID,
		)
		if err != nil {
			return fmt.Errorf("failed to update ledger entry of invoice %s: %w", m.InvoiceID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return insertLedgerEntry(ctx, tx, entry)
		}
		return nil
	})
}

// FindInvoiceByID retrieves an invoice by its ID.
func (s *Store) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE invoice_id = ?`, invoiceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return &inv, nil
}

// ListInvoices retrieves a page of invoices, newest first, using the same
// cursor tokens as the PostgreSQL store.
func (s *Store) ListInvoices(ctx context.Context, from, to *time.Time, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	var conditions []string
	var args []any
	if from != nil {
		conditions = append(conditions, "invoice_date >= ?")
		args = append(args, formatDate(*from))
	}
	if to != nil {
		conditions = append(conditions, "invoice_date <= ?")
		args = append(args, formatDate(*to))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		conditions = append(conditions, "(invoice_date < ? OR (invoice_date = ? AND created_at < ?))")
		args = append(args, formatDate(lastDate), formatDate(lastDate), formatTimestamp(lastCreatedAt))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY invoice_date DESC, created_at DESC LIMIT ?"
	args = append(args, fetchLimit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, fetchLimit)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		newNextToken = &token
	}
	return invoices, newNextToken, nil
}

// ListInvoiceIDsWithPrefix returns every invoice id starting with prefix.
func (s *Store) ListInvoiceIDsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT invoice_id FROM invoices WHERE substr(invoice_id, 1, length(?)) = ?`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice ids with prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountInvoicesByCustomer counts the invoices billed to a customer.
func (s *Store) CountInvoicesByCustomer(ctx context.Context, customerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = ?`, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count invoices of customer %s: %w", customerID, err)
	}
	return count, nil
}

// ListItemNames returns the names of every line item ever billed.
func (s *Store) ListItemNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT items FROM invoices`)
	if err != nil {
		return nil, fmt.Errorf("failed to list item names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var items string
		if err := rows.Scan(&items); err != nil {
			return nil, err
		}
		itemNames, err := mapping.ItemNames([]byte(items))
		if err != nil {
			return nil, fmt.Errorf("failed to decode invoice items: %w", err)
		}
		for _, name := range itemNames {
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names, rows.Err()
}

// MarkInvoicePaid flips the invoice status to PAID.
func (s *Store) MarkInvoicePaid(ctx context.Context, invoiceID string, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE invoices SET status = ?, last_updated_at = ?, last_updated_by = ? WHERE invoice_id = ?`,
		string(models.InvoicePaid), formatTimestamp(updatedAt), updatedBy, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to mark invoice %s paid: %w", invoiceID, err)
	}
	return requireAffected(res, "invoice "+invoiceID)
}

// DeleteInvoiceWithLedgerEntries removes the invoice and its linked ledger
// rows in one transaction.
func (s *Store) DeleteInvoiceWithLedgerEntries(ctx context.Context, invoiceID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE invoice_id = ?`, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
		}
		if err := requireAffected(res, "invoice "+invoiceID); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE linked_invoice_id = ?`, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to delete ledger entries of invoice %s: %w", invoiceID, err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
