package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_invoicing_app/internal/models"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/mapping"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `invoice_id, customer_id, invoice_date, client_name, bill_from, bill_to, items,
		       tax_mode, tax_percent, subtotal, tax_amount, total, status,
		       project_description, payment_terms, suppliers_ref, other_ref, hsn,
		       created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.CustomerID,
		&m.InvoiceDate,
		&m.ClientName,
		&m.BillFrom,
		&m.BillTo,
		&m.Items,
		&m.TaxMode,
		&m.TaxPercent,
		&m.Subtotal,
		&m.TaxAmount,
		&m.Total,
		&m.Status,
		&m.ProjectDescription,
		&m.PaymentTerms,
		&m.SuppliersRef,
		&m.OtherRef,
		&m.HSN,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveInvoiceWithLedgerEntry inserts the invoice and its ledger entry within a DB transaction.
func (r *PgxInvoiceRepository) SaveInvoiceWithLedgerEntry(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry) error {
	m, err := mapping.ToModelInvoice(invoice)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode invoice "+invoice.InvoiceID, err)
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO invoices (` + invoiceColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
		`
		_, err := tx.Exec(ctx, query,
			m.InvoiceID, m.CustomerID, m.InvoiceDate, m.ClientName, m.BillFrom, m.BillTo, m.Items,
			m.TaxMode, m.TaxPercent, m.Subtotal, m.TaxAmount, m.Total, m.Status,
			m.ProjectDescription, m.PaymentTerms, m.SuppliersRef, m.OtherRef, m.HSN,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, m.InvoiceID)
			}
			return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
		}
		if err := insertLedgerEntry(ctx, tx, entry); err != nil {
			return apperrors.NewAppError(500, "failed to insert ledger entry for invoice "+m.InvoiceID, err)
		}
		return nil
	})
}

// UpdateInvoiceWithLedgerEntry rewrites the invoice and its linked ledger row.
// The linked row is recreated from entry when it has gone missing.
func (r *PgxInvoiceRepository) UpdateInvoiceWithLedgerEntry(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry) error {
	m, err := mapping.ToModelInvoice(invoice)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode invoice "+invoice.InvoiceID, err)
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE invoices
			SET customer_id = $2, invoice_date = $3, client_name = $4, bill_from = $5, bill_to = $6, items = $7,
			    tax_mode = $8, tax_percent = $9, subtotal = $10, tax_amount = $11, total = $12,
			    project_description = $13, payment_terms = $14, suppliers_ref = $15, other_ref = $16, hsn = $17,
			    last_updated_at = $18, last_updated_by = $19
			WHERE invoice_id = $1;
		`
		tag, err := tx.Exec(ctx, query,
			m.InvoiceID, m.CustomerID, m.InvoiceDate, m.ClientName, m.BillFrom, m.BillTo, m.Items,
			m.TaxMode, m.TaxPercent, m.Subtotal, m.TaxAmount, m.Total,
			m.ProjectDescription, m.PaymentTerms, m.SuppliersRef, m.OtherRef, m.HSN,
			m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update invoice "+m.InvoiceID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, m.InvoiceID)
		}

		e := mapping.ToModelLedgerEntry(entry)
		tag, err = tx.Exec(ctx, `
			UPDATE ledger_entries
			SET customer_id = $2, entry_date = $3, particulars = $4, debit = $5, credit = $6,
			    last_updated_at = $7, last_updated_by = $8
			WHERE linked_invoice_id = $1;
		`, m.InvoiceID, e.CustomerID, e.EntryDate, e.Particulars, e.Debit, e.Credit, e.LastUpdatedAt, e.LastUpdatedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update ledger entry of invoice "+m.InvoiceID, err)
		}
		if tag.RowsAffected() == 0 {
			if err := insertLedgerEntry(ctx, tx, entry); err != nil {
				return apperrors.NewAppError(500, "failed to recreate ledger entry of invoice "+m.InvoiceID, err)
			}
		}
		return nil
	})
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	invoice, err := mapping.ToDomainInvoice(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode invoice "+invoiceID, err)
	}
	return &invoice, nil
}

// ListInvoices retrieves a page of invoices using token-based pagination,
// newest first. It returns the invoices and a token for the next page, if any.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, from, to *time.Time, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var conditions []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if from != nil {
		conditions = append(conditions, "invoice_date >= "+addArg(domain.DateOnly(*from)))
	}
	if to != nil {
		conditions = append(conditions, "invoice_date <= "+addArg(domain.DateOnly(*to)))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		// Tuple comparison keeps the cursor stable for invoices sharing a date.
		conditions = append(conditions, "(invoice_date, created_at) < ("+addArg(lastDate)+", "+addArg(lastCreatedAt)+")")
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY invoice_date DESC, created_at DESC LIMIT " + addArg(fetchLimit) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanInvoice(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", scanErr)
		}
		modelInvoices = append(modelInvoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	var newNextToken *string
	if len(modelInvoices) > limit {
		modelInvoices = modelInvoices[:limit]
		last := modelInvoices[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		newNextToken = &token
	}

	invoices, err := mapping.ToDomainInvoiceSlice(modelInvoices)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to decode invoices", err)
	}
	return invoices, newNextToken, nil
}

// ListInvoiceIDsWithPrefix returns every invoice id starting with prefix.
func (r *PgxInvoiceRepository) ListInvoiceIDsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT invoice_id FROM invoices WHERE starts_with(invoice_id, $1);`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice ids with prefix %s: %w", prefix, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice ids: %w", err)
	}
	return ids, nil
}

// CountInvoicesByCustomer counts the invoices billed to a customer.
func (r *PgxInvoiceRepository) CountInvoicesByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = $1;`, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count invoices of customer %s: %w", customerID, err)
	}
	return count, nil
}

// ListItemNames returns the names of every line item ever billed.
func (r *PgxInvoiceRepository) ListItemNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT item->>'name'
		FROM invoices, jsonb_array_elements(items) AS item
		WHERE COALESCE(item->>'name', '') <> '';
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list item names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan item names: %w", err)
	}
	return names, nil
}

// MarkInvoicePaid flips the invoice status to PAID.
func (r *PgxInvoiceRepository) MarkInvoicePaid(ctx context.Context, invoiceID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, invoiceID, string(models.InvoicePaid), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark invoice %s paid: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return nil
}

// DeleteInvoiceWithLedgerEntries removes the invoice and its linked ledger rows within a DB transaction.
func (r *PgxInvoiceRepository) DeleteInvoiceWithLedgerEntries(ctx context.Context, invoiceID string) (int64, error) {
	var removed int64
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}

		tag, err = tx.Exec(ctx, `DELETE FROM ledger_entries WHERE linked_invoice_id = $1;`, invoiceID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete ledger entries of invoice "+invoiceID, err)
		}
		removed = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
