package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL implementations of every repository port.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CustomerRepo: newPgxCustomerRepository(dbPool),
		InvoiceRepo:  newPgxInvoiceRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
	}
}
