package repositories

import (
	"context"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
)

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	// FindCustomerByID returns apperrors.ErrNotFound when no customer has the id.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindCustomerByName matches the unique customer name exactly.
	FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error)

	// ListCustomers returns every customer ordered by name.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	// SaveCustomer inserts a new customer; a taken name yields apperrors.ErrDuplicate.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	UpdateCustomer(ctx context.Context, customer domain.Customer) error

	// DeleteCustomerWithEntries removes the customer and its ledger entries atomically.
	DeleteCustomerWithEntries(ctx context.Context, customerID string) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
