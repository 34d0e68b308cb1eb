package services

import (
	"context"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
)

// CustomerReaderSvc defines read operations for customers
type CustomerReaderSvc interface {
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers returns every customer with its balance at the end of fy.
	ListCustomers(ctx context.Context, fy domain.FinancialYear) ([]domain.CustomerBalance, error)
}

// CustomerWriterSvc defines write operations for customers
type CustomerWriterSvc interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actor string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, actor string) (*domain.Customer, error)

	// DeleteCustomer refuses while invoices still reference the customer.
	DeleteCustomer(ctx context.Context, customerID string) error
}

// CustomerSvcFacade combines all customer-related service interfaces
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
}
