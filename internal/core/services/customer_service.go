package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/google/uuid"
)

type customerService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	invoiceRepo  portsrepo.InvoiceReader
	ledgerRepo   portsrepo.LedgerReader
}

// NewCustomerService creates a new customer service.
func NewCustomerService(
	customerRepo portsrepo.CustomerRepositoryFacade,
	invoiceRepo portsrepo.InvoiceReader,
	ledgerRepo portsrepo.LedgerReader,
	options ...ServiceOption,
) portssvc.CustomerSvcFacade {
	return &customerService{
		BaseService:  newBaseService(options),
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		ledgerRepo:   ledgerRepo,
	}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actor string) (*domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}

	customer := domain.Customer{
		CustomerID:    uuid.NewString(),
		Name:          name,
		Email:         strings.TrimSpace(req.Email),
		StreetAddress: strings.TrimSpace(req.StreetAddress),
		City:          strings.TrimSpace(req.City),
		PostCode:      strings.TrimSpace(req.PostCode),
		Country:       strings.TrimSpace(req.Country),
		GSTIN:         strings.ToUpper(strings.TrimSpace(req.GSTIN)),
		AuditFields:   domain.NewAuditFields(s.Settings.now(), actor),
	}
	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, err, "Customer name already taken", slog.String("name", name))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save customer", slog.String("name", name))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.LogInfo(ctx, "Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find customer", slog.String("customer_id", customerID))
		}
		return nil, err
	}
	return customer, nil
}

// ListCustomers reports each customer's closing balance for fy, i.e. every
// entry dated up to the last day of the year.
func (s *customerService) ListCustomers(ctx context.Context, fy domain.FinancialYear) ([]domain.CustomerBalance, error) {
	fy, err := s.Settings.resolveYear(fy)
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.ListCustomers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers")
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	_, end := fy.Bounds(s.Settings.FinancialYearStartMonth)
	dayAfter := end.AddDate(0, 0, 1)

	balances := make([]domain.CustomerBalance, 0, len(customers))
	for _, c := range customers {
		balance, _, err := s.ledgerRepo.SumBeforeDate(ctx, c.CustomerID, dayAfter)
		if err != nil {
			s.LogError(ctx, err, "Failed to compute customer balance", slog.String("customer_id", c.CustomerID))
			return nil, fmt.Errorf("failed to compute balance of customer %s: %w", c.CustomerID, err)
		}
		balances = append(balances, domain.CustomerBalance{Customer: c, FinancialYear: fy, Balance: balance})
	}
	return balances, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, actor string) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: customer name cannot be empty", apperrors.ErrValidation)
		}
		customer.Name = name
	}
	applyTrimmed(&customer.Email, req.Email)
	applyTrimmed(&customer.StreetAddress, req.StreetAddress)
	applyTrimmed(&customer.City, req.City)
	applyTrimmed(&customer.PostCode, req.PostCode)
	applyTrimmed(&customer.Country, req.Country)
	if req.GSTIN != nil {
		customer.GSTIN = strings.ToUpper(strings.TrimSpace(*req.GSTIN))
	}
	customer.Touch(s.Settings.now(), actor)

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to update customer", slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	s.LogInfo(ctx, "Customer updated", slog.String("customer_id", customerID))
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID string) error {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return err
	}

	count, err := s.invoiceRepo.CountInvoicesByCustomer(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count customer invoices", slog.String("customer_id", customerID))
		return fmt.Errorf("failed to count invoices: %w", err)
	}
	if count > 0 {
		err := apperrors.NewPolicyViolation("CUSTOMER_WITH_INVOICES", "delete",
			fmt.Sprintf("customer has %d invoice(s); delete them first", count))
		s.LogWarn(ctx, err, "Rejected customer delete", slog.String("customer_id", customerID))
		return err
	}

	if err := s.customerRepo.DeleteCustomerWithEntries(ctx, customerID); err != nil {
		s.LogError(ctx, err, "Failed to delete customer", slog.String("customer_id", customerID))
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	s.LogInfo(ctx, "Customer deleted", slog.String("customer_id", customerID))
	return nil
}

func applyTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
