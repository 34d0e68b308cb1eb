package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	BaseService
	customerRepo portsrepo.CustomerReader
	ledgerRepo   portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(customerRepo portsrepo.CustomerReader, ledgerRepo portsrepo.LedgerRepositoryFacade, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:  newBaseService(options),
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetLedger(ctx context.Context, customerID string, fy domain.FinancialYear) (*domain.LedgerView, error) {
	fy, err := s.Settings.resolveYear(fy)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	start, end := fy.Bounds(s.Settings.FinancialYearStartMonth)
	carried, prior, err := s.ledgerRepo.SumBeforeDate(ctx, customerID, start)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum prior ledger entries", slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	stored, err := s.ledgerRepo.ListLedgerEntries(ctx, customerID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	entries := make([]domain.LedgerEntry, 0, len(stored)+1)
	if prior > 0 {
		entries = append(entries, domain.NewOpeningBalanceEntry(customerID, start, carried))
	}
	entries = append(entries, stored...)

	view, err := accounting.Materialize(entries, accounting.WithDisplayFormatter(s.Settings.Formatter.Format))
	if err != nil {
		s.LogError(ctx, err, "Failed to materialize ledger", slog.String("customer_id", customerID), slog.String("year", string(fy)))
		return nil, err
	}
	view.FinancialYear = fy
	return &view, nil
}

func (s *ledgerService) RecordPayment(ctx context.Context, customerID string, req dto.RecordPaymentRequest, actor string) (*domain.LedgerEntry, error) {
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePayment(decimal.Zero, req.Amount); err != nil {
		s.LogWarn(ctx, err, "Rejected payment", slog.String("customer_id", customerID))
		return nil, err
	}
	if _, err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		CustomerID:  customerID,
		EntryDate:   domain.DateOnly(date),
		Particulars: domain.PaymentParticulars(req.Method),
		Debit:       decimal.Zero,
		Credit:      req.Amount,
		AuditFields: domain.NewAuditFields(s.Settings.now(), actor),
	}
	if err := s.save(ctx, entry); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Payment recorded",
		slog.String("customer_id", customerID),
		slog.String("entry_id", entry.EntryID),
		slog.String("amount", req.Amount.StringFixed(2)))
	return &entry, nil
}

func (s *ledgerService) AddEntry(ctx context.Context, customerID string, req dto.LedgerEntryRequest, actor string) (*domain.LedgerEntry, error) {
	date, particulars, err := validateManualEntry(req)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected ledger entry", slog.String("customer_id", customerID))
		return nil, err
	}
	if _, err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		CustomerID:  customerID,
		EntryDate:   date,
		Particulars: particulars,
		Debit:       req.Debit,
		Credit:      req.Credit,
		AuditFields: domain.NewAuditFields(s.Settings.now(), actor),
	}
	if err := s.save(ctx, entry); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Ledger entry added", slog.String("customer_id", customerID), slog.String("entry_id", entry.EntryID))
	return &entry, nil
}

func (s *ledgerService) UpdateEntry(ctx context.Context, entryID string, req dto.LedgerEntryRequest, actor string) (*domain.LedgerEntry, error) {
	entry, err := s.findEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckEditable(*entry); err != nil {
		s.LogWarn(ctx, err, "Rejected edit of protected ledger entry", slog.String("entry_id", entryID))
		return nil, err
	}

	validate := validateManualEntry
	if domain.Classify(*entry) == domain.EntryPayment {
		validate = func(req dto.LedgerEntryRequest) (time.Time, string, error) {
			return validatePaymentEdit(req, entry.Particulars)
		}
	}
	date, particulars, err := validate(req)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected ledger entry update", slog.String("entry_id", entryID))
		return nil, err
	}

	entry.EntryDate = date
	entry.Particulars = particulars
	entry.Debit = req.Debit
	entry.Credit = req.Credit
	entry.Touch(s.Settings.now(), actor)

	if err := s.ledgerRepo.UpdateLedgerEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to update ledger entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update ledger entry: %w", err)
	}
	s.LogInfo(ctx, "Ledger entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

func (s *ledgerService) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.findEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if err := domain.CheckDeletable(*entry); err != nil {
		s.LogWarn(ctx, err, "Rejected delete of protected ledger entry", slog.String("entry_id", entryID))
		return err
	}
	if err := s.ledgerRepo.DeleteLedgerEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete ledger entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	s.LogInfo(ctx, "Ledger entry deleted", slog.String("entry_id", entryID), slog.String("customer_id", entry.CustomerID))
	return nil
}

func (s *ledgerService) requireCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find customer", slog.String("customer_id", customerID))
		}
		return nil, err
	}
	return customer, nil
}

func (s *ledgerService) findEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindLedgerEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ledger entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) save(ctx context.Context, entry domain.LedgerEntry) error {
	if err := s.ledgerRepo.SaveLedgerEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save ledger entry", slog.String("customer_id", entry.CustomerID))
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}
	return nil
}

func validateManualEntry(req dto.LedgerEntryRequest) (time.Time, string, error) {
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return time.Time{}, "", err
	}
	particulars := strings.TrimSpace(req.Particulars)
	if err := domain.ValidateManualParticulars(particulars); err != nil {
		return time.Time{}, "", err
	}
	if err := domain.ValidateLegs(req.Debit, req.Credit); err != nil {
		return time.Time{}, "", err
	}
	return domain.DateOnly(date), particulars, nil
}

// validatePaymentEdit keeps a receipt a receipt: the credit leg only, with
// particulars rebuilt from the method so the row still classifies as a payment.
func validatePaymentEdit(req dto.LedgerEntryRequest, current string) (time.Time, string, error) {
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return time.Time{}, "", err
	}
	if err := domain.ValidatePayment(req.Debit, req.Credit); err != nil {
		return time.Time{}, "", err
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		particulars := strings.TrimSpace(req.Particulars)
		if particulars == "" {
			particulars = current
		}
		var ok bool
		if method, ok = domain.PaymentMethod(particulars); !ok {
			return time.Time{}, "", fmt.Errorf("%w: a payment's particulars must start with %q, send a method to change it",
				apperrors.ErrValidation, domain.PaymentParticularsPrefix)
		}
	}
	return domain.DateOnly(date), domain.PaymentParticulars(method), nil
}
