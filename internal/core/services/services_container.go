package services

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/platform/config"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils"
)

// SettingsFromConfig maps application configuration onto service settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		OrgPrefix:               cfg.OrgPrefix,
		FinancialYearStartMonth: cfg.FinancialYearStartMonth,
		StatementPageSize:       cfg.StatementPageSize,
		BillFrom:                cfg.BillFrom,
		Formatter:               utils.NewAmountFormatter(cfg.DisplayLocale),
		Now:                     time.Now,
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	opt := WithSettings(SettingsFromConfig(cfg))

	container := &portssvc.ServiceContainer{}
	container.Customer = NewCustomerService(repos.CustomerRepo, repos.InvoiceRepo, repos.LedgerRepo, opt)
	container.Ledger = NewLedgerService(repos.CustomerRepo, repos.LedgerRepo, opt)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.CustomerRepo, opt)

	// Statements read through the ledger service so the opening balance logic lives in one place.
	container.Statement = NewStatementService(repos.CustomerRepo, container.Ledger, opt)

	return container
}
