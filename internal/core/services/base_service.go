package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/middleware"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/pagination"
)

// Settings carries the business configuration shared by all services.
type Settings struct {
	OrgPrefix               string
	FinancialYearStartMonth time.Month
	StatementPageSize       int
	BillFrom                domain.Address
	Formatter               *utils.AmountFormatter
	// Now is the clock used for invoice numbering and audit stamps.
	Now func() time.Time
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		OrgPrefix:               "DS",
		FinancialYearStartMonth: domain.DefaultFinancialYearStartMonth,
		StatementPageSize:       pagination.DefaultStatementPageSize,
		Formatter:               utils.NewAmountFormatter("en"),
		Now:                     time.Now,
	}
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// currentFinancialYear is the financial year containing today.
func (s Settings) currentFinancialYear() domain.FinancialYear {
	return domain.FinancialYearOf(s.now(), s.FinancialYearStartMonth)
}

// resolveYear returns fy, or the current financial year when fy is empty.
func (s Settings) resolveYear(fy domain.FinancialYear) (domain.FinancialYear, error) {
	if fy == "" {
		return s.currentFinancialYear(), nil
	}
	return domain.ParseFinancialYear(string(fy))
}

// BaseService provides common functionality for all services
type BaseService struct {
	Settings Settings
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a rejected request, typically a validation or policy failure
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// ServiceOption is a functional option applied to a service's BaseService
type ServiceOption func(*BaseService)

// WithSettings replaces the default business settings
func WithSettings(settings Settings) ServiceOption {
	return func(s *BaseService) {
		s.Settings = settings
	}
}

// WithClock overrides the clock used for numbering and audit stamps
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Settings.Now = now
	}
}

func newBaseService(options []ServiceOption) BaseService {
	base := BaseService{Settings: DefaultSettings()}
	for _, option := range options {
		option(&base)
	}
	if base.Settings.Formatter == nil {
		base.Settings.Formatter = utils.NewAmountFormatter("en")
	}
	return base
}
