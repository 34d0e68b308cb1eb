package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
)

const backupPageSize = 100

// ErrNoUploader is returned by Upload when no off-site storage is configured.
var ErrNoUploader = errors.New("no backup uploader configured")

type backupService struct {
	BaseService
	repos    portsrepo.RepositoryProvider
	uploader portsrepo.BackupUploader
}

// NewBackupService creates a backup service. uploader may be nil, in which case
// only local export is available.
func NewBackupService(repos portsrepo.RepositoryProvider, uploader portsrepo.BackupUploader, options ...ServiceOption) portssvc.BackupSvcFacade {
	return &backupService{
		BaseService: newBaseService(options),
		repos:       repos,
		uploader:    uploader,
	}
}

var _ portssvc.BackupSvcFacade = (*backupService)(nil)

func (s *backupService) Export(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	exports := []struct {
		name  string
		write func(context.Context, *csv.Writer) error
	}{
		{"customers.csv", s.writeCustomers},
		{"invoices.csv", s.writeInvoices},
		{"ledger_entries.csv", s.writeLedgerEntries},
	}

	paths := make([]string, 0, len(exports))
	for _, e := range exports {
		p := filepath.Join(dir, e.name)
		if err := writeCSVFile(ctx, p, e.write); err != nil {
			s.LogError(ctx, err, "Backup export failed", slog.String("file", p))
			return paths, err
		}
		paths = append(paths, p)
	}
	s.LogInfo(ctx, "Backup exported", slog.String("dir", dir), slog.Int("files", len(paths)))
	return paths, nil
}

func (s *backupService) Upload(ctx context.Context, paths []string) ([]string, error) {
	if s.uploader == nil {
		return nil, ErrNoUploader
	}

	stamp := s.Settings.now().Format("20060102T150405Z")
	locations := make([]string, 0, len(paths))
	for _, p := range paths {
		key := path.Join("backups", stamp, filepath.Base(p))
		location, err := s.uploadFile(ctx, p, key)
		if err != nil {
			s.LogError(ctx, err, "Backup upload failed", slog.String("key", key), slog.Int("uploaded", len(locations)))
			if len(locations) > 0 {
				err = apperrors.NewPartialFailure(fmt.Sprintf("uploading %d file(s)", len(locations)), "uploading "+filepath.Base(p), err)
			}
			return locations, err
		}
		locations = append(locations, location)
	}
	s.LogInfo(ctx, "Backup uploaded", slog.Int("files", len(locations)))
	return locations, nil
}

func (s *backupService) uploadFile(ctx context.Context, p, key string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()
	return s.uploader.Upload(ctx, key, f, "text/csv")
}

func writeCSVFile(ctx context.Context, p string, write func(context.Context, *csv.Writer) error) (err error) {
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", p, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := write(ctx, w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (s *backupService) writeCustomers(ctx context.Context, w *csv.Writer) error {
	customers, err := s.repos.CustomerRepo.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}
	if err := w.Write([]string{"customer_id", "name", "email", "street_address", "city", "post_code", "country", "gstin", "created_at", "created_by"}); err != nil {
		return err
	}
	for _, c := range customers {
		if err := w.Write([]string{
			c.CustomerID, c.Name, c.Email, c.StreetAddress, c.City, c.PostCode, c.Country, c.GSTIN,
			c.CreatedAt.UTC().Format(time.RFC3339), c.CreatedBy,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *backupService) writeInvoices(ctx context.Context, w *csv.Writer) error {
	if err := w.Write([]string{
		"invoice_id", "customer_id", "invoice_date", "client_name", "status", "tax_mode",
		"subtotal", "tax_percent", "tax_amount", "total", "items", "bill_from", "bill_to",
	}); err != nil {
		return err
	}

	var token *string
	for {
		invoices, next, err := s.repos.InvoiceRepo.ListInvoices(ctx, nil, nil, backupPageSize, token)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}
		for _, inv := range invoices {
			row, err := invoiceCSVRow(inv)
			if err != nil {
				return err
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if next == nil {
			return nil
		}
		token = next
	}
}

func invoiceCSVRow(inv domain.Invoice) ([]string, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items of %s: %w", inv.InvoiceID, err)
	}
	billFrom, err := json.Marshal(inv.BillFrom)
	if err != nil {
		return nil, err
	}
	billTo, err := json.Marshal(inv.BillTo)
	if err != nil {
		return nil, err
	}
	return []string{
		inv.InvoiceID, inv.CustomerID, dto.FormatDate(inv.InvoiceDate), inv.ClientName,
		string(inv.Status), string(inv.TaxMode),
		inv.Subtotal.String(), inv.TaxPercent.String(), inv.TaxAmount.String(), inv.Total.String(),
		string(items), string(billFrom), string(billTo),
	}, nil
}

func (s *backupService) writeLedgerEntries(ctx context.Context, w *csv.Writer) error {
	entries, err := s.repos.LedgerRepo.ListAllLedgerEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ledger entries: %w", err)
	}
	if err := w.Write([]string{"entry_id", "customer_id", "entry_date", "particulars", "debit", "credit", "linked_invoice_id", "created_at"}); err != nil {
		return err
	}
	for _, e := range entries {
		linked := ""
		if e.LinkedInvoiceID != nil {
			linked = *e.LinkedInvoiceID
		}
		if err := w.Write([]string{
			e.EntryID, e.CustomerID, dto.FormatDate(e.EntryDate), e.Particulars,
			e.Debit.String(), e.Credit.String(), linked, e.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	return nil
}
