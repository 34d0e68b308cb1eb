package services_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, p string) [][]string {
	t.Helper()
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestBackupService_Export(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	ledgerRepo := new(MockLedgerRepository)
	repos := portsrepo.RepositoryProvider{CustomerRepo: customerRepo, InvoiceRepo: invoiceRepo, LedgerRepo: ledgerRepo}

	linked := "DS/2024-25/0001"
	page2 := "page-2"
	customerRepo.On("ListCustomers", mock.Anything).Return([]domain.Customer{{CustomerID: "c1", Name: "Sharma, Traders"}}, nil).Once()
	invoiceRepo.On("ListInvoices", mock.Anything, (*time.Time)(nil), (*time.Time)(nil), 100, (*string)(nil)).
		Return([]domain.Invoice{{InvoiceID: linked, Items: []domain.LineItem{domain.NewLineItem("Ink", 2, d("10"), "pc")}}}, &page2, nil).Once()
	invoiceRepo.On("ListInvoices", mock.Anything, (*time.Time)(nil), (*time.Time)(nil), 100, &page2).
		Return([]domain.Invoice{{InvoiceID: "DS/2024-25/0002"}}, nil, nil).Once()
	ledgerRepo.On("ListAllLedgerEntries", mock.Anything).Return([]domain.LedgerEntry{
		{EntryID: "e1", CustomerID: "c1", Particulars: "BY BILL " + linked, Debit: d("20"), LinkedInvoiceID: &linked},
	}, nil).Once()

	svc := services.NewBackupService(repos, nil, services.WithClock(fixedClock))
	dir := t.TempDir()

	paths, err := svc.Export(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	customers := readCSV(t, filepath.Join(dir, "customers.csv"))
	require.Len(t, customers, 2)
	assert.Equal(t, "Sharma, Traders", customers[1][1])

	invoices := readCSV(t, filepath.Join(dir, "invoices.csv"))
	assert.Len(t, invoices, 3)
	assert.Contains(t, invoices[1][10], `"name":"Ink"`)

	entries := readCSV(t, filepath.Join(dir, "ledger_entries.csv"))
	require.Len(t, entries, 2)
	assert.Equal(t, linked, entries[1][6])

	customerRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestBackupService_Upload(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "customers.csv")
	require.NoError(t, os.WriteFile(p, []byte("customer_id\n"), 0o644))

	uploader := new(MockBackupUploader)
	uploader.On("Upload", mock.Anything, "backups/20240610T093000Z/customers.csv", mock.Anything, "text/csv").
		Return("s3://bucket/backups/20240610T093000Z/customers.csv", nil).Once()

	svc := services.NewBackupService(portsrepo.RepositoryProvider{}, uploader, services.WithClock(fixedClock))
	locations, err := svc.Upload(context.Background(), []string{p})

	require.NoError(t, err)
	assert.Equal(t, []string{"s3://bucket/backups/20240610T093000Z/customers.csv"}, locations)
	uploader.AssertExpectations(t)
}

func TestBackupService_UploadStopsWithPartialFailure(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"customers.csv", "invoices.csv", "ledger_entries.csv"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("id\n"), 0o644))
		paths = append(paths, p)
	}

	uploader := new(MockBackupUploader)
	uploader.On("Upload", mock.Anything, "backups/20240610T093000Z/customers.csv", mock.Anything, "text/csv").
		Return("s3://bucket/backups/20240610T093000Z/customers.csv", nil).Once()
	uploader.On("Upload", mock.Anything, "backups/20240610T093000Z/invoices.csv", mock.Anything, "text/csv").
		Return("", assert.AnError).Once()

	svc := services.NewBackupService(portsrepo.RepositoryProvider{}, uploader, services.WithClock(fixedClock))
	locations, err := svc.Upload(context.Background(), paths)

	assert.ErrorIs(t, err, apperrors.ErrPartialFailure)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "uploading 1 file(s) succeeded but uploading invoices.csv failed")
	assert.Equal(t, []string{"s3://bucket/backups/20240610T093000Z/customers.csv"}, locations)
	uploader.AssertExpectations(t)
}

func TestBackupService_UploadFirstFailureIsNotPartial(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "customers.csv")
	require.NoError(t, os.WriteFile(p, []byte("id\n"), 0o644))

	uploader := new(MockBackupUploader)
	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything, "text/csv").Return("", assert.AnError).Once()

	svc := services.NewBackupService(portsrepo.RepositoryProvider{}, uploader, services.WithClock(fixedClock))
	locations, err := svc.Upload(context.Background(), []string{p})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, apperrors.ErrPartialFailure)
	assert.Empty(t, locations)
}

func TestBackupService_UploadWithoutUploader(t *testing.T) {
	svc := services.NewBackupService(portsrepo.RepositoryProvider{}, nil)
	_, err := svc.Upload(context.Background(), []string{"x.csv"})
	assert.ErrorIs(t, err, services.ErrNoUploader)
}
