package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceMapping_PreservesSnapshotsAndItems(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	in := domain.Invoice{
		InvoiceID:   "DS/2024-25/0001",
		CustomerID:  "c1",
		InvoiceDate: time.Date(2024, time.June, 1, 15, 0, 0, 0, time.UTC),
		ClientName:  "Sharma Traders",
		BillFrom:    domain.Address{Name: "Acme", StreetAddress: "12 Mill Road"},
		BillTo:      domain.Address{Name: "Sharma Traders", StreetAddress: "4 Station Road", GSTIN: "27AAPFU0939F1ZV"},
		Items:       []domain.LineItem{domain.NewLineItem("Ink", 2, decimal.NewFromInt(10), "pc")},
		TaxMode:     domain.TaxModeAuto,
		Status:      domain.InvoicePending,
		InvoiceTotals: domain.InvoiceTotals{
			Subtotal: decimal.NewFromInt(20), TaxPercent: decimal.NewFromInt(18),
			TaxAmount: decimal.RequireFromString("3.6"), Total: decimal.RequireFromString("23.6"),
		},
		AuditFields: domain.NewAuditFields(now, "alice"),
	}

	m, err := mapping.ToModelInvoice(in)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), m.InvoiceDate)

	out, err := mapping.ToDomainInvoice(m)
	require.NoError(t, err)
	assert.Equal(t, in.BillTo, out.BillTo)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Ink", out.Items[0].Name())
	assert.True(t, decimal.NewFromInt(20).Equal(out.Items[0].Total()))
	assert.Equal(t, "alice", out.CreatedBy)

	names, err := mapping.ItemNames(m.Items)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ink"}, names)
}

func TestToDomainInvoice_CorruptItems(t *testing.T) {
	m, err := mapping.ToModelInvoice(domain.Invoice{InvoiceID: "X"})
	require.NoError(t, err)
	m.Items = []byte("{not json")

	_, err = mapping.ToDomainInvoice(m)
	assert.Error(t, err)
}
