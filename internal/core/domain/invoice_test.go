package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineItem_DerivesTotal(t *testing.T) {
	item := domain.NewLineItem("  Paper  ", 3, decimal.RequireFromString("12.50"), "kg")
	assert.Equal(t, "Paper", item.Name())
	assert.True(t, decimal.RequireFromString("37.50").Equal(item.Total()))
}

func TestNewLineItem_Clamps(t *testing.T) {
	item := domain.NewLineItem("Ink", 0, decimal.NewFromInt(-5), "")
	assert.Equal(t, 1, item.Quantity())
	assert.True(t, item.Rate().IsZero())
	assert.True(t, item.Total().IsZero())
}

func TestLineItem_UpdatesRederiveTotal(t *testing.T) {
	item := domain.NewLineItem("Ink", 2, decimal.NewFromInt(10), "")

	more := item.WithQuantity(5)
	assert.True(t, decimal.NewFromInt(50).Equal(more.Total()))
	assert.True(t, decimal.NewFromInt(20).Equal(item.Total()), "original is unchanged")

	cheaper := more.WithRate(decimal.NewFromInt(4))
	assert.True(t, decimal.NewFromInt(20).Equal(cheaper.Total()))
}

func TestLineItem_UnmarshalIgnoresStoredTotal(t *testing.T) {
	var item domain.LineItem
	err := json.Unmarshal([]byte(`{"name":"Ink","quantity":2,"rate":"10","unit":"pc","total":"999"}`), &item)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(item.Total()))

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"total":"20"`)
}

func TestParseTaxMode(t *testing.T) {
	mode, ok := domain.ParseTaxMode(" manual ")
	assert.True(t, ok)
	assert.Equal(t, domain.TaxModeManual, mode)

	_, ok = domain.ParseTaxMode("vat")
	assert.False(t, ok)
}
