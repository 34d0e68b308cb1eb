package accounting_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(20240401, 7))
}

func entry(particulars, debit, credit string) domain.LedgerEntry {
	return domain.LedgerEntry{
		CustomerID:  "c1",
		EntryDate:   time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		Particulars: particulars,
		Debit:       dec(debit),
		Credit:      dec(credit),
	}
}

func TestMaterialize_Scenario(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry("BY BILL DS/2024-25/0001", "1000", "0"),
		entry("PAYMENT RECEIVED CASH", "0", "400"),
		entry("BY BILL DS/2024-25/0002", "200", "0"),
	}

	view, err := accounting.Materialize(entries)
	require.NoError(t, err)
	require.Len(t, view.Entries, 3)

	want := []string{"1000", "600", "800"}
	for i, e := range view.Entries {
		assert.True(t, dec(want[i]).Equal(e.Balance), "row %d balance %s", i, e.Balance)
		assert.Equal(t, i+1, e.SerialNo)
	}
	assert.Equal(t, "1,000.00", view.Entries[0].BalanceDisplay)
	assert.True(t, dec("1200").Equal(view.Totals.TotalDebit))
	assert.True(t, dec("400").Equal(view.Totals.TotalCredit))
	assert.True(t, dec("800").Equal(view.Totals.FinalBalance))
	assert.True(t, view.Totals.OpeningBalance.IsZero())
}

func TestMaterialize_OpeningBalanceSeeds(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry(domain.OpeningBalanceParticulars, "0", "150"),
		entry("BY BILL DS/2024-25/0001", "100", "0"),
	}
	view, err := accounting.Materialize(entries)
	require.NoError(t, err)
	assert.True(t, dec("-150").Equal(view.Totals.OpeningBalance))
	assert.True(t, dec("-50").Equal(view.Totals.FinalBalance))
	assert.Equal(t, "-50.00", view.Entries[1].BalanceDisplay)
}

func TestMaterialize_OpeningBalanceOutOfPlace(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry("BY BILL DS/2024-25/0001", "100", "0"),
		entry(domain.OpeningBalanceParticulars, "50", "0"),
	}
	_, err := accounting.Materialize(entries)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMaterialize_Empty(t *testing.T) {
	view, err := accounting.Materialize(nil)
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
	assert.True(t, view.Totals.FinalBalance.IsZero())
}

func TestMaterialize_DoesNotMutateInput(t *testing.T) {
	entries := []domain.LedgerEntry{entry("x", "10", "0"), entry("y", "0", "3")}
	snapshot := append([]domain.LedgerEntry(nil), entries...)
	_, err := accounting.Materialize(entries)
	require.NoError(t, err)
	assert.Equal(t, snapshot, entries)
}

func TestMaterialize_CustomFormatter(t *testing.T) {
	view, err := accounting.Materialize(
		[]domain.LedgerEntry{entry("x", "10", "0")},
		accounting.WithDisplayFormatter(func(d decimal.Decimal) string { return "Rs " + d.String() }),
	)
	require.NoError(t, err)
	assert.Equal(t, "Rs 10", view.Entries[0].BalanceDisplay)
}

func TestMaterialize_BalanceEquivalence(t *testing.T) {
	rng := newRand()
	for run := 0; run < 300; run++ {
		n := rng.IntN(80)
		entries := make([]domain.LedgerEntry, 0, n+1)
		opening := decimal.Zero
		if rng.IntN(2) == 0 {
			opening = decimal.New(rng.Int64N(2_000_000)-1_000_000, -2)
			entries = append(entries, domain.NewOpeningBalanceEntry("c1", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), opening))
		}
		debits, credits := decimal.Zero, decimal.Zero
		for i := 0; i < n; i++ {
			amount := decimal.New(rng.Int64N(10_000_000)+1, -3)
			e := domain.LedgerEntry{CustomerID: "c1", Particulars: "row", Debit: decimal.Zero, Credit: decimal.Zero}
			if rng.IntN(2) == 0 {
				e.Debit = amount
				debits = debits.Add(amount)
			} else {
				e.Credit = amount
				credits = credits.Add(amount)
			}
			entries = append(entries, e)
		}

		view, err := accounting.Materialize(entries)
		require.NoError(t, err)
		assert.True(t, view.Totals.OpeningBalance.Equal(opening))
		assert.True(t, opening.Add(debits).Sub(credits).Equal(view.Totals.FinalBalance), "run %d", run)
		assert.True(t, view.Totals.TotalDebit.Sub(view.Totals.TotalCredit).Equal(view.Totals.FinalBalance), "run %d", run)
	}
}
