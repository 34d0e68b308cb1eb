package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialYearOf(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want domain.FinancialYear
	}{
		{"first day of year", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "2024-25"},
		{"last day of previous year", time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC), "2023-24"},
		{"december", time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC), "2024-25"},
		{"january", time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), "2024-25"},
		{"century wrap", time.Date(2099, time.May, 1, 0, 0, 0, 0, time.UTC), "2099-00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FinancialYearOf(tt.date, time.April))
		})
	}
}

func TestFinancialYearOf_CustomStartMonth(t *testing.T) {
	assert.Equal(t, domain.FinancialYear("2024-25"), domain.FinancialYearOf(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), time.January))
	assert.Equal(t, domain.FinancialYear("2023-24"), domain.FinancialYearOf(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), time.July))
}

func TestParseFinancialYear(t *testing.T) {
	fy, err := domain.ParseFinancialYear("2024-25")
	require.NoError(t, err)
	assert.Equal(t, 2024, fy.StartYear())

	for _, bad := range []string{"", "2024", "2024-2025", "24-25", "2024-26", "abcd-ef"} {
		_, err := domain.ParseFinancialYear(bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "input %q", bad)
	}
}

func TestFinancialYear_Bounds(t *testing.T) {
	start, end := domain.FinancialYear("2024-25").Bounds(time.April)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), end)

	fy := domain.FinancialYear("2024-25")
	assert.True(t, fy.Contains(time.Date(2025, time.March, 31, 18, 0, 0, 0, time.UTC), time.April))
	assert.False(t, fy.Contains(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), time.April))
}
