package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
)

// DefaultFinancialYearStartMonth is the month a financial year begins in.
const DefaultFinancialYearStartMonth = time.April

var financialYearPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// FinancialYear is a "YYYY-YY" key naming the calendar year the period starts in
// and the last two digits of the year it ends in, e.g. "2024-25".
type FinancialYear string

// NewFinancialYear builds the key for a financial year starting in startYear.
func NewFinancialYear(startYear int) FinancialYear {
	return FinancialYear(fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100))
}

// FinancialYearOf returns the financial year containing t.
func FinancialYearOf(t time.Time, startMonth time.Month) FinancialYear {
	start := t.Year()
	if t.Month() < startMonth {
		start--
	}
	return NewFinancialYear(start)
}

// ParseFinancialYear validates s as a financial year key.
func ParseFinancialYear(s string) (FinancialYear, error) {
	m := financialYearPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: invalid financial year %q, expected YYYY-YY", apperrors.ErrValidation, s)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if (start+1)%100 != end {
		return "", fmt.Errorf("%w: invalid financial year %q, end year must follow start year", apperrors.ErrValidation, s)
	}
	return FinancialYear(s), nil
}

// StartYear returns the calendar year the financial year starts in.
// It returns 0 for a malformed key.
func (fy FinancialYear) StartYear() int {
	m := financialYearPattern.FindStringSubmatch(string(fy))
	if m == nil {
		return 0
	}
	start, _ := strconv.Atoi(m[1])
	return start
}

// Bounds returns the first and last calendar day (inclusive) of the financial year.
func (fy FinancialYear) Bounds(startMonth time.Month) (time.Time, time.Time) {
	start := time.Date(fy.StartYear(), startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return start, end
}

// Contains reports whether t falls on a day inside the financial year.
func (fy FinancialYear) Contains(t time.Time, startMonth time.Month) bool {
	start, end := fy.Bounds(startMonth)
	day := DateOnly(t)
	return !day.Before(start) && !day.After(end)
}

func (fy FinancialYear) String() string {
	return string(fy)
}
