package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
)

// DateLayout is the calendar date format accepted and returned by the API.
const DateLayout = "2006-01-02"

// ParseDate parses a required calendar date.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", apperrors.ErrValidation, field)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", apperrors.ErrValidation, field)
	}
	return t, nil
}

// FormatDate renders a calendar date, leaving zero dates empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// YearQuery carries the optional financial year of list and ledger endpoints.
type YearQuery struct {
	Year string `form:"year" binding:"omitempty,financialyear"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
