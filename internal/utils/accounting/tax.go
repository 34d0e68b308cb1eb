package accounting

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ResolveTaxPercent picks the tax rate for a mode. A negative manual rate or
// an unknown mode is a validation error.
func ResolveTaxPercent(mode domain.TaxMode, manualPercent decimal.Decimal) (decimal.Decimal, error) {
	switch mode {
	case domain.TaxModeAuto:
		return domain.DefaultTaxPercent, nil
	case domain.TaxModeNone:
		return decimal.Zero, nil
	case domain.TaxModeManual:
		if manualPercent.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: tax percent cannot be negative", apperrors.ErrValidation)
		}
		return manualPercent, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown tax mode %q", apperrors.ErrValidation, mode)
	}
}

// ParseTaxPercent parses user-entered text into a manual tax percentage.
func ParseTaxPercent(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: tax percent is required for manual tax mode", apperrors.ErrValidation)
	}
	pct, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: tax percent %q is not a number", apperrors.ErrValidation, s)
	}
	if pct.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: tax percent cannot be negative", apperrors.ErrValidation)
	}
	return pct, nil
}

// ComputeTotals derives subtotal, tax and grand total from the valid items.
// The subtotal keeps full precision; only the tax amount is rounded to two
// decimals.
func ComputeTotals(items []domain.LineItem, mode domain.TaxMode, manualPercent decimal.Decimal) (domain.InvoiceTotals, error) {
	if len(items) == 0 {
		return domain.InvoiceTotals{}, fmt.Errorf("%w: at least one item is required", apperrors.ErrValidation)
	}

	pct, err := ResolveTaxPercent(mode, manualPercent)
	if err != nil {
		return domain.InvoiceTotals{}, err
	}

	subtotal := decimal.Zero
	valid := 0
	for _, item := range items {
		if !item.IsValid() {
			continue
		}
		subtotal = subtotal.Add(item.Total())
		valid++
	}
	if valid == 0 {
		return domain.InvoiceTotals{}, fmt.Errorf("%w: at least one item needs a name, a positive quantity and a non-negative rate", apperrors.ErrValidation)
	}

	tax := subtotal.Mul(pct).Div(hundred).Round(2)
	return domain.InvoiceTotals{
		Subtotal:   subtotal,
		TaxPercent: pct,
		TaxAmount:  tax,
		Total:      subtotal.Add(tax),
	}, nil
}
