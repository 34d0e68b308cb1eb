package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry for the mutation policy.
type EntryKind string

const (
	EntryOpeningBalance   EntryKind = "OPENING_BALANCE"
	EntryInvoiceLinked    EntryKind = "INVOICE_LINKED"
	EntryPayment          EntryKind = "PAYMENT"
	EntryManualAdjustment EntryKind = "MANUAL_ADJUSTMENT"
)

var invoiceParticularsPattern = regexp.MustCompile(`^BY BILL \S+`)

// IsOpeningBalance reports whether particulars name the synthetic opening row.
func IsOpeningBalance(particulars string) bool {
	return strings.EqualFold(strings.TrimSpace(particulars), OpeningBalanceParticulars)
}

// IsInvoiceParticulars reports whether particulars follow the "BY BILL <id>" form.
func IsInvoiceParticulars(particulars string) bool {
	return invoiceParticularsPattern.MatchString(strings.TrimSpace(particulars))
}

// Classify decides which policy applies to an entry.
func Classify(entry LedgerEntry) EntryKind {
	switch {
	case IsOpeningBalance(entry.Particulars):
		return EntryOpeningBalance
	case entry.LinkedInvoiceID != nil && *entry.LinkedInvoiceID != "":
		return EntryInvoiceLinked
	case IsInvoiceParticulars(entry.Particulars):
		return EntryInvoiceLinked
	case strings.HasPrefix(strings.ToUpper(strings.TrimSpace(entry.Particulars)), PaymentParticularsPrefix):
		return EntryPayment
	default:
		return EntryManualAdjustment
	}
}

func isProtected(kind EntryKind) bool {
	return kind == EntryOpeningBalance || kind == EntryInvoiceLinked
}

// CanEdit reports whether the entry may be edited through the ledger.
func CanEdit(entry LedgerEntry) bool {
	return !isProtected(Classify(entry))
}

// CanDelete reports whether the entry may be deleted through the ledger.
func CanDelete(entry LedgerEntry) bool {
	return !isProtected(Classify(entry))
}

func protectedDetails(kind EntryKind) string {
	if kind == EntryInvoiceLinked {
		return "edit or delete the backing invoice instead"
	}
	return "the opening balance is carried forward and cannot be changed"
}

// CheckEditable returns a PolicyViolation when the entry cannot be edited.
func CheckEditable(entry LedgerEntry) error {
	kind := Classify(entry)
	if isProtected(kind) {
		return apperrors.NewPolicyViolation(string(kind), "edit", protectedDetails(kind))
	}
	return nil
}

// CheckDeletable returns a PolicyViolation when the entry cannot be deleted.
func CheckDeletable(entry LedgerEntry) error {
	kind := Classify(entry)
	if isProtected(kind) {
		return apperrors.NewPolicyViolation(string(kind), "delete", protectedDetails(kind))
	}
	return nil
}

// ValidateLegs enforces that exactly one of debit and credit is non-zero and
// neither is negative.
func ValidateLegs(debit, credit decimal.Decimal) error {
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("%w: debit and credit cannot be negative", apperrors.ErrValidation)
	}
	if !debit.IsZero() && !credit.IsZero() {
		return fmt.Errorf("%w: an entry cannot be both debit and credit", apperrors.ErrValidation)
	}
	if debit.IsZero() && credit.IsZero() {
		return fmt.Errorf("%w: either debit or credit must be greater than zero", apperrors.ErrValidation)
	}
	return nil
}

// ValidateManualParticulars rejects text reserved for system-generated rows.
func ValidateManualParticulars(particulars string) error {
	p := strings.TrimSpace(particulars)
	if p == "" {
		return fmt.Errorf("%w: particulars are required", apperrors.ErrValidation)
	}
	if IsOpeningBalance(p) {
		return fmt.Errorf("%w: %q is reserved for the carried-forward balance", apperrors.ErrValidation, OpeningBalanceParticulars)
	}
	if strings.HasPrefix(strings.ToUpper(p), InvoiceParticularsPrefix) {
		return fmt.Errorf("%w: particulars starting with %q are reserved for invoices", apperrors.ErrValidation, strings.TrimSpace(InvoiceParticularsPrefix))
	}
	return nil
}

// PaymentParticulars builds the receipt marker for a payment method.
func PaymentParticulars(method string) string {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		m = DefaultPaymentMethod
	}
	return PaymentParticularsPrefix + " " + m
}

// PaymentMethod returns the method named by payment particulars. The second
// result is false when the text is not a payment marker.
func PaymentMethod(particulars string) (string, bool) {
	p := strings.ToUpper(strings.TrimSpace(particulars))
	if !strings.HasPrefix(p, PaymentParticularsPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(p, PaymentParticularsPrefix)), true
}

// ValidatePayment requires a receipt to be a positive credit with no debit leg.
func ValidatePayment(debit, credit decimal.Decimal) error {
	if !debit.IsZero() {
		return fmt.Errorf("%w: a payment cannot carry a debit", apperrors.ErrValidation)
	}
	if !credit.IsPositive() {
		return fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}
	return nil
}
