package accounting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
)

// InvoiceIDPrefix is the namespace shared by every invoice in a financial year,
// e.g. "DS/2024-25/".
func InvoiceIDPrefix(orgPrefix string, fy domain.FinancialYear) string {
	return orgPrefix + "/" + string(fy) + "/"
}

// InvoiceSequence extracts the numeric suffix of id under prefix. Ids outside
// the prefix report ok=false; a malformed suffix counts as 0.
func InvoiceSequence(prefix, id string) (seq int, ok bool) {
	suffix, found := strings.CutPrefix(id, prefix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, true
	}
	return n, true
}

// NextInvoiceID returns the id following the highest existing sequence in the
// year. Gaps left by deletions are never reused.
func NextInvoiceID(orgPrefix string, fy domain.FinancialYear, existingIDs []string) string {
	prefix := InvoiceIDPrefix(orgPrefix, fy)
	highest := 0
	for _, id := range existingIDs {
		if seq, ok := InvoiceSequence(prefix, id); ok && seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("%s%04d", prefix, highest+1)
}
