package utils

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayPrecision is the number of decimals shown for money.
const DisplayPrecision = 2

// AmountFormatter renders money with a fixed two-decimal fraction and the
// locale's digit grouping.
// Example: 1234567.891 with "en" returns "1,234,567.89"
type AmountFormatter struct {
	printer *message.Printer
	decimal string
}

// NewAmountFormatter builds a formatter for a BCP 47 locale. An unparseable
// locale falls back to English.
func NewAmountFormatter(locale string) *AmountFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	// The printer's decimal separator is the text between "0" and "5".
	sep := strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%.1f", 0.5), "0"), "5")
	if sep == "" {
		sep = "."
	}
	return &AmountFormatter{printer: p, decimal: sep}
}

var defaultFormatter = NewAmountFormatter("en")

// Format rounds half away from zero to two decimals. Only the integer part
// goes through the locale printer so the fraction stays exact.
func (f *AmountFormatter) Format(amount decimal.Decimal) string {
	fixed := amount.Round(DisplayPrecision).Abs().StringFixed(DisplayPrecision)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	whole, err := decimal.NewFromString(intPart)
	if err != nil {
		return amount.StringFixed(DisplayPrecision)
	}

	var b strings.Builder
	if amount.Round(DisplayPrecision).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(f.printer.Sprintf("%d", whole.IntPart()))
	b.WriteString(f.decimal)
	b.WriteString(fracPart)
	return b.String()
}

// FormatAmount formats with the default English grouping.
func FormatAmount(amount decimal.Decimal) string {
	return defaultFormatter.Format(amount)
}
