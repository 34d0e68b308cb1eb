package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

var (
	columnTitles = []string{"S.No", "Date", "Particulars", "Debit", "Credit", "Balance"}
	columnWidths = []float64{12, 24, 74, 26, 26, 28}
	columnAligns = []string{"C", "C", "L", "R", "R", "R"}
)

const rowHeight = 7.0

// PDFRenderer lays statements out on A4 portrait pages.
type PDFRenderer struct {
	compress bool
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithCompression toggles stream compression; uncompressed output is easier to inspect.
func WithCompression(on bool) PDFOption {
	return func(r *PDFRenderer) {
		r.compress = on
	}
}

func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PDFRenderer) ContentType() string   { return "application/pdf" }
func (r *PDFRenderer) FileExtension() string { return ".pdf" }

// Render writes one PDF page per statement page, or a single placeholder
// page when there are none.
func (r *PDFRenderer) Render(w io.Writer, doc StatementDocument) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(fmt.Sprintf("Statement %s %s", doc.Customer.Name, doc.FinancialYear), true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
		pdf.SetModificationDate(doc.GeneratedAt)
	}
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	if len(doc.Pages) == 0 {
		pdf.AddPage()
		r.writeHeader(pdf, tr, doc)
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 12, noEntriesText, "1", 1, "C", false, 0, "")
		return pdf.Output(w)
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		r.writeHeader(pdf, tr, doc)
		if page.IsFirstPage {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(0, 8, tr(doc.caption()), "", 1, "C", false, 0, "")
		}
		r.writeColumnHeader(pdf)

		pdf.SetFont("Arial", "", 9)
		for _, e := range page.Entries {
			cells := []string{
				fmt.Sprintf("%d", e.SerialNo),
				e.EntryDate.Format(dateLayout),
				tr(e.Particulars),
				doc.leg(e.Debit),
				doc.leg(e.Credit),
				e.BalanceDisplay,
			}
			for i, c := range cells {
				pdf.CellFormat(columnWidths[i], rowHeight, c, "1", 0, columnAligns[i], false, 0, "")
			}
			pdf.Ln(-1)
		}

		if page.IsLastPage {
			pdf.SetFont("Arial", "B", 9)
			pdf.SetFillColor(235, 235, 235)
			labelWidth := columnWidths[0] + columnWidths[1] + columnWidths[2]
			pdf.CellFormat(labelWidth, rowHeight, "Grand Total", "1", 0, "R", true, 0, "")
			pdf.CellFormat(columnWidths[3], rowHeight, doc.amount(doc.Totals.TotalDebit), "1", 0, "R", true, 0, "")
			pdf.CellFormat(columnWidths[4], rowHeight, doc.amount(doc.Totals.TotalCredit), "1", 0, "R", true, 0, "")
			pdf.CellFormat(columnWidths[5], rowHeight, doc.amount(doc.Totals.FinalBalance), "1", 1, "R", true, 0, "")
		}
	}

	return pdf.Output(w)
}

func (r *PDFRenderer) writeHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc StatementDocument) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(doc.Business.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if line := joinNonEmpty(", ", doc.Business.StreetAddress, doc.Business.City, doc.Business.PostCode); line != "" {
		pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
	}
	if doc.Business.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+tr(doc.Business.GSTIN), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Ledger Account: "+tr(doc.Customer.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if line := joinNonEmpty(", ", doc.Customer.StreetAddress, doc.Customer.City, doc.Customer.PostCode); line != "" {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

func (r *PDFRenderer) writeColumnHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, title := range columnTitles {
		pdf.CellFormat(columnWidths[i], rowHeight, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
