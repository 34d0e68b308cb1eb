package render

import (
	"html/template"
	"io"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const statementHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Statement {{.Doc.Customer.Name}} {{.Doc.FinancialYear}}</title>
  <style>
    body { margin: 0; font-family: Arial, sans-serif; color: #111827; }
    .page { width: 190mm; margin: 0 auto; padding: 10mm 0; page-break-after: always; }
    .page:last-child { page-break-after: auto; }
    .business { text-align: center; }
    .caption { text-align: center; font-weight: bold; margin: 8px 0; }
    table { width: 100%; border-collapse: collapse; font-size: 12px; }
    th, td { border: 1px solid #9ca3af; padding: 4px 6px; }
    th { background: #e5e7eb; }
    td.num { text-align: right; }
    tr.totals td { font-weight: bold; background: #f3f4f6; }
    .empty { text-align: center; padding: 24px; border: 1px solid #9ca3af; }
    .footer { text-align: center; font-size: 10px; color: #6b7280; margin-top: 8px; }
  </style>
</head>
<body>
{{- define "header"}}
    <div class="business">
      <h2>{{.Business.Name}}</h2>
      {{with addressLine .Business.StreetAddress .Business.City .Business.PostCode}}<div>{{.}}</div>{{end}}
      {{with .Business.GSTIN}}<div>GSTIN: {{.}}</div>{{end}}
    </div>
    <h3>Ledger Account: {{.Customer.Name}}</h3>
    {{with addressLine .Customer.StreetAddress .Customer.City .Customer.PostCode}}<div>{{.}}</div>{{end}}
{{- end}}
{{- $doc := .Doc}}
{{- range .Pages}}
  <section class="page">
    {{template "header" $doc}}
    {{if .IsFirstPage}}<div class="caption">{{$doc.Caption}}</div>{{end}}
    <table>
      <thead>
        <tr><th>S.No</th><th>Date</th><th>Particulars</th><th>Debit</th><th>Credit</th><th>Balance</th></tr>
      </thead>
      <tbody>
        {{- range .Entries}}
        <tr>
          <td>{{.SerialNo}}</td>
          <td>{{formatDate .EntryDate}}</td>
          <td>{{.Particulars}}</td>
          <td class="num">{{$doc.Leg .Debit}}</td>
          <td class="num">{{$doc.Leg .Credit}}</td>
          <td class="num">{{.BalanceDisplay}}</td>
        </tr>
        {{- end}}
        {{- if .IsLastPage}}
        <tr class="totals">
          <td colspan="3">Grand Total</td>
          <td class="num">{{$doc.Amount $doc.Totals.TotalDebit}}</td>
          <td class="num">{{$doc.Amount $doc.Totals.TotalCredit}}</td>
          <td class="num">{{$doc.Amount $doc.Totals.FinalBalance}}</td>
        </tr>
        {{- end}}
      </tbody>
    </table>
    <div class="footer">Page {{inc .Index}} of {{$.PageCount}}</div>
  </section>
{{- else}}
  <section class="page">
    {{template "header" $doc}}
    <div class="empty">` + noEntriesText + `</div>
  </section>
{{- end}}
</body>
</html>
`

// HTMLRenderer renders statements as a single printable HTML document with
// one section per page.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"formatDate":  formatDate,
		"addressLine": func(parts ...string) string { return joinNonEmpty(", ", parts...) },
		"inc":         func(i int) int { return i + 1 },
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("statement").Funcs(funcs).Parse(statementHTMLTemplate)),
	}
}

func (r *HTMLRenderer) ContentType() string   { return "text/html; charset=utf-8" }
func (r *HTMLRenderer) FileExtension() string { return ".html" }

// htmlDocument exposes the document's formatting helpers to the template.
type htmlDocument struct {
	StatementDocument
}

func (d htmlDocument) Caption() string { return d.caption() }

func (d htmlDocument) Amount(v decimal.Decimal) string { return d.amount(v) }

func (d htmlDocument) Leg(v decimal.Decimal) string { return d.leg(v) }

type htmlView struct {
	Doc       htmlDocument
	Pages     []pagination.StatementPage
	PageCount int
}

func (r *HTMLRenderer) Render(w io.Writer, doc StatementDocument) error {
	return r.tpl.Execute(w, htmlView{
		Doc:       htmlDocument{doc},
		Pages:     doc.Pages,
		PageCount: len(doc.Pages),
	})
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format(dateLayout)
}
