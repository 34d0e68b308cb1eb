package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice, encoding the
// address snapshots and line items as JSON.
func ToModelInvoice(d domain.Invoice) (models.Invoice, error) {
	billFrom, err := json.Marshal(d.BillFrom)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("encode bill_from: %w", err)
	}
	billTo, err := json.Marshal(d.BillTo)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("encode bill_to: %w", err)
	}
	items := d.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("encode items: %w", err)
	}

	return models.Invoice{
		InvoiceID:          d.InvoiceID,
		CustomerID:         d.CustomerID,
		InvoiceDate:        domain.DateOnly(d.InvoiceDate),
		ClientName:         d.ClientName,
		BillFrom:           billFrom,
		BillTo:             billTo,
		Items:              itemsJSON,
		TaxMode:            string(d.TaxMode),
		TaxPercent:         d.TaxPercent,
		Subtotal:           d.Subtotal,
		TaxAmount:          d.TaxAmount,
		Total:              d.Total,
		Status:             models.InvoiceStatus(d.Status),
		ProjectDescription: d.ProjectDescription,
		PaymentTerms:       d.PaymentTerms,
		SuppliersRef:       d.SuppliersRef,
		OtherRef:           d.OtherRef,
		HSN:                d.HSN,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainInvoice converts a model Invoice to a domain Invoice. Line item
// totals are re-derived while decoding.
func ToDomainInvoice(m models.Invoice) (domain.Invoice, error) {
	var d domain.Invoice
	if len(m.BillFrom) > 0 {
		if err := json.Unmarshal(m.BillFrom, &d.BillFrom); err != nil {
			return domain.Invoice{}, fmt.Errorf("decode bill_from of %s: %w", m.InvoiceID, err)
		}
	}
	if len(m.BillTo) > 0 {
		if err := json.Unmarshal(m.BillTo, &d.BillTo); err != nil {
			return domain.Invoice{}, fmt.Errorf("decode bill_to of %s: %w", m.InvoiceID, err)
		}
	}
	if len(m.Items) > 0 {
		if err := json.Unmarshal(m.Items, &d.Items); err != nil {
			return domain.Invoice{}, fmt.Errorf("decode items of %s: %w", m.InvoiceID, err)
		}
	}

	d.InvoiceID = m.InvoiceID
	d.CustomerID = m.CustomerID
	d.InvoiceDate = domain.DateOnly(m.InvoiceDate)
	d.ClientName = m.ClientName
	d.TaxMode = domain.TaxMode(m.TaxMode)
	d.Status = domain.InvoiceStatus(m.Status)
	d.ProjectDescription = m.ProjectDescription
	d.PaymentTerms = m.PaymentTerms
	d.SuppliersRef = m.SuppliersRef
	d.OtherRef = m.OtherRef
	d.HSN = m.HSN
	d.InvoiceTotals = domain.InvoiceTotals{
		Subtotal:   m.Subtotal,
		TaxPercent: m.TaxPercent,
		TaxAmount:  m.TaxAmount,
		Total:      m.Total,
	}
	d.AuditFields = ToDomainAuditFields(m.AuditFields)
	return d, nil
}

// ToDomainInvoiceSlice converts a slice of model Invoices to a slice of domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) ([]domain.Invoice, error) {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		d, err := ToDomainInvoice(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ItemNames extracts the line item names from a stored items document.
func ItemNames(itemsJSON []byte) ([]string, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name()
	}
	return names, nil
}
