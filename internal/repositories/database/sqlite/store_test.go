package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/SscSPs/ledger_invoicing_app/internal/repositories/database/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var baseTime = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

type StoreTestSuite struct {
	suite.Suite
	store *sqlite.Store
	ctx   context.Context
}

func (suite *StoreTestSuite) SetupTest() {
	store, err := sqlite.New(":memory:")
	suite.Require().NoError(err)
	suite.store = store
	suite.ctx = context.Background()
}

func (suite *StoreTestSuite) TearDownTest() {
	suite.NoError(suite.store.Close())
}

func (suite *StoreTestSuite) seedCustomer(id, name string) domain.Customer {
	c := domain.Customer{CustomerID: id, Name: name, City: "Pune", AuditFields: domain.NewAuditFields(baseTime, "alice")}
	suite.Require().NoError(suite.store.SaveCustomer(suite.ctx, c))
	return c
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(id, customerID string, date time.Time, particulars string, debit, credit int64, createdAt time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     id,
		CustomerID:  customerID,
		EntryDate:   date,
		Particulars: particulars,
		Debit:       decimal.NewFromInt(debit),
		Credit:      decimal.NewFromInt(credit),
		AuditFields: domain.NewAuditFields(createdAt, "alice"),
	}
}

func invoice(id, customerID string, date time.Time, createdAt time.Time, items ...domain.LineItem) domain.Invoice {
	return domain.Invoice{
		InvoiceID:   id,
		CustomerID:  customerID,
		InvoiceDate: date,
		ClientName:  "Sharma Traders",
		BillFrom:    domain.Address{Name: "Acme", StreetAddress: "12 Mill Road"},
		BillTo:      domain.Address{Name: "Sharma Traders", StreetAddress: "4 Station Road"},
		Items:       items,
		TaxMode:     domain.TaxModeAuto,
		Status:      domain.InvoicePending,
		InvoiceTotals: domain.InvoiceTotals{
			Subtotal: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(18),
			TaxAmount: decimal.NewFromInt(18), Total: decimal.NewFromInt(118),
		},
		AuditFields: domain.NewAuditFields(createdAt, "alice"),
	}
}

func billEntry(inv domain.Invoice, entryID string) domain.LedgerEntry {
	id := inv.InvoiceID
	e := entry(entryID, inv.CustomerID, inv.InvoiceDate, inv.LedgerParticulars(), inv.Total.IntPart(), 0, inv.CreatedAt)
	e.LinkedInvoiceID = &id
	return e
}

func (suite *StoreTestSuite) TestCustomers_UniqueNameAndLookup() {
	suite.seedCustomer("c1", "Sharma Traders")

	err := suite.store.SaveCustomer(suite.ctx, domain.Customer{CustomerID: "c2", Name: "Sharma Traders", AuditFields: domain.NewAuditFields(baseTime, "bob")})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	byName, err := suite.store.FindCustomerByName(suite.ctx, "Sharma Traders")
	suite.Require().NoError(err)
	suite.Equal("c1", byName.CustomerID)
	suite.True(byName.CreatedAt.Equal(baseTime))

	_, err = suite.store.FindCustomerByID(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestCustomers_ListOrderedByName() {
	suite.seedCustomer("c2", "Zeta Works")
	suite.seedCustomer("c1", "Alpha Stores")

	customers, err := suite.store.ListCustomers(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(customers, 2)
	suite.Equal("Alpha Stores", customers[0].Name)
}

func (suite *StoreTestSuite) TestCustomers_UpdateAndDeleteWithEntries() {
	c := suite.seedCustomer("c1", "Sharma Traders")
	suite.Require().NoError(suite.store.SaveLedgerEntry(suite.ctx, entry("e1", "c1", day(time.May, 1), "CASH", 100, 0, baseTime)))

	c.City = "Nashik"
	c.Touch(baseTime.Add(time.Hour), "bob")
	suite.Require().NoError(suite.store.UpdateCustomer(suite.ctx, c))
	got, err := suite.store.FindCustomerByID(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Equal("Nashik", got.City)
	suite.Equal("bob", got.LastUpdatedBy)

	suite.Require().NoError(suite.store.DeleteCustomerWithEntries(suite.ctx, "c1"))
	_, err = suite.store.FindLedgerEntryByID(suite.ctx, "e1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorIs(suite.store.DeleteCustomerWithEntries(suite.ctx, "c1"), apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestLedger_OrderingAndSums() {
	suite.seedCustomer("c1", "Sharma Traders")
	// Same day entries keep the order they were recorded in.
	suite.Require().NoError(suite.store.SaveLedgerEntry(suite.ctx, entry("b", "c1", day(time.May, 2), "PAYMENT RECEIVED CASH", 0, 400, baseTime.Add(2*time.Second))))
	suite.Require().NoError(suite.store.SaveLedgerEntry(suite.ctx, entry("a", "c1", day(time.May, 2), "CASH", 1000, 0, baseTime.Add(time.Second))))
	suite.Require().NoError(suite.store.SaveLedgerEntry(suite.ctx, entry("c", "c1", day(time.March, 30), "OLD", 250, 0, baseTime)))

	entries, err := suite.store.ListLedgerEntries(suite.ctx, "c1", day(time.April, 1), day(time.May, 31))
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal("a", entries[0].EntryID)
	suite.Equal("b", entries[1].EntryID)
	suite.Equal(day(time.May, 2), entries[0].EntryDate)

	sum, count, err := suite.store.SumBeforeDate(suite.ctx, "c1", day(time.April, 1))
	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.True(decimal.NewFromInt(250).Equal(sum))

	sum, count, err = suite.store.SumBeforeDate(suite.ctx, "c1", day(time.June, 1))
	suite.Require().NoError(err)
	suite.Equal(3, count)
	suite.True(decimal.NewFromInt(850).Equal(sum))
}

func (suite *StoreTestSuite) TestLedger_UpdateAndDelete() {
	suite.seedCustomer("c1", "Sharma Traders")
	e := entry("e1", "c1", day(time.May, 1), "CASH", 100, 0, baseTime)
	suite.Require().NoError(suite.store.SaveLedgerEntry(suite.ctx, e))

	e.Debit = decimal.RequireFromString("120.50")
	suite.Require().NoError(suite.store.UpdateLedgerEntry(suite.ctx, e))
	got, err := suite.store.FindLedgerEntryByID(suite.ctx, "e1")
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("120.50").Equal(got.Debit))
	suite.Nil(got.LinkedInvoiceID)

	suite.Require().NoError(suite.store.DeleteLedgerEntry(suite.ctx, "e1"))
	suite.ErrorIs(suite.store.DeleteLedgerEntry(suite.ctx, "e1"), apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestInvoices_SaveWritesLinkedEntry() {
	suite.seedCustomer("c1", "Sharma Traders")
	inv := invoice("DS/2024-25/0001", "c1", day(time.May, 5), baseTime, domain.NewLineItem("Ink", 2, decimal.NewFromInt(50), "pc"))
	suite.Require().NoError(suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, "e1")))

	got, err := suite.store.FindInvoiceByID(suite.ctx, inv.InvoiceID)
	suite.Require().NoError(err)
	suite.Equal(inv.BillTo, got.BillTo)
	suite.Require().Len(got.Items, 1)
	suite.True(decimal.NewFromInt(100).Equal(got.Items[0].Total()))
	suite.True(decimal.NewFromInt(118).Equal(got.Total))

	e, err := suite.store.FindLedgerEntryByID(suite.ctx, "e1")
	suite.Require().NoError(err)
	suite.Require().NotNil(e.LinkedInvoiceID)
	suite.Equal(inv.InvoiceID, *e.LinkedInvoiceID)

	err = suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, "e2"))
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	_, err = suite.store.FindLedgerEntryByID(suite.ctx, "e2")
	suite.ErrorIs(err, apperrors.ErrNotFound, "entry must roll back with the failed invoice insert")
}

func (suite *StoreTestSuite) TestInvoices_UpdateRewritesLinkedEntry() {
	suite.seedCustomer("c1", "Sharma Traders")
	inv := invoice("DS/2024-25/0001", "c1", day(time.May, 5), baseTime)
	suite.Require().NoError(suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, "e1")))

	inv.Total = decimal.NewFromInt(236)
	inv.InvoiceDate = day(time.May, 6)
	suite.Require().NoError(suite.store.UpdateInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, "e-new")))

	entries, err := suite.store.ListLedgerEntries(suite.ctx, "c1", day(time.April, 1), day(time.June, 30))
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("e1", entries[0].EntryID)
	suite.True(decimal.NewFromInt(236).Equal(entries[0].Debit))
	suite.Equal(day(time.May, 6), entries[0].EntryDate)

	// A missing linked row is recreated.
	suite.Require().NoError(suite.store.DeleteLedgerEntry(suite.ctx, "e1"))
	suite.Require().NoError(suite.store.UpdateInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, "e-new")))
	_, err = suite.store.FindLedgerEntryByID(suite.ctx, "e-new")
	suite.NoError(err)
}

func (suite *StoreTestSuite) TestInvoices_ListPagesNewestFirst() {
	suite.seedCustomer("c1", "Sharma Traders")
	for i := 1; i <= 5; i++ {
		inv := invoice(fmt.Sprintf("DS/2024-25/%04d", i), "c1", day(time.May, i), baseTime.Add(time.Duration(i)*time.Second))
		suite.Require().NoError(suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, fmt.Sprintf("e%d", i))))
	}

	page1, token, err := suite.store.ListInvoices(suite.ctx, nil, nil, 2, nil)
	suite.Require().NoError(err)
	suite.Require().Len(page1, 2)
	suite.Equal("DS/2024-25/0005", page1[0].InvoiceID)
	suite.Require().NotNil(token)

	page2, token, err := suite.store.ListInvoices(suite.ctx, nil, nil, 2, token)
	suite.Require().NoError(err)
	suite.Equal("DS/2024-25/0003", page2[0].InvoiceID)

	page3, token, err := suite.store.ListInvoices(suite.ctx, nil, nil, 2, token)
	suite.Require().NoError(err)
	suite.Len(page3, 1)
	suite.Nil(token)

	from, to := day(time.May, 2), day(time.May, 3)
	bounded, _, err := suite.store.ListInvoices(suite.ctx, &from, &to, 10, nil)
	suite.Require().NoError(err)
	suite.Len(bounded, 2)

	bad := "not-a-token"
	_, _, err = suite.store.ListInvoices(suite.ctx, nil, nil, 2, &bad)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StoreTestSuite) TestInvoices_PrefixCountItemsPaidDelete() {
	suite.seedCustomer("c1", "Sharma Traders")
	a := invoice("DS/2024-25/0001", "c1", day(time.May, 1), baseTime, domain.NewLineItem("Ink", 1, decimal.NewFromInt(5), "pc"))
	b := invoice("DS/2023-24/0009", "c1", day(time.March, 1), baseTime, domain.NewLineItem("Paper", 1, decimal.NewFromInt(5), "ream"), domain.NewLineItem("Ink", 1, decimal.NewFromInt(5), "pc"))
	suite.Require().NoError(suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, a, billEntry(a, "ea")))
	suite.Require().NoError(suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, b, billEntry(b, "eb")))

	ids, err := suite.store.ListInvoiceIDsWithPrefix(suite.ctx, "DS/2024-25/")
	suite.Require().NoError(err)
	suite.Equal([]string{"DS/2024-25/0001"}, ids)

	count, err := suite.store.CountInvoicesByCustomer(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Equal(2, count)

	names, err := suite.store.ListItemNames(suite.ctx)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"Ink", "Paper", "Ink"}, names)

	suite.Require().NoError(suite.store.MarkInvoicePaid(suite.ctx, a.InvoiceID, "bob", baseTime.Add(time.Hour)))
	paid, err := suite.store.FindInvoiceByID(suite.ctx, a.InvoiceID)
	suite.Require().NoError(err)
	suite.True(paid.IsPaid())
	suite.Equal("bob", paid.LastUpdatedBy)

	removed, err := suite.store.DeleteInvoiceWithLedgerEntries(suite.ctx, a.InvoiceID)
	suite.Require().NoError(err)
	suite.EqualValues(1, removed)
	_, err = suite.store.FindInvoiceByID(suite.ctx, a.InvoiceID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.store.FindLedgerEntryByID(suite.ctx, "ea")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.store.FindLedgerEntryByID(suite.ctx, "eb")
	suite.NoError(err, "other invoices keep their entries")

	_, err = suite.store.DeleteInvoiceWithLedgerEntries(suite.ctx, a.InvoiceID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestDuplicateKeysMapToErrDuplicate() {
	suite.seedCustomer("c1", "Sharma Traders")

	err := suite.store.SaveCustomer(suite.ctx, domain.Customer{CustomerID: "c1", Name: "Another Name", AuditFields: domain.NewAuditFields(baseTime, "alice")})
	suite.ErrorIs(err, apperrors.ErrDuplicate, "primary key clash")

	err = suite.store.SaveCustomer(suite.ctx, domain.Customer{CustomerID: "c2", Name: "Sharma Traders", AuditFields: domain.NewAuditFields(baseTime, "alice")})
	suite.ErrorIs(err, apperrors.ErrDuplicate, "unique name clash")

	inv := invoice("DS/2024-25/0001", "c1", day(time.May, 5), baseTime)
	suite.Require().NoError(suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, "e1")))
	err = suite.store.SaveInvoiceWithLedgerEntry(suite.ctx, inv, billEntry(inv, "e2"))
	suite.ErrorIs(err, apperrors.ErrDuplicate, "invoice id clash")
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
