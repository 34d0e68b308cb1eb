package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/apperrors"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	customerRepo *MockCustomerRepository
	ledgerRepo   *MockLedgerRepository
	service      portssvc.LedgerSvcFacade

	fyStart time.Time
	fyEnd   time.Time
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.customerRepo = new(MockCustomerRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.customerRepo, suite.ledgerRepo, services.WithSettings(testSettings()))
	suite.fyStart = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	suite.fyEnd = time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
}

func (suite *LedgerServiceTestSuite) TearDownTest() {
	suite.customerRepo.AssertExpectations(suite.T())
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) expectCustomer(id string) {
	suite.customerRepo.On("FindCustomerByID", mock.Anything, id).Return(&domain.Customer{CustomerID: id, Name: "Sharma Traders"}, nil).Once()
}

func entryOn(day int, particulars string, debit, credit int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     particulars,
		CustomerID:  "cust-1",
		EntryDate:   time.Date(2024, time.May, day, 0, 0, 0, 0, time.UTC),
		Particulars: particulars,
		Debit:       decimal.NewFromInt(debit),
		Credit:      decimal.NewFromInt(credit),
	}
}

func (suite *LedgerServiceTestSuite) TestGetLedger_RunningBalanceWithoutHistory() {
	ctx := context.Background()
	suite.expectCustomer("cust-1")
	suite.ledgerRepo.On("SumBeforeDate", ctx, "cust-1", suite.fyStart).Return(decimal.Zero, 0, nil).Once()
	suite.ledgerRepo.On("ListLedgerEntries", ctx, "cust-1", suite.fyStart, suite.fyEnd).Return([]domain.LedgerEntry{
		entryOn(1, "BY BILL DS/2024-25/0001", 1000, 0),
		entryOn(2, "PAYMENT RECEIVED CASH", 0, 400),
		entryOn(3, "BY BILL DS/2024-25/0002", 200, 0),
	}, nil).Once()

	view, err := suite.service.GetLedger(ctx, "cust-1", "2024-25")

	suite.Require().NoError(err)
	suite.Require().Len(view.Entries, 3)
	for i, want := range []string{"1000", "600", "800"} {
		suite.True(d(want).Equal(view.Entries[i].Balance), "row %d", i+1)
	}
	suite.Equal("1,000.00", view.Entries[0].BalanceDisplay)
	suite.True(d("1200").Equal(view.Totals.TotalDebit))
	suite.True(d("400").Equal(view.Totals.TotalCredit))
	suite.True(d("800").Equal(view.Totals.FinalBalance))
	suite.True(view.Totals.OpeningBalance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestGetLedger_PrependsCarriedBalance() {
	ctx := context.Background()
	suite.expectCustomer("cust-1")
	suite.ledgerRepo.On("SumBeforeDate", ctx, "cust-1", suite.fyStart).Return(d("-150"), 4, nil).Once()
	suite.ledgerRepo.On("ListLedgerEntries", ctx, "cust-1", suite.fyStart, suite.fyEnd).Return([]domain.LedgerEntry{
		entryOn(1, "BY BILL DS/2024-25/0001", 500, 0),
	}, nil).Once()

	view, err := suite.service.GetLedger(ctx, "cust-1", "2024-25")

	suite.Require().NoError(err)
	suite.Require().Len(view.Entries, 2)
	opening := view.Entries[0]
	suite.Equal(domain.OpeningBalanceParticulars, opening.Particulars)
	suite.Equal(suite.fyStart, opening.EntryDate)
	suite.True(d("150").Equal(opening.Credit))
	suite.True(d("-150").Equal(view.Totals.OpeningBalance))
	suite.True(d("350").Equal(view.Totals.FinalBalance))
	suite.True(view.Totals.FinalBalance.Equal(view.Totals.TotalDebit.Sub(view.Totals.TotalCredit)))
}

func (suite *LedgerServiceTestSuite) TestGetLedger_DefaultsToCurrentYear() {
	ctx := context.Background()
	suite.expectCustomer("cust-1")
	suite.ledgerRepo.On("SumBeforeDate", ctx, "cust-1", suite.fyStart).Return(decimal.Zero, 0, nil).Once()
	suite.ledgerRepo.On("ListLedgerEntries", ctx, "cust-1", suite.fyStart, suite.fyEnd).Return([]domain.LedgerEntry{}, nil).Once()

	view, err := suite.service.GetLedger(ctx, "cust-1", "")

	suite.Require().NoError(err)
	suite.Empty(view.Entries)
	suite.True(view.Totals.FinalBalance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestGetLedger_UnknownCustomer() {
	suite.customerRepo.On("FindCustomerByID", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetLedger(context.Background(), "ghost", "2024-25")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetLedger_InvalidYear() {
	_, err := suite.service.GetLedger(context.Background(), "cust-1", "2024-26")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordPayment() {
	ctx := context.Background()
	suite.expectCustomer("cust-1")
	suite.ledgerRepo.On("SaveLedgerEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Particulars == "PAYMENT RECEIVED UPI" && e.Credit.Equal(d("250.50")) && e.Debit.IsZero() && e.CreatedBy == "alice"
	})).Return(nil).Once()

	entry, err := suite.service.RecordPayment(ctx, "cust-1", dto.RecordPaymentRequest{Date: "2024-06-02", Amount: d("250.50"), Method: "upi"}, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPayment, domain.Classify(*entry))
}

func (suite *LedgerServiceTestSuite) TestRecordPayment_RejectsNonPositiveAmount() {
	_, err := suite.service.RecordPayment(context.Background(), "cust-1", dto.RecordPaymentRequest{Date: "2024-06-02", Amount: decimal.Zero}, "alice")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestAddEntry_Validation() {
	tests := []struct {
		name string
		req  dto.LedgerEntryRequest
	}{
		{"both legs", dto.LedgerEntryRequest{Date: "2024-06-02", Particulars: "Adjustment", Debit: d("10"), Credit: d("5")}},
		{"no legs", dto.LedgerEntryRequest{Date: "2024-06-02", Particulars: "Adjustment"}},
		{"reserved opening", dto.LedgerEntryRequest{Date: "2024-06-02", Particulars: "Opening Balance", Debit: d("10")}},
		{"reserved bill", dto.LedgerEntryRequest{Date: "2024-06-02", Particulars: "BY BILL X", Debit: d("10")}},
		{"bad date", dto.LedgerEntryRequest{Date: "02/06/2024", Particulars: "Adjustment", Debit: d("10")}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.AddEntry(context.Background(), "cust-1", tt.req, "alice")
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *LedgerServiceTestSuite) TestAddEntry_Success() {
	ctx := context.Background()
	suite.expectCustomer("cust-1")
	suite.ledgerRepo.On("SaveLedgerEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Particulars == "Rounding off" && e.Credit.Equal(d("0.40"))
	})).Return(nil).Once()

	entry, err := suite.service.AddEntry(ctx, "cust-1", dto.LedgerEntryRequest{Date: "2024-06-02", Particulars: " Rounding off ", Credit: d("0.40")}, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.EntryManualAdjustment, domain.Classify(*entry))
}

func (suite *LedgerServiceTestSuite) TestProtectedEntries_CannotBeChanged() {
	ctx := context.Background()
	invoiceID := "DS/2024-25/0001"
	protected := []*domain.LedgerEntry{
		{EntryID: "e-open", Particulars: domain.OpeningBalanceParticulars, Debit: d("500")},
		{EntryID: "e-bill", Particulars: "BY BILL " + invoiceID, Debit: d("295"), LinkedInvoiceID: &invoiceID},
	}
	req := dto.LedgerEntryRequest{Date: "2024-06-02", Particulars: "Changed", Debit: d("1")}

	for _, entry := range protected {
		suite.ledgerRepo.On("FindLedgerEntryByID", ctx, entry.EntryID).Return(entry, nil).Twice()

		_, err := suite.service.UpdateEntry(ctx, entry.EntryID, req, "alice")
		suite.ErrorIs(err, apperrors.ErrPolicyViolation)

		err = suite.service.DeleteEntry(ctx, entry.EntryID)
		suite.ErrorIs(err, apperrors.ErrPolicyViolation)
	}

	suite.ledgerRepo.AssertNotCalled(suite.T(), "UpdateLedgerEntry", mock.Anything, mock.Anything)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "DeleteLedgerEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateEntry_Payment() {
	ctx := context.Background()
	payment := &domain.LedgerEntry{EntryID: "e-pay", CustomerID: "cust-1", Particulars: "PAYMENT RECEIVED CASH", Credit: d("100")}
	suite.ledgerRepo.On("FindLedgerEntryByID", ctx, "e-pay").Return(payment, nil).Once()
	suite.ledgerRepo.On("UpdateLedgerEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.EntryID == "e-pay" && e.Credit.Equal(d("120")) && e.LastUpdatedBy == "alice"
	})).Return(nil).Once()

	entry, err := suite.service.UpdateEntry(ctx, "e-pay", dto.LedgerEntryRequest{Date: "2024-06-03", Particulars: "PAYMENT RECEIVED CASH", Credit: d("120")}, "alice")

	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), entry.EntryDate)
}

func (suite *LedgerServiceTestSuite) TestUpdateEntry_PaymentCannotBecomeDebit() {
	ctx := context.Background()
	payment := &domain.LedgerEntry{EntryID: "e-pay", CustomerID: "cust-1", Particulars: "PAYMENT RECEIVED CASH", Credit: d("100")}

	tests := []struct {
		name string
		req  dto.LedgerEntryRequest
	}{
		{"debit leg", dto.LedgerEntryRequest{Date: "2024-06-03", Particulars: "PAYMENT RECEIVED CASH", Debit: d("120")}},
		{"both legs", dto.LedgerEntryRequest{Date: "2024-06-03", Particulars: "PAYMENT RECEIVED CASH", Debit: d("1"), Credit: d("120")}},
		{"zero credit", dto.LedgerEntryRequest{Date: "2024-06-03", Particulars: "PAYMENT RECEIVED CASH"}},
		{"particulars lose the marker", dto.LedgerEntryRequest{Date: "2024-06-03", Particulars: "Refund", Credit: d("120")}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.ledgerRepo.On("FindLedgerEntryByID", ctx, "e-pay").Return(payment, nil).Once()

			_, err := suite.service.UpdateEntry(ctx, "e-pay", tc.req, "alice")

			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.ledgerRepo.AssertNotCalled(suite.T(), "UpdateLedgerEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateEntry_PaymentMethodRebuildsParticulars() {
	ctx := context.Background()
	payment := &domain.LedgerEntry{EntryID: "e-pay", CustomerID: "cust-1", Particulars: "PAYMENT RECEIVED CASH", Credit: d("100")}
	suite.ledgerRepo.On("FindLedgerEntryByID", ctx, "e-pay").Return(payment, nil).Once()
	suite.ledgerRepo.On("UpdateLedgerEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Particulars == "PAYMENT RECEIVED UPI" && e.Debit.IsZero() && e.Credit.Equal(d("90"))
	})).Return(nil).Once()

	entry, err := suite.service.UpdateEntry(ctx, "e-pay", dto.LedgerEntryRequest{Date: "2024-06-03", Method: "upi", Credit: d("90")}, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPayment, domain.Classify(*entry))
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry() {
	ctx := context.Background()
	suite.ledgerRepo.On("FindLedgerEntryByID", ctx, "e-adj").Return(&domain.LedgerEntry{EntryID: "e-adj", Particulars: "Discount", Credit: d("5")}, nil).Once()
	suite.ledgerRepo.On("DeleteLedgerEntry", ctx, "e-adj").Return(nil).Once()

	suite.NoError(suite.service.DeleteEntry(ctx, "e-adj"))
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_NotFound() {
	ctx := context.Background()
	suite.ledgerRepo.On("FindLedgerEntryByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	suite.ErrorIs(suite.service.DeleteEntry(ctx, "nope"), apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestSaveFailurePropagates() {
	ctx := context.Background()
	suite.expectCustomer("cust-1")
	suite.ledgerRepo.On("SaveLedgerEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).Return(assert.AnError).Once()

	_, err := suite.service.RecordPayment(ctx, "cust-1", dto.RecordPaymentRequest{Date: "2024-06-02", Amount: d("1")}, "alice")

	suite.ErrorIs(err, assert.AnError)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
