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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceTestSuite struct {
	suite.Suite
	customerRepo *MockCustomerRepository
	invoiceRepo  *MockInvoiceRepository
	ledgerRepo   *MockLedgerRepository
	service      portssvc.CustomerSvcFacade
}

func (suite *CustomerServiceTestSuite) SetupTest() {
	suite.customerRepo = new(MockCustomerRepository)
	suite.invoiceRepo = new(MockInvoiceRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.service = services.NewCustomerService(suite.customerRepo, suite.invoiceRepo, suite.ledgerRepo, services.WithSettings(testSettings()))
}

func (suite *CustomerServiceTestSuite) TearDownTest() {
	suite.customerRepo.AssertExpectations(suite.T())
	suite.invoiceRepo.AssertExpectations(suite.T())
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_Success() {
	ctx := context.Background()
	suite.customerRepo.On("SaveCustomer", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Name == "Sharma Traders" && c.GSTIN == "27AAPFU0939F1ZV" && c.CreatedBy == "alice" && c.CreatedAt.Equal(fixedNow)
	})).Return(nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: " Sharma Traders ", GSTIN: "27aapfu0939f1zv"}, "alice")

	suite.Require().NoError(err)
	suite.NotEmpty(customer.CustomerID)
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_Duplicate() {
	ctx := context.Background()
	suite.customerRepo.On("SaveCustomer", ctx, mock.AnythingOfType("domain.Customer")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Sharma Traders"}, "alice")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_BlankName() {
	_, err := suite.service.CreateCustomer(context.Background(), dto.CreateCustomerRequest{Name: "  "}, "alice")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CustomerServiceTestSuite) TestUpdateCustomer_AppliesOnlySetFields() {
	ctx := context.Background()
	existing := &domain.Customer{CustomerID: "cust-1", Name: "Sharma Traders", City: "Nashik", Email: "old@example.com"}
	city := " Pune "
	suite.customerRepo.On("FindCustomerByID", ctx, "cust-1").Return(existing, nil).Once()
	suite.customerRepo.On("UpdateCustomer", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.City == "Pune" && c.Email == "old@example.com" && c.Name == "Sharma Traders" && c.LastUpdatedBy == "bob"
	})).Return(nil).Once()

	customer, err := suite.service.UpdateCustomer(ctx, "cust-1", dto.UpdateCustomerRequest{City: &city}, "bob")

	suite.Require().NoError(err)
	suite.Equal("Pune", customer.City)
}

func (suite *CustomerServiceTestSuite) TestListCustomers_BalanceAtYearEnd() {
	ctx := context.Background()
	customers := []domain.Customer{{CustomerID: "c1", Name: "A"}, {CustomerID: "c2", Name: "B"}}
	dayAfterYearEnd := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	suite.customerRepo.On("ListCustomers", ctx).Return(customers, nil).Once()
	suite.ledgerRepo.On("SumBeforeDate", ctx, "c1", dayAfterYearEnd).Return(d("800"), 3, nil).Once()
	suite.ledgerRepo.On("SumBeforeDate", ctx, "c2", dayAfterYearEnd).Return(d("-20"), 1, nil).Once()

	balances, err := suite.service.ListCustomers(ctx, "2024-25")

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	suite.True(d("800").Equal(balances[0].Balance))
	suite.True(d("-20").Equal(balances[1].Balance))
	suite.Equal(domain.FinancialYear("2024-25"), balances[1].FinancialYear)
}

func (suite *CustomerServiceTestSuite) TestDeleteCustomer_RefusedWithInvoices() {
	ctx := context.Background()
	suite.customerRepo.On("FindCustomerByID", ctx, "cust-1").Return(&domain.Customer{CustomerID: "cust-1"}, nil).Once()
	suite.invoiceRepo.On("CountInvoicesByCustomer", ctx, "cust-1").Return(2, nil).Once()

	err := suite.service.DeleteCustomer(ctx, "cust-1")

	suite.ErrorIs(err, apperrors.ErrPolicyViolation)
	suite.customerRepo.AssertNotCalled(suite.T(), "DeleteCustomerWithEntries", mock.Anything, mock.Anything)
}

func (suite *CustomerServiceTestSuite) TestDeleteCustomer_Success() {
	ctx := context.Background()
	suite.customerRepo.On("FindCustomerByID", ctx, "cust-1").Return(&domain.Customer{CustomerID: "cust-1"}, nil).Once()
	suite.invoiceRepo.On("CountInvoicesByCustomer", ctx, "cust-1").Return(0, nil).Once()
	suite.customerRepo.On("DeleteCustomerWithEntries", ctx, "cust-1").Return(nil).Once()

	suite.NoError(suite.service.DeleteCustomer(ctx, "cust-1"))
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
