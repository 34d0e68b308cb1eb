package dto

import (
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest defines the data needed to create a new customer.
type CreateCustomerRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	Email         string `json:"email" binding:"omitempty,email"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostCode      string `json:"postCode"`
	Country       string `json:"country"`
	GSTIN         string `json:"gstin" binding:"omitempty,len=15,alphanum"`
}

// UpdateCustomerRequest defines the data allowed for updating a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email         *string `json:"email" binding:"omitempty,email"`
	StreetAddress *string `json:"streetAddress"`
	City          *string `json:"city"`
	PostCode      *string `json:"postCode"`
	Country       *string `json:"country"`
	GSTIN         *string `json:"gstin" binding:"omitempty,len=15,alphanum"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID    string    `json:"customerID"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	PostCode      string    `json:"postCode"`
	Country       string    `json:"country"`
	GSTIN         string    `json:"gstin"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// CustomerBalanceResponse is a customer with its balance for a financial year.
type CustomerBalanceResponse struct {
	CustomerResponse
	FinancialYear string          `json:"financialYear"`
	Balance       decimal.Decimal `json:"balance"`
}

// ListCustomersResponse wraps the customer list.
type ListCustomersResponse struct {
	Customers []CustomerBalanceResponse `json:"customers"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          c.Name,
		Email:         c.Email,
		StreetAddress: c.StreetAddress,
		City:          c.City,
		PostCode:      c.PostCode,
		Country:       c.Country,
		GSTIN:         c.GSTIN,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListCustomersResponse converts customer balances to the list DTO
func ToListCustomersResponse(balances []domain.CustomerBalance) ListCustomersResponse {
	res := ListCustomersResponse{Customers: make([]CustomerBalanceResponse, len(balances))}
	for i, b := range balances {
		res.Customers[i] = CustomerBalanceResponse{
			CustomerResponse: ToCustomerResponse(&b.Customer),
			FinancialYear:    string(b.FinancialYear),
			Balance:          b.Balance,
		}
	}
	return res
}
