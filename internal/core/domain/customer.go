package domain

import "github.com/shopspring/decimal"

// Customer is a billed party. Names are unique.
type Customer struct {
	CustomerID    string `json:"customerID"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostCode      string `json:"postCode"`
	Country       string `json:"country"`
	GSTIN         string `json:"gstin"`
	AuditFields
}

// Address snapshots the customer's current billing details.
func (c Customer) Address() Address {
	return Address{
		Name:          c.Name,
		Email:         c.Email,
		StreetAddress: c.StreetAddress,
		City:          c.City,
		PostCode:      c.PostCode,
		Country:       c.Country,
		GSTIN:         c.GSTIN,
	}
}

// CustomerBalance pairs a customer with its balance for one financial year.
type CustomerBalance struct {
	Customer
	FinancialYear FinancialYear   `json:"financialYear"`
	Balance       decimal.Decimal `json:"balance"`
}
