package models

// Customer is a row of the customers table.
type Customer struct {
	CustomerID    string `db:"customer_id"`
	Name          string `db:"name"`
	Email         string `db:"email"`
	StreetAddress string `db:"street_address"`
	City          string `db:"city"`
	PostCode      string `db:"post_code"`
	Country       string `db:"country"`
	GSTIN         string `db:"gstin"`
	AuditFields
}
