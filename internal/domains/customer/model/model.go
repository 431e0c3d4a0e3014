package model

import "hotel/shared/model"

const (
	TableName  = "customers"
	EntityName = "customer"

	FieldID            = "id"
	FieldFullName      = "full_name"
	FieldAddress       = "address"
	FieldAge           = "age"
	FieldContactNumber = "contact_number"
)

type Customer struct {
	ID            int    `db:"id"             generated:"true"`
	FullName      string `db:"full_name"`
	Address       string `db:"address"`
	Age           int    `db:"age"`
	ContactNumber string `db:"contact_number"`
	model.Metadata
}
