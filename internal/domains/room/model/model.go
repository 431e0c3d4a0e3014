package model

import "hotel/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldRoomNumber   = "room_number"
	FieldType         = "type"
	FieldOccupancy    = "occupancy"
	FieldPricePerDay  = "price_per_day"
	FieldAvailability = "availability"
	FieldIsCheckedIn  = "is_checked_in"
	FieldIsCheckedOut = "is_checked_out"
	FieldImage        = "image"
)

const (
	CheckedInTableName  = "room_checked_in_customers"
	CheckedInEntityName = "room_checked_in_customer"

	FieldCustomerID = "customer_id"
)

// Room is a bookable unit. Availability is cleared by a successful booking and
// is only set again through an explicit room update.
type Room struct {
	RoomNumber   int    `db:"room_number"    generated:"true"`
	Type         string `db:"type"`
	Occupancy    int    `db:"occupancy"`
	PricePerDay  int    `db:"price_per_day"`
	Availability bool   `db:"availability"`
	IsCheckedIn  bool   `db:"is_checked_in"`
	IsCheckedOut bool   `db:"is_checked_out"`
	Image        string `db:"image"`
	model.Metadata

	CheckedInCustomerIDs []int `db:"-"`
}

// CheckedInCustomer links a room to a customer currently staying in it.
type CheckedInCustomer struct {
	RoomNumber int `db:"room_number"`
	CustomerID int `db:"customer_id"`
}
