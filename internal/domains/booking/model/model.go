package model

import (
	"hotel/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldDuration      = "duration"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldModeOfBooking = "mode_of_booking"
	FieldModeOfPayment = "mode_of_payment"
	FieldBillAmount    = "bill_amount"
	FieldPaidAmount    = "paid_amount"
)

const (
	CustomerTableName  = "booking_customers"
	CustomerEntityName = "booking_customer"
	RoomTableName      = "booking_rooms"
	RoomEntityName     = "booking_room"

	FieldBookingID  = "booking_id"
	FieldCustomerID = "customer_id"
	FieldRoomNumber = "room_number"
	FieldPosition   = "position"
)

const (
	ModeOfBookingOnline  = "Online"
	ModeOfBookingOffline = "Offline"

	ModeOfPaymentPrepaid = "Prepaid"
	ModeOfPaymentOnline  = "Online"
	ModeOfPaymentCash    = "Cash"
)

// Booking references its customers and rooms by id. BillAmount is always derived
// from the rooms' prices and never taken from the client.
type Booking struct {
	ID            int       `db:"id"              generated:"true"`
	Duration      int       `db:"duration"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	ModeOfBooking string    `db:"mode_of_booking"`
	ModeOfPayment string    `db:"mode_of_payment"`
	BillAmount    int       `db:"bill_amount"`
	PaidAmount    int       `db:"paid_amount"`
	model.Metadata

	CustomerIDs []int `db:"-"`
	RoomNumbers []int `db:"-"`
}

type BookingCustomer struct {
	BookingID  int `db:"booking_id"`
	CustomerID int `db:"customer_id"`
	Position   int `db:"position"`
}

type BookingRoom struct {
	BookingID  int `db:"booking_id"`
	RoomNumber int `db:"room_number"`
	Position   int `db:"position"`
}
