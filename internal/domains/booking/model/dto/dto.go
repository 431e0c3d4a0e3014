package dto

import (
	"fmt"
	"hotel/internal/domains/booking/model"
	customerModel "hotel/internal/domains/customer/model"
	customerDto "hotel/internal/domains/customer/model/dto"
	roomModel "hotel/internal/domains/room/model"
	roomDto "hotel/internal/domains/room/model/dto"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type CreateBookingRequest struct {
	Duration      int    `json:"duration"         validate:"required,gte=1"`
	StartDate     string `json:"start_date"       validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date"         validate:"required,datetime=2006-01-02"`
	ModeOfBooking string `json:"mode_of_booking"  validate:"required,oneof=Online Offline"`
	ModeOfPayment string `json:"mode_of_payment"  validate:"required,oneof=Prepaid Online Cash"`
	CustomerIDs   []int  `json:"customer_id_list" validate:"required,min=1,unique,dive,gt=0"`
	RoomNumbers   []int  `json:"room_number_list" validate:"required,min=1,unique,dive,gt=0"`
	PaidAmount    int    `json:"paid_amount"      validate:"gte=0"`
}

// ToModel builds the booking row. BillAmount is left for the workflow to compute.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	startDate, err := timezone.ParseDate(c.StartDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("invalid start_date: %w", err)
	}

	endDate, err := timezone.ParseDate(c.EndDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("invalid end_date: %w", err)
	}

	return model.Booking{
		Duration:      c.Duration,
		StartDate:     startDate,
		EndDate:       endDate,
		ModeOfBooking: c.ModeOfBooking,
		ModeOfPayment: c.ModeOfPayment,
		PaidAmount:    c.PaidAmount,
		CustomerIDs:   c.CustomerIDs,
		RoomNumbers:   c.RoomNumbers,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

// UpdateBookingRequest holds the fields of a partial update. Absent fields keep
// their stored values; supplied id lists replace the stored ones.
type UpdateBookingRequest struct {
	Duration      *int    `json:"duration"         validate:"omitempty,gte=1"`
	StartDate     *string `json:"start_date"       validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date"         validate:"omitempty,datetime=2006-01-02"`
	ModeOfBooking *string `json:"mode_of_booking"  validate:"omitempty,oneof=Online Offline"`
	ModeOfPayment *string `json:"mode_of_payment"  validate:"omitempty,oneof=Prepaid Online Cash"`
	CustomerIDs   []int   `json:"customer_id_list" validate:"omitempty,unique,dive,gt=0"`
	RoomNumbers   []int   `json:"room_number_list" validate:"omitempty,unique,dive,gt=0"`
	PaidAmount    *int    `json:"paid_amount"      validate:"omitempty,gte=0"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.Duration == nil && u.StartDate == nil && u.EndDate == nil &&
		u.ModeOfBooking == nil && u.ModeOfPayment == nil && u.PaidAmount == nil &&
		len(u.CustomerIDs) == 0 && len(u.RoomNumbers) == 0
}

// Apply merges the supplied scalar fields into booking. Id lists and the bill are
// handled by the workflow.
func (u *UpdateBookingRequest) Apply(booking *model.Booking) error {
	if u.Duration != nil {
		booking.Duration = *u.Duration
	}

	if u.StartDate != nil {
		startDate, err := timezone.ParseDate(*u.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start_date: %w", err)
		}

		booking.StartDate = startDate
	}

	if u.EndDate != nil {
		endDate, err := timezone.ParseDate(*u.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end_date: %w", err)
		}

		booking.EndDate = endDate
	}

	if u.ModeOfBooking != nil {
		booking.ModeOfBooking = *u.ModeOfBooking
	}

	if u.ModeOfPayment != nil {
		booking.ModeOfPayment = *u.ModeOfPayment
	}

	if u.PaidAmount != nil {
		booking.PaidAmount = *u.PaidAmount
	}

	return nil
}

type BookingResponse struct {
	ID            int                            `json:"id"`
	Duration      int                            `json:"duration"`
	StartDate     string                         `json:"start_date"`
	EndDate       string                         `json:"end_date"`
	ModeOfBooking string                         `json:"mode_of_booking"`
	ModeOfPayment string                         `json:"mode_of_payment"`
	Customers     []customerDto.CustomerResponse `json:"customer_list"`
	Rooms         []roomDto.RoomResponse         `json:"room_list"`
	BillAmount    int                            `json:"bill_amount"`
	PaidAmount    int                            `json:"paid_amount"`
	gDto.Metadata
}

// FromModel fills the response. Customers and rooms are looked up in the given
// maps in the booking's stored order; ids missing from the maps are skipped.
func (r *BookingResponse) FromModel(
	booking model.Booking,
	customers map[int]customerModel.Customer,
	rooms map[int]roomModel.Room,
) {
	r.ID = booking.ID
	r.Duration = booking.Duration
	r.StartDate = timezone.FormatDate(booking.StartDate)
	r.EndDate = timezone.FormatDate(booking.EndDate)
	r.ModeOfBooking = booking.ModeOfBooking
	r.ModeOfPayment = booking.ModeOfPayment
	r.BillAmount = booking.BillAmount
	r.PaidAmount = booking.PaidAmount
	r.Metadata = gDto.MetadataOf(booking.Metadata)

	r.Customers = make([]customerDto.CustomerResponse, 0, len(booking.CustomerIDs))
	for _, id := range booking.CustomerIDs {
		if customer, ok := customers[id]; ok {
			var res customerDto.CustomerResponse
			res.FromModel(customer)
			r.Customers = append(r.Customers, res)
		}
	}

	r.Rooms = make([]roomDto.RoomResponse, 0, len(booking.RoomNumbers))
	for _, number := range booking.RoomNumbers {
		if room, ok := rooms[number]; ok {
			var res roomDto.RoomResponse
			res.FromModel(room)
			r.Rooms = append(r.Rooms, res)
		}
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(
	models []model.Booking,
	customers map[int]customerModel.Customer,
	rooms map[int]roomModel.Room,
	totalData, limit int,
) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, customers, rooms)
	}
}

