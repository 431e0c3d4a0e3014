package dto

import (
	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"mime/multipart"
)

type CreateRoomRequest struct {
	Type                 string `json:"type"                        validate:"required,notblank,max=50"`
	Occupancy            int    `json:"occupancy"                   validate:"required,gte=1"`
	PricePerDay          int    `json:"price_per_day"               validate:"required,gt=0"`
	Availability         *bool  `json:"availability"`
	IsCheckedIn          *bool  `json:"is_checked_in"`
	IsCheckedOut         *bool  `json:"is_checked_out"`
	CheckedInCustomerIDs []int  `json:"checked_in_customer_id_list" validate:"omitempty,unique,dive,gt=0"`
}

// ToModel applies the defaults of a new room: available, not checked in, not checked out.
func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		Type:                 c.Type,
		Occupancy:            c.Occupancy,
		PricePerDay:          c.PricePerDay,
		Availability:         valueOr(c.Availability, true),
		IsCheckedIn:          valueOr(c.IsCheckedIn, false),
		IsCheckedOut:         valueOr(c.IsCheckedOut, false),
		CheckedInCustomerIDs: c.CheckedInCustomerIDs,
		Metadata:             gModel.NewMetadata(user, timezone.Now()),
	}
}

func valueOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}

	return *v
}

// UpdateRoomRequest holds the fields of a partial update. A supplied customer
// list replaces the checked-in customers wholesale.
type UpdateRoomRequest struct {
	Type                 *string `db:"type"           json:"type"                        validate:"omitempty,notblank,max=50"`
	Occupancy            *int    `db:"occupancy"      json:"occupancy"                   validate:"omitempty,gte=1"`
	PricePerDay          *int    `db:"price_per_day"  json:"price_per_day"               validate:"omitempty,gt=0"`
	Availability         *bool   `db:"availability"   json:"availability"`
	IsCheckedIn          *bool   `db:"is_checked_in"  json:"is_checked_in"`
	IsCheckedOut         *bool   `db:"is_checked_out" json:"is_checked_out"`
	CheckedInCustomerIDs *[]int  `db:"-"              json:"checked_in_customer_id_list" validate:"omitempty,unique,dive,gt=0"`
}

func (u *UpdateRoomRequest) IsEmpty() bool {
	return *u == UpdateRoomRequest{}
}

func (u *UpdateRoomRequest) Apply(room *model.Room) {
	if u.Type != nil {
		room.Type = *u.Type
	}

	if u.Occupancy != nil {
		room.Occupancy = *u.Occupancy
	}

	if u.PricePerDay != nil {
		room.PricePerDay = *u.PricePerDay
	}

	if u.Availability != nil {
		room.Availability = *u.Availability
	}

	if u.IsCheckedIn != nil {
		room.IsCheckedIn = *u.IsCheckedIn
	}

	if u.IsCheckedOut != nil {
		room.IsCheckedOut = *u.IsCheckedOut
	}

	if u.CheckedInCustomerIDs != nil {
		room.CheckedInCustomerIDs = *u.CheckedInCustomerIDs
	}
}

// UploadImageRequest carries either a multipart file or a base64 data URL.
type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"-"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
	ImageData string                `json:"image" validate:"required_without=Image,omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=3"`
}

type RoomResponse struct {
	RoomNumber           int    `json:"room_number"`
	Type                 string `json:"type"`
	Occupancy            int    `json:"occupancy"`
	PricePerDay          int    `json:"price_per_day"`
	Availability         bool   `json:"availability"`
	IsCheckedIn          bool   `json:"is_checked_in"`
	IsCheckedOut         bool   `json:"is_checked_out"`
	Image                string `json:"image,omitempty"`
	CheckedInCustomerIDs []int  `json:"checked_in_customer_id_list"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.RoomNumber = model.RoomNumber
	r.Type = model.Type
	r.Occupancy = model.Occupancy
	r.PricePerDay = model.PricePerDay
	r.Availability = model.Availability
	r.IsCheckedIn = model.IsCheckedIn
	r.IsCheckedOut = model.IsCheckedOut
	r.Image = model.Image

	r.CheckedInCustomerIDs = model.CheckedInCustomerIDs
	if r.CheckedInCustomerIDs == nil {
		r.CheckedInCustomerIDs = []int{}
	}

	r.Metadata = gDto.MetadataOf(model.Metadata)
}

func FromModels(models []model.Room) []RoomResponse {
	res := make([]RoomResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Rooms = FromModels(models)
}

type AvailabilityResponse struct {
	RoomNumbers []int `json:"room_number_list"`
	Available   bool  `json:"available"`
}
