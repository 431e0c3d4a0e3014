package dto

import (
	"hotel/internal/domains/customer/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type CreateCustomerRequest struct {
	FullName      string `json:"full_name"      validate:"required,notblank,max=100"`
	Address       string `json:"address"        validate:"required,notblank,max=255"`
	Age           *int   `json:"age"            validate:"required,gte=0,lte=150"`
	ContactNumber string `json:"contact_number" validate:"required,len=10,numeric"`
}

func (c *CreateCustomerRequest) ToModel(user string) model.Customer {
	age := 0
	if c.Age != nil {
		age = *c.Age
	}

	return model.Customer{
		FullName:      c.FullName,
		Address:       c.Address,
		Age:           age,
		ContactNumber: c.ContactNumber,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

// UpdateCustomerRequest holds the fields of a partial update. Absent fields are nil.
type UpdateCustomerRequest struct {
	FullName      *string `db:"full_name"      json:"full_name"      validate:"omitempty,notblank,max=100"`
	Address       *string `db:"address"        json:"address"        validate:"omitempty,notblank,max=255"`
	Age           *int    `db:"age"            json:"age"            validate:"omitempty,gte=0,lte=150"`
	ContactNumber *string `db:"contact_number" json:"contact_number" validate:"omitempty,len=10,numeric"`
}

func (u *UpdateCustomerRequest) IsEmpty() bool {
	return u.FullName == nil && u.Address == nil && u.Age == nil && u.ContactNumber == nil
}

// Apply merges the present fields into customer.
func (u *UpdateCustomerRequest) Apply(customer *model.Customer) {
	if u.FullName != nil {
		customer.FullName = *u.FullName
	}

	if u.Address != nil {
		customer.Address = *u.Address
	}

	if u.Age != nil {
		customer.Age = *u.Age
	}

	if u.ContactNumber != nil {
		customer.ContactNumber = *u.ContactNumber
	}
}

type CustomerResponse struct {
	ID            int    `json:"id"`
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	Age           int    `json:"age"`
	ContactNumber string `json:"contact_number"`
	gDto.Metadata
}

func (r *CustomerResponse) FromModel(model model.Customer) {
	r.ID = model.ID
	r.FullName = model.FullName
	r.Address = model.Address
	r.Age = model.Age
	r.ContactNumber = model.ContactNumber
	r.Metadata = gDto.MetadataOf(model.Metadata)
}

func FromModels(models []model.Customer) []CustomerResponse {
	res := make([]CustomerResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type GetCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCustomersResponse) FromModels(models []model.Customer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Customers = FromModels(models)
}
