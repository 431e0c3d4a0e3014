package validator_test

import (
	"hotel/shared/failure"
	"hotel/shared/validator"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type guestRequest struct {
	FullName      string `json:"full_name"        validate:"required,notblank"`
	Age           int    `json:"age"              validate:"gte=0,lte=120"`
	ContactNumber string `json:"contact_number"   validate:"required,len=10,numeric"`
	Email         string `json:"email,omitempty"  validate:"omitempty,email"`
	ModeOfPayment string `json:"mode_of_payment"  validate:"oneof=Prepaid Online Cash"`
	RoomNumbers   []int  `json:"room_number_list" validate:"required,min=1,unique,dive,gt=0"`
}

func validGuest() guestRequest {
	return guestRequest{
		FullName:      "Asha Rao",
		Age:           34,
		ContactNumber: "9876543210",
		ModeOfPayment: "Cash",
		RoomNumbers:   []int{101, 102},
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *guestRequest)
		wantMsg string
	}{
		{name: "valid request", mutate: func(*guestRequest) {}},
		{
			name:    "missing name",
			mutate:  func(req *guestRequest) { req.FullName = "" },
			wantMsg: "full_name is required",
		},
		{
			name:    "blank name",
			mutate:  func(req *guestRequest) { req.FullName = "   " },
			wantMsg: "full_name must not be blank",
		},
		{
			name:    "age above range",
			mutate:  func(req *guestRequest) { req.Age = 150 },
			wantMsg: "age must be less than or equal to 120",
		},
		{
			name:    "short contact number",
			mutate:  func(req *guestRequest) { req.ContactNumber = "98765" },
			wantMsg: "contact_number must be exactly 10 characters long",
		},
		{
			name:    "non numeric contact number",
			mutate:  func(req *guestRequest) { req.ContactNumber = "98765abcde" },
			wantMsg: "contact_number must contain digits only",
		},
		{
			name:    "invalid email",
			mutate:  func(req *guestRequest) { req.Email = "front-desk" },
			wantMsg: "email must be a valid email address",
		},
		{
			name:    "unknown payment mode",
			mutate:  func(req *guestRequest) { req.ModeOfPayment = "Card" },
			wantMsg: "mode_of_payment must be one of Prepaid Online Cash",
		},
		{
			name:    "no rooms",
			mutate:  func(req *guestRequest) { req.RoomNumbers = []int{} },
			wantMsg: "room_number_list must be greater than or equal to 1",
		},
		{
			name:    "duplicate rooms",
			mutate:  func(req *guestRequest) { req.RoomNumbers = []int{101, 101} },
			wantMsg: "room_number_list must not contain duplicate values",
		},
		{
			name:    "non positive room number",
			mutate:  func(req *guestRequest) { req.RoomNumbers = []int{101, 0} },
			wantMsg: "room_number_list[1] must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGuest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantMsg)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateStruct_FirstFailureWins(t *testing.T) {
	req := guestRequest{Age: -1, ModeOfPayment: "Card"}

	err := validator.ValidateStruct(&req)

	assert.EqualError(t, err, "full_name is required")
}

func TestValidateStruct_NotEqualField(t *testing.T) {
	type changePassword struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password"     validate:"required,nefield=CurrentPassword"`
	}

	err := validator.ValidateStruct(&changePassword{CurrentPassword: "secret-1", NewPassword: "secret-1"})
	assert.EqualError(t, err, "new_password must be different from CurrentPassword")

	assert.NoError(t, validator.ValidateStruct(&changePassword{CurrentPassword: "secret-1", NewPassword: "secret-2"}))
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "room number in range", field: 101, tag: "gt=0"},
		{name: "zero room number", field: 0, tag: "gt=0", wantErr: true},
		{name: "room type", field: "Deluxe", tag: "required,notblank"},
		{name: "blank room type", field: " ", tag: "required,notblank", wantErr: true},
		{name: "png image", field: "data:image/png;base64,iVBORw0KGgo=", tag: "mimetypes=image/png image/jpeg"},
		{name: "gif image", field: "data:image/gif;base64,R0lGODlh", tag: "mimetypes=image/png image/jpeg", wantErr: true},
		{name: "not a data url", field: "iVBORw0KGgo=", tag: "mimetypes=image/png", wantErr: true},
		{name: "image within size", field: strings.Repeat("a", 1024), tag: "maxfilesize=1"},
		{name: "image above size", field: strings.Repeat("a", 2*1024*1024), tag: "maxfilesize=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid body",
			body: `{"full_name":"Asha Rao","age":34,"contact_number":"9876543210","mode_of_payment":"Cash","room_number_list":[101]}`,
		},
		{
			name:    "invalid field",
			body:    `{"full_name":"Asha Rao","age":34,"contact_number":"9876543210","mode_of_payment":"Card","room_number_list":[101]}`,
			wantErr: "mode_of_payment must be one of Prepaid Online Cash",
		},
		{
			name:    "wrong json type",
			body:    `{"full_name":"Asha Rao","age":"thirty"}`,
			wantErr: "failed to decode request body",
		},
		{
			name:    "malformed json",
			body:    `{"full_name":}`,
			wantErr: "failed to decode request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req guestRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, []int{101}, req.RoomNumbers)

				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}
