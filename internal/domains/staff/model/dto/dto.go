package dto

import (
	"hotel/internal/domains/staff/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	"time"
)

type StaffResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	FullName  string     `json:"full_name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	Active    bool       `json:"active"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(staff model.Staff) {
	r.ID = staff.ID
	r.Email = staff.Email
	r.Role = staff.Role
	r.FullName = staff.FullName
	r.LastLogin = staff.LastLogin
	r.Active = staff.Active
	r.Metadata = gDto.MetadataOf(staff.Metadata)
}

// UpdateStaffRequest is used by managers to change a colleague's role or deactivate them.
type UpdateStaffRequest struct {
	FullName *string `db:"full_name" json:"full_name" validate:"omitempty,notblank,max=100"`
	Role     *string `db:"role"      json:"role"      validate:"omitempty,oneof=manager receptionist"`
	Active   *bool   `db:"active"    json:"active"`
}

func (u *UpdateStaffRequest) IsEmpty() bool {
	return u.FullName == nil && u.Role == nil && u.Active == nil
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}
