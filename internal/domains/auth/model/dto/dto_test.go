package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel/infras/jwt"
	"hotel/internal/domains/auth/model/dto"
	"hotel/shared/constant"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRegisterRequest_ToStaffModel(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantRole string
	}{
		{name: "defaults to receptionist", wantRole: constant.RoleReceptionist},
		{name: "keeps manager", role: constant.RoleManager, wantRole: constant.RoleManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.RegisterRequest{Email: "desk@hotel.test", Password: "secret123", FullName: "Front Desk", Role: tt.role}

			staff := req.ToStaffModel("manager-1", "hashed")

			assert.NotEmpty(t, staff.ID)
			assert.Equal(t, tt.wantRole, staff.Role)
			assert.Equal(t, "hashed", staff.Password)
			assert.True(t, staff.Active)
			assert.Equal(t, "manager-1", staff.CreatedBy)
		})
	}
}
