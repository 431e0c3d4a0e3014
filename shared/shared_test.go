package shared_test

import (
	"context"
	"errors"
	"hotel/shared"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "false", input: "false", expected: boolPtr(false)},
		{name: "numeric true", input: "1", expected: boolPtr(true)},
		{name: "upper case false", input: "FALSE", expected: boolPtr(false)},
		{name: "invalid string returns nil", input: "available", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "plain number", input: "101", expected: 101},
		{name: "surrounding spaces", input: " 42 ", expected: 42},
		{name: "negative", input: "-3", expected: -3},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "room", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shared.ConvertStringToInt(tt.input)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "negative limit returns 1", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRoom struct {
		Type         *string `db:"type"`
		PricePerDay  *int    `db:"price_per_day"`
		Availability *bool   `db:"availability"`
		Occupancy    *int    `db:"occupancy"`
		CustomerIDs  *[]int  `db:"-"`
		Note         string
	}

	roomType := "Deluxe"
	price := 0
	available := false
	ids := []int{1, 2}

	result := shared.TransformFields(updateRoom{
		Type:         &roomType,
		PricePerDay:  &price,
		Availability: &available,
		CustomerIDs:  &ids,
		Note:         "ignored",
	}, "staff-1")

	assert.Equal(t, &roomType, result["type"])
	assert.Equal(t, &price, result["price_per_day"], "pointer to zero is still present")
	assert.Equal(t, &available, result["availability"])
	assert.NotContains(t, result, "occupancy")
	assert.NotContains(t, result, "-")
	assert.Equal(t, "staff-1", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
	assert.Len(t, result, 5)
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID(101, "room_number", "rooms")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "room_number",
				Value:    101,
				Operator: dto.FilterOperatorEq,
				Table:    "rooms",
			},
		},
	}, result)

	where, args := result.GetWhereClause()
	assert.Equal(t, "(rooms.room_number = :room_number)", where)
	assert.Equal(t, map[string]any{"room_number": 101}, args)
}

func TestFilterByIDs(t *testing.T) {
	result := shared.FilterByIDs([]int{3, 5}, "id", "customers")

	where, args := result.GetWhereClause()
	assert.Equal(t, "(customers.id IN (:id_0, :id_1) )", where)
	assert.Equal(t, map[string]any{"id_0": 3, "id_1": 5}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "room:get", shared.BuildCacheKey("room:get"))
	assert.Equal(t, "room:get:101", shared.BuildCacheKey("room:get", 101))
	assert.Equal(t, "limiter:127.0.0.1:curl", shared.BuildCacheKey("limiter", "127.0.0.1", "curl"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filter := shared.FilterByID("Deluxe", "type", "rooms")

	first := shared.BuildCacheKeyWithQuery("room:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("room:gets", params, filter)
	otherPage := shared.BuildCacheKeyWithQuery("room:gets", dto.QueryParams{Page: 2, Limit: 10}, filter)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, otherPage)
	assert.Contains(t, first, "room:gets:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "room:gets:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "room:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "room:count:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "room:count")
}

func boolPtr(b bool) *bool {
	return &b
}
