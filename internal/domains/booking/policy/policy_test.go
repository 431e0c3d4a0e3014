package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/booking/policy"
	customerModel "hotel/internal/domains/customer/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared/failure"
)

func customers(ages ...int) []customerModel.Customer {
	res := make([]customerModel.Customer, len(ages))
	for i, age := range ages {
		res[i] = customerModel.Customer{ID: i + 1, Age: age}
	}

	return res
}

func rooms(prices ...int) []roomModel.Room {
	res := make([]roomModel.Room, len(prices))
	for i, price := range prices {
		res[i] = roomModel.Room{RoomNumber: 101 + i, PricePerDay: price}
	}

	return res
}

func TestCheckAccompaniment(t *testing.T) {
	tests := []struct {
		name    string
		ages    []int
		wantErr bool
	}{
		{name: "empty list passes", ages: nil},
		{name: "single adult", ages: []int{30}},
		{name: "exactly eighteen is an adult", ages: []int{18}},
		{name: "one adult among many children", ages: []int{4, 7, 12, 40, 9}},
		{name: "single child", ages: []int{10}, wantErr: true},
		{name: "seventeen is a minor", ages: []int{17}, wantErr: true},
		{name: "only children", ages: []int{0, 5, 17}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.CheckAccompaniment(customers(tt.ages...))

			if tt.wantErr {
				assert.ErrorIs(t, err, failure.ChildrenNotAccompaniedByAdult)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCheckAccompaniment_AnyAdultSuffices(t *testing.T) {
	for minors := 0; minors <= 6; minors++ {
		for adultAge := policy.MinAdultAge; adultAge <= 90; adultAge += 12 {
			ages := make([]int, 0, minors+1)
			for i := range minors {
				ages = append(ages, i%policy.MinAdultAge)
			}

			ages = append(ages, adultAge)

			assert.NoError(t, policy.CheckAccompaniment(customers(ages...)), "ages %v", ages)
		}
	}
}

func TestBillAmount(t *testing.T) {
	assert.Equal(t, 0, policy.BillAmount(nil))
	assert.Equal(t, 250, policy.BillAmount(rooms(100, 150)))
	assert.Equal(t, 400, policy.BillAmount(rooms(100, 100, 100, 100)))
}

func TestCheckAdvancePayment(t *testing.T) {
	tests := []struct {
		name      string
		roomCount int
		bill      int
		paid      int
		wantErr   bool
	}{
		{name: "three rooms nothing paid", roomCount: 3, bill: 9000, paid: 0},
		{name: "one room nothing paid", roomCount: 1, bill: 100, paid: 0},
		{name: "four rooms below half", roomCount: 4, bill: 400, paid: 150, wantErr: true},
		{name: "four rooms exactly half", roomCount: 4, bill: 400, paid: 200},
		{name: "odd bill rounds down", roomCount: 5, bill: 501, paid: 250},
		{name: "odd bill one short", roomCount: 5, bill: 501, paid: 249, wantErr: true},
		{name: "fully paid", roomCount: 10, bill: 1000, paid: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.CheckAdvancePayment(tt.roomCount, tt.bill, tt.paid)

			if tt.wantErr {
				assert.ErrorIs(t, err, failure.AdvancePaymentNotDone)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCheckAdvancePayment_SmallBookingsNeverNeedAdvance(t *testing.T) {
	for count := 0; count <= policy.MaxRoomsWithoutAdvance; count++ {
		for _, bill := range []int{0, 1, 99, 1000, 123457} {
			assert.NoError(t, policy.CheckAdvancePayment(count, bill, 0))
		}
	}
}

func TestCheckAdvancePayment_LargeBookingsMatchIntegerHalf(t *testing.T) {
	for count := policy.MaxRoomsWithoutAdvance + 1; count <= 8; count++ {
		for bill := 0; bill <= 60; bill++ {
			for paid := 0; paid <= 40; paid++ {
				err := policy.CheckAdvancePayment(count, bill, paid)
				want := paid >= bill/2

				assert.Equal(t, want, err == nil, "rooms=%d bill=%d paid=%d", count, bill, paid)
			}
		}
	}
}

