// Package policy holds the booking rules that do not depend on storage.
package policy

import (
	customerModel "hotel/internal/domains/customer/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared/failure"
)

const (
	MinAdultAge = 18

	// MaxRoomsWithoutAdvance is the largest booking that needs no advance payment.
	MaxRoomsWithoutAdvance = 3
)

// CheckAccompaniment fails when the list is non-empty and holds no adult.
// An empty list passes; the non-empty requirement is checked elsewhere.
func CheckAccompaniment(customers []customerModel.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	for _, customer := range customers {
		if customer.Age >= MinAdultAge {
			return nil
		}
	}

	return failure.ChildrenNotAccompaniedByAdult
}

// BillAmount sums the daily price of every room. Duration does not multiply in.
func BillAmount(rooms []roomModel.Room) int {
	bill := 0
	for _, room := range rooms {
		bill += room.PricePerDay
	}

	return bill
}

// CheckAdvancePayment requires paid >= bill/2 (integer division) once more than
// MaxRoomsWithoutAdvance rooms are booked.
func CheckAdvancePayment(roomCount, bill, paid int) error {
	if roomCount <= MaxRoomsWithoutAdvance {
		return nil
	}

	if paid < bill/2 {
		return failure.AdvancePaymentNotDone
	}

	return nil
}

