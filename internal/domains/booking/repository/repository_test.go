package repository_test

import (
	"context"
	"errors"
	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/repository"
	gDto "hotel/shared/dto"
	sharedModel "hotel/shared/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertCustomers = regexp.QuoteMeta("INSERT INTO booking_customers (booking_id, customer_id, position)")
	insertRooms     = regexp.QuoteMeta("INSERT INTO booking_rooms (booking_id, room_number, position)")
)

func newRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func storedBooking() model.Booking {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:            7,
		Duration:      2,
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, 2),
		ModeOfBooking: model.ModeOfBookingOnline,
		ModeOfPayment: model.ModeOfPaymentCash,
		BillAmount:    5000,
		PaidAmount:    2500,
		Metadata:      sharedModel.NewMetadata("staff-1", now),
		CustomerIDs:   []int{3, 1},
		RoomNumbers:   []int{102, 101},
	}
}

func TestBooking_Save(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE bookings SET bill_amount = $1, duration = $2, end_date = $3") +
		".*" + regexp.QuoteMeta("WHERE (bookings.id = $10)")

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		errMsg string
	}{
		{
			name: "replaces links in list order",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM booking_customers")).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM booking_rooms")).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(insertCustomers).WithArgs(7, 3, 0, 7, 1, 1).WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(insertRooms).WithArgs(7, 102, 0, 7, 101, 1).WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
		},
		{
			name: "room link failure rolls everything back",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM booking_customers")).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM booking_rooms")).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(insertCustomers).WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(insertRooms).WillReturnError(errors.New("room 999 does not exist"))
				mock.ExpectRollback()
			},
			errMsg: "failed to save booking 7",
		},
		{
			name: "row update failure skips the links",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(update).WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			errMsg: "failed to save booking 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)
			tt.expect(mock)

			err := repo.Save(context.Background(), storedBooking())

			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBooking_InsertReturning(t *testing.T) {
	repo, mock := newRepository(t)

	booking := storedBooking()
	booking.ID = 0

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO bookings") + ".*" + regexp.QuoteMeta("RETURNING id")).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectExec(insertCustomers).WithArgs(12, 3, 0, 12, 1, 1).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(insertRooms).WithArgs(12, 102, 0, 12, 101, 1).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	id, err := repo.InsertReturning(context.Background(), booking)

	assert.NoError(t, err)
	assert.Equal(t, 12, id)
}

func TestBooking_GetAllRebuildsLinkOrder(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("FROM bookings")).ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "duration"}).AddRow(7, 2).AddRow(9, 1))

	linkQuery := func(table string) string {
		return regexp.QuoteMeta("FROM "+table) + ".*" + regexp.QuoteMeta("ORDER BY position ASC")
	}

	mock.ExpectPrepare(linkQuery("booking_customers")).ExpectQuery().WithArgs(7, 9).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "customer_id", "position"}).
			AddRow(9, 5, 0).
			AddRow(7, 3, 0).
			AddRow(9, 2, 1).
			AddRow(7, 1, 1))
	mock.ExpectPrepare(linkQuery("booking_rooms")).ExpectQuery().WithArgs(7, 9).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "room_number", "position"}).
			AddRow(7, 102, 0).
			AddRow(9, 201, 0).
			AddRow(7, 101, 1))

	bookings, err := repo.GetAll(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})

	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.Equal(t, []int{3, 1}, bookings[0].CustomerIDs)
	assert.Equal(t, []int{102, 101}, bookings[0].RoomNumbers)
	assert.Equal(t, []int{5, 2}, bookings[1].CustomerIDs)
	assert.Equal(t, []int{201}, bookings[1].RoomNumbers)
}

func TestBooking_GetMissingSkipsLinks(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("FROM bookings") + ".*" + regexp.QuoteMeta("WHERE (bookings.id = $1)")).
		ExpectQuery().WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	booking, err := repo.Get(context.Background(), 404)

	assert.NoError(t, err)
	assert.Zero(t, booking.ID)
}
