package repository_test

import (
	"context"
	"errors"
	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	"hotel/internal/domains/room/repository"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectRoom = regexp.QuoteMeta("FROM rooms") + ".*" + regexp.QuoteMeta("WHERE (rooms.room_number = $1)")

func newRepository(t *testing.T) (repository.Room, sqlmock.Sqlmock) {
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

func expectRoom(mock sqlmock.Sqlmock, roomNumber int, available ...bool) {
	rows := sqlmock.NewRows([]string{"room_number", "availability"})
	for _, flag := range available {
		rows.AddRow(roomNumber, flag)
	}

	mock.ExpectPrepare(selectRoom).ExpectQuery().WithArgs(roomNumber).WillReturnRows(rows)
}

func TestRoom_CheckAvailability(t *testing.T) {
	tests := []struct {
		name      string
		expect    func(mock sqlmock.Sqlmock)
		available bool
		wantErr   bool
	}{
		{
			name: "every room available",
			expect: func(mock sqlmock.Sqlmock) {
				expectRoom(mock, 101, true)
				expectRoom(mock, 102, true)
			},
			available: true,
		},
		{
			name: "missing room counts as unavailable",
			expect: func(mock sqlmock.Sqlmock) {
				expectRoom(mock, 101, true)
				expectRoom(mock, 102)
			},
		},
		{
			name: "first unavailable room stops the scan",
			expect: func(mock sqlmock.Sqlmock) {
				expectRoom(mock, 101, false)
			},
		},
		{
			name: "read failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectPrepare(selectRoom).ExpectQuery().WithArgs(101).WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)
			tt.expect(mock)

			available, err := repo.CheckAvailability(context.Background(), []int{101, 102})

			if tt.wantErr {
				assert.ErrorContains(t, err, "failed to check room availability")

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.available, available)
		})
	}
}

func TestRoom_MarkUnavailable(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE rooms SET availability = $1, modified_at = $2, modified_by = $3") +
		".*" + regexp.QuoteMeta("WHERE (rooms.room_number = $4)")

	t.Run("re-reads then clears availability", func(t *testing.T) {
		repo, mock := newRepository(t)

		expectRoom(mock, 101, true)
		mock.ExpectExec(update).WithArgs(false, sqlmock.AnyArg(), "staff-1", 101).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkUnavailable(context.Background(), 101, "staff-1"))
	})

	t.Run("missing room is not updated", func(t *testing.T) {
		repo, mock := newRepository(t)

		expectRoom(mock, 404)

		err := repo.MarkUnavailable(context.Background(), 404, "staff-1")

		assert.ErrorContains(t, err, "room 404 disappeared")
	})

	t.Run("update failure", func(t *testing.T) {
		repo, mock := newRepository(t)

		expectRoom(mock, 101, true)
		mock.ExpectExec(update).WillReturnError(errors.New("deadlock detected"))

		err := repo.MarkUnavailable(context.Background(), 101, "staff-1")

		assert.ErrorContains(t, err, "failed to mark room 101 unavailable")
	})
}

func TestRoom_UpdateWithCustomers(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET type = $1")).WithArgs("Suite", 101).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM room_checked_in_customers")).WithArgs(101).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room_checked_in_customers (room_number, customer_id)")).
		WithArgs(101, 4, 101, 9).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.UpdateWithCustomers(context.Background(), 101, map[string]any{"type": "Suite"}, []int{4, 9})

	assert.NoError(t, err)
}
