package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	InsertReturning(ctx context.Context, model model.Room) (int, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// UpdateWithCustomers updates the room row and, when customerIDs is not nil,
	// replaces its checked-in customers in the same transaction.
	UpdateWithCustomers(ctx context.Context, roomNumber int, req map[string]any, customerIDs []int) error
	// CheckedInCustomerIDs returns the checked-in customers keyed by room number.
	CheckedInCustomerIDs(ctx context.Context, roomNumbers ...int) (map[int][]int, error)
	// CheckAvailability re-reads every room and reports whether all of them are available.
	// A room that does not exist counts as unavailable.
	CheckAvailability(ctx context.Context, roomNumbers []int) (bool, error)
	// MarkUnavailable re-reads the room and persists it with availability cleared.
	MarkUnavailable(ctx context.Context, roomNumber int, user string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	checkedIn gRepo.Repository[model.CheckedInCustomer]
	db        *postgres.Connection
	otel      otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldRoomNumber, db, otel),
		checkedIn: gRepo.NewRepository[model.CheckedInCustomer](
			model.CheckedInEntityName, model.CheckedInTableName, model.FieldRoomNumber, db, otel,
		),
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) InsertReturning(ctx context.Context, room model.Room) (roomNumber int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.InsertReturning")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		roomNumber, err = r.Repository.InsertReturningTx(ctx, tx, room)
		if err != nil {
			return err
		}

		return r.checkedIn.InsertBulkTx(ctx, tx, links(roomNumber, room.CheckedInCustomerIDs))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert room: %w", err)
	}

	return roomNumber, nil
}

func (r *repositoryImpl) UpdateWithCustomers(ctx context.Context, roomNumber int, req map[string]any, customerIDs []int) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.UpdateWithCustomers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(roomNumber, model.FieldRoomNumber, model.TableName)

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.Repository.UpdateTx(ctx, tx, req, filter); err != nil {
			return err
		}

		if customerIDs == nil {
			return nil
		}

		linkFilter := shared.FilterByID(roomNumber, model.FieldRoomNumber, model.CheckedInTableName)
		if err := r.checkedIn.DeleteTx(ctx, tx, linkFilter); err != nil {
			return err
		}

		return r.checkedIn.InsertBulkTx(ctx, tx, links(roomNumber, customerIDs))
	})
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

func (r *repositoryImpl) CheckedInCustomerIDs(ctx context.Context, roomNumbers ...int) (res map[int][]int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CheckedInCustomerIDs")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res = make(map[int][]int, len(roomNumbers))
	if len(roomNumbers) == 0 {
		return res, nil
	}

	rows, err := r.checkedIn.GetAll(
		ctx,
		gDto.QueryParams{SortBy: model.FieldCustomerID, SortDir: gDto.SortDirAsc},
		shared.FilterByIDs(roomNumbers, model.FieldRoomNumber, model.CheckedInTableName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get checked-in customers: %w", err)
	}

	for _, row := range rows {
		res[row.RoomNumber] = append(res[row.RoomNumber], row.CustomerID)
	}

	return res, nil
}

func (r *repositoryImpl) CheckAvailability(ctx context.Context, roomNumbers []int) (available bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	for _, number := range roomNumbers {
		room, err := r.Repository.Get(ctx, shared.FilterByID(number, model.FieldRoomNumber, model.TableName))
		if err != nil {
			return false, fmt.Errorf("failed to check room availability: %w", err)
		}

		if room.RoomNumber == 0 || !room.Availability {
			return false, nil
		}
	}

	return true, nil
}

func (r *repositoryImpl) MarkUnavailable(ctx context.Context, roomNumber int, user string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.MarkUnavailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(roomNumber, model.FieldRoomNumber, model.TableName)

	room, err := r.Repository.Get(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get room %d: %w", roomNumber, err)
	}

	if room.RoomNumber == 0 {
		return fmt.Errorf("room %d disappeared before it could be marked unavailable", roomNumber)
	}

	fields := shared.TransformFields(struct {
		Availability *bool `db:"availability"`
	}{Availability: new(bool)}, user)

	if err = r.Repository.Update(ctx, fields, filter); err != nil {
		return fmt.Errorf("failed to mark room %d unavailable: %w", roomNumber, err)
	}

	return nil
}

func links(roomNumber int, customerIDs []int) []model.CheckedInCustomer {
	res := make([]model.CheckedInCustomer, len(customerIDs))
	for i, id := range customerIDs {
		res[i] = model.CheckedInCustomer{RoomNumber: roomNumber, CustomerID: id}
	}

	return res
}
