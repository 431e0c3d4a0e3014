package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Booking stores booking rows together with their ordered customer and room links.
// Get and GetAll return bookings with CustomerIDs and RoomNumbers populated.
type Booking interface {
	InsertReturning(ctx context.Context, booking model.Booking) (int, error)
	Get(ctx context.Context, id int) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Save(ctx context.Context, booking model.Booking) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	customers gRepo.Repository[model.BookingCustomer]
	rooms     gRepo.Repository[model.BookingRoom]
	db        *postgres.Connection
	otel      otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		customers: gRepo.NewRepository[model.BookingCustomer](
			model.CustomerEntityName, model.CustomerTableName, model.FieldBookingID, db, otel,
		),
		rooms: gRepo.NewRepository[model.BookingRoom](
			model.RoomEntityName, model.RoomTableName, model.FieldBookingID, db, otel,
		),
		db:   db,
		otel: otel,
	}
}

// FilterByRoom matches bookings that include the room.
func FilterByRoom(roomNumber int) gDto.Filter {
	return gDto.Filter{
		Operator: gDto.FilterPlainQuery,
		Value: fmt.Sprintf("%s.%s IN (SELECT %s FROM %s WHERE %s = %d)",
			model.TableName, model.FieldID, model.FieldBookingID, model.RoomTableName, model.FieldRoomNumber, roomNumber),
	}
}

// FilterByCustomer matches bookings that include the customer.
func FilterByCustomer(customerID int) gDto.Filter {
	return gDto.Filter{
		Operator: gDto.FilterPlainQuery,
		Value: fmt.Sprintf("%s.%s IN (SELECT %s FROM %s WHERE %s = %d)",
			model.TableName, model.FieldID, model.FieldBookingID, model.CustomerTableName, model.FieldCustomerID, customerID),
	}
}

func (r *repositoryImpl) InsertReturning(ctx context.Context, booking model.Booking) (id int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertReturning")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err = r.Repository.InsertReturningTx(ctx, tx, booking)
		if err != nil {
			return err
		}

		return r.insertLinks(ctx, tx, id, booking)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	return id, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id int) (booking model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err = r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil || booking.ID == 0 {
		return booking, err
	}

	bookings := []model.Booking{booking}
	if err = r.loadLinks(ctx, bookings); err != nil {
		return model.Booking{}, err
	}

	return bookings[0], nil
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (bookings []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, err = r.Repository.GetAll(ctx, params, filter)
	if err != nil {
		return nil, err
	}

	if err = r.loadLinks(ctx, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// Save overwrites the booking row and replaces both link lists in one transaction.
func (r *repositoryImpl) Save(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	fields := map[string]any{
		model.FieldDuration:      booking.Duration,
		model.FieldStartDate:     booking.StartDate,
		model.FieldEndDate:       booking.EndDate,
		model.FieldModeOfBooking: booking.ModeOfBooking,
		model.FieldModeOfPayment: booking.ModeOfPayment,
		model.FieldBillAmount:    booking.BillAmount,
		model.FieldPaidAmount:    booking.PaidAmount,
		constant.FieldModifiedAt: booking.ModifiedAt,
		constant.FieldModifiedBy: booking.ModifiedBy,
	}

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.Repository.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			return err
		}

		if err := r.customers.DeleteTx(ctx, tx, shared.FilterByID(booking.ID, model.FieldBookingID, model.CustomerTableName)); err != nil {
			return err
		}

		if err := r.rooms.DeleteTx(ctx, tx, shared.FilterByID(booking.ID, model.FieldBookingID, model.RoomTableName)); err != nil {
			return err
		}

		return r.insertLinks(ctx, tx, booking.ID, booking)
	})
	if err != nil {
		return fmt.Errorf("failed to save booking %d: %w", booking.ID, err)
	}

	return nil
}

func (r *repositoryImpl) insertLinks(ctx context.Context, tx *sqlx.Tx, id int, booking model.Booking) error {
	customers := make([]model.BookingCustomer, len(booking.CustomerIDs))
	for i, customerID := range booking.CustomerIDs {
		customers[i] = model.BookingCustomer{BookingID: id, CustomerID: customerID, Position: i}
	}

	if err := r.customers.InsertBulkTx(ctx, tx, customers); err != nil {
		return err
	}

	rooms := make([]model.BookingRoom, len(booking.RoomNumbers))
	for i, roomNumber := range booking.RoomNumbers {
		rooms[i] = model.BookingRoom{BookingID: id, RoomNumber: roomNumber, Position: i}
	}

	return r.rooms.InsertBulkTx(ctx, tx, rooms)
}

func (r *repositoryImpl) loadLinks(ctx context.Context, bookings []model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]int, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	byPosition := gDto.QueryParams{SortBy: model.FieldPosition, SortDir: gDto.SortDirAsc}

	customers, err := r.customers.GetAll(ctx, byPosition, shared.FilterByIDs(ids, model.FieldBookingID, model.CustomerTableName))
	if err != nil {
		return fmt.Errorf("failed to load booking customers: %w", err)
	}

	rooms, err := r.rooms.GetAll(ctx, byPosition, shared.FilterByIDs(ids, model.FieldBookingID, model.RoomTableName))
	if err != nil {
		return fmt.Errorf("failed to load booking rooms: %w", err)
	}

	index := make(map[int]int, len(bookings))
	for i, booking := range bookings {
		index[booking.ID] = i
	}

	for _, link := range customers {
		b := &bookings[index[link.BookingID]]
		b.CustomerIDs = append(b.CustomerIDs, link.CustomerID)
	}

	for _, link := range rooms {
		b := &bookings[index[link.BookingID]]
		b.RoomNumbers = append(b.RoomNumbers, link.RoomNumber)
	}

	return nil
}
