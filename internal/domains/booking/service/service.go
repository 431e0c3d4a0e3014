package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/policy"
	"hotel/internal/domains/booking/repository"
	customerModel "hotel/internal/domains/customer/model"
	customerRepository "hotel/internal/domains/customer/repository"
	customerService "hotel/internal/domains/customer/service"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

// ErrMarkRoomsUnavailable is returned when the booking was stored but at least one
// of its rooms could not be flagged unavailable. The reconciliation job repairs it.
var ErrMarkRoomsUnavailable = errors.New("booking saved but rooms could not be marked unavailable")

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id int) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id int) (dto.BookingResponse, error)
	Delete(ctx context.Context, id int) (bool, error)
	ReconcileRooms(ctx context.Context, id int) (int, error)
}

type serviceImpl struct {
	repo         repository.Booking
	customerRepo customerRepository.Customer
	roomRepo     roomRepository.Room
	publisher    event.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	customerRepo customerRepository.Customer,
	roomRepo roomRepository.Room,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		customerRepo: customerRepo,
		roomRepo:     roomRepo,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// NotFound is the failure returned when no booking has the given id.
func NotFound(id int) error {
	return failure.NotFoundf("Booking details not found with id: %d", id)
}

// Create runs the booking workflow. Checks fire in a fixed order: references,
// availability, accompaniment, advance payment. Rooms are marked unavailable only
// after the booking row exists and outside its transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	customers, err := s.resolveCustomers(ctx, booking.CustomerIDs)
	if err != nil {
		return res, err
	}

	rooms, err := s.resolveRooms(ctx, booking.RoomNumbers)
	if err != nil {
		return res, err
	}

	if err = s.checkAvailability(ctx, booking.RoomNumbers); err != nil {
		return res, err
	}

	if err = policy.CheckAccompaniment(customers); err != nil {
		return res, err
	}

	booking.BillAmount = policy.BillAmount(rooms)

	if err = policy.CheckAdvancePayment(len(rooms), booking.BillAmount, booking.PaidAmount); err != nil {
		return res, err
	}

	booking.ID, err = s.repo.InsertReturning(ctx, booking)
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	markErr := s.markRoomsUnavailable(ctx, booking.ID, booking.RoomNumbers, user)

	s.publish(ctx, event.BookingCreated, booking)
	s.invalidate(ctx, booking.ID)

	if markErr != nil {
		return res, markErr
	}

	for i := range rooms {
		rooms[i].Availability = false
	}

	res.FromModel(booking, customersByID(customers), roomsByNumber(rooms))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	var bookings []model.Booking

	if s.cache.Get(ctx, cacheKey, &bookings) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")
	} else {
		bookings, err = s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get bookings")

			return res, fmt.Errorf("failed to get bookings: %w", err)
		}

		s.save(ctx, cacheKey, bookings)
	}

	customers, rooms, err := s.loadReferences(ctx, bookings...)
	if err != nil {
		return res, err
	}

	res.FromModels(bookings, customers, rooms, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

// Get caches the booking row with its links only. Customers and rooms are read
// on every call because their own updates do not clear booking entries.
func (s *serviceImpl) Get(ctx context.Context, id int) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	var booking model.Booking

	if s.cache.Get(ctx, cacheKey, &booking) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")
	} else {
		booking, err = s.get(ctx, id)
		if err != nil {
			return res, err
		}

		s.save(ctx, cacheKey, booking)
	}

	customers, rooms, err := s.loadReferences(ctx, booking)
	if err != nil {
		return res, err
	}

	res.FromModel(booking, customers, rooms)

	return res, nil
}

// Update applies a partial update. A supplied room list is resolved, checked for
// availability and replaces the stored one; only those rooms are then marked
// unavailable and only then is the bill recomputed. A supplied customer list
// replaces the stored one. Both policies run against the effective values.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id int) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	roomsSupplied := len(req.RoomNumbers) > 0
	if roomsSupplied {
		booking.RoomNumbers = slices.Clone(req.RoomNumbers)
	}

	rooms, err := s.resolveRooms(ctx, booking.RoomNumbers)
	if err != nil {
		return res, err
	}

	if roomsSupplied {
		if err = s.checkAvailability(ctx, booking.RoomNumbers); err != nil {
			return res, err
		}
	}

	if len(req.CustomerIDs) > 0 {
		booking.CustomerIDs = slices.Clone(req.CustomerIDs)
	}

	customers, err := s.resolveCustomers(ctx, booking.CustomerIDs)
	if err != nil {
		return res, err
	}

	if err = req.Apply(&booking); err != nil {
		return res, failure.BadRequest(err)
	}

	// The bill follows the room list. Without one the stored bill stands, even
	// when a room's price per day has changed since the booking was made.
	if roomsSupplied {
		booking.BillAmount = policy.BillAmount(rooms)
	}

	if err = policy.CheckAccompaniment(customers); err != nil {
		return res, err
	}

	if err = policy.CheckAdvancePayment(len(rooms), booking.BillAmount, booking.PaidAmount); err != nil {
		return res, err
	}

	booking.ModifiedBy = user
	booking.ModifiedAt = timezone.Now()

	if err = s.repo.Save(ctx, booking); err != nil {
		log.Error().Err(err).Int("booking_id", id).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	var markErr error
	if roomsSupplied {
		markErr = s.markRoomsUnavailable(ctx, booking.ID, booking.RoomNumbers, user)
	}

	s.publish(ctx, event.BookingUpdated, booking)
	s.invalidate(ctx, booking.ID)

	if markErr != nil {
		return res, markErr
	}

	if roomsSupplied {
		for i := range rooms {
			rooms[i].Availability = false
		}
	}

	res.FromModel(booking, customersByID(customers), roomsByNumber(rooms))

	return res, nil
}

// Delete reports whether a booking with id existed and was removed. Its rooms are not released.
func (s *serviceImpl) Delete(ctx context.Context, id int) (deleted bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return false, fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return false, nil
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Int("booking_id", id).Msg("failed to delete booking")

		return false, fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	return true, nil
}

// ReconcileRooms marks every room of the booking that is still available as
// unavailable and returns how many rooms it changed. A booking that no longer
// exists is not an error.
func (s *serviceImpl) ReconcileRooms(ctx context.Context, id int) (changed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ReconcileRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to get booking %d: %w", id, err)
	}

	if booking.ID == 0 {
		log.Warn().Int("booking_id", id).Msg("booking to reconcile no longer exists")

		return 0, nil
	}

	for _, number := range booking.RoomNumbers {
		room, err := s.roomRepo.Get(ctx, shared.FilterByID(number, roomModel.FieldRoomNumber, roomModel.TableName))
		if err != nil {
			return changed, fmt.Errorf("failed to get room %d: %w", number, err)
		}

		if room.RoomNumber == 0 || !room.Availability {
			continue
		}

		if err = s.roomRepo.MarkUnavailable(ctx, number, constant.SystemUser); err != nil {
			return changed, fmt.Errorf("failed to reconcile room %d: %w", number, err)
		}

		changed++
	}

	if changed > 0 {
		log.Info().Int("booking_id", id).Int("rooms", changed).Msg("reconciled booking rooms")

		go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, roomService.CachePrefix)
	}

	return changed, nil
}

func (s *serviceImpl) get(ctx context.Context, id int) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Int("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return booking, NotFound(id)
	}

	return booking, nil
}

// resolveCustomers loads every customer in order and fails on the first unknown id.
func (s *serviceImpl) resolveCustomers(ctx context.Context, ids []int) ([]customerModel.Customer, error) {
	customers := make([]customerModel.Customer, 0, len(ids))

	for _, id := range ids {
		customer, err := s.customerRepo.Get(ctx, shared.FilterByID(id, customerModel.FieldID, customerModel.TableName))
		if err != nil {
			log.Error().Err(err).Int("customer_id", id).Msg("failed to resolve customer")

			return nil, fmt.Errorf("failed to resolve customer %d: %w", id, err)
		}

		if customer.ID == 0 {
			return nil, customerService.NotFound(id)
		}

		customers = append(customers, customer)
	}

	return customers, nil
}

// resolveRooms loads every room in order and fails on the first unknown number.
func (s *serviceImpl) resolveRooms(ctx context.Context, numbers []int) ([]roomModel.Room, error) {
	rooms := make([]roomModel.Room, 0, len(numbers))

	for _, number := range numbers {
		room, err := s.roomRepo.Get(ctx, shared.FilterByID(number, roomModel.FieldRoomNumber, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Int("room_number", number).Msg("failed to resolve room")

			return nil, fmt.Errorf("failed to resolve room %d: %w", number, err)
		}

		if room.RoomNumber == 0 {
			return nil, roomService.NotFound(number)
		}

		rooms = append(rooms, room)
	}

	return rooms, nil
}

func (s *serviceImpl) checkAvailability(ctx context.Context, numbers []int) error {
	available, err := s.roomRepo.CheckAvailability(ctx, numbers)
	if err != nil {
		log.Error().Err(err).Ints("room_numbers", numbers).Msg("failed to check room availability")

		return fmt.Errorf("failed to check room availability: %w", err)
	}

	if !available {
		return failure.RoomNotAvailable
	}

	return nil
}

// markRoomsUnavailable flags each room in turn. It stops at the first failure and
// leaves the remaining rooms untouched.
func (s *serviceImpl) markRoomsUnavailable(ctx context.Context, bookingID int, numbers []int, user string) error {
	defer func() {
		go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, roomService.CachePrefix)
	}()

	for _, number := range numbers {
		if err := s.roomRepo.MarkUnavailable(ctx, number, user); err != nil {
			log.Error().Err(err).Int("booking_id", bookingID).Int("room_number", number).
				Msg("booking persisted but room availability not updated")

			return fmt.Errorf("%w: booking %d, room %d: %w", ErrMarkRoomsUnavailable, bookingID, number, err)
		}
	}

	return nil
}

// loadReferences fetches every customer and room referenced by the bookings in two queries.
func (s *serviceImpl) loadReferences(
	ctx context.Context,
	bookings ...model.Booking,
) (map[int]customerModel.Customer, map[int]roomModel.Room, error) {
	var customerIDs, roomNumbers []int

	for _, booking := range bookings {
		customerIDs = append(customerIDs, booking.CustomerIDs...)
		roomNumbers = append(roomNumbers, booking.RoomNumbers...)
	}

	slices.Sort(customerIDs)
	customerIDs = slices.Compact(customerIDs)
	slices.Sort(roomNumbers)
	roomNumbers = slices.Compact(roomNumbers)

	var (
		customers []customerModel.Customer
		rooms     []roomModel.Room
		err       error
	)

	if len(customerIDs) > 0 {
		customers, err = s.customerRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByIDs(customerIDs, customerModel.FieldID, customerModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to load booking customers")

			return nil, nil, fmt.Errorf("failed to load booking customers: %w", err)
		}
	}

	if len(roomNumbers) > 0 {
		rooms, err = s.roomRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByIDs(roomNumbers, roomModel.FieldRoomNumber, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to load booking rooms")

			return nil, nil, fmt.Errorf("failed to load booking rooms: %w", err)
		}
	}

	return customersByID(customers), roomsByNumber(rooms), nil
}

func (s *serviceImpl) publish(ctx context.Context, typ event.Type, booking model.Booking) {
	evt, err := event.New(typ, strconv.Itoa(booking.ID), event.BookingPayload{
		BookingID:   booking.ID,
		RoomNumbers: booking.RoomNumbers,
		CustomerIDs: booking.CustomerIDs,
	})
	if err != nil {
		log.Error().Err(err).Int("booking_id", booking.ID).Msg("failed to build booking event")

		return
	}

	if err = s.publisher.Publish(context.WithoutCancel(ctx), s.cfg.Event.BookingTopic, evt); err != nil {
		log.Error().Err(err).Int("booking_id", booking.ID).Str("type", string(typ)).Msg("failed to publish booking event")
	}
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save booking cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id int) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func customersByID(customers []customerModel.Customer) map[int]customerModel.Customer {
	res := make(map[int]customerModel.Customer, len(customers))
	for _, customer := range customers {
		res[customer.ID] = customer
	}

	return res
}

func roomsByNumber(rooms []roomModel.Room) map[int]roomModel.Room {
	res := make(map[int]roomModel.Room, len(rooms))
	for _, room := range rooms {
		res[room.RoomNumber] = room
	}

	return res
}
