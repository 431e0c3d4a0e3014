package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	customerModel "hotel/internal/domains/customer/model"
	customerDto "hotel/internal/domains/customer/model/dto"
	customerRepository "hotel/internal/domains/customer/repository"
	customerService "hotel/internal/domains/customer/service"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/base64"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
	"io"
	"path"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom       = "room:get"
	cacheGetAllRoom    = "room:gets"
	cacheCountRoom     = "room:count"
	cacheGetRoomByType = "room:type"

	// CachePrefix covers every cached room key.
	CachePrefix = "room"

	msgRoomInUse = "room is still referenced by a booking"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	GetByType(ctx context.Context, roomType string) ([]dto.RoomResponse, error)
	Get(ctx context.Context, roomNumber int) (dto.RoomResponse, error)
	GetCheckedInCustomers(ctx context.Context, roomNumber int) ([]customerDto.CustomerResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, roomNumber int) (dto.RoomResponse, error)
	UploadImage(ctx context.Context, req dto.UploadImageRequest, roomNumber int) (dto.RoomResponse, error)
	Delete(ctx context.Context, roomNumber int) (bool, error)
	CheckRoomsAvailability(ctx context.Context, roomNumbers []int) (bool, error)
}

type serviceImpl struct {
	repo         repository.Room
	customerRepo customerRepository.Customer
	storage      s3.ObjectStorage
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Room,
	customerRepo customerRepository.Customer,
	storage s3.ObjectStorage,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:         repo,
		customerRepo: customerRepo,
		storage:      storage,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// NotFound is the failure returned when no room has the given number.
func NotFound(roomNumber int) error {
	return failure.NotFoundf("Room details not found with room number: %d", roomNumber)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureCustomersExist(ctx, req.CheckedInCustomerIDs); err != nil {
		return res, err
	}

	room := req.ToModel(user)

	room.RoomNumber, err = s.repo.InsertReturning(ctx, room)
	if err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	res.FromModel(room)

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	rooms, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	if err = s.attachCheckedInCustomers(ctx, rooms); err != nil {
		return res, err
	}

	res.FromModels(rooms, total, req.Limit)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

// GetByType lists every room of the given type ordered by room number. No match yields an empty list.
func (s *serviceImpl) GetByType(ctx context.Context, roomType string) (res []dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetByType")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoomByType, roomType)

	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms by type")

		return res, nil
	}

	rooms, err := s.repo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: model.FieldRoomNumber, SortDir: gDto.SortDirAsc},
		shared.FilterByID(roomType, model.FieldType, model.TableName),
	)
	if err != nil {
		log.Error().Err(err).Str("type", roomType).Msg("failed to get rooms by type")

		return res, fmt.Errorf("failed to get rooms by type: %w", err)
	}

	if err = s.attachCheckedInCustomers(ctx, rooms); err != nil {
		return res, err
	}

	res = dto.FromModels(rooms)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, roomNumber int) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, roomNumber)

	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.get(ctx, roomNumber)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	s.save(ctx, cacheKey, res)

	return res, nil
}

// GetCheckedInCustomers resolves the customers currently checked into the room.
func (s *serviceImpl) GetCheckedInCustomers(ctx context.Context, roomNumber int) (res []customerDto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetCheckedInCustomers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.get(ctx, roomNumber)
	if err != nil {
		return res, err
	}

	if len(room.CheckedInCustomerIDs) == 0 {
		return []customerDto.CustomerResponse{}, nil
	}

	customers, err := s.customerRepo.GetAll(
		ctx,
		gDto.QueryParams{},
		shared.FilterByIDs(room.CheckedInCustomerIDs, customerModel.FieldID, customerModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Int("room_number", roomNumber).Msg("failed to get checked-in customers")

		return res, fmt.Errorf("failed to get checked-in customers: %w", err)
	}

	slices.SortFunc(customers, func(a, b customerModel.Customer) int {
		return slices.Index(room.CheckedInCustomerIDs, a.ID) - slices.Index(room.CheckedInCustomerIDs, b.ID)
	})

	return customerDto.FromModels(customers), nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, roomNumber int) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.get(ctx, roomNumber)
	if err != nil {
		return res, err
	}

	var customerIDs []int
	if req.CheckedInCustomerIDs != nil {
		customerIDs = append([]int{}, *req.CheckedInCustomerIDs...)

		if err = s.ensureCustomersExist(ctx, customerIDs); err != nil {
			return res, err
		}
	}

	updatedFields := shared.TransformFields(req, user)

	if err = s.repo.UpdateWithCustomers(ctx, roomNumber, updatedFields, customerIDs); err != nil {
		log.Error().Err(err).Int("room_number", roomNumber).Msg("failed to update room")

		return res, fmt.Errorf("failed to update room: %w", err)
	}

	req.Apply(&room)
	room.ModifiedBy = user
	room.ModifiedAt, _ = updatedFields[constant.FieldModifiedAt].(time.Time)

	res.FromModel(room)

	s.invalidate(ctx)

	return res, nil
}

// UploadImage stores the image and points the room at it. The previous image is removed afterwards.
func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest, roomNumber int) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.get(ctx, roomNumber)
	if err != nil {
		return res, err
	}

	body, contentType, extension, err := imageSource(req)
	if err != nil {
		return res, err
	}

	fileName := fmt.Sprintf("%d-%s.%s", roomNumber, uuid.NewString(), extension)

	url, err := s.storage.Upload(ctx, model.EntityName, fileName, contentType, body)
	if err != nil {
		log.Error().Err(err).Int("room_number", roomNumber).Msg("failed to upload room image")

		return res, fmt.Errorf("failed to upload room image: %w", err)
	}

	fields := shared.TransformFields(struct {
		Image string `db:"image"`
	}{Image: url}, user)

	if err = s.repo.Update(ctx, fields, shared.FilterByID(roomNumber, model.FieldRoomNumber, model.TableName)); err != nil {
		log.Error().Err(err).Int("room_number", roomNumber).Msg("failed to save room image")
		s.deleteImage(context.WithoutCancel(ctx), url)

		return res, fmt.Errorf("failed to save room image: %w", err)
	}

	previous := room.Image
	room.Image = url
	room.ModifiedBy = user
	room.ModifiedAt, _ = fields[constant.FieldModifiedAt].(time.Time)

	res.FromModel(room)

	s.invalidate(ctx)

	if previous != constant.Empty {
		go s.deleteImage(context.WithoutCancel(ctx), previous)
	}

	return res, nil
}

// Delete reports whether a room with the number existed and was removed.
func (s *serviceImpl) Delete(ctx context.Context, roomNumber int) (deleted bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(roomNumber, model.FieldRoomNumber, model.TableName)

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return false, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if room.RoomNumber == 0 {
		return false, nil
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return false, failure.Conflict(msgRoomInUse)
		}

		log.Error().Err(err).Int("room_number", roomNumber).Msg("failed to delete room")

		return false, fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx)

	if room.Image != constant.Empty {
		go s.deleteImage(context.WithoutCancel(ctx), room.Image)
	}

	return true, nil
}

// CheckRoomsAvailability reports whether every listed room exists and is available.
func (s *serviceImpl) CheckRoomsAvailability(ctx context.Context, roomNumbers []int) (available bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.CheckRoomsAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	available, err = s.repo.CheckAvailability(ctx, roomNumbers)
	if err != nil {
		log.Error().Err(err).Ints("room_numbers", roomNumbers).Msg("failed to check room availability")

		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	return available, nil
}

func (s *serviceImpl) get(ctx context.Context, roomNumber int) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(roomNumber, model.FieldRoomNumber, model.TableName))
	if err != nil {
		log.Error().Err(err).Int("room_number", roomNumber).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.RoomNumber == 0 {
		return room, NotFound(roomNumber)
	}

	ids, err := s.repo.CheckedInCustomerIDs(ctx, roomNumber)
	if err != nil {
		log.Error().Err(err).Int("room_number", roomNumber).Msg("failed to get checked-in customers")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	room.CheckedInCustomerIDs = ids[roomNumber]

	return room, nil
}

func (s *serviceImpl) attachCheckedInCustomers(ctx context.Context, rooms []model.Room) error {
	numbers := make([]int, len(rooms))
	for i, room := range rooms {
		numbers[i] = room.RoomNumber
	}

	ids, err := s.repo.CheckedInCustomerIDs(ctx, numbers...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get checked-in customers")

		return fmt.Errorf("failed to get checked-in customers: %w", err)
	}

	for i := range rooms {
		rooms[i].CheckedInCustomerIDs = ids[rooms[i].RoomNumber]
	}

	return nil
}

func (s *serviceImpl) ensureCustomersExist(ctx context.Context, ids []int) error {
	for _, id := range ids {
		exist, err := s.customerRepo.Exist(ctx, shared.FilterByID(id, customerModel.FieldID, customerModel.TableName))
		if err != nil {
			log.Error().Err(err).Int("customer_id", id).Msg("failed to check if customer exists")

			return fmt.Errorf("failed to check if customer exists: %w", err)
		}

		if !exist {
			return customerService.NotFound(id)
		}
	}

	return nil
}

func (s *serviceImpl) deleteImage(ctx context.Context, url string) {
	objectName := s.storage.ObjectNameFromURL(model.EntityName, url)
	if objectName == constant.Empty {
		log.Warn().Str("url", url).Msg("failed to extract object name from URL")

		return
	}

	if err := s.storage.Delete(ctx, model.EntityName, objectName); err != nil {
		log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete room image")
	}
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save room cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, CachePrefix)
}

var errNoImage = errors.New("image is required")

func imageSource(req dto.UploadImageRequest) (body io.Reader, contentType, extension string, err error) {
	if req.Image != nil && req.ImageFile != nil {
		contentType = req.Image.Header.Get(constant.RequestHeaderContentType)
		extension = path.Ext(req.Image.Filename)

		if len(extension) > 1 {
			extension = extension[1:]
		}

		return req.ImageFile, contentType, extension, nil
	}

	if req.ImageData == constant.Empty {
		return nil, "", "", failure.BadRequest(errNoImage)
	}

	content, contentType, extension, err := base64.Decode(req.ImageData)
	if err != nil {
		return nil, "", "", failure.BadRequest(err)
	}

	return bytes.NewReader(content), contentType, extension, nil
}
