package room

import (
	"hotel/infras/otel"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const queryRoomNumberList = "room_number_list"

var sortableColumns = []string{model.FieldRoomNumber, model.FieldType, model.FieldPricePerDay, model.FieldOccupancy}

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/availability", handler.CheckAvailability)
		routerGroup.Get("/type/{type}", handler.GetRoomsByType)
		routerGroup.Get("/{roomNumber}", handler.GetRoomByNumber)
		routerGroup.Get("/{roomNumber}/customers", handler.GetCheckedInCustomers)
		routerGroup.Patch("/{roomNumber}", handler.UpdateRoom)
		routerGroup.Put("/{roomNumber}/image", handler.UploadImage)
		routerGroup.Delete("/{roomNumber}", handler.DeleteRoom)
	})
}

// CreateRoom handles the creation of a new room.
// @Summary Create a room
// @Description Store a room; the room number is assigned by the database.
// @Tags Room
// @Accept json
// @Produce json
// @Param request body dto.CreateRoomRequest true "Room details"
// @Success 201 {object} response.Data{data=dto.RoomResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	req := dto.CreateRoomRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "invalid request body")

		return
	}

	room, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create room")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, room)
}

// GetRooms retrieves rooms based on query parameters. Supported filters: type, availability.
// @Summary List rooms
// @Description Page through rooms, filtered by type or availability.
// @Tags Room
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination and sorting"
// @Param type query string false "Exact room type"
// @Param availability query boolean false "Availability flag"
// @Success 200 {object} response.Data{data=dto.GetRoomsResponse}
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
// @Security BearerAuth
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.FieldRoomNumber, sortableColumns...)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if roomType := r.URL.Query().Get(model.FieldType); roomType != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    roomType,
			Table:    model.TableName,
		})
	}

	if available := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldAvailability)); available != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldAvailability,
			Operator: gDto.FilterOperatorEq,
			Value:    *available,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(w, scope, err, "failed to get rooms")

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomsByType lists every room whose type matches exactly.
// @Summary List rooms of a type
// @Description Every room whose type matches exactly, ordered by room number.
// @Tags Room
// @Accept json
// @Produce json
// @Param type path string true "Room type"
// @Success 200 {object} response.Data{data=[]dto.RoomResponse}
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/type/{type} [get]
// @Security BearerAuth
func (handler *Handler) GetRoomsByType(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomsByType")
	defer scope.End()

	roomType := chi.URLParam(r, constant.RequestParamRoomType)

	rooms, err := handler.service.GetByType(ctx, roomType)
	if err != nil {
		response.Fail(w, scope, err, "failed to get rooms by type", "type", roomType)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// @Summary Get a room
// @Description Retrieve a room by its number.
// @Tags Room
// @Accept json
// @Produce json
// @Param roomNumber path int true "Room number"
// @Success 200 {object} response.Data{data=dto.RoomResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{roomNumber} [get]
// @Security BearerAuth
func (handler *Handler) GetRoomByNumber(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByNumber")
	defer scope.End()

	roomNumber, err := roomNumberParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	room, err := handler.service.Get(ctx, roomNumber)
	if err != nil {
		response.Fail(w, scope, err, "failed to get room", "room_number", roomNumber)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// @Summary List checked-in customers
// @Description Customers currently checked in to the room.
// @Tags Room
// @Accept json
// @Produce json
// @Param roomNumber path int true "Room number"
// @Success 200 {object} response.Data{data=[]object}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{roomNumber}/customers [get]
// @Security BearerAuth
func (handler *Handler) GetCheckedInCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCheckedInCustomers")
	defer scope.End()

	roomNumber, err := roomNumberParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	customers, err := handler.service.GetCheckedInCustomers(ctx, roomNumber)
	if err != nil {
		response.Fail(w, scope, err, "failed to get checked-in customers", "room_number", roomNumber)

		return
	}

	response.WithJSON(w, http.StatusOK, customers)
}

// CheckAvailability answers whether every room in room_number_list (comma separated) is available.
// @Summary Check room availability
// @Description Report whether every listed room is available; a missing room is an error.
// @Tags Room
// @Accept json
// @Produce json
// @Param room_number_list query string true "Comma separated room numbers"
// @Success 200 {object} response.Data{data=dto.AvailabilityResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/availability [get]
// @Security BearerAuth
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	raw := r.URL.Query().Get(queryRoomNumberList)
	if raw == constant.Empty {
		response.WithError(w, failure.BadRequestFromString(queryRoomNumberList+" is required"))

		return
	}

	var numbers []int

	for _, part := range strings.Split(raw, ",") {
		number, err := shared.ConvertStringToInt(part)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString(queryRoomNumberList+" must contain room numbers only"))

			return
		}

		numbers = append(numbers, number)
	}

	available, err := handler.service.CheckRoomsAvailability(ctx, numbers)
	if err != nil {
		response.Fail(w, scope, err, "failed to check room availability")

		return
	}

	response.WithJSON(w, http.StatusOK, dto.AvailabilityResponse{RoomNumbers: numbers, Available: available})
}

// UpdateRoom applies a partial update. A supplied checked_in_customer_id_list replaces the stored one.
// @Summary Update a room
// @Description Apply a partial update; a supplied checked_in_customer_id_list replaces the stored one.
// @Tags Room
// @Accept json
// @Produce json
// @Param roomNumber path int true "Room number"
// @Param request body dto.UpdateRoomRequest true "Fields to change"
// @Success 200 {object} response.Data{data=dto.RoomResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{roomNumber} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	roomNumber, err := roomNumberParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateRoomRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "invalid request body")

		return
	}

	room, err := handler.service.Update(ctx, req, roomNumber)
	if err != nil {
		response.Fail(w, scope, err, "failed to update room", "room_number", roomNumber)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, room)
}

// UploadImage accepts either a multipart "image" file or a JSON body with a base64 data URL.
// @Summary Upload a room image
// @Description Store a room image given as a multipart file or a base64 data URL.
// @Tags Room
// @Accept multipart/form-data,json
// @Produce json
// @Param roomNumber path int true "Room number"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Data{data=dto.RoomResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{roomNumber}/image [put]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	roomNumber, err := roomNumberParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UploadImageRequest{}

	if strings.HasPrefix(r.Header.Get(constant.RequestHeaderContentType), "multipart/") {
		if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
			response.Fail(w, scope, failure.BadRequest(err), "failed to parse multipart form")

			return
		}

		file, fileHeader, err := r.FormFile("image")
		if err == nil {
			req.Image = fileHeader
			req.ImageFile = file

			defer file.Close()
		}

		if err = validator.ValidateStruct(&req); err != nil {
			response.Fail(w, scope, err, "invalid room image")

			return
		}
	} else if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "invalid request body")

		return
	}

	room, err := handler.service.UploadImage(ctx, req, roomNumber)
	if err != nil {
		response.Fail(w, scope, err, "failed to upload room image", "room_number", roomNumber)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// DeleteRoom answers 204 when the room was removed and 404 when it did not exist.
// @Summary Delete a room
// @Description Remove a room that no booking references.
// @Tags Room
// @Accept json
// @Produce json
// @Param roomNumber path int true "Room number"
// @Success 204 "Room deleted"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{roomNumber} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	roomNumber, err := roomNumberParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	deleted, err := handler.service.Delete(ctx, roomNumber)
	if err != nil {
		response.Fail(w, scope, err, "failed to delete room", "room_number", roomNumber)

		return
	}

	if !deleted {
		response.WithError(w, service.NotFound(roomNumber))

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deleted successfully by user " + user)

	response.WithNoContent(w)
}

func roomNumberParam(r *http.Request) (int, error) {
	roomNumber, err := shared.ConvertStringToInt(chi.URLParam(r, constant.RequestParamRoomNumber))
	if err != nil || roomNumber <= 0 {
		return 0, failure.BadRequestFromString("room number must be a positive integer")
	}

	return roomNumber, nil
}
