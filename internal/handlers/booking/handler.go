package booking

import (
	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	"hotel/internal/domains/booking/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	queryRoomNumber = "room_number"
	queryCustomerID = "customer_id"
)

var sortableColumns = []string{model.FieldID, model.FieldStartDate, model.FieldEndDate, model.FieldBillAmount}

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CreateBooking runs the booking workflow and returns the stored booking with its
// customers and rooms resolved.
// @Summary Create a booking
// @Description Check availability, accompaniment and advance payment, store the booking and mark its rooms unavailable.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} response.Data{data=dto.BookingResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "invalid request body")

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create booking")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists bookings, optionally only those holding room_number or customer_id.
// @Summary List bookings
// @Description Page through bookings, optionally only those holding a room or a customer.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination and sorting"
// @Param room_number query int false "Room number held by the booking"
// @Param customer_id query int false "Customer on the booking"
// @Success 200 {object} response.Data{data=dto.GetBookingsResponse}
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldID, sortableColumns...)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	query := request.URL.Query()

	if raw := query.Get(queryRoomNumber); raw != constant.Empty {
		roomNumber, err := shared.ConvertStringToInt(raw)
		if err != nil || roomNumber <= 0 {
			response.WithError(writer, failure.BadRequestFromString("room_number must be a positive integer"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, repository.FilterByRoom(roomNumber))
	}

	if raw := query.Get(queryCustomerID); raw != constant.Empty {
		customerID, err := shared.ConvertStringToInt(raw)
		if err != nil || customerID <= 0 {
			response.WithError(writer, failure.BadRequestFromString("customer_id must be a positive integer"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, repository.FilterByCustomer(customerID))
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get bookings")

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(writer, http.StatusOK, bookings)
}

// @Summary Get a booking
// @Description Retrieve a booking with its customers and rooms resolved.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} response.Data{data=dto.BookingResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id, err := bookingID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get booking by ID", "booking_id", id)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// UpdateBooking applies a partial update and re-runs the booking checks on the result.
// @Summary Update a booking
// @Description Apply a partial update, re-running the booking checks.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Fields to change"
// @Success 200 {object} response.Data{data=dto.BookingResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id, err := bookingID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "invalid request body")

		return
	}

	booking, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to update booking", "booking_id", id)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking updated successfully by user " + user)

	response.WithJSON(writer, http.StatusOK, booking)
}

// @Summary Delete a booking
// @Description Remove a booking; its rooms stay as they are.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Success 204 "Booking deleted"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id, err := bookingID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	deleted, err := handler.service.Delete(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to delete booking", "booking_id", id)

		return
	}

	if !deleted {
		response.WithError(writer, service.NotFound(id))

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking deleted successfully by user " + user)

	response.WithNoContent(writer)
}

func bookingID(request *http.Request) (int, error) {
	id, err := shared.ConvertStringToInt(chi.URLParam(request, constant.RequestParamID))
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString("booking id must be a positive integer")
	}

	return id, nil
}
