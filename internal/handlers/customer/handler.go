package customer

import (
	"hotel/infras/otel"
	"hotel/internal/domains/customer/model"
	"hotel/internal/domains/customer/model/dto"
	"hotel/internal/domains/customer/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var sortableColumns = []string{model.FieldID, model.FieldFullName, model.FieldAge}

type Handler struct {
	service service.Customer
	otel    otel.Otel
}

func New(service service.Customer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/customers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCustomer)
		routerGroup.Get("/", handler.GetCustomers)
		routerGroup.Get("/{id}", handler.GetCustomerByID)
		routerGroup.Patch("/{id}", handler.UpdateCustomer)
		routerGroup.Delete("/{id}", handler.DeleteCustomer)
	})
}

// CreateCustomer registers a customer and returns the stored record.
// @Summary Register a customer
// @Description Store a customer; contact_number must be 10 unique digits.
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} response.Data{data=dto.CustomerResponse}
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers [post]
// @Security BearerAuth
func (handler *Handler) CreateCustomer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCustomer")
	defer scope.End()

	req := dto.CreateCustomerRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "invalid request body")

		return
	}

	customer, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create customer")

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Customer created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, customer)
}

// GetCustomers lists customers, optionally filtered by full_name (partial) and contact_number.
// @Summary List customers
// @Description Page through customers, filtered by name or contact number.
// @Tags Customer
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination and sorting"
// @Param full_name query string false "Name contains, case insensitive"
// @Param contact_number query string false "Exact contact number"
// @Success 200 {object} response.Data{data=dto.GetCustomersResponse}
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers [get]
// @Security BearerAuth
func (handler *Handler) GetCustomers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldID, sortableColumns...)

	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldFullName,
				Operator: gDto.FilterOperatorLike,
				Value:    query.Get(model.FieldFullName),
				Table:    model.TableName,
			},
		},
	}

	if contactNumber := query.Get(model.FieldContactNumber); contactNumber != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldContactNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    contactNumber,
			Table:    model.TableName,
		})
	}

	customers, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get customers")

		return
	}

	scope.AddEvent("Customers retrieved successfully")

	response.WithJSON(writer, http.StatusOK, customers)
}

// @Summary Get a customer
// @Description Retrieve a customer by id.
// @Tags Customer
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Data{data=dto.CustomerResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCustomerByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerByID")
	defer scope.End()

	id, err := customerID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	customer, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get customer by ID", "customer_id", id)

		return
	}

	response.WithJSON(writer, http.StatusOK, customer)
}

// UpdateCustomer applies a partial update. Omitted fields keep their stored values.
// @Summary Update a customer
// @Description Apply a partial update; omitted fields keep their value.
// @Tags Customer
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} response.Data{data=dto.CustomerResponse}
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateCustomer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCustomer")
	defer scope.End()

	id, err := customerID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.UpdateCustomerRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "invalid request body")

		return
	}

	customer, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to update customer", "customer_id", id)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Customer updated successfully by user " + user)

	response.WithJSON(writer, http.StatusOK, customer)
}

// DeleteCustomer answers 204 when the customer was removed and 404 when it did not exist.
// @Summary Delete a customer
// @Description Remove a customer that no booking or room references.
// @Tags Customer
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Success 204 "Customer deleted"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/customers/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCustomer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCustomer")
	defer scope.End()

	id, err := customerID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	deleted, err := handler.service.Delete(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to delete customer", "customer_id", id)

		return
	}

	if !deleted {
		response.WithError(writer, service.NotFound(id))

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Customer deleted successfully by user " + user)

	response.WithNoContent(writer)
}

func customerID(request *http.Request) (int, error) {
	id, err := shared.ConvertStringToInt(chi.URLParam(request, constant.RequestParamID))
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString("customer id must be a positive integer")
	}

	return id, nil
}
