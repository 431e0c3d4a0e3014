package staff

import (
	"hotel/infras/otel"
	"hotel/internal/domains/staff/model"
	"hotel/internal/domains/staff/model/dto"
	"hotel/internal/domains/staff/service"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var sortableColumns = []string{model.FieldEmail, model.FieldFullName, model.FieldRole}

type Handler struct {
	service service.Staff
	otel    otel.Otel
}

func New(service service.Staff, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/staff", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetStaff)
		routerGroup.Get("/me", handler.GetProfile)
		routerGroup.Get("/{id}", handler.GetStaffByID)
		routerGroup.Patch("/{id}", handler.UpdateStaff)
		routerGroup.Delete("/{id}", handler.DeleteStaff)
	})
}

// GetStaff lists staff accounts, optionally filtered by role.
// @Summary List staff
// @Description Page through staff accounts, optionally by role.
// @Tags Staff
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination and sorting"
// @Param role query string false "manager or receptionist"
// @Success 200 {object} response.Data{data=dto.GetStaffResponse}
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff [get]
// @Security BearerAuth
func (handler *Handler) GetStaff(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStaff")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldEmail, sortableColumns...)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if role := request.URL.Query().Get(model.FieldRole); role != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    role,
			Table:    model.TableName,
		})
	}

	staff, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get staff")

		return
	}

	response.WithJSON(writer, http.StatusOK, staff)
}

// GetProfile returns the account behind the bearer token.
// @Summary Get own profile
// @Description The staff account behind the bearer token.
// @Tags Staff
// @Accept json
// @Produce json
// @Success 200 {object} response.Data{data=dto.StaffResponse}
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/me [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProfile")
	defer scope.End()

	id, _ := ctx.Value(constant.ContextKeyUserID).(string)

	staff, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get profile", "staff_id", id)

		return
	}

	response.WithJSON(writer, http.StatusOK, staff)
}

// @Summary Get a staff member
// @Description Retrieve a staff account by id.
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Data{data=dto.StaffResponse}
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetStaffByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStaffByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	staff, err := handler.service.Get(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to get staff member", "staff_id", id)

		return
	}

	response.WithJSON(writer, http.StatusOK, staff)
}

// @Summary Update a staff member
// @Description Change name, role or active flag. Nobody can demote or deactivate themselves.
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param request body dto.UpdateStaffRequest true "Fields to change"
// @Success 200 {object} response.Data{data=dto.StaffResponse}
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStaff(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStaff")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.UpdateStaffRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "invalid request body")

		return
	}

	staff, err := handler.service.Update(ctx, req, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to update staff member", "staff_id", id)

		return
	}

	response.WithJSON(writer, http.StatusOK, staff)
}

// @Summary Delete a staff member
// @Description Remove a staff account other than your own.
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Success 204 "Staff member deleted"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteStaff(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteStaff")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	deleted, err := handler.service.Delete(ctx, id)
	if err != nil {
		response.Fail(writer, scope, err, "failed to delete staff member", "staff_id", id)

		return
	}

	if !deleted {
		response.WithError(writer, service.NotFound(id))

		return
	}

	response.WithNoContent(writer)
}
