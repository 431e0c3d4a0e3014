package customer_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/customer/model/dto"
	"hotel/internal/domains/customer/service"
	"hotel/internal/domains/customer/service/mocks"
	"hotel/internal/handlers/customer"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

func newRouter(t *testing.T) (*mocks.MockCustomer, http.Handler) {
	t.Helper()

	svc := mocks.NewMockCustomer(gomock.NewController(t))
	handler := customer.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))

	return recorder
}

func TestHandler_CreateCustomer(t *testing.T) {
	const validBody = `{"full_name":"Jane Doe","address":"12 Harbour Rd","age":30,"contact_number":"9876543210"}`

	tests := []struct {
		name     string
		body     string
		setup    func(svc *mocks.MockCustomer)
		wantCode int
	}{
		{
			name: "created",
			body: validBody,
			setup: func(svc *mocks.MockCustomer) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.CustomerResponse{ID: 1, FullName: "Jane Doe"}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "age zero is allowed",
			body: strings.Replace(validBody, `"age":30`, `"age":0`, 1),
			setup: func(svc *mocks.MockCustomer) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.CustomerResponse{ID: 2}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing age",
			body:     strings.Replace(validBody, `"age":30,`, ``, 1),
			setup:    func(*mocks.MockCustomer) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "short contact number",
			body:     strings.Replace(validBody, "9876543210", "98765", 1),
			setup:    func(*mocks.MockCustomer) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "contact number with letters",
			body:     strings.Replace(validBody, "9876543210", "98765abcde", 1),
			setup:    func(*mocks.MockCustomer) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "contact number taken",
			body: validBody,
			setup: func(svc *mocks.MockCustomer) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.CustomerResponse{}, failure.Conflict("contact number already registered"))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setup(svc)

			assert.Equal(t, tt.wantCode, serve(router, http.MethodPost, "/customers/", tt.body).Code)
		})
	}
}

func TestHandler_GetCustomers(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCustomersResponse, error) {
			where, args := filter.GetWhereClause()

			assert.Contains(t, where, "LOWER(customers.full_name) LIKE LOWER(:full_name)")
			assert.Contains(t, where, "customers.contact_number = :contact_number")
			assert.Equal(t, "%jane%", args["full_name"])
			assert.Equal(t, "9876543210", args["contact_number"])

			return dto.GetCustomersResponse{}, nil
		})

	recorder := serve(router, http.MethodGet, "/customers/?full_name=jane&contact_number=9876543210", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandler_GetCustomerByID(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), 7).Return(dto.CustomerResponse{}, service.NotFound(7))

	recorder := serve(router, http.MethodGet, "/customers/7", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Customer details not found with id: 7")
	assert.Contains(t, recorder.Body.String(), failure.KindResourceNotFound)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/customers/0", "").Code)
}

func TestHandler_UpdateCustomer(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Update(gomock.Any(), gomock.Any(), 3).
		DoAndReturn(func(_ any, req dto.UpdateCustomerRequest, _ int) (dto.CustomerResponse, error) {
			assert.Nil(t, req.FullName)
			assert.Equal(t, "12 Harbour Rd", *req.Address)

			return dto.CustomerResponse{ID: 3, Address: "12 Harbour Rd"}, nil
		})

	recorder := serve(router, http.MethodPatch, "/customers/3", `{"address":"12 Harbour Rd"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandler_DeleteCustomer(t *testing.T) {
	tests := []struct {
		name     string
		deleted  bool
		err      error
		wantCode int
	}{
		{name: "deleted", deleted: true, wantCode: http.StatusNoContent},
		{name: "absent", wantCode: http.StatusNotFound},
		{name: "still booked", err: failure.Conflict("customer is referenced by a booking"), wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			svc.EXPECT().Delete(gomock.Any(), 4).Return(tt.deleted, tt.err)

			assert.Equal(t, tt.wantCode, serve(router, http.MethodDelete, "/customers/4", "").Code)
		})
	}
}
