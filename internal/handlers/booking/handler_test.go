package booking_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service/mocks"
	"hotel/internal/handlers/booking"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

func newRouter(t *testing.T) (*mocks.MockBooking, http.Handler) {
	t.Helper()

	svc := mocks.NewMockBooking(gomock.NewController(t))
	handler := booking.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	return recorder
}

func TestHandler_CreateBooking(t *testing.T) {
	const validBody = `{"duration":2,"start_date":"2024-05-01","end_date":"2024-05-03",` +
		`"mode_of_booking":"Online","mode_of_payment":"Cash","customer_id_list":[1,2],"room_number_list":[101],"paid_amount":0}`

	tests := []struct {
		name     string
		body     string
		setup    func(svc *mocks.MockBooking)
		wantCode int
		wantKind string
	}{
		{
			name: "created",
			body: validBody,
			setup: func(svc *mocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.BookingResponse{ID: 9, BillAmount: 2000}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate room numbers",
			body:     strings.Replace(validBody, "[101]", "[101,101]", 1),
			setup:    func(*mocks.MockBooking) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown mode of payment",
			body:     strings.Replace(validBody, `"Cash"`, `"Cheque"`, 1),
			setup:    func(*mocks.MockBooking) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty customer list",
			body:     strings.Replace(validBody, "[1,2]", "[]", 1),
			setup:    func(*mocks.MockBooking) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "rooms not available",
			body: validBody,
			setup: func(svc *mocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.RoomNotAvailable)
			},
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindRoomNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setup(svc)

			recorder := serve(router, http.MethodPost, "/bookings", tt.body)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantKind != "" {
				var body struct {
					Kind string `json:"kind"`
				}

				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.wantKind, body.Kind)
			}
		})
	}
}

func TestHandler_GetBookings_Filters(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
			where, _ := filter.GetWhereClause()
			assert.Contains(t, where, "booking_rooms WHERE room_number = 101")
			assert.Contains(t, where, "booking_customers WHERE customer_id = 4")

			return dto.GetBookingsResponse{}, nil
		})

	recorder := serve(router, http.MethodGet, "/bookings?room_number=101&customer_id=4", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, http.MethodGet, "/bookings?room_number=abc", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_DeleteBooking(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		setup    func(svc *mocks.MockBooking)
		wantCode int
	}{
		{
			name:   "deleted",
			target: "/bookings/5",
			setup: func(svc *mocks.MockBooking) {
				svc.EXPECT().Delete(gomock.Any(), 5).Return(true, nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name:   "missing",
			target: "/bookings/5",
			setup: func(svc *mocks.MockBooking) {
				svc.EXPECT().Delete(gomock.Any(), 5).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "invalid id",
			target:   "/bookings/abc",
			setup:    func(*mocks.MockBooking) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "storage failure",
			target: "/bookings/5",
			setup: func(svc *mocks.MockBooking) {
				svc.EXPECT().Delete(gomock.Any(), 5).Return(false, errors.New("timeout"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setup(svc)

			recorder := serve(router, http.MethodDelete, tt.target, "")

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}
