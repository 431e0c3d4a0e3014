package middleware_test

import (
	"hotel/config"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

func TestAPIKey_CarriesSpanDownstream(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantCode int
		source   string
	}{
		{name: "client call", wantCode: http.StatusOK, source: "client"},
		{name: "internal call", key: apiKey, wantCode: http.StatusOK, source: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			cfg := &config.Config{}
			cfg.App.APIKey = apiKey

			mw := middleware.NewAuthRoleMiddleware(
				jwtMocks.NewMockJWT(gomock.NewController(t)), otel.NewWithProvider(provider), permissions.Get(), cfg,
			)

			var downstream oteltrace.SpanContext

			router := chi.NewRouter()
			router.With(mw.APIKey).Get("/v1/rooms", func(w http.ResponseWriter, r *http.Request) {
				downstream = oteltrace.SpanContextFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			request := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
			if tt.key != "" {
				request.Header.Set(constant.RequestHeaderAPIKey, tt.key)
			}

			response := httptest.NewRecorder()
			router.ServeHTTP(response, request)

			require.Equal(t, tt.wantCode, response.Code)

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, "api_key.middleware", spans[0].Name())
			assert.Equal(t, spans[0].SpanContext().SpanID(), downstream.SpanID())

			var source string
			for _, attr := range spans[0].Attributes() {
				if attr.Key == "http.source" {
					source = attr.Value.AsString()
				}
			}

			assert.Equal(t, tt.source, source)
		})
	}
}
