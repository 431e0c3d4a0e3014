package otel_test

import (
	"context"
	"errors"
	"hotel/infras/otel"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, scope := otel.NewWithProvider(provider).NewScope(context.Background(), "service", "service.booking.Create")
	scope.SetAttributes(map[string]any{
		"booking.id":   7,
		"room_numbers": []int{101, 102},
		"paid":         true,
		"ratio":        0.5,
		"customer":     struct{ ID int }{ID: 3},
	})
	scope.AddEvent("rooms.marked")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("room not available"))
	scope.End()

	spans := recorder.Ended()
	assert.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "service.booking.Create", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "room not available", span.Status().Description)
	assert.Len(t, span.Events(), 2, "the added event and the recorded error")

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, int64(7), attrs["booking.id"].AsInt64())
	assert.Equal(t, []int64{101, 102}, attrs["room_numbers"].AsInt64Slice())
	assert.True(t, attrs["paid"].AsBool())
	assert.Equal(t, 0.5, attrs["ratio"].AsFloat64())
	assert.Equal(t, "{3}", attrs["customer"].AsString())
}
