// Package mocks provides an Otel backed by a noop tracer for tests.
package mocks

import (
	"hotel/infras/otel"

	"go.opentelemetry.io/otel/trace/noop"
)

func NewOtel() otel.Otel {
	return otel.NewWithProvider(noop.NewTracerProvider())
}
