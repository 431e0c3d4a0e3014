// Package event defines the domain events the service emits and the broker
// independent ports used to publish and consume them.
package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hotel/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Type string

const (
	BookingCreated Type = "booking.created"
	BookingUpdated Type = "booking.updated"
)

var ErrEmptyPayload = errors.New("event payload is empty")

// Event is the envelope written to the broker. Key orders events of one aggregate.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// BookingPayload is carried by BookingCreated and BookingUpdated.
type BookingPayload struct {
	BookingID   int   `json:"booking_id"`
	RoomNumbers []int `json:"room_number_list"`
	CustomerIDs []int `json:"customer_id_list"`
}

type Handler func(ctx context.Context, evt Event) error

type Publisher interface {
	Publish(ctx context.Context, topic string, events ...Event) error
}

// Subscriber delivers events of topic to handler until ctx is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
}

func New(typ Type, key string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}

	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Key:        key,
		OccurredAt: timezone.Now(),
		Payload:    body,
	}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return ErrEmptyPayload
	}

	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}

	return nil
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(_ context.Context, topic string, events ...Event) error {
	log.Debug().Str("topic", topic).Int("count", len(events)).Msg("event publishing disabled, dropping events")

	return nil
}
