package booking

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/booking/service"
	"hotel/shared/constant"
	"hotel/shared/event"

	"github.com/rs/zerolog/log"
)

// Consumer runs the room reconciliation job for every booking event. Rooms a
// booking holds but that were left available after a failed mark are flipped here.
type Consumer struct {
	service    service.Booking
	subscriber event.Subscriber
	topic      string
	otel       otel.Otel
}

func New(service service.Booking, subscriber event.Subscriber, cfg *config.Config, otel otel.Otel) Consumer {
	return Consumer{
		service:    service,
		subscriber: subscriber,
		topic:      cfg.Event.BookingTopic,
		otel:       otel,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Str("topic", c.topic).Msg("Starting booking consumer.")

	if err := c.subscriber.Subscribe(ctx, c.topic, c.Handle); err != nil {
		return fmt.Errorf("booking consumer stopped: %w", err)
	}

	return nil
}

func (c *Consumer) Handle(ctx context.Context, evt event.Event) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".booking.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"event.id":   evt.ID,
		"event.type": string(evt.Type),
		"event.key":  evt.Key,
	})

	switch evt.Type {
	case event.BookingCreated, event.BookingUpdated:
	default:
		log.Debug().Str("type", string(evt.Type)).Msg("Ignoring event without a booking handler.")

		return nil
	}

	var payload event.BookingPayload
	if err = evt.Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode booking event %s: %w", evt.ID, err)
	}

	marked, err := c.service.ReconcileRooms(ctx, payload.BookingID)
	if err != nil {
		return fmt.Errorf("failed to reconcile rooms of booking %d: %w", payload.BookingID, err)
	}

	if marked > 0 {
		log.Warn().
			Int("booking_id", payload.BookingID).
			Int("rooms", marked).
			Msg("Marked rooms unavailable that the booking request left available.")
	}

	return nil
}
