package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"hotel/shared/event"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	defaultPrefetch = 50
	minBackoff      = time.Second
	maxBackoff      = 30 * time.Second
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

// ToPublishing encodes evt as a persistent JSON message.
func ToPublishing(evt event.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Type:         string(evt.Type),
		Timestamp:    evt.OccurredAt,
		Body:         body,
	}, nil
}

func FromDelivery(delivery amqp.Delivery) (event.Event, error) {
	var evt event.Event

	if err := json.Unmarshal(delivery.Body, &evt); err != nil {
		return event.Event{}, fmt.Errorf("failed to unmarshal delivery: %w", err)
	}

	return evt, nil
}

type Client interface {
	event.Publisher
	event.Subscriber
	Close() error
}

type rabbitClientImpl struct {
	url      string
	prefetch int
	otel     otel.Otel

	mu   sync.Mutex
	conn *amqp.Connection
}

// New returns a client that dials lazily and redials after the connection drops.
func New(config *config.Config, otl otel.Otel) Client {
	prefetch := config.RabbitMQ.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}

	return &rabbitClientImpl{
		url:      config.RabbitMQ.URL,
		prefetch: prefetch,
		otel:     otl,
	}
}

func (r *rabbitClientImpl) channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		conn, err := amqp.Dial(r.url)
		if err != nil {
			return nil, fmt.Errorf("failed to dial broker: %w", err)
		}

		r.conn = conn
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, nil
}

func declareQueue(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return nil
}

// Publish sends events to the durable queue named topic through the default exchange.
func (r *rabbitClientImpl) Publish(ctx context.Context, topic string, events ...event.Event) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".rabbitmq.Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("queue", topic)

	ch, err := r.channel()
	if err != nil {
		log.Error().Err(err).Str("queue", topic).Msg("rabbitmq: channel unavailable")

		return err
	}
	defer func() { _ = ch.Close() }()

	if err = declareQueue(ch, topic); err != nil {
		return err
	}

	for _, evt := range events {
		pub, err := ToPublishing(evt)
		if err != nil {
			return err
		}

		if err = ch.PublishWithContext(ctx, "", topic, false, false, pub); err != nil {
			log.Error().Err(err).Str("queue", topic).Msg("rabbitmq: publish failed")

			return fmt.Errorf("failed to publish event: %w", err)
		}
	}

	log.Info().Str("queue", topic).Int("count", len(events)).Msg("rabbitmq: published events")

	return nil
}

// Subscribe consumes topic until ctx is cancelled, reconnecting with exponential backoff.
func (r *rabbitClientImpl) Subscribe(ctx context.Context, topic string, handler event.Handler) error {
	backoff := minBackoff

	for {
		err := r.consume(ctx, topic, handler)
		if ctx.Err() != nil {
			log.Info().Str("queue", topic).Msg("rabbitmq: consumer context done")

			return nil
		}

		log.Error().Err(err).Str("queue", topic).Dur("retry_in", backoff).Msg("rabbitmq: consume loop ended, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (r *rabbitClientImpl) consume(ctx context.Context, topic string, handler event.Handler) error {
	ch, err := r.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err = ch.Qos(r.prefetch, 0, false); err != nil {
		log.Warn().Err(err).Msg("rabbitmq: set QoS failed")
	}

	if err = declareQueue(ch, topic); err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, topic, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}

			r.handle(ctx, delivery, handler)
		}
	}
}

// handle acks processed deliveries and rejects failed ones without requeue.
func (r *rabbitClientImpl) handle(ctx context.Context, delivery amqp.Delivery, handler event.Handler) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".rabbitmq.handle")
	defer scope.End()

	evt, err := FromDelivery(delivery)
	if err == nil {
		err = handler(ctx, evt)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("message_id", delivery.MessageId).Msg("rabbitmq: handle message failed")

		_ = delivery.Nack(false, false)

		return
	}

	_ = delivery.Ack(false)
}

func (r *rabbitClientImpl) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}

	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("failed to close rabbitmq connection: %w", err)
	}

	return nil
}
