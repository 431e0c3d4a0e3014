package di

import (
	"errors"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/rabbitmq"
	bookingConsumer "hotel/internal/consumers/booking"
	"hotel/shared/constant"
	"hotel/shared/event"

	"github.com/rs/zerolog/log"
)

var ErrNoBroker = errors.New("no event broker configured, set EVENT_BROKER to kafka or rabbitmq")

// Broker is the event transport selected by EVENT_BROKER.
type Broker interface {
	event.Publisher
	event.Subscriber
	Close() error
}

// Worker is the booking reconciliation process.
type Worker struct {
	Consumer bookingConsumer.Consumer
	Broker   Broker
}

// NewBroker returns nil when no broker is configured.
func NewBroker(cfg *config.Config, otl otel.Otel) Broker {
	switch cfg.Event.Broker {
	case constant.EventBrokerKafka:
		return kafka.New(cfg, otl)
	case constant.EventBrokerRabbitMQ:
		return rabbitmq.New(cfg, otl)
	case constant.Empty:
		return nil
	default:
		log.Warn().Str("broker", cfg.Event.Broker).Msg("Unknown event broker, event publishing disabled")

		return nil
	}
}

func NewPublisher(broker Broker) event.Publisher {
	if broker == nil {
		return event.NewNoopPublisher()
	}

	return broker
}

func NewSubscriber(broker Broker) (event.Subscriber, error) {
	if broker == nil {
		return nil, ErrNoBroker
	}

	return broker, nil
}
