package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"hotel/shared/event"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	headerEventType = "event-type"
	writeTimeout    = 10 * time.Second
)

// ToKafkaMessage encodes evt for topic, keyed by the event key.
func ToKafkaMessage(topic string, evt event.Event) (kafkaGo.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal event to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	return kafkaGo.Message{
		Topic: topic,
		Key:   []byte(evt.Key),
		Value: value,
		Headers: []kafkaGo.Header{
			{Key: headerEventType, Value: []byte(evt.Type)},
		},
	}, nil
}

func DecodeKafkaMessage(msg kafkaGo.Message) (event.Event, error) {
	var evt event.Event

	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		log.Error().Err(err).Str("topic", msg.Topic).Msg("Failed to unmarshal Kafka message value from JSON")

		return event.Event{}, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	return evt, nil
}

type Client interface {
	event.Publisher
	event.Subscriber
	Close() error
}

type kafkaClientImpl struct {
	config *config.Config
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
	otel   otel.Otel
}

func New(config *config.Config, otl otel.Otel) Client {
	var mechanism plain.Mechanism
	if config.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	dialer := &kafkaGo.Dialer{
		DualStack: true,
		Timeout:   writeTimeout,
	}

	transport := &kafkaGo.Transport{}

	if mechanism.Username != "" {
		dialer.SASLMechanism = mechanism
		transport.SASL = mechanism
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Balancer:               &kafkaGo.Hash{},
		Transport:              transport,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafkaGo.RequireOne,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config: config,
		dialer: dialer,
		writer: writer,
		otel:   otl,
	}
}

func (k *kafkaClientImpl) reader(topic string) *kafkaGo.Reader {
	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     k.config.Kafka.ConsumerGroup,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})
}

func (k *kafkaClientImpl) Publish(ctx context.Context, topic string, events ...event.Event) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".kafka.Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("topic", topic)

	msgs := make([]kafkaGo.Message, 0, len(events))

	for _, evt := range events {
		msg, err := ToKafkaMessage(topic, evt)
		if err != nil {
			return err
		}

		msgs = append(msgs, msg)
	}

	if err = k.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Info().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

// Subscribe reads topic with the configured consumer group. Offsets are committed
// after the handler returns, also when it fails, so a poisoned message is not redelivered.
func (k *kafkaClientImpl) Subscribe(ctx context.Context, topic string, handler event.Handler) error {
	if topic == "" {
		return errors.New("topic name cannot be empty when creating Kafka reader")
	}

	reader := k.reader(topic)
	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("Consumer context done.")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")

			continue
		}

		k.handle(ctx, msg, handler)

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("Failed to commit Kafka message.")
		}
	}
}

func (k *kafkaClientImpl) handle(ctx context.Context, msg kafkaGo.Message, handler event.Handler) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".kafka.handle")
	defer scope.End()

	log.Info().Str("topic", msg.Topic).Str("key", string(msg.Key)).Msg("Received message from Kafka.")

	evt, err := DecodeKafkaMessage(msg)
	if err != nil {
		scope.TraceError(err)

		return
	}

	if err = handler(ctx, evt); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event_id", evt.ID).Str("type", string(evt.Type)).Msg("Failed to handle Kafka message.")
	}
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}
