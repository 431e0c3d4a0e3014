package kafka_test

import (
	"hotel/infras/kafka"
	"hotel/shared/event"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	evt, err := event.New(event.BookingCreated, "12", event.BookingPayload{BookingID: 12, RoomNumbers: []int{201}})
	require.NoError(t, err)

	msg, err := kafka.ToKafkaMessage("hotel.booking", evt)
	require.NoError(t, err)

	assert.Equal(t, "hotel.booking", msg.Topic)
	assert.Equal(t, []byte("12"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, []byte(event.BookingCreated), msg.Headers[0].Value)

	decoded, err := kafka.DecodeKafkaMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, decoded.ID)
	assert.Equal(t, evt.Type, decoded.Type)

	var payload event.BookingPayload
	require.NoError(t, decoded.Decode(&payload))
	assert.Equal(t, []int{201}, payload.RoomNumbers)
}

func TestDecodeKafkaMessage_Invalid(t *testing.T) {
	_, err := kafka.DecodeKafkaMessage(kafkaGo.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
