package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedRoom struct {
	RoomNumber int    `json:"room_number"`
	Type       string `json:"type"`
}

func TestEncodeDecode(t *testing.T) {
	payload, err := encode(cachedRoom{RoomNumber: 101, Type: "Deluxe"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"room_number":101,"type":"Deluxe"}`, string(payload))

	var room cachedRoom
	require.NoError(t, decode(string(payload), &room))
	assert.Equal(t, cachedRoom{RoomNumber: 101, Type: "Deluxe"}, room)

	raw, err := encode("3")
	require.NoError(t, err)
	assert.Equal(t, "3", string(raw), "strings are stored without quoting")

	var count string
	require.NoError(t, decode("3", &count))
	assert.Equal(t, "3", count)

	assert.Error(t, decode("{", &room))

	_, err = encode(make(chan int))
	assert.Error(t, err)
}

func TestIsMiss(t *testing.T) {
	assert.True(t, IsMiss(Nil))
	assert.True(t, IsMiss(fmt.Errorf("failed to get cache value: %w", Nil)))
	assert.False(t, IsMiss(fmt.Errorf("connection refused")))
	assert.False(t, IsMiss(nil))
}
