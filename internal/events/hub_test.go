package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_EmitReachesSubscribers(t *testing.T) {
	h := NewHub()
	a, b := h.Subscribe(), h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	h.Emit("req-1", TypeJobDeactivated, map[string]any{"id": 1001})

	for _, ch := range []chan string{a, b} {
		var e Event
		require.NoError(t, json.Unmarshal([]byte(<-ch), &e))
		assert.Equal(t, TypeJobDeactivated, e.Type)
		assert.Equal(t, 1, e.Version)
		assert.Equal(t, "req-1", e.RequestID)
		assert.JSONEq(t, `{"id":1001}`, string(e.Data))
	}

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	assert.Equal(t, 1, h.Subscribers())
	_, open := <-a
	assert.False(t, open)
}

func TestHub_SlowSubscriberDrops(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < subscriberBuffer+3; i++ {
		h.Publish("x")
	}
	assert.Len(t, ch, subscriberBuffer)
	assert.Equal(t, uint64(3), h.Dropped())
}

func TestMakeEvent_NoData(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(MakeEvent("", TypePing, 1, nil)), &e))
	assert.Equal(t, TypePing, e.Type)
	assert.Empty(t, e.Data)
	assert.False(t, e.At.IsZero())
}
