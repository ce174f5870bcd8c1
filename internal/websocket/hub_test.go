package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/isdelr/gymdiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestPublishReachesOwnerOnly(t *testing.T) {
	hub := startHub(t)
	owner := NewClient(hub, nil, "user-1")
	ownerTab := NewClient(hub, nil, "user-1")
	other := NewClient(hub, nil, "user-2")
	require.True(t, hub.Subscribe(owner))
	require.True(t, hub.Subscribe(ownerTab))
	require.True(t, hub.Subscribe(other))

	hub.PublishWorkout(models.Workout{ID: "w1", UserID: "user-1", WorkoutName: "Squat"})

	for _, c := range []*Client{owner, ownerTab} {
		msg := receive(t, c)
		assert.Equal(t, ActionWorkoutRecorded, msg.Action)
		payload, ok := msg.Payload.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Squat", payload["workoutName"])
	}

	select {
	case <-other.Send:
		t.Fatal("another user's client received the workout")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesSend(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "user-1")
	require.True(t, hub.Subscribe(c))

	hub.Unsubscribe(c)
	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	// A second unsubscribe is harmless.
	hub.Unsubscribe(c)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := NewClient(hub, nil, "user-1")
	other := NewClient(hub, nil, "user-2")
	require.True(t, hub.Subscribe(slow))
	require.True(t, hub.Subscribe(other))

	for i := 0; i < sendBuffer; i++ {
		slow.Send <- []byte("{}")
	}
	hub.PublishWorkout(models.Workout{ID: "w1", UserID: "user-1"})
	// Publishes are handled in order, so once user-2 sees its update the
	// slow client has been dealt with.
	hub.PublishWorkout(models.Workout{ID: "w2", UserID: "user-2"})
	receive(t, other)

	for i := 0; i < sendBuffer; i++ {
		<-slow.Send
	}
	_, ok := <-slow.Send
	assert.False(t, ok, "slow client should be disconnected")
}

func TestReplyReachesOnlyLiveClients(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "user-1")
	require.True(t, hub.Subscribe(c))

	c.Reply(NewPongMessage())
	assert.Equal(t, ActionPong, receive(t, c).Action)

	hub.Unsubscribe(c)
	_, ok := <-c.Send
	require.False(t, ok)

	// Replying after the hub closed Send must not panic.
	c.Reply(NewErrorMessage("late"))
	other := NewClient(hub, nil, "user-2")
	require.True(t, hub.Subscribe(other))
	other.Reply(NewPongMessage())
	assert.Equal(t, ActionPong, receive(t, other).Action)
}

func TestSubscribeAfterStop(t *testing.T) {
	hub := NewHub()
	hub.Stop()

	assert.False(t, hub.Subscribe(NewClient(hub, nil, "user-1")))
}

func TestErrorMessage(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal(NewErrorMessage("boom"), &msg))
	assert.Equal(t, ActionError, msg.Action)
	assert.Equal(t, map[string]interface{}{"error": "boom"}, msg.Payload)
}
