package websocket

import (
	"encoding/json"

	"github.com/isdelr/gymdiary/internal/models"
	"github.com/rs/zerolog/log"
)

// Actions pushed to diary feed clients.
const (
	ActionWorkoutRecorded = "workout_recorded"
	ActionError           = "error"
	ActionPong            = "pong"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewWorkoutMessage encodes a freshly recorded workout.
func NewWorkoutMessage(workout models.Workout) []byte {
	return encode(Message{Action: ActionWorkoutRecorded, Payload: workout})
}

// NewErrorMessage encodes an error for a single client.
func NewErrorMessage(msg string) []byte {
	return encode(Message{Action: ActionError, Payload: map[string]string{"error": msg}})
}

// NewPongMessage answers a client ping.
func NewPongMessage() []byte {
	return encode(Message{Action: ActionPong})
}

func encode(msg Message) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("action", msg.Action).Msg("Failed to encode websocket message")
		return nil
	}
	return data
}
