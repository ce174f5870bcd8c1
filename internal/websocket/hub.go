package websocket

import (
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/rs/zerolog/log"
)

const publishBuffer = 256

type delivery struct {
	userID  string
	message []byte
}

type reply struct {
	client  *Client
	message []byte
}

// Hub maintains the set of active clients and pushes diary updates to the
// clients of the workout's owner. All map access happens in Run.
type Hub struct {
	// Registered clients, grouped by the user they follow.
	subscriptions map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	publish chan delivery
	replies chan reply
	done    chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		publish:       make(chan delivery, publishBuffer),
		replies:       make(chan reply, publishBuffer),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.subscriptions[client.UserID] == nil {
				h.subscriptions[client.UserID] = make(map[*Client]bool)
			}
			h.subscriptions[client.UserID][client] = true
			log.Info().Str("user_id", client.UserID).Int("total_clients", h.count()).Msg("Client connected")
		case client := <-h.unregister:
			if h.remove(client) {
				log.Info().Str("user_id", client.UserID).Int("total_clients", h.count()).Msg("Client disconnected")
			}
		case d := <-h.publish:
			for client := range h.subscriptions[d.userID] {
				select {
				case client.Send <- d.message:
				default:
					// Slow consumer; drop it rather than block the hub.
					h.remove(client)
				}
			}
		case rp := <-h.replies:
			// The client may have been dropped since the reply was queued.
			if h.subscriptions[rp.client.UserID][rp.client] {
				select {
				case rp.client.Send <- rp.message:
				default:
					h.remove(rp.client)
				}
			}
		case <-h.done:
			for _, subs := range h.subscriptions {
				for client := range subs {
					h.remove(client)
				}
			}
			return
		}
	}
}

// Stop ends Run and closes every client's Send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Subscribe registers client with the hub. It reports false once the hub
// has stopped.
func (h *Hub) Subscribe(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unsubscribe removes client and closes its Send channel.
func (h *Hub) Unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Reply queues message for a single client. Only Run writes to Send, so a
// reply to a client the hub has already dropped is discarded.
func (h *Hub) Reply(client *Client, message []byte) {
	if message == nil {
		return
	}
	select {
	case h.replies <- reply{client: client, message: message}:
	case <-h.done:
	default:
		log.Warn().Str("user_id", client.UserID).Msg("Reply queue full, dropping message")
	}
}

// PublishWorkout queues workout for the owner's connected clients. It never
// blocks the caller; when the queue is full the update is dropped.
func (h *Hub) PublishWorkout(workout models.Workout) {
	message := NewWorkoutMessage(workout)
	if message == nil {
		return
	}
	select {
	case h.publish <- delivery{userID: workout.UserID, message: message}:
	default:
		log.Warn().Str("user_id", workout.UserID).Str("workout_id", workout.ID).Msg("Diary feed queue full, dropping update")
	}
}

func (h *Hub) remove(client *Client) bool {
	subs, ok := h.subscriptions[client.UserID]
	if !ok || !subs[client] {
		return false
	}
	delete(subs, client)
	close(client.Send)
	if len(subs) == 0 {
		delete(h.subscriptions, client.UserID)
	}
	return true
}

func (h *Hub) count() int {
	n := 0
	for _, subs := range h.subscriptions {
		n += len(subs)
	}
	return n
}
