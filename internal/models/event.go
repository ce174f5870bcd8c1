package models

import "time"

// Event represents an auditable action, such as a login attempt.
type Event struct {
	ID        string    `json:"id" bson:"_id"`
	Type      string    `json:"type" bson:"type"`   // e.g., "auth.login.fail", "diary.reconcile"
	Level     string    `json:"level" bson:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message" bson:"message"`
	UserID    *string   `json:"userId,omitempty" bson:"userId,omitempty"` // Nullable for anonymous events
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
