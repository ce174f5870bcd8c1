package store

import (
	"context"
	"errors"

	"github.com/isdelr/gymdiary/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email is already registered")
	// ErrWorkoutUnlinked means the workout was stored but could not be
	// appended to its owner's collection. The reconciler repairs it later.
	ErrWorkoutUnlinked = errors.New("workout stored but not linked to its owner")
)

// UserStore persists user accounts. Email uniqueness is enforced here.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// WorkoutStore persists diary workouts and their owner links.
type WorkoutStore interface {
	// RecordWorkout stores the workout and appends it to its owner's
	// collection.
	RecordWorkout(ctx context.Context, workout *models.Workout) error
	// AppendWorkout links workoutID to userID. Repeating it is a no-op.
	AppendWorkout(ctx context.Context, userID, workoutID string) error
	// WorkoutsForUser returns the workouts in the user's collection, in
	// collection order.
	WorkoutsForUser(ctx context.Context, userID string) ([]models.Workout, error)
	AllWorkouts(ctx context.Context) ([]models.OwnedWorkout, error)
	// UnlinkedWorkouts returns workouts missing from their owner's collection.
	UnlinkedWorkouts(ctx context.Context) ([]models.Workout, error)
}

// CatalogStore serves the read-only workout category catalog.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]models.WorkoutCategory, error)
	GetCategory(ctx context.Context, name string) (models.WorkoutCategory, error)
	ReplaceCategories(ctx context.Context, categories []models.WorkoutCategory) error
}

// EventStore records audit events.
type EventStore interface {
	RecordEvent(ctx context.Context, event models.Event) error
	RecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// Store is the full document store adapter.
type Store interface {
	UserStore
	WorkoutStore
	CatalogStore
	EventStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
