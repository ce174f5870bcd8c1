package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/gymdiary/internal/apperr"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/isdelr/gymdiary/internal/sanitize"
	"github.com/isdelr/gymdiary/internal/store"
	"github.com/rs/zerolog/log"
)

// WorkoutInput is a diary entry as submitted by the diary form.
type WorkoutInput struct {
	Category    string  `validate:"required,max=50"`
	WorkoutName string  `validate:"required,max=100"`
	Sets        int     `validate:"gte=0,lte=100"`
	Reps        int     `validate:"gte=0,lte=1000"`
	Weight      float64 `validate:"gte=0,lte=1000"`
}

var workoutMessages = map[string]string{
	"Category.max":    "Category name is too long",
	"WorkoutName.max": "Workout name is too long",
	"Sets.gte":        "Sets must be zero or more",
	"Sets.lte":        "Sets must be at most 100",
	"Reps.gte":        "Reps must be zero or more",
	"Reps.lte":        "Reps must be at most 1000",
	"Weight.gte":      "Weight must be zero or more",
	"Weight.lte":      "Weight must be at most 1000 kg",
}

// WorkoutPublisher receives every recorded workout, e.g. to push it to the
// owner's open dashboards.
type WorkoutPublisher interface {
	PublishWorkout(workout models.Workout)
}

// WorkoutServiceProvider defines the interface for diary services.
type WorkoutServiceProvider interface {
	Record(ctx context.Context, userID string, in WorkoutInput) (models.Workout, error)
	ForDate(ctx context.Context, userID, date string) ([]models.Workout, error)
	All(ctx context.Context, role string) ([]models.OwnedWorkout, error)
	Reconcile(ctx context.Context) (int, error)
}

// WorkoutService records diary entries and answers diary queries.
type WorkoutService struct {
	store     store.Store
	publisher WorkoutPublisher
	events    EventServiceProvider
	now       func() time.Time
}

// NewWorkoutService creates a new WorkoutService. publisher may be nil.
func NewWorkoutService(s store.Store, publisher WorkoutPublisher, events EventServiceProvider) *WorkoutService {
	return &WorkoutService{store: s, publisher: publisher, events: events, now: time.Now}
}

// Record creates a workout owned by userID and appends it to the user's
// collection. The category must exist in the catalog.
func (s *WorkoutService) Record(ctx context.Context, userID string, in WorkoutInput) (models.Workout, error) {
	sanitize.Fields(&in.Category, &in.WorkoutName)
	if err := validate.Struct(in); err != nil {
		return models.Workout{}, validationError(err, "Category and workout name are required", workoutMessages)
	}

	category, err := s.store.GetCategory(ctx, in.Category)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Workout{}, apperr.Validation("Unknown workout category")
		}
		return models.Workout{}, apperr.Store("Could not save your workout, please try again", err)
	}

	now := s.now().UTC()
	workout := models.Workout{
		ID:          uuid.New().String(),
		UserID:      userID,
		Category:    category.Category,
		WorkoutName: in.WorkoutName,
		Sets:        in.Sets,
		Reps:        in.Reps,
		Weight:      in.Weight,
		Date:        now,
		CreatedAt:   now,
	}

	if err := s.store.RecordWorkout(ctx, &workout); err != nil {
		if !errors.Is(err, store.ErrWorkoutUnlinked) {
			return models.Workout{}, apperr.Store("Could not save your workout, please try again", err)
		}
		log.Warn().Err(err).Str("user_id", userID).Str("workout_id", workout.ID).Msg("Workout stored but not linked, leaving it to the reconciler")
	}

	if s.publisher != nil {
		s.publisher.PublishWorkout(workout)
	}
	return workout, nil
}

// ForDate returns the user's workouts whose UTC day equals date (YYYY-MM-DD).
// The whole collection is loaded and filtered in memory.
func (s *WorkoutService) ForDate(ctx context.Context, userID, date string) ([]models.Workout, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, apperr.Validation("Date must be in YYYY-MM-DD format")
	}
	want := day.Format(models.DateLayout)

	all, err := s.store.WorkoutsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Store("Failed to fetch workouts", err)
	}

	workouts := []models.Workout{}
	for _, w := range all {
		if w.Day() == want {
			workouts = append(workouts, w)
		}
	}
	return workouts, nil
}

// All lists every user's workouts. Only trainers may see them.
func (s *WorkoutService) All(ctx context.Context, role string) ([]models.OwnedWorkout, error) {
	if role != models.RoleTrainer {
		return nil, apperr.NotAuthorized("Access denied")
	}
	workouts, err := s.store.AllWorkouts(ctx)
	if err != nil {
		return nil, apperr.Store("Failed to fetch workouts", err)
	}
	return workouts, nil
}

// Reconcile links every stored workout that is missing from its owner's
// collection and returns how many were repaired.
func (s *WorkoutService) Reconcile(ctx context.Context) (int, error) {
	unlinked, err := s.store.UnlinkedWorkouts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unlinked workouts: %w", err)
	}

	repaired := 0
	for _, w := range unlinked {
		if err := s.store.AppendWorkout(ctx, w.UserID, w.ID); err != nil {
			log.Error().Err(err).Str("workout_id", w.ID).Str("user_id", w.UserID).Msg("Failed to link workout to its owner")
			continue
		}
		repaired++
		userID := w.UserID
		recordEvent(ctx, s.events, EventDiaryReconcile, "warn", fmt.Sprintf("Linked workout %s to its owner", w.ID), &userID)
	}
	return repaired, nil
}
