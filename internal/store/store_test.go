package store

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func newMongo(t *testing.T) Store {
	t.Helper()
	url := os.Getenv("MONGODB_TEST_URL")
	if url == "" {
		t.Skip("MONGODB_TEST_URL not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoOptions{
		URL:            url,
		Database:       "gymdiary_test_" + uuid.NewString()[:8],
		ConnectTimeout: 5 * time.Second,
		RetryAttempts:  1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		s.db.Drop(ctx)
		s.Close(ctx)
	})
	return s
}

func TestSQLiteStore(t *testing.T) { runStoreContract(t, newSQLite) }

func TestMongoStore(t *testing.T) { runStoreContract(t, newMongo) }

func newUser(email string) *models.User {
	return &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "$2a$10$hash",
		FirstName:    "Test",
		LastName:     "User",
	}
}

func newWorkout(userID, name string, date time.Time) *models.Workout {
	return &models.Workout{
		ID:          uuid.New().String(),
		UserID:      userID,
		Category:    "Chest",
		WorkoutName: name,
		Sets:        3,
		Reps:        10,
		Weight:      62.5,
		Date:        date,
		CreatedAt:   date,
	}
}

func runStoreContract(t *testing.T, open func(t *testing.T) Store) {
	t.Run("users", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		u := newUser("a@b.com")
		require.NoError(t, s.CreateUser(ctx, u))

		got, err := s.GetUserByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "$2a$10$hash", got.PasswordHash)
		assert.Empty(t, got.WorkoutIDs)

		got, err = s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", got.Email)

		exists, err := s.EmailExists(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.EmailExists(ctx, "nobody@b.com")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = s.GetUserByEmail(ctx, "nobody@b.com")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetUserByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		require.NoError(t, s.CreateUser(ctx, newUser("dup@b.com")))
		assert.ErrorIs(t, s.CreateUser(ctx, newUser("dup@b.com")), ErrDuplicateEmail)
	})

	t.Run("concurrent duplicate inserts", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		const n = 8
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = s.CreateUser(ctx, newUser("race@b.com"))
			}()
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrDuplicateEmail)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("workouts", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		owner := newUser("owner@b.com")
		other := newUser("other@b.com")
		require.NoError(t, s.CreateUser(ctx, owner))
		require.NoError(t, s.CreateUser(ctx, other))

		day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		w1 := newWorkout(owner.ID, "Bench Press", day)
		w2 := newWorkout(owner.ID, "Chest Fly", day.Add(time.Hour))
		w3 := newWorkout(other.ID, "Squat", day)
		require.NoError(t, s.RecordWorkout(ctx, w1))
		require.NoError(t, s.RecordWorkout(ctx, w2))
		require.NoError(t, s.RecordWorkout(ctx, w3))

		got, err := s.WorkoutsForUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Bench Press", got[0].WorkoutName)
		assert.Equal(t, "Chest Fly", got[1].WorkoutName)
		assert.Equal(t, 62.5, got[0].Weight)
		assert.True(t, day.Equal(got[0].Date))

		u, err := s.GetUserByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{w1.ID, w2.ID}, u.WorkoutIDs)

		// Appending twice is a no-op.
		require.NoError(t, s.AppendWorkout(ctx, owner.ID, w1.ID))
		u, err = s.GetUserByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{w1.ID, w2.ID}, u.WorkoutIDs)

		// Another user's workout can never join this collection.
		assert.Error(t, s.AppendWorkout(ctx, owner.ID, w3.ID))

		all, err := s.AllWorkouts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		emails := map[string]string{}
		for _, w := range all {
			emails[w.ID] = w.OwnerEmail
		}
		assert.Equal(t, "other@b.com", emails[w3.ID])
		assert.Equal(t, "owner@b.com", emails[w1.ID])

		unlinked, err := s.UnlinkedWorkouts(ctx)
		require.NoError(t, err)
		assert.Empty(t, unlinked)
	})

	t.Run("catalog", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		require.NoError(t, SeedCatalog(ctx, s))
		require.NoError(t, SeedCatalog(ctx, s))

		categories, err := s.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 4)
		assert.Equal(t, "Chest", categories[0].Category)
		assert.Equal(t, []string{"Bench Press", "Chest Fly"}, categories[0].Exercises)

		legs, err := s.GetCategory(ctx, "legs")
		require.NoError(t, err)
		assert.Equal(t, "Legs", legs.Category)
		assert.Equal(t, []string{"Squat", "Lunges"}, legs.Exercises)

		_, err = s.GetCategory(ctx, "Cardio")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("events", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		uid := "user-1"
		base := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, s.RecordEvent(ctx, models.Event{ID: uuid.NewString(), Type: "auth.login.fail", Level: "warn", Message: "first", CreatedAt: base}))
		require.NoError(t, s.RecordEvent(ctx, models.Event{ID: uuid.NewString(), Type: "auth.login.success", Level: "info", Message: "second", UserID: &uid, CreatedAt: base.Add(time.Second)}))

		events, err := s.RecentEvents(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "second", events[0].Message)
		require.NotNil(t, events[0].UserID)
		assert.Equal(t, uid, *events[0].UserID)
		assert.Nil(t, events[1].UserID)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, open(t).Ping(context.Background()))
	})
}

func TestSQLiteUnlinkedWorkouts(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close(ctx)

	u := newUser("a@b.com")
	require.NoError(t, s.CreateUser(ctx, u))

	w := newWorkout(u.ID, "Deadlift", time.Now().UTC())
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO workouts(id, user_id, category, workout_name, sets, reps, weight, date, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		w.ID, w.UserID, w.Category, w.WorkoutName, w.Sets, w.Reps, w.Weight, formatTime(w.Date), formatTime(w.CreatedAt))
	require.NoError(t, err)

	unlinked, err := s.UnlinkedWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, w.ID, unlinked[0].ID)

	require.NoError(t, s.AppendWorkout(ctx, u.ID, w.ID))
	unlinked, err = s.UnlinkedWorkouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, unlinked)

	assert.ErrorIs(t, s.AppendWorkout(ctx, u.ID, "missing"), ErrNotFound)
}
