package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/gymdiary/internal/database"
	"github.com/isdelr/gymdiary/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens path, applies migrations and returns the store.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser inserts a new user. A taken email yields ErrDuplicateEmail.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users(id, email, password_hash, firstname, lastname, role, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role,
		formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// scanUser is a helper to scan a user from a row.
func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var createdAt, updatedAt string
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Role, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	user.CreatedAt = parseTime(createdAt)
	user.UpdatedAt = parseTime(updatedAt)
	return user, nil
}

func (s *SQLiteStore) loadWorkoutIDs(ctx context.Context, user *models.User) error {
	rows, err := s.db.QueryContext(ctx, "SELECT workout_id FROM user_workouts WHERE user_id = ? ORDER BY rowid", user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	user.WorkoutIDs = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		user.WorkoutIDs = append(user.WorkoutIDs, id)
	}
	return rows.Err()
}

const userColumns = "id, email, password_hash, firstname, lastname, role, created_at, updated_at"

// GetUserByID retrieves a single user by ID, including its workout IDs.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return models.User{}, err
	}
	if err := s.loadWorkoutIDs(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by email, including the password hash.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		return models.User{}, err
	}
	if err := s.loadWorkoutIDs(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *SQLiteStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordWorkout inserts the workout and links it to its owner in a single
// transaction.
func (s *SQLiteStore) RecordWorkout(ctx context.Context, workout *models.Workout) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO workouts(id, user_id, category, workout_name, sets, reps, weight, date, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		workout.ID, workout.UserID, workout.Category, workout.WorkoutName,
		workout.Sets, workout.Reps, workout.Weight, formatTime(workout.Date), formatTime(workout.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert workout: %w", err)
	}

	if err := appendWorkout(ctx, tx, workout.UserID, workout.ID); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendWorkout(ctx context.Context, db execer, userID, workoutID string) error {
	if _, err := db.ExecContext(ctx, "INSERT OR IGNORE INTO user_workouts(user_id, workout_id) VALUES(?, ?)", userID, workoutID); err != nil {
		return fmt.Errorf("failed to link workout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE users SET updated_at = ? WHERE id = ?", formatTime(time.Now()), userID); err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	return nil
}

// AppendWorkout links a workout to its owner. Only the workout's own owner
// may be linked.
func (s *SQLiteStore) AppendWorkout(ctx context.Context, userID, workoutID string) error {
	var owner string
	err := s.db.QueryRowContext(ctx, "SELECT user_id FROM workouts WHERE id = ?", workoutID).Scan(&owner)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	if owner != userID {
		return fmt.Errorf("workout %s is not owned by user %s", workoutID, userID)
	}
	return appendWorkout(ctx, s.db, userID, workoutID)
}

const workoutColumns = "w.id, w.user_id, w.category, w.workout_name, w.sets, w.reps, w.weight, w.date, w.created_at"

func scanWorkout(row interface{ Scan(...interface{}) error }, extra ...interface{}) (models.Workout, error) {
	var w models.Workout
	var date, createdAt string
	dest := append([]interface{}{&w.ID, &w.UserID, &w.Category, &w.WorkoutName, &w.Sets, &w.Reps, &w.Weight, &date, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Workout{}, err
	}
	w.Date = parseTime(date)
	w.CreatedAt = parseTime(createdAt)
	return w, nil
}

// WorkoutsForUser returns the user's linked workouts in collection order.
func (s *SQLiteStore) WorkoutsForUser(ctx context.Context, userID string) ([]models.Workout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+workoutColumns+`
		FROM user_workouts uw
		JOIN workouts w ON w.id = uw.workout_id AND w.user_id = uw.user_id
		WHERE uw.user_id = ?
		ORDER BY uw.rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// AllWorkouts returns every workout with its owner's email, newest first.
func (s *SQLiteStore) AllWorkouts(ctx context.Context) ([]models.OwnedWorkout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+workoutColumns+`, u.email
		FROM workouts w
		JOIN users u ON u.id = w.user_id
		ORDER BY w.date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []models.OwnedWorkout{}
	for rows.Next() {
		var email string
		w, err := scanWorkout(rows, &email)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, models.OwnedWorkout{Workout: w, OwnerEmail: email})
	}
	return workouts, rows.Err()
}

func (s *SQLiteStore) UnlinkedWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts w
		LEFT JOIN user_workouts uw ON uw.workout_id = w.id AND uw.user_id = w.user_id
		WHERE uw.workout_id IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// scanCategory is a helper to scan a category from a row or rows object.
func scanCategory(row interface{ Scan(...interface{}) error }) (models.WorkoutCategory, error) {
	var c models.WorkoutCategory
	var desc, exercises sql.NullString
	if err := row.Scan(&c.Category, &desc, &exercises); err != nil {
		return c, err
	}
	c.Description = desc.String
	c.ExercisesJSON = exercises.String
	c.PrepareForAPI()
	return c, nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.WorkoutCategory, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT category, description, exercises_json FROM workout_categories ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.WorkoutCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory looks a category up by name, ignoring case.
func (s *SQLiteStore) GetCategory(ctx context.Context, name string) (models.WorkoutCategory, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		"SELECT category, description, exercises_json FROM workout_categories WHERE category = ? COLLATE NOCASE", name))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.WorkoutCategory{}, ErrNotFound
		}
		return models.WorkoutCategory{}, err
	}
	return c, nil
}

// ReplaceCategories deletes the catalog and inserts categories in order.
func (s *SQLiteStore) ReplaceCategories(ctx context.Context, categories []models.WorkoutCategory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM workout_categories"); err != nil {
		return err
	}
	for _, c := range categories {
		c.PrepareForSave()
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO workout_categories(category, description, exercises_json) VALUES(?, ?, ?)",
			c.Category, c.Description, c.ExercisesJSON); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) RecordEvent(ctx context.Context, event models.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.UserID, formatTime(event.CreatedAt))
	return err
}

// RecentEvents retrieves the most recent events from the database.
func (s *SQLiteStore) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, type, level, message, user_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var userID sql.NullString
		var createdAt string
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &userID, &createdAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			event.UserID = &userID.String
		}
		event.CreatedAt = parseTime(createdAt)
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}
