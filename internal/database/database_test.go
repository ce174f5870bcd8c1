package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"diary.db", "diary.db?_pragma=foreign_keys(1)"},
		{"file:diary.db?_pragma=busy_timeout(5000)", "file:diary.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"diary.db?_pragma=foreign_keys(0)", "diary.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withForeignKeys(tt.dsn), tt.dsn)
	}
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "diary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))

	// Close each connection after use so every statement gets a fresh one.
	db.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}

	_, err = db.Exec(`INSERT INTO workouts (id, user_id, category, workout_name, date, created_at)
		VALUES ('w1', 'missing-user', 'Legs', 'Squat', '2024-06-03', '2024-06-03T10:00:00Z')`)
	assert.Error(t, err, "workout for an unknown user must be rejected")
}
