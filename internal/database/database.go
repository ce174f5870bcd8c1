package database

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new SQLite connection pool. SQLite serialises writers, so
// the pool is limited to one connection; this also keeps ":memory:"
// databases shared across the whole pool. Foreign keys are enforced on
// every connection the pool opens.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dataSourceName))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// withForeignKeys adds the foreign_keys pragma to dsn. The driver runs
// _pragma parameters on each new connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		category TEXT NOT NULL,
		workout_name TEXT NOT NULL,
		sets INTEGER NOT NULL DEFAULT 0,
		reps INTEGER NOT NULL DEFAULT 0,
		weight REAL NOT NULL DEFAULT 0,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_workouts_user_id ON workouts(user_id);

	-- Ordered workout collection of each user; rowid keeps insertion order
	CREATE TABLE IF NOT EXISTS user_workouts (
		user_id TEXT NOT NULL REFERENCES users(id),
		workout_id TEXT NOT NULL REFERENCES workouts(id),
		PRIMARY KEY (user_id, workout_id)
	);

	CREATE TABLE IF NOT EXISTS workout_categories (
		category TEXT NOT NULL PRIMARY KEY,
		description TEXT,
		-- Store the exercise list as JSON text
		exercises_json TEXT
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		user_id TEXT,
		created_at TEXT NOT NULL
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
