// Package store persists sessions, questions, responses, templates and
// drafts in SQLite. Every query is scoped by user id.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist for the given user.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned for writes that would break an invariant
// (empty question list, blank text, mismatched reorder set).
var ErrInvalidInput = errors.New("invalid input")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_user ON sessions(user_id, created_at);

CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	text TEXT NOT NULL CHECK (length(text) BETWEEN 1 AND 1000),
	position INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS questions_session ON questions(session_id, position);

CREATE TABLE IF NOT EXISTS responses (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	question_id TEXT NOT NULL,
	transcription TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS responses_question ON responses(question_id, created_at);

CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_public INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS templates_user ON templates(user_id, updated_at);

CREATE TABLE IF NOT EXISTS template_questions (
	id TEXT PRIMARY KEY,
	template_id TEXT NOT NULL,
	text TEXT NOT NULL CHECK (length(text) BETWEEN 1 AND 1000),
	position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS template_questions_template ON template_questions(template_id, position);

CREATE TABLE IF NOT EXISTS drafts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	provider TEXT NOT NULL,
	format TEXT NOT NULL,
	custom_format TEXT NOT NULL DEFAULT '',
	settings TEXT NOT NULL DEFAULT '{}',
	content TEXT NOT NULL,
	prompt TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS drafts_session ON drafts(user_id, session_id, created_at);
`

// Store wraps the SQLite database and the realtime hub that is notified
// after every write.
type Store struct {
	db  *sql.DB
	hub *Hub
	now func() time.Time
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "braindump", "braindump.sqlite")
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite has a single writer, and an in-memory database exists per
	// connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, hub: NewHub(), now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hub returns the realtime hub fed by this store.
func (s *Store) Hub() *Hub {
	return s.hub
}

func newID() string {
	return uuid.NewString()
}

func (s *Store) timestamp() int64 {
	return s.now().UnixMilli()
}

func timeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
