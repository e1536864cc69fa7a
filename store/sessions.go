package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateSession inserts a session and its questions. Questions are written
// in one batch after the session row; if the batch fails the session is
// deleted again so no session exists without its questions.
func (s *Store) CreateSession(ctx context.Context, userID, title string, texts []string) (*Session, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: a session needs at least one question", ErrInvalidInput)
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: question %d is empty", ErrInvalidInput, i)
		}
	}

	now := s.timestamp()
	sess := &Session{
		ID:        newID(),
		UserID:    userID,
		Title:     title,
		CreatedAt: timeFromMillis(now),
		UpdatedAt: timeFromMillis(now),
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, sess.ID, userID, title, now, now); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	questions, err := s.insertQuestions(ctx, userID, sess.ID, texts, now)
	if err != nil {
		if delErr := s.deleteSession(context.WithoutCancel(ctx), userID, sess.ID); delErr != nil {
			return nil, fmt.Errorf("insert questions: %w (cleanup failed: %v)", err, delErr)
		}
		return nil, fmt.Errorf("insert questions: %w", err)
	}
	sess.Questions = questions

	s.hub.Publish(QuestionsTopic(userID, sess.ID))
	return sess, nil
}

func (s *Store) insertQuestions(ctx context.Context, userID, sessionID string, texts []string, now int64) ([]Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	questions := make([]Question, 0, len(texts))
	for i, text := range texts {
		q := Question{
			ID:        newID(),
			SessionID: sessionID,
			Text:      strings.TrimSpace(text),
			Order:     i,
			CreatedAt: timeFromMillis(now),
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (id, user_id, session_id, text, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, q.ID, userID, sessionID, q.Text, q.Order, now); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return questions, nil
}

// Session returns a session with its questions in order and each question's
// responses newest first.
func (s *Store) Session(ctx context.Context, userID, sessionID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM sessions
		WHERE id = ? AND user_id = ?
	`, sessionID, userID)

	sess, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Questions = questions
	return sess, nil
}

// Sessions returns the user's sessions newest first, without questions.
func (s *Store) Sessions(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM sessions
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// MostRecentSession returns the user's newest session with its questions.
func (s *Store) MostRecentSession(ctx context.Context, userID string) (*Session, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM sessions
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest session: %w", err)
	}
	return s.Session(ctx, userID, id)
}

// DeleteSession removes the session's responses, then its questions, then
// the session itself.
func (s *Store) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if err := s.deleteSession(ctx, userID, sessionID); err != nil {
		return err
	}
	s.hub.Publish(QuestionsTopic(userID, sessionID))
	return nil
}

func (s *Store) deleteSession(ctx context.Context, userID, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM responses WHERE session_id = ? AND user_id = ?`, sessionID, userID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE session_id = ? AND user_id = ?`, sessionID, userID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND user_id = ?`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var createdAt, updatedAt int64
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.Title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	sess.CreatedAt = timeFromMillis(createdAt)
	sess.UpdatedAt = timeFromMillis(updatedAt)
	return &sess, nil
}

func (s *Store) touchSession(ctx context.Context, userID, sessionID string) {
	// Best effort; the session may have been deleted concurrently.
	_, _ = s.db.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ? AND user_id = ?`,
		s.timestamp(), sessionID, userID)
}
