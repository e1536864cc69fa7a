package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

func (s *Store) questions(ctx context.Context, userID, sessionID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, text, position, created_at
		FROM questions
		WHERE session_id = ? AND user_id = ?
		ORDER BY position ASC
	`, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	var questions []Question
	index := make(map[string]int)
	for rows.Next() {
		var q Question
		var createdAt int64
		if err := rows.Scan(&q.ID, &q.SessionID, &q.Text, &q.Order, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.CreatedAt = timeFromMillis(createdAt)
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, question_id, transcription, created_at
		FROM responses
		WHERE session_id = ? AND user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r Response
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.QuestionID, &r.Transcription, &createdAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.CreatedAt = timeFromMillis(createdAt)
		if i, ok := index[r.QuestionID]; ok {
			questions[i].Responses = append(questions[i].Responses, r)
		}
	}
	return questions, rows.Err()
}

// Responses returns the responses to one question, newest first.
func (s *Store) Responses(ctx context.Context, userID, questionID string) ([]Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, transcription, created_at
		FROM responses
		WHERE question_id = ? AND user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, questionID, userID)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var responses []Response
	for rows.Next() {
		var r Response
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.QuestionID, &r.Transcription, &createdAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.CreatedAt = timeFromMillis(createdAt)
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// AddQuestion appends a question at the end of the session.
func (s *Store) AddQuestion(ctx context.Context, userID, sessionID, text string) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}
	if err := s.sessionExists(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM questions WHERE session_id = ? AND user_id = ?
	`, sessionID, userID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	now := s.timestamp()
	q := &Question{
		ID:        newID(),
		SessionID: sessionID,
		Text:      text,
		Order:     count,
		CreatedAt: timeFromMillis(now),
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (id, user_id, session_id, text, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, q.ID, userID, sessionID, q.Text, q.Order, now); err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}

	s.touchSession(ctx, userID, sessionID)
	s.hub.Publish(QuestionsTopic(userID, sessionID))
	return q, nil
}

// DeleteQuestion removes a question and its responses and renumbers the
// remaining questions contiguously, keeping their relative order.
func (s *Store) DeleteQuestion(ctx context.Context, userID, sessionID, questionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete question: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM responses WHERE question_id = ? AND session_id = ? AND user_id = ?
	`, questionID, sessionID, userID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	res, err := tx.ExecContext(ctx, `
		DELETE FROM questions WHERE id = ? AND session_id = ? AND user_id = ?
	`, questionID, sessionID, userID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	ids, err := questionIDs(ctx, tx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := renumber(ctx, tx, userID, ids); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete question: %w", err)
	}

	s.touchSession(ctx, userID, sessionID)
	s.hub.Publish(QuestionsTopic(userID, sessionID))
	return nil
}

// ReorderQuestions assigns order by position in ids, which must name every
// question of the session exactly once.
func (s *Store) ReorderQuestions(ctx context.Context, userID, sessionID string, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	current, err := questionIDs(ctx, tx, userID, sessionID)
	if err != nil {
		return err
	}
	if len(current) == 0 {
		if err := s.sessionExistsTx(ctx, tx, userID, sessionID); err != nil {
			return err
		}
	}
	if !sameSet(current, ids) {
		return fmt.Errorf("%w: reorder must list every question exactly once", ErrInvalidInput)
	}
	if err := renumber(ctx, tx, userID, ids); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}

	s.touchSession(ctx, userID, sessionID)
	s.hub.Publish(QuestionsTopic(userID, sessionID))
	return nil
}

// AddResponse stores a transcription against a question of the session.
func (s *Store) AddResponse(ctx context.Context, userID, sessionID, questionID, transcription string) (*Response, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM questions WHERE id = ? AND session_id = ? AND user_id = ?
	`, questionID, sessionID, userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup question: %w", err)
	}

	now := s.timestamp()
	r := &Response{
		ID:            newID(),
		QuestionID:    questionID,
		Transcription: transcription,
		CreatedAt:     timeFromMillis(now),
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO responses (id, user_id, session_id, question_id, transcription, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, userID, sessionID, questionID, transcription, now); err != nil {
		return nil, fmt.Errorf("insert response: %w", err)
	}

	s.touchSession(ctx, userID, sessionID)
	s.hub.Publish(ResponsesTopic(userID, sessionID, questionID))
	return r, nil
}

// DeleteResponse removes a single response. Sibling responses are untouched.
func (s *Store) DeleteResponse(ctx context.Context, userID, sessionID, questionID, responseID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM responses
		WHERE id = ? AND question_id = ? AND session_id = ? AND user_id = ?
	`, responseID, questionID, sessionID, userID)
	if err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	s.hub.Publish(ResponsesTopic(userID, sessionID, questionID))
	return nil
}

func (s *Store) sessionExists(ctx context.Context, userID, sessionID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ? AND user_id = ?`, sessionID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	return nil
}

func (s *Store) sessionExistsTx(ctx context.Context, tx *sql.Tx, userID, sessionID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ? AND user_id = ?`, sessionID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	return nil
}

func questionIDs(ctx context.Context, tx *sql.Tx, userID, sessionID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM questions
		WHERE session_id = ? AND user_id = ?
		ORDER BY position ASC
	`, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("query question ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func renumber(ctx context.Context, tx *sql.Tx, userID string, ids []string) error {
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `
			UPDATE questions SET position = ? WHERE id = ? AND user_id = ?
		`, i, id, userID); err != nil {
			return fmt.Errorf("renumber question: %w", err)
		}
	}
	return nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
