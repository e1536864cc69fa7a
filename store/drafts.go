package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// SaveDraft stores a generated draft for one of the user's sessions.
func (s *Store) SaveDraft(ctx context.Context, d Draft) (*Draft, error) {
	if err := s.sessionExists(ctx, d.UserID, d.SessionID); err != nil {
		return nil, err
	}
	settings, err := json.Marshal(d.Settings)
	if err != nil {
		return nil, fmt.Errorf("encode draft settings: %w", err)
	}

	now := s.timestamp()
	d.ID = newID()
	d.CreatedAt = timeFromMillis(now)
	d.UpdatedAt = timeFromMillis(now)
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, user_id, session_id, provider, format, custom_format, settings, content, prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.UserID, d.SessionID, d.Provider, d.Format, d.CustomFormat, string(settings), d.Content, d.Prompt, now, now); err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}
	return &d, nil
}

// Drafts returns the drafts saved for a session, newest first.
func (s *Store) Drafts(ctx context.Context, userID, sessionID string) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_id, provider, format, custom_format, settings, content, prompt, created_at, updated_at
		FROM drafts
		WHERE user_id = ? AND session_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		var d Draft
		var settings string
		var createdAt, updatedAt int64
		if err := rows.Scan(&d.ID, &d.UserID, &d.SessionID, &d.Provider, &d.Format, &d.CustomFormat,
			&settings, &d.Content, &d.Prompt, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		if err := json.Unmarshal([]byte(settings), &d.Settings); err != nil {
			return nil, fmt.Errorf("decode draft settings: %w", err)
		}
		d.CreatedAt = timeFromMillis(createdAt)
		d.UpdatedAt = timeFromMillis(updatedAt)
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}
