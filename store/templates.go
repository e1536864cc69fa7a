package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// TemplateInput holds the editable fields of a template.
type TemplateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    bool     `json:"isPublic"`
	Questions   []string `json:"questions"`
}

func (in TemplateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: template name is empty", ErrInvalidInput)
	}
	if len(in.Questions) == 0 {
		return fmt.Errorf("%w: a template needs at least one question", ErrInvalidInput)
	}
	for i, q := range in.Questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("%w: question %d is empty", ErrInvalidInput, i)
		}
	}
	return nil
}

// CreateTemplate stores a new template owned by the user.
func (s *Store) CreateTemplate(ctx context.Context, userID string, in TemplateInput) (*Template, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create template: %w", err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	t := &Template{
		ID:          newID(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		IsPublic:    in.IsPublic,
		CreatedAt:   timeFromMillis(now),
		UpdatedAt:   timeFromMillis(now),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO templates (id, user_id, name, description, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, userID, t.Name, t.Description, t.IsPublic, now, now); err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}

	t.Questions, err = insertStubs(ctx, tx, t.ID, in.Questions, 0)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit template: %w", err)
	}
	return t, nil
}

// UpdateTemplate replaces the template's fields and stubs.
func (s *Store) UpdateTemplate(ctx context.Context, userID, templateID string, in TemplateInput) (*Template, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update template: %w", err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	res, err := tx.ExecContext(ctx, `
		UPDATE templates SET name = ?, description = ?, is_public = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, strings.TrimSpace(in.Name), strings.TrimSpace(in.Description), in.IsPublic, now, templateID, userID)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM template_questions WHERE template_id = ?`, templateID); err != nil {
		return nil, fmt.Errorf("delete template questions: %w", err)
	}
	if _, err := insertStubs(ctx, tx, templateID, in.Questions, 0); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit template: %w", err)
	}
	return s.Template(ctx, userID, templateID)
}

// AppendTemplateQuestions adds stubs to the end of a template, skipping any
// that are near duplicates of stubs already present. It returns the stubs
// that were added.
func (s *Store) AppendTemplateQuestions(ctx context.Context, userID, templateID string, texts []string) ([]TemplateQuestion, error) {
	t, err := s.Template(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrNotFound
	}

	existing := make([]string, 0, len(t.Questions))
	for _, q := range t.Questions {
		existing = append(existing, q.Text)
	}
	fresh := dedupe(existing, texts)
	if len(fresh) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append questions: %w", err)
	}
	defer tx.Rollback()

	added, err := insertStubs(ctx, tx, templateID, fresh, len(t.Questions))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE templates SET updated_at = ? WHERE id = ?`, s.timestamp(), templateID); err != nil {
		return nil, fmt.Errorf("touch template: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append questions: %w", err)
	}
	return added, nil
}

// DeleteTemplate removes the template and its stubs.
func (s *Store) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete template: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE id = ? AND user_id = ?`, templateID, userID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM template_questions WHERE template_id = ?`, templateID); err != nil {
		return fmt.Errorf("delete template questions: %w", err)
	}
	return tx.Commit()
}

// Template returns a template the user owns or any public template.
func (s *Store) Template(ctx context.Context, userID, templateID string) (*Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, is_public, created_at, updated_at
		FROM templates
		WHERE id = ? AND (user_id = ? OR is_public = 1)
	`, templateID, userID)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, err
	}
	if t.Questions, err = s.stubs(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// Templates returns the user's templates, most recently updated first.
func (s *Store) Templates(ctx context.Context, userID string) ([]Template, error) {
	return s.listTemplates(ctx, `
		SELECT id, user_id, name, description, is_public, created_at, updated_at
		FROM templates
		WHERE user_id = ?
		ORDER BY updated_at DESC, rowid DESC
	`, userID)
}

// PublicTemplates returns every public template, most recently updated first.
func (s *Store) PublicTemplates(ctx context.Context) ([]Template, error) {
	return s.listTemplates(ctx, `
		SELECT id, user_id, name, description, is_public, created_at, updated_at
		FROM templates
		WHERE is_public = 1
		ORDER BY updated_at DESC, rowid DESC
	`)
}

// SessionFromTemplate creates a session whose questions are copies of the
// template's stubs. Later template edits do not affect the session.
func (s *Store) SessionFromTemplate(ctx context.Context, userID, templateID, title string) (*Session, error) {
	t, err := s.Template(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(t.Questions))
	for _, q := range t.Questions {
		texts = append(texts, q.Text)
	}
	if strings.TrimSpace(title) == "" {
		title = t.Name
	}
	return s.CreateSession(ctx, userID, title, texts)
}

func (s *Store) listTemplates(ctx context.Context, query string, args ...any) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}

	var templates []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		templates = append(templates, *t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range templates {
		if templates[i].Questions, err = s.stubs(ctx, templates[i].ID); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (s *Store) stubs(ctx context.Context, templateID string) ([]TemplateQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, position FROM template_questions
		WHERE template_id = ?
		ORDER BY position ASC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("query template questions: %w", err)
	}
	defer rows.Close()

	var stubs []TemplateQuestion
	for rows.Next() {
		var q TemplateQuestion
		if err := rows.Scan(&q.ID, &q.Text, &q.Order); err != nil {
			return nil, fmt.Errorf("scan template question: %w", err)
		}
		stubs = append(stubs, q)
	}
	return stubs, rows.Err()
}

func insertStubs(ctx context.Context, tx *sql.Tx, templateID string, texts []string, start int) ([]TemplateQuestion, error) {
	stubs := make([]TemplateQuestion, 0, len(texts))
	for i, text := range texts {
		q := TemplateQuestion{ID: newID(), Text: strings.TrimSpace(text), Order: start + i}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO template_questions (id, template_id, text, position)
			VALUES (?, ?, ?, ?)
		`, q.ID, templateID, q.Text, q.Order); err != nil {
			return nil, fmt.Errorf("insert template question: %w", err)
		}
		stubs = append(stubs, q)
	}
	return stubs, nil
}

func scanTemplate(row scanner) (*Template, error) {
	var t Template
	var createdAt, updatedAt int64
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.IsPublic, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}
	t.CreatedAt = timeFromMillis(createdAt)
	t.UpdatedAt = timeFromMillis(updatedAt)
	return &t, nil
}
