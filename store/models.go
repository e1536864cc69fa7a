package store

import (
	"time"

	"github.com/garysheng/braindump/draft"
)

// Session is one guided recording run.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Questions []Question `json:"questions"`
}

// Question is a prompt inside a session. Order is contiguous from zero.
type Question struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Text      string     `json:"text"`
	Order     int        `json:"order"`
	CreatedAt time.Time  `json:"createdAt"`
	Responses []Response `json:"responses"`
}

// Latest returns the most recent response, if any.
func (q Question) Latest() (Response, bool) {
	if len(q.Responses) == 0 {
		return Response{}, false
	}
	return q.Responses[0], true
}

// Response is one transcribed answer. Responses are kept newest first.
type Response struct {
	ID            string    `json:"id"`
	QuestionID    string    `json:"questionId"`
	Transcription string    `json:"transcription"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Template is a reusable list of question stubs.
type Template struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	IsPublic    bool               `json:"isPublic"`
	Questions   []TemplateQuestion `json:"questions"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// TemplateQuestion is a stub copied into new sessions.
type TemplateQuestion struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// Draft is generated prose saved against a session.
type Draft struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	SessionID    string         `json:"sessionId"`
	Provider     string         `json:"model"`
	Format       string         `json:"format"`
	CustomFormat string         `json:"customFormat,omitempty"`
	Settings     draft.Settings `json:"settings"`
	Content      string         `json:"content"`
	Prompt       string         `json:"prompt"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
