package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garysheng/braindump/providers"
)

const titleInstruction = `You are a helpful assistant that generates concise and descriptive titles. Your response must be a valid JSON object with a 'title' field. Do not include any markdown formatting or code blocks. Example: {"title": "Daily Reflection Session"}`

const questionsInstruction = `You are a helpful assistant that generates interview questions. Your response must be a valid JSON object with a 'questions' array containing 5-10 questions. Each question should be a string. Do not include any markdown formatting or code blocks. Example: {"questions": ["What inspired you to start this project?", "What challenges did you face?"]}`

var (
	// ErrMissingTitle is returned when a title response has no title field.
	ErrMissingTitle = errors.New("response missing title field")
	// ErrMissingQuestions is returned when a questions response has no
	// questions array.
	ErrMissingQuestions = errors.New("response missing questions array")
)

var fencePattern = regexp.MustCompile("```json\\n?|\\n?```")

// GeneratedQuestion is one question produced by the model.
type GeneratedQuestion struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// Generated holds either a title or a list of questions.
type Generated struct {
	Title     string              `json:"title,omitempty"`
	Questions []GeneratedQuestion `json:"questions,omitempty"`
}

// IsTitleRequest reports whether the prompt asks for a title rather than
// questions.
func IsTitleRequest(prompt string) bool {
	return strings.Contains(strings.ToLower(prompt), "title")
}

// TitlePrompt asks for a session title based on its questions.
func TitlePrompt(texts []string) string {
	return `Based on these questions, generate a concise and descriptive title (max 50 characters) for this recording session. Format the response as JSON with a "title" field. Questions: ` +
		strings.Join(texts, ", ")
}

// FallbackTitle is the title used when none could be generated.
func FallbackTitle(t time.Time) string {
	return t.Format("2006-01-02")
}

// GenerateQuestions sends a title or questions prompt to the provider and
// parses the JSON object it answers with.
func (g *Generator) GenerateQuestions(ctx context.Context, provider Provider, prompt, apiKey string) (Generated, error) {
	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(apiKey) == "" {
		return Generated{}, &Error{Kind: MissingInput, Provider: provider}
	}

	title := IsTitleRequest(prompt)
	instruction := questionsInstruction
	if title {
		instruction = titleInstruction
	}

	content, err := g.Complete(ctx, provider, providers.GenerationRequest{
		Prompt: instruction + "\n\n" + prompt,
		APIKey: apiKey,
	})
	if err != nil {
		return Generated{}, err
	}

	if title {
		t, err := parseTitle(content)
		if err != nil {
			return Generated{}, &Error{Kind: GenerationFailed, Provider: provider, Err: err}
		}
		return Generated{Title: t}, nil
	}
	qs, err := parseQuestions(content)
	if err != nil {
		return Generated{}, &Error{Kind: GenerationFailed, Provider: provider, Err: err}
	}
	return Generated{Questions: qs}, nil
}

// GenerateTitle returns a title for a session with the given questions,
// or the fallback title when generation fails.
func (g *Generator) GenerateTitle(ctx context.Context, provider Provider, apiKey string, texts []string, now time.Time) string {
	if strings.TrimSpace(apiKey) == "" {
		return FallbackTitle(now)
	}
	out, err := g.GenerateQuestions(ctx, provider, TitlePrompt(texts), apiKey)
	if err != nil || strings.TrimSpace(out.Title) == "" {
		return FallbackTitle(now)
	}
	return strings.TrimSpace(out.Title)
}

func stripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(s, ""))
}

func parseTitle(content string) (string, error) {
	var out struct {
		Title *string `json:"title"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &out); err != nil {
		return "", fmt.Errorf("parse title response: %w", err)
	}
	if out.Title == nil {
		return "", ErrMissingTitle
	}
	return *out.Title, nil
}

func parseQuestions(content string) ([]GeneratedQuestion, error) {
	var out struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &out); err != nil {
		return nil, fmt.Errorf("parse questions response: %w", err)
	}
	if out.Questions == nil {
		return nil, ErrMissingQuestions
	}
	qs := make([]GeneratedQuestion, 0, len(out.Questions))
	for i, text := range out.Questions {
		qs = append(qs, GeneratedQuestion{ID: uuid.NewString(), Text: text, Order: i})
	}
	return qs, nil
}
