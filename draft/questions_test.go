package draft

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/garysheng/braindump/providers"
)

func TestIsTitleRequest(t *testing.T) {
	assert.True(t, IsTitleRequest(TitlePrompt([]string{"How was today?"})))
	assert.True(t, IsTitleRequest("Suggest a TITLE please"))
	assert.False(t, IsTitleRequest("Give me questions about travel"))
}

func TestTitlePrompt(t *testing.T) {
	got := TitlePrompt([]string{"One?", "Two?"})
	assert.True(t, strings.HasSuffix(got, "Questions: One?, Two?"))
	assert.Contains(t, got, "(max 50 characters)")
}

func TestFallbackTitle(t *testing.T) {
	assert.Equal(t, "2024-03-09", FallbackTitle(time.Date(2024, 3, 9, 22, 0, 0, 0, time.UTC)))
}

func TestGenerateQuestions_Title(t *testing.T) {
	g, claude, _ := newTestGenerator(t)
	prompt := TitlePrompt([]string{"What went well?"})
	claude.EXPECT().Generate(mock.Anything, mock.Anything).
		Run(func(_ context.Context, r providers.GenerationRequest) {
			assert.True(t, strings.HasPrefix(r.Prompt, titleInstruction))
			assert.True(t, strings.HasSuffix(r.Prompt, prompt))
			assert.Equal(t, "secret-key", r.APIKey)
		}).
		Return("```json\n{\"title\": \"Evening Review\"}\n```", nil).Once()

	out, err := g.GenerateQuestions(context.Background(), ProviderClaude, prompt, "secret-key")
	require.NoError(t, err)
	assert.Equal(t, "Evening Review", out.Title)
	assert.Empty(t, out.Questions)
}

func TestGenerateQuestions_Questions(t *testing.T) {
	g, _, gemini := newTestGenerator(t)
	gemini.EXPECT().Generate(mock.Anything, mock.Anything).
		Run(func(_ context.Context, r providers.GenerationRequest) {
			assert.True(t, strings.HasPrefix(r.Prompt, questionsInstruction))
		}).
		Return(`{"questions": ["Where did you go?", "Who did you meet?"]}`, nil).Once()

	out, err := g.GenerateQuestions(context.Background(), ProviderGemini, "Questions about a trip", "key")
	require.NoError(t, err)
	require.Len(t, out.Questions, 2)
	assert.Equal(t, "Where did you go?", out.Questions[0].Text)
	assert.Equal(t, 0, out.Questions[0].Order)
	assert.Equal(t, "Who did you meet?", out.Questions[1].Text)
	assert.Equal(t, 1, out.Questions[1].Order)
	assert.NotEmpty(t, out.Questions[0].ID)
	assert.NotEqual(t, out.Questions[0].ID, out.Questions[1].ID)
}

func TestGenerateQuestions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		content string
		wantErr error
	}{
		{"missing title", "a title please", `{"name": "x"}`, ErrMissingTitle},
		{"missing questions", "questions please", `{"items": []}`, ErrMissingQuestions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, claude, _ := newTestGenerator(t)
			claude.EXPECT().Generate(mock.Anything, mock.Anything).Return(tt.content, nil).Once()

			_, err := g.GenerateQuestions(context.Background(), ProviderClaude, tt.prompt, "key")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var derr *Error
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, GenerationFailed, derr.Kind)
		})
	}
}

func TestGenerateQuestions_NotJSON(t *testing.T) {
	g, claude, _ := newTestGenerator(t)
	claude.EXPECT().Generate(mock.Anything, mock.Anything).Return("Here are some questions!", nil).Once()

	_, err := g.GenerateQuestions(context.Background(), ProviderClaude, "questions", "key")
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, GenerationFailed, derr.Kind)
}

func TestGenerateQuestions_MissingInput(t *testing.T) {
	g, _, _ := newTestGenerator(t)

	_, err := g.GenerateQuestions(context.Background(), ProviderClaude, "", "key")
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, MissingInput, derr.Kind)
	assert.Equal(t, "Missing required fields", err.Error())

	_, err = g.GenerateQuestions(context.Background(), ProviderClaude, "title", " ")
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, MissingInput, derr.Kind)
}

func TestGenerateTitle(t *testing.T) {
	now := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)

	t.Run("generated", func(t *testing.T) {
		g, claude, _ := newTestGenerator(t)
		claude.EXPECT().Generate(mock.Anything, mock.Anything).Return(`{"title": " Morning Pages "}`, nil).Once()
		assert.Equal(t, "Morning Pages", g.GenerateTitle(context.Background(), ProviderClaude, "key", []string{"Q?"}, now))
	})

	t.Run("provider failure falls back to date", func(t *testing.T) {
		g, claude, _ := newTestGenerator(t)
		claude.EXPECT().Generate(mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()
		assert.Equal(t, "2025-01-02", g.GenerateTitle(context.Background(), ProviderClaude, "key", []string{"Q?"}, now))
	})

	t.Run("no key falls back without a call", func(t *testing.T) {
		g, _, _ := newTestGenerator(t)
		assert.Equal(t, "2025-01-02", g.GenerateTitle(context.Background(), ProviderGemini, "", []string{"Q?"}, now))
	})
}
