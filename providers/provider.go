package providers

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned by backends asked to run without a credential.
var ErrMissingAPIKey = errors.New("api key not provided")

// Transcriber turns a finished audio clip into text using a hosted
// speech-to-text service like Deepgram or Google Speech.
type Transcriber interface {
	// Name returns the name of the backend.
	Name() string

	// Transcribe sends the clip in a single request and returns the transcript.
	// Implementations must not retry.
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}

// TranscriptionRequest holds one clip and the credential used to upload it.
type TranscriptionRequest struct {
	// Audio is the complete encoded clip (WAV, WebM, Ogg...).
	Audio []byte

	// MIMEType describes the container of Audio, e.g. "audio/wav".
	MIMEType string

	// APIKey is the caller supplied credential. It is used for this request
	// only and never stored.
	APIKey string

	// LanguageCode specifies the transcript language (e.g., "en-US").
	LanguageCode string
}

// Generator produces prose from a prompt using a hosted LLM.
type Generator interface {
	// Name returns the name of the backend.
	Name() string

	// Generate sends the prompt and returns the generated text. Errors are
	// returned unmodified so callers can classify them.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationRequest holds the prompt and sampling settings for one call.
type GenerationRequest struct {
	Prompt string

	// APIKey is the caller supplied credential.
	APIKey string

	// MaxTokens caps the output. Zero means the provider default.
	MaxTokens int

	// Temperature is only applied when HasTemperature is set.
	Temperature    float64
	HasTemperature bool
}

// KeyChecker performs a minimal real request to tell whether a key works.
type KeyChecker interface {
	CheckKey(ctx context.Context, apiKey string) error
}
