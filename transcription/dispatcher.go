// Package transcription turns recorded clips into text through a hosted
// speech-to-text backend.
package transcription

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/garysheng/braindump/providers"
)

// ErrMissingInput is returned when the clip is empty or no credential was
// supplied. No network call is made in that case.
var ErrMissingInput = errors.New("missing audio or api key")

// Error is the single failure surfaced to callers for anything that went
// wrong after the request was sent.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return "failed to transcribe audio"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Clip is one finished recording.
type Clip struct {
	Data     []byte
	MIMEType string
}

// Dispatcher sends a clip to the configured backend exactly once.
type Dispatcher struct {
	backend  providers.Transcriber
	language string
	log      *log.Logger
}

// NewDispatcher creates a Dispatcher for the given backend. An empty language
// defaults to en-US.
func NewDispatcher(backend providers.Transcriber, language string) *Dispatcher {
	if language == "" {
		language = "en-US"
	}
	return &Dispatcher{
		backend:  backend,
		language: language,
		log:      log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile),
	}
}

// SetLogger replaces the dispatcher's logger.
func (d *Dispatcher) SetLogger(l *log.Logger) {
	d.log = l
}

// Backend returns the name of the configured backend.
func (d *Dispatcher) Backend() string {
	return d.backend.Name()
}

// Transcribe returns the transcript for the clip. An empty result counts as a
// failure.
func (d *Dispatcher) Transcribe(ctx context.Context, clip Clip, apiKey string) (string, error) {
	if len(clip.Data) == 0 || strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingInput
	}

	mimeType := clip.MIMEType
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	text, err := d.backend.Transcribe(ctx, providers.TranscriptionRequest{
		Audio:        clip.Data,
		MIMEType:     mimeType,
		APIKey:       apiKey,
		LanguageCode: d.language,
	})
	if err != nil {
		d.log.Printf("Transcription with %s failed: %v", d.backend.Name(), err)
		return "", &Error{Provider: d.backend.Name(), Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		d.log.Printf("Transcription with %s returned no text", d.backend.Name())
		return "", &Error{Provider: d.backend.Name(), Err: errors.New("empty transcript")}
	}
	return text, nil
}
