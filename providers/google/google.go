package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/garysheng/braindump/pcm"
	"github.com/garysheng/braindump/providers"
)

const providerName = "google"

// ErrInvalidKey is returned when Google rejects the supplied API key.
var ErrInvalidKey = errors.New("google speech rejected the api key")

// recognizer is a local interface that wraps the methods we need
// from speech.Client to enable easier testing
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// Provider implements providers.Transcriber for Google Speech-to-Text.
// A client is created per request from the caller's API key.
type Provider struct {
	newClient func(ctx context.Context, apiKey string) (recognizer, error)
}

// NewProvider creates a new Google Speech provider.
func NewProvider() *Provider {
	return &Provider{
		newClient: func(ctx context.Context, apiKey string) (recognizer, error) {
			return speech.NewClient(ctx, option.WithAPIKey(apiKey))
		},
	}
}

// Name returns the name of the provider.
func (p *Provider) Name() string {
	return providerName
}

// Transcribe runs a single synchronous Recognize call. Client side retries
// are disabled so a failed call surfaces immediately.
func (p *Provider) Transcribe(ctx context.Context, req providers.TranscriptionRequest) (string, error) {
	if req.APIKey == "" {
		return "", providers.ErrMissingAPIKey
	}

	client, err := p.newClient(ctx, req.APIKey)
	if err != nil {
		return "", fmt.Errorf("create speech client: %w", err)
	}
	defer client.Close()

	language := req.LanguageCode
	if language == "" {
		language = "en-US"
	}
	config := recognitionConfig(req.MIMEType)
	config.LanguageCode = language
	config.EnableAutomaticPunctuation = true

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: req.Audio},
		},
	}, gax.WithRetry(func() gax.Retryer { return nil }))
	if err != nil {
		switch status.Code(err) {
		case codes.Unauthenticated, codes.PermissionDenied:
			return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return "", err
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// CheckKey recognizes a short silent clip. Silence yields an empty result,
// which is fine; only a rejected request fails the check.
func (p *Provider) CheckKey(ctx context.Context, apiKey string) error {
	clip, err := pcm.Silence(250, pcm.DefaultSampleRate)
	if err != nil {
		return err
	}
	_, err = p.Transcribe(ctx, providers.TranscriptionRequest{
		Audio:    clip,
		MIMEType: "audio/wav",
		APIKey:   apiKey,
	})
	return err
}

// recognitionConfig picks the encoding for the clip container. WAV headers
// carry their own rate and encoding, so those are left unspecified.
func recognitionConfig(mimeType string) *speechpb.RecognitionConfig {
	switch {
	case strings.HasPrefix(mimeType, "audio/webm"):
		return &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_WEBM_OPUS,
			SampleRateHertz: 48000,
		}
	case strings.HasPrefix(mimeType, "audio/ogg"):
		return &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_OGG_OPUS,
			SampleRateHertz: 48000,
		}
	default:
		return &speechpb.RecognitionConfig{
			Encoding: speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
		}
	}
}
