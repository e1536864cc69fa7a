package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/garysheng/braindump/pcm"
	"github.com/garysheng/braindump/providers"
)

const (
	providerName = "deepgram"

	// DefaultModel is the prerecorded model used when none is configured.
	DefaultModel = "nova-2"
)

var initOnce sync.Once

// preRecordedClient is a local interface that wraps the one call we need
// from the prerecorded REST client to enable easier testing
type preRecordedClient interface {
	FromStream(ctx context.Context, src io.Reader, options *interfaces.PreRecordedTranscriptionOptions) (*response, error)
}

// response is the subset of the prerecorded response we read.
type response struct {
	Results results `json:"results"`
}

type results struct {
	Channels []channel `json:"channels"`
}

type channel struct {
	Alternatives []alternative `json:"alternatives"`
}

type alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// restClient adapts the SDK REST client for a single API key.
type restClient struct {
	apiKey string
}

func (r restClient) FromStream(ctx context.Context, src io.Reader, options *interfaces.PreRecordedTranscriptionOptions) (*response, error) {
	dg := api.New(client.NewREST(r.apiKey, &interfaces.ClientOptions{}))
	res, err := dg.FromStream(ctx, src, options)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode deepgram response: %w", err)
	}
	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode deepgram response: %w", err)
	}
	return &out, nil
}

// Provider implements providers.Transcriber for Deepgram's prerecorded API.
// The API key comes with every request; the provider holds none.
type Provider struct {
	model     string
	newClient func(apiKey string) preRecordedClient
}

// NewProvider creates a new Deepgram provider using the given model.
func NewProvider(model string) *Provider {
	initOnce.Do(client.InitWithDefault)

	if model == "" {
		model = DefaultModel
	}
	return &Provider{
		model: model,
		newClient: func(apiKey string) preRecordedClient {
			return restClient{apiKey: apiKey}
		},
	}
}

// Name returns the name of the provider.
func (p *Provider) Name() string {
	return providerName
}

// Transcribe uploads the clip once and returns the first alternative of the
// first channel.
func (p *Provider) Transcribe(ctx context.Context, req providers.TranscriptionRequest) (string, error) {
	if req.APIKey == "" {
		return "", providers.ErrMissingAPIKey
	}

	language := req.LanguageCode
	if language == "" {
		language = "en-US"
	}
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       p.model,
		Language:    language,
		Punctuate:   true,
		SmartFormat: true,
	}

	res, err := p.newClient(req.APIKey).FromStream(ctx, bytes.NewReader(req.Audio), options)
	if err != nil {
		return "", err
	}

	for _, ch := range res.Results.Channels {
		if len(ch.Alternatives) == 0 {
			continue
		}
		return strings.TrimSpace(ch.Alternatives[0].Transcript), nil
	}
	return "", errors.New("deepgram returned no channels")
}

// CheckKey transcribes a short silent clip. Any error means the key is not
// usable.
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
