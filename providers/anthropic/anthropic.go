package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/garysheng/braindump/providers"
)

const (
	providerName = "claude"

	// DefaultModel is used for draft and title generation.
	DefaultModel = "claude-3-5-sonnet-20241022"

	// checkModel is the cheapest model, used for one-token key checks.
	checkModel = "claude-3-haiku-20240307"

	defaultMaxTokens = 4000
)

// ErrInvalidKeyFormat is returned for keys that cannot be Anthropic keys.
var ErrInvalidKeyFormat = errors.New("invalid api key format")

// messageCreator is a local interface that wraps the method we need
// from anthropic.MessageService to enable easier testing
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Provider implements providers.Generator using the Anthropic Messages API.
type Provider struct {
	model     string
	newClient func(apiKey string) messageCreator
}

// NewProvider creates a new Anthropic provider for the given model.
func NewProvider(model string) *Provider {
	if model == "" {
		model = DefaultModel
	}
	return &Provider{
		model: model,
		newClient: func(apiKey string) messageCreator {
			client := anthropic.NewClient(option.WithAPIKey(apiKey))
			return &client.Messages
		},
	}
}

// Name returns the name of the provider.
func (p *Provider) Name() string {
	return providerName
}

// Generate sends the prompt as a single user message and concatenates the
// text blocks of the reply. SDK errors are returned untouched; their text
// carries the API error type used for classification.
func (p *Provider) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	if req.APIKey == "" {
		return "", providers.ErrMissingAPIKey
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.HasTemperature {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.newClient(req.APIKey).New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// CheckKey validates the key format and then asks for a single token.
func (p *Provider) CheckKey(ctx context.Context, apiKey string) error {
	if !strings.HasPrefix(apiKey, "sk-") {
		return ErrInvalidKeyFormat
	}

	_, err := p.newClient(apiKey).New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(checkModel),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Hi")),
		},
	})
	return err
}
