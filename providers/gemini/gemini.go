package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/garysheng/braindump/providers"
)

const (
	providerName = "gemini"

	// DefaultModel is used for draft and title generation.
	DefaultModel = "gemini-2.0-flash-exp"
)

// contentGenerator is a local interface that wraps the method we need
// from genai.Models to enable easier testing
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider implements providers.Generator using the Gemini API.
type Provider struct {
	model     string
	newClient func(ctx context.Context, apiKey string) (contentGenerator, error)
}

// NewProvider creates a new Gemini provider for the given model.
func NewProvider(model string) *Provider {
	if model == "" {
		model = DefaultModel
	}
	return &Provider{
		model: model,
		newClient: func(ctx context.Context, apiKey string) (contentGenerator, error) {
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				return nil, err
			}
			return client.Models, nil
		},
	}
}

// Name returns the name of the provider.
func (p *Provider) Name() string {
	return providerName
}

// Generate sends the prompt as plain text. No output cap is set; MaxTokens
// is ignored for this provider.
func (p *Provider) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	if req.APIKey == "" {
		return "", providers.ErrMissingAPIKey
	}

	models, err := p.newClient(ctx, req.APIKey)
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	var config *genai.GenerateContentConfig
	if req.HasTemperature {
		temp := float32(req.Temperature)
		config = &genai.GenerateContentConfig{Temperature: &temp}
	}

	resp, err := models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// CheckKey sends a one word prompt.
func (p *Provider) CheckKey(ctx context.Context, apiKey string) error {
	_, err := p.Generate(ctx, providers.GenerationRequest{
		Prompt: "Hi",
		APIKey: apiKey,
	})
	return err
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
