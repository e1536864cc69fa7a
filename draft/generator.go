package draft

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/garysheng/braindump/providers"
)

// Provider selects the LLM used for one generation.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return p == ProviderClaude || p == ProviderGemini
}

// temperature is applied to Claude only.
const temperature = 0.7

// Request is everything needed to generate one draft.
type Request struct {
	APIKey       string   `json:"apiKey"`
	Provider     Provider `json:"model"`
	Responses    []Pair   `json:"responses"`
	Format       Format   `json:"format"`
	CustomFormat string   `json:"customFormat,omitempty"`
	Settings     Settings `json:"settings"`
}

// Validate checks the request before any network call. A custom format
// without a description is rejected here so no prompt is ever sent.
func (r Request) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" || r.Provider == "" || len(r.Responses) == 0 || r.Format == "" {
		return &Error{Kind: MissingInput, Provider: r.Provider}
	}
	if !r.Provider.Valid() {
		return &Error{Kind: MissingInput, Provider: r.Provider, Err: fmt.Errorf("unknown model %q", r.Provider)}
	}
	if !r.Format.Valid() {
		return &Error{Kind: MissingInput, Provider: r.Provider, Err: fmt.Errorf("unknown format %q", r.Format)}
	}
	if r.Format == FormatCustom && strings.TrimSpace(r.CustomFormat) == "" {
		return &Error{Kind: MissingInput, Provider: r.Provider, Err: errors.New("custom format description is required")}
	}
	if r.Settings.Length < 0 {
		return &Error{Kind: MissingInput, Provider: r.Provider, Err: errors.New("length must not be negative")}
	}
	return nil
}

// Result is a generated draft with the prompt that produced it.
type Result struct {
	Content string `json:"content"`
	Prompt  string `json:"prompt"`
}

// Generator dispatches prompts to one of the configured backends. There is
// no failover between them.
type Generator struct {
	backends map[Provider]providers.Generator
	log      *log.Logger
}

// NewGenerator creates a Generator with one backend per provider.
func NewGenerator(claude, gemini providers.Generator) *Generator {
	return &Generator{
		backends: map[Provider]providers.Generator{
			ProviderClaude: claude,
			ProviderGemini: gemini,
		},
		log: log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile),
	}
}

// SetLogger replaces the generator's logger.
func (g *Generator) SetLogger(l *log.Logger) {
	g.log = l
}

// Generate validates the request, builds the prompt and sends it once.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	prompt := BuildPrompt(req.Responses, req.Format, req.CustomFormat, req.Settings)
	gen := providers.GenerationRequest{
		Prompt: prompt,
		APIKey: req.APIKey,
	}
	if req.Provider == ProviderClaude {
		gen.MaxTokens = TokenBudget(req.Settings.Length)
		gen.Temperature = temperature
		gen.HasTemperature = true
	}

	content, err := g.Complete(ctx, req.Provider, gen)
	if err != nil {
		return Result{}, err
	}
	return Result{Content: content, Prompt: prompt}, nil
}

// Complete sends an already built request to the provider's backend and
// classifies any failure. Empty output is an EmptyGeneration error.
func (g *Generator) Complete(ctx context.Context, provider Provider, req providers.GenerationRequest) (string, error) {
	backend, ok := g.backends[provider]
	if !ok || backend == nil {
		return "", &Error{Kind: MissingInput, Provider: provider, Err: fmt.Errorf("unknown model %q", provider)}
	}

	content, err := backend.Generate(ctx, req)
	if err != nil {
		derr := Classify(provider, err)
		g.log.Printf("Error generating with %s: %s", provider, derr.Kind)
		return "", derr
	}
	if strings.TrimSpace(content) == "" {
		g.log.Printf("Generation with %s returned no content", provider)
		return "", &Error{Kind: EmptyGeneration, Provider: provider}
	}
	return content, nil
}
