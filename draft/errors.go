package draft

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed generation.
type Kind int

const (
	GenerationFailed Kind = iota
	MissingInput
	InvalidModelConfig
	InvalidCredential
	RateLimited
	EmptyGeneration
)

func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "missing_input"
	case InvalidModelConfig:
		return "invalid_model_config"
	case InvalidCredential:
		return "invalid_credential"
	case RateLimited:
		return "rate_limited"
	case EmptyGeneration:
		return "empty_generation"
	default:
		return "generation_failed"
	}
}

// HTTPStatus is the status code a server should answer with.
func (k Kind) HTTPStatus() int {
	switch k {
	case MissingInput, InvalidModelConfig:
		return http.StatusBadRequest
	case InvalidCredential:
		return http.StatusUnauthorized
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is returned by every failed generation.
type Error struct {
	Kind     Kind
	Provider Provider
	Err      error
}

// Error returns the user facing message for the kind.
func (e *Error) Error() string {
	switch e.Kind {
	case MissingInput:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Missing required fields"
	case InvalidModelConfig:
		return "Invalid model name or API configuration. Please check your API key and try again."
	case InvalidCredential:
		return "Invalid API key. Please check your API key and try again."
	case RateLimited:
		return "Rate limit exceeded. Please try again later."
	case EmptyGeneration:
		return "No content generated"
	default:
		return fmt.Sprintf("Failed to generate draft with %s. Please try again.", e.Provider)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// rule maps a substring of a provider error message to a kind.
type rule struct {
	pattern string
	kind    Kind
}

var anthropicRules = []rule{
	{"not_found_error", InvalidModelConfig},
	{"invalid_api_key", InvalidCredential},
	{"rate_limit", RateLimited},
}

// translations holds the error vocabulary per provider. Matching is case
// sensitive and the first matching rule wins.
var translations = map[Provider][]rule{
	ProviderClaude: anthropicRules,
	ProviderGemini: append(append([]rule{}, anthropicRules...),
		rule{"API_KEY_INVALID", InvalidCredential},
		rule{"RESOURCE_EXHAUSTED", RateLimited},
	),
}

// Classify translates a provider failure into an *Error.
func Classify(provider Provider, err error) *Error {
	msg := err.Error()
	for _, r := range translations[provider] {
		if strings.Contains(msg, r.pattern) {
			return &Error{Kind: r.kind, Provider: provider, Err: err}
		}
	}
	return &Error{Kind: GenerationFailed, Provider: provider, Err: err}
}
