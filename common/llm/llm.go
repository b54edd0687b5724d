package llm

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds LLM client configuration.
type Config struct {
	Provider string // "openai" or "anthropic"
	APIKey   string // Required: API key for the provider
	BaseURL  string // Optional: custom API endpoint
	Model    string // Model name (e.g., "gpt-4o-mini", "claude-sonnet-4-5-20250514")
}

// Client supports single-turn and multi-turn text completions.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// CompletionRequest contains the messages for a completion turn.
type CompletionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature *float64

	// ResponseSchema, when set, requests a JSON response conforming to the
	// schema. SchemaName labels it for providers that require a name.
	ResponseSchema any
	SchemaName     string
}

// Message represents a conversation message.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// CompletionResponse contains the LLM's response.
type CompletionResponse struct {
	Content          string
	FinishReason     string // "stop", "length"
	PromptTokens     int
	CompletionTokens int
}

// NewClient creates a completion client for the configured provider.
// Defaults to OpenAI if no provider is specified.
func NewClient(cfg Config) (Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	default:
		return nil, errUnsupportedProvider(provider)
	}
}

// GenerateSchemaFrom generates a JSON schema from an instance value,
// suitable for CompletionRequest.ResponseSchema.
func GenerateSchemaFrom(v any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}
