package llm

import (
	"context"
)

// Provider defines the interface for generation endpoints.
// All providers MUST enforce the OutputSchema so the reply is a JSON document.
type Provider interface {
	// Generate performs exactly one call to the endpoint. An empty RawOutput is not an error
	// at this layer; callers decide how to classify it.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for one endpoint call
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	UserMessage  string
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// GenerationResponse contains the raw reply from the endpoint
type GenerationResponse struct {
	RawOutput string `json:"-"` // Raw JSON text output
	Usage     Usage  `json:"usage"`
}

// Usage is the token accounting reported by the endpoint, normalized across providers
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
