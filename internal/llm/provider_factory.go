package llm

import (
	"context"
	"fmt"
	"strings"
)

// ResolveProviderName returns the provider for a model, honouring an explicit choice.
// gpt-* models use OpenAI, everything else goes to Gemini.
func ResolveProviderName(model, providerName string) string {
	if providerName != "" {
		return strings.ToLower(providerName)
	}

	if strings.HasPrefix(strings.ToLower(model), "gpt-") {
		return providerNameOpenAI
	}
	return providerNameGemini
}

// NewProvider creates the named provider with the given credential
func NewProvider(ctx context.Context, providerName, apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key not configured", providerName)
	}

	switch strings.ToLower(providerName) {
	case providerNameGemini:
		return NewGeminiProvider(ctx, apiKey)
	case providerNameOpenAI:
		return NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: gemini, openai)", providerName)
	}
}
