package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// contentGenerator is the part of *genai.Models the provider needs
type contentGenerator interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	models contentGenerator
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		models: client.Models,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate performs one GenerateContent call with structured output
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("✨ GEMINI GENERATION REQUEST STARTED (Model: %s)", request.Model)

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	contents := p.buildGeminiContents(request.UserMessage)
	config := p.buildGeminiConfig(request)

	// Call Gemini API
	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.models.GenerateContent(ctx, request.Model, contents, config)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ GEMINI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	log.Printf("⏱️  GEMINI API CALL COMPLETED in %v", apiDuration)

	response := p.processGeminiResponse(result)
	transaction.SetTag("success", "true")
	log.Printf("✅ GEMINI GENERATION COMPLETED in %v (output_length=%d)", time.Since(startTime), len(response.RawOutput))

	return response, nil
}

// buildGeminiContents wraps the task message as the single user turn
func (p *GeminiProvider) buildGeminiContents(userMessage string) []*genai.Content {
	return []*genai.Content{
		{
			Role:  geminiUserRole,
			Parts: []*genai.Part{{Text: userMessage}},
		},
	}
}

func (p *GeminiProvider) buildGeminiConfig(request *GenerationRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if request.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		}
	}

	// Add JSON schema for structured output if provided
	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = convertSchemaToGemini(request.OutputSchema.Schema)
	}

	return config
}

// convertSchemaToGemini converts a JSON schema map to Gemini's schema type.
// Keywords Gemini does not understand (additionalProperties, minimum, ...) are dropped.
func convertSchemaToGemini(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	result := &genai.Schema{}

	switch t := schema["type"].(type) {
	case string:
		result.Type = geminiType(t)
	case []any:
		// ["string", "null"] style unions
		for _, item := range t {
			name, ok := item.(string)
			if !ok {
				continue
			}
			if name == "null" {
				nullable := true
				result.Nullable = &nullable
				continue
			}
			result.Type = geminiType(name)
		}
	}

	if description, ok := schema["description"].(string); ok {
		result.Description = description
	}

	if properties, ok := schema["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(properties))
		for name, raw := range properties {
			if child, ok := raw.(map[string]any); ok {
				result.Properties[name] = convertSchemaToGemini(child)
			}
		}
	}

	result.Required = stringList(schema["required"])
	result.Enum = stringList(schema["enum"])

	if items, ok := schema["items"].(map[string]any); ok {
		result.Items = convertSchemaToGemini(items)
	}

	return result
}

func geminiType(name string) genai.Type {
	switch name {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// processGeminiResponse extracts the text payload and usage from a Gemini response.
// Missing candidates or parts yield an empty RawOutput.
func (p *GeminiProvider) processGeminiResponse(result *genai.GenerateContentResponse) *GenerationResponse {
	response := &GenerationResponse{}
	if result == nil {
		return response
	}

	if result.UsageMetadata != nil {
		response.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
		log.Printf("📊 GEMINI USAGE: input=%d, output=%d, total=%d",
			response.Usage.InputTokens, response.Usage.OutputTokens, response.Usage.TotalTokens)
	}

	if len(result.Candidates) == 0 || result.Candidates[0] == nil || result.Candidates[0].Content == nil {
		log.Printf("⚠️  Gemini response has no candidates")
		return response
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	response.RawOutput = sb.String()
	log.Printf("📥 GEMINI RESPONSE: output_length=%d", len(response.RawOutput))

	return response
}
