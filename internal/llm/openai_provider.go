package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	// Provider name
	providerNameOpenAI = "openai"
)

// chatCompleter is the part of the OpenAI chat completions service the provider needs
type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIProvider implements the Provider interface using OpenAI chat completions
// with a strict json_schema response format
type OpenAIProvider struct {
	completions chatCompleter
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		completions: &client.Chat.Completions,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate performs one chat completion call with structured output
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("✨ OPENAI GENERATION REQUEST STARTED (Model: %s)", request.Model)

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := p.buildRequestParams(request)

	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.completions.New(ctx, params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ OPENAI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	log.Printf("⏱️  OPENAI API CALL COMPLETED in %v", apiDuration)

	response := p.processResponse(resp)
	transaction.SetTag("success", "true")
	log.Printf("✅ OPENAI GENERATION COMPLETED in %v (output_length=%d)", time.Since(startTime), len(response.RawOutput))

	return response, nil
}

// buildRequestParams converts GenerationRequest to OpenAI chat completion parameters
func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) openai.ChatCompletionNewParams {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if request.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(request.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(request.UserMessage))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(request.Model),
		Messages: messages,
	}

	if request.OutputSchema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        request.OutputSchema.Name,
					Description: openai.String(request.OutputSchema.Description),
					Schema:      request.OutputSchema.Schema,
					Strict:      openai.Bool(true),
				},
			},
		}
		log.Printf("📋 JSON SCHEMA CONFIGURED: %s", request.OutputSchema.Name)
	}

	return params
}

// processResponse extracts the first choice content and usage
func (p *OpenAIProvider) processResponse(resp *openai.ChatCompletion) *GenerationResponse {
	response := &GenerationResponse{}
	if resp == nil {
		return response
	}

	response.Usage = Usage{
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:  int(resp.Usage.TotalTokens),
	}

	if len(resp.Choices) == 0 {
		log.Printf("⚠️  OpenAI response has no choices")
		return response
	}

	response.RawOutput = resp.Choices[0].Message.Content
	log.Printf("📥 OPENAI RESPONSE: output_length=%d, tokens=%d", len(response.RawOutput), resp.Usage.TotalTokens)

	return response
}
