package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatCompleter struct {
	calls  int
	params openai.ChatCompletionNewParams
	resp   *openai.ChatCompletion
	err    error
}

func (f *fakeChatCompleter) New(
	_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption,
) (*openai.ChatCompletion, error) {
	f.calls++
	f.params = body
	return f.resp, f.err
}

func TestNewOpenAIProvider(t *testing.T) {
	provider := NewOpenAIProvider("test-api-key")
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
	assert.NotNil(t, provider.completions)
}

func TestOpenAIProvider_BuildRequestParams(t *testing.T) {
	provider := &OpenAIProvider{}

	tests := []struct {
		name    string
		request *GenerationRequest
		checks  func(t *testing.T, params openai.ChatCompletionNewParams)
	}{
		{
			name: "system and user message with schema",
			request: &GenerationRequest{
				Model:        "gpt-4o-mini",
				SystemPrompt: "system",
				UserMessage:  "task",
				OutputSchema: NewOptimizationOutputSchema(),
			},
			checks: func(t *testing.T, params openai.ChatCompletionNewParams) {
				t.Helper()
				assert.Equal(t, openai.ChatModel("gpt-4o-mini"), params.Model)
				assert.Len(t, params.Messages, 2)
				require.NotNil(t, params.ResponseFormat.OfJSONSchema)
				assert.Equal(t, "optimized_prompt", params.ResponseFormat.OfJSONSchema.JSONSchema.Name)
				assert.True(t, params.ResponseFormat.OfJSONSchema.JSONSchema.Strict.Value)
			},
		},
		{
			name: "no system prompt, no schema",
			request: &GenerationRequest{
				Model:       "gpt-4o-mini",
				UserMessage: "task",
			},
			checks: func(t *testing.T, params openai.ChatCompletionNewParams) {
				t.Helper()
				assert.Len(t, params.Messages, 1)
				assert.Nil(t, params.ResponseFormat.OfJSONSchema)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checks(t, provider.buildRequestParams(tt.request))
		})
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	fake := &fakeChatCompleter{
		resp: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: `{"optimizedPrompt":"X","explanation":"Y"}`}},
			},
			Usage: openai.CompletionUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
	}
	provider := &OpenAIProvider{completions: fake}

	resp, err := provider.Generate(context.Background(), &GenerationRequest{
		Model:        "gpt-4o-mini",
		SystemPrompt: "system",
		UserMessage:  "task",
		OutputSchema: NewOptimizationOutputSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, `{"optimizedPrompt":"X","explanation":"Y"}`, resp.RawOutput)
	assert.Equal(t, Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, resp.Usage)
}

func TestOpenAIProvider_GenerateNoChoices(t *testing.T) {
	provider := &OpenAIProvider{completions: &fakeChatCompleter{resp: &openai.ChatCompletion{}}}

	resp, err := provider.Generate(context.Background(), &GenerationRequest{Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Empty(t, resp.RawOutput)
}

func TestOpenAIProvider_GenerateError(t *testing.T) {
	cause := errors.New("connection reset")
	provider := &OpenAIProvider{completions: &fakeChatCompleter{err: cause}}

	_, err := provider.Generate(context.Background(), &GenerationRequest{Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, cause)
}
