package optimizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/llm"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/Conceptual-Machines/alpacka-api/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls   int
	request *llm.GenerationRequest
	resp    *llm.GenerationResponse
	err     error
}

func (f *fakeProvider) Generate(_ context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	f.calls++
	f.request = request
	return f.resp, f.err
}

func (f *fakeProvider) Name() string {
	return "fake"
}

type recordingObserver struct {
	observations []Observation
}

func (r *recordingObserver) ObserveGeneration(_ context.Context, obs Observation) {
	r.observations = append(r.observations, obs)
}

var fixedTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, apiKey string, provider *fakeProvider, observer Observer) (*Client, *int) {
	t.Helper()

	builder, err := prompt.NewPromptBuilder()
	require.NoError(t, err)

	builds := 0
	opts := []Option{
		WithProviderBuilder(func(_ context.Context, _, _ string) (llm.Provider, error) {
			builds++
			return provider, nil
		}),
		WithClock(func() time.Time { return fixedTime }),
	}
	if observer != nil {
		opts = append(opts, WithObserver(observer))
	}

	client := NewClient(Config{APIKey: apiKey, Model: "gemini-2.5-flash-lite"}, builder, opts...)
	return client, &builds
}

func newRequest(t *testing.T, text string) *models.GenerationRequest {
	t.Helper()
	req, err := prompt.BuildRequest(text, models.ToneProfessional, models.ComplexityBalanced, "")
	require.NoError(t, err)
	return req
}

func TestOptimize_Success(t *testing.T) {
	provider := &fakeProvider{resp: &llm.GenerationResponse{
		RawOutput: `{"optimizedPrompt":"Escribe un correo formal a [NOMBRE]...","explanation":"Se añadieron rol y formato."}`,
		Usage:     llm.Usage{InputTokens: 300, OutputTokens: 120, TotalTokens: 420},
	}}
	observer := &recordingObserver{}
	client, _ := newTestClient(t, "key", provider, observer)

	text := "  escribe un correo a mi jefe pidiendo vacaciones  "
	result, err := client.Optimize(context.Background(), newRequest(t, text))
	require.NoError(t, err)

	assert.Equal(t, text, result.Original)
	assert.Equal(t, "Escribe un correo formal a [NOMBRE]...", result.Optimized)
	assert.Equal(t, "Se añadieron rol y formato.", result.Explanation)
	assert.Equal(t, fixedTime, result.Timestamp)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "gemini-2.5-flash-lite", provider.request.Model)
	assert.Contains(t, provider.request.UserMessage, text)
	assert.Contains(t, provider.request.SystemPrompt, "Gemini 2.0 Flash")
	require.NotNil(t, provider.request.OutputSchema)

	require.Len(t, observer.observations, 1)
	assert.NoError(t, observer.observations[0].Err)
	assert.Equal(t, 420, observer.observations[0].Usage.TotalTokens)
}

func TestOptimize_MissingCredential(t *testing.T) {
	provider := &fakeProvider{}
	client, builds := newTestClient(t, "", provider, nil)

	result, err := client.Optimize(context.Background(), newRequest(t, "hola"))
	assert.Nil(t, result)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, KindMissingCredential, KindOf(err))
	assert.Contains(t, MessageOf(err), "API Key")
	assert.Equal(t, 0, *builds)
	assert.Equal(t, 0, provider.calls)
}

func TestOptimize_ResponseFailures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind Kind
		sentinel error
	}{
		{name: "empty payload", raw: "", wantKind: KindEmptyResponse, sentinel: ErrEmptyResponse},
		{name: "whitespace payload", raw: "  \n", wantKind: KindEmptyResponse, sentinel: ErrEmptyResponse},
		{name: "not json", raw: "Aquí tienes tu prompt", wantKind: KindMalformedResponse, sentinel: ErrMalformedResponse},
		{name: "missing explanation", raw: `{"optimizedPrompt":"X"}`, wantKind: KindMalformedResponse, sentinel: ErrMalformedResponse},
		{name: "missing optimized", raw: `{"explanation":"Y"}`, wantKind: KindMalformedResponse, sentinel: ErrMalformedResponse},
		{name: "non-string field", raw: `{"optimizedPrompt":42,"explanation":"Y"}`, wantKind: KindMalformedResponse, sentinel: ErrMalformedResponse},
		{name: "empty field", raw: `{"optimizedPrompt":"","explanation":"Y"}`, wantKind: KindMalformedResponse, sentinel: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{resp: &llm.GenerationResponse{RawOutput: tt.raw}}
			observer := &recordingObserver{}
			client, _ := newTestClient(t, "key", provider, observer)

			result, err := client.Optimize(context.Background(), newRequest(t, "idea"))
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.False(t, IsConfigurationError(err))
			assert.Equal(t, messageGenerationFailed, MessageOf(err))
			assert.Equal(t, 1, provider.calls)

			require.Len(t, observer.observations, 1)
			assert.Error(t, observer.observations[0].Err)
		})
	}
}

func TestOptimize_TransportError(t *testing.T) {
	cause := errors.New("429 quota exceeded")
	provider := &fakeProvider{err: cause}
	client, _ := newTestClient(t, "key", provider, nil)

	_, err := client.Optimize(context.Background(), newRequest(t, "idea"))
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestOptimize_ProviderBuildError(t *testing.T) {
	builder, err := prompt.NewPromptBuilder()
	require.NoError(t, err)

	client := NewClient(Config{APIKey: "key", Model: "m"}, builder,
		WithProviderBuilder(func(_ context.Context, _, _ string) (llm.Provider, error) {
			return nil, errors.New("bad key format")
		}))

	_, err = client.Optimize(context.Background(), newRequest(t, "idea"))
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClientAccessors(t *testing.T) {
	client, _ := newTestClient(t, "", &fakeProvider{}, nil)
	assert.False(t, client.HasCredential())
	assert.Equal(t, "gemini-2.5-flash-lite", client.Model())
}

func TestOptimizeObserved(t *testing.T) {
	provider := &fakeProvider{resp: &llm.GenerationResponse{
		RawOutput: `{"optimizedPrompt":"X","explanation":"Y"}`,
		Usage:     llm.Usage{InputTokens: 3, OutputTokens: 2, TotalTokens: 5},
	}}
	client, _ := newTestClient(t, "key", provider, nil)

	result, obs, err := client.OptimizeObserved(context.Background(), newRequest(t, "idea"))
	require.NoError(t, err)
	assert.Equal(t, "X", result.Optimized)
	assert.Equal(t, "fake", obs.Provider)
	assert.Equal(t, 5, obs.Usage.TotalTokens)

	missing, _ := newTestClient(t, "", provider, nil)
	_, obs, err = missing.OptimizeObserved(context.Background(), newRequest(t, "idea"))
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, Observation{}, obs)
}
