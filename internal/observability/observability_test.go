package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/config"
	"github.com/Conceptual-Machines/alpacka-api/internal/llm"
	"github.com/Conceptual-Machines/alpacka-api/internal/metrics"
	"github.com/Conceptual-Machines/alpacka-api/internal/optimizer"
	"github.com/henomis/langfuse-go/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLangfuse struct {
	traces      []*model.Trace
	generations []*model.Generation
	ended       []*model.Generation
	flushed     int
	traceErr    error
}

func (f *fakeLangfuse) Trace(t *model.Trace) (*model.Trace, error) {
	if f.traceErr != nil {
		return nil, f.traceErr
	}
	t.ID = "trace-1"
	f.traces = append(f.traces, t)
	return t, nil
}

func (f *fakeLangfuse) Generation(g *model.Generation, _ *string) (*model.Generation, error) {
	g.ID = "gen-1"
	f.generations = append(f.generations, g)
	return g, nil
}

func (f *fakeLangfuse) GenerationEnd(g *model.Generation) (*model.Generation, error) {
	f.ended = append(f.ended, g)
	return g, nil
}

func (f *fakeLangfuse) Flush(_ context.Context) {
	f.flushed++
}

type capturingRecorder struct {
	generations []metrics.Generation
}

func (r *capturingRecorder) RecordAPIRequest(_ context.Context, _ string, _ int, _ time.Duration) {}

func (r *capturingRecorder) RecordGeneration(_ context.Context, generation metrics.Generation) {
	r.generations = append(r.generations, generation)
}

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		model  string
		input  int
		output int
		want   float64
	}{
		{model: "gemini-2.5-flash-lite", input: 1_000_000, output: 0, want: 0.10},
		{model: "gemini-2.5-flash", input: 0, output: 1_000_000, want: 2.50},
		{model: "gpt-4o-mini-2024-07-18", input: 1_000_000, output: 1_000_000, want: 0.75},
		{model: "unknown-model", input: 1_000_000, output: 0, want: 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateCost(tt.model, tt.input, tt.output), 1e-9)
		})
	}
}

func TestPricingForLongestPrefix(t *testing.T) {
	assert.Equal(t, PricingTable["gemini-2.5-flash-lite"], PricingFor("gemini-2.5-flash-lite-preview"))
	assert.Equal(t, PricingTable["gpt-4o"], PricingFor("GPT-4o-2024-08-06"))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.000123", FormatCost(0.000123))
}

func TestNewLangfuseDisabled(t *testing.T) {
	lf := NewLangfuse(context.Background(), &config.Config{LangfuseEnabled: false})
	assert.False(t, lf.IsEnabled())

	// Disabled clients are no-ops
	lf.RecordGeneration(context.Background(), GenerationRecord{})
	lf.Flush(context.Background())

	var nilClient *LangfuseClient
	assert.False(t, nilClient.IsEnabled())
}

func TestLangfuseRecordGeneration(t *testing.T) {
	fake := &fakeLangfuse{}
	lf := &LangfuseClient{client: fake, enabled: true}
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	lf.RecordGeneration(context.Background(), GenerationRecord{
		TraceName:    "prompt_optimization",
		Model:        "gemini-2.5-flash-lite",
		StartTime:    start,
		EndTime:      start.Add(time.Second),
		SystemPrompt: "system",
		UserMessage:  "user",
		Output:       `{"optimizedPrompt":"X","explanation":"Y"}`,
		InputTokens:  100,
		OutputTokens: 50,
		TotalTokens:  150,
	})
	lf.Flush(context.Background())

	require.Len(t, fake.traces, 1)
	require.Len(t, fake.ended, 1)
	gen := fake.ended[0]
	assert.Equal(t, "trace-1", gen.TraceID)
	assert.Equal(t, "gemini-2.5-flash-lite", gen.Model)
	assert.Equal(t, 150, gen.Usage.Total)
	assert.Equal(t, start.Add(time.Second), *gen.EndTime)
	assert.Empty(t, gen.StatusMessage)
	assert.Equal(t, 1, fake.flushed)
}

func TestLangfuseTraceFailure(t *testing.T) {
	fake := &fakeLangfuse{traceErr: errors.New("unauthorized")}
	lf := &LangfuseClient{client: fake, enabled: true}

	lf.RecordGeneration(context.Background(), GenerationRecord{Model: "m"})
	assert.Empty(t, fake.generations)
}

func TestGenerationObserver(t *testing.T) {
	fake := &fakeLangfuse{}
	recorder := &capturingRecorder{}
	observer := NewGenerationObserver(&LangfuseClient{client: fake, enabled: true}, recorder)

	var _ optimizer.Observer = observer

	observer.ObserveGeneration(context.Background(), optimizer.Observation{
		Model:    "gemini-2.5-flash-lite",
		Provider: "gemini",
		Duration: 800 * time.Millisecond,
		Usage:    llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	})
	observer.ObserveGeneration(context.Background(), optimizer.Observation{
		Model:    "gemini-2.5-flash-lite",
		Provider: "gemini",
		Err:      &optimizer.Error{Kind: optimizer.KindMalformedResponse},
	})

	require.Len(t, recorder.generations, 2)
	assert.Equal(t, metrics.OutcomeSuccess, recorder.generations[0].Outcome)
	assert.Equal(t, 15, recorder.generations[0].TotalTokens)
	assert.Equal(t, "malformed_response", recorder.generations[1].Outcome)

	require.Len(t, fake.ended, 2)
	assert.Empty(t, fake.ended[0].StatusMessage)
	assert.Equal(t, model.ObservationLevel("ERROR"), fake.ended[1].Level)
}

func TestGenerationObserverNilCollaborators(t *testing.T) {
	observer := NewGenerationObserver(nil, nil)
	observer.ObserveGeneration(context.Background(), optimizer.Observation{Model: "m"})
}
