package observability

import (
	"context"

	"github.com/Conceptual-Machines/alpacka-api/internal/logger"
	"github.com/Conceptual-Machines/alpacka-api/internal/metrics"
	"github.com/Conceptual-Machines/alpacka-api/internal/optimizer"
)

// GenerationObserver forwards optimizer observations to logs, metrics and Langfuse
type GenerationObserver struct {
	langfuse *LangfuseClient
	recorder metrics.Recorder
}

// NewGenerationObserver creates an observer. Both arguments may be nil.
func NewGenerationObserver(lf *LangfuseClient, recorder metrics.Recorder) *GenerationObserver {
	return &GenerationObserver{langfuse: lf, recorder: recorder}
}

// ObserveGeneration implements optimizer.Observer
func (o *GenerationObserver) ObserveGeneration(ctx context.Context, obs optimizer.Observation) {
	outcome := metrics.OutcomeSuccess
	errorMessage := ""
	if obs.Err != nil {
		outcome = string(optimizer.KindOf(obs.Err))
		errorMessage = obs.Err.Error()
	}

	cost := CalculateCost(obs.Model, obs.Usage.InputTokens, obs.Usage.OutputTokens)
	logger.LogOptimization(obs.Model, outcome, obs.Duration, len(obs.UserMessage), obs.Usage.TotalTokens, logger.Fields{
		"provider": obs.Provider,
		"cost_usd": FormatCost(cost),
	})

	if o.recorder != nil {
		o.recorder.RecordGeneration(ctx, metrics.Generation{
			Model:        obs.Model,
			Provider:     obs.Provider,
			Outcome:      outcome,
			Duration:     obs.Duration,
			InputTokens:  obs.Usage.InputTokens,
			OutputTokens: obs.Usage.OutputTokens,
			TotalTokens:  obs.Usage.TotalTokens,
		})
	}

	o.langfuse.RecordGeneration(ctx, GenerationRecord{
		TraceName:    "prompt_optimization",
		Model:        obs.Model,
		StartTime:    obs.StartedAt,
		EndTime:      obs.StartedAt.Add(obs.Duration),
		SystemPrompt: obs.SystemPrompt,
		UserMessage:  obs.UserMessage,
		Output:       obs.RawOutput,
		InputTokens:  obs.Usage.InputTokens,
		OutputTokens: obs.Usage.OutputTokens,
		TotalTokens:  obs.Usage.TotalTokens,
		ErrorMessage: errorMessage,
		Metadata: map[string]interface{}{
			"provider": obs.Provider,
			"outcome":  outcome,
		},
	})
}
