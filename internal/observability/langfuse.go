package observability

import (
	"context"
	"log"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/config"
	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"
)

// langfuseAPI is the subset of the henomis client used for generation traces
type langfuseAPI interface {
	Trace(t *model.Trace) (*model.Trace, error)
	Generation(g *model.Generation, parentID *string) (*model.Generation, error)
	GenerationEnd(g *model.Generation) (*model.Generation, error)
	Flush(ctx context.Context)
}

// LangfuseClient wraps the Langfuse client with our configuration
type LangfuseClient struct {
	client  langfuseAPI
	enabled bool
}

// NewLangfuse creates the Langfuse client.
// The henomis SDK reads LANGFUSE_HOST, LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY from the environment.
func NewLangfuse(ctx context.Context, cfg *config.Config) *LangfuseClient {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" || cfg.LangfusePublicKey == "" {
		log.Println("⚠️  Langfuse not configured (LANGFUSE_ENABLED=false or keys not set)")
		return &LangfuseClient{}
	}

	log.Printf("✅ Langfuse initialized (host: %s)", cfg.LangfuseHost)
	return &LangfuseClient{
		client:  langfuse.New(ctx),
		enabled: true,
	}
}

// IsEnabled returns whether Langfuse is enabled
func (c *LangfuseClient) IsEnabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// GenerationRecord is what gets sent to Langfuse for one optimization
type GenerationRecord struct {
	TraceName    string
	Model        string
	StartTime    time.Time
	EndTime      time.Time
	SystemPrompt string
	UserMessage  string
	Output       string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	ErrorMessage string
	Metadata     map[string]interface{}
}

// RecordGeneration creates a trace with a single generation span and queues both for sending
func (c *LangfuseClient) RecordGeneration(ctx context.Context, record GenerationRecord) {
	if !c.IsEnabled() {
		return
	}

	trace, err := c.client.Trace(&model.Trace{
		Name:     record.TraceName,
		Metadata: record.Metadata,
	})
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse trace: %v", err)
		return
	}

	start := record.StartTime
	gen, err := c.client.Generation(&model.Generation{
		TraceID:   trace.ID,
		Name:      "optimize_prompt",
		StartTime: &start,
		Model:     record.Model,
		Input: []map[string]interface{}{
			{"role": "system", "content": record.SystemPrompt},
			{"role": "user", "content": record.UserMessage},
		},
		Metadata: record.Metadata,
	}, nil)
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse generation: %v", err)
		return
	}

	end := record.EndTime
	gen.EndTime = &end
	if record.Output != "" {
		gen.Output = record.Output
	}
	gen.Usage = model.Usage{
		Input:     record.InputTokens,
		Output:    record.OutputTokens,
		Total:     record.TotalTokens,
		Unit:      model.ModelUsageUnitTokens,
		TotalCost: CalculateCost(record.Model, record.InputTokens, record.OutputTokens),
	}
	if record.ErrorMessage != "" {
		gen.Level = model.ObservationLevel("ERROR")
		gen.StatusMessage = record.ErrorMessage
	}

	if _, err := c.client.GenerationEnd(gen); err != nil {
		log.Printf("⚠️  Failed to end Langfuse generation: %v", err)
	}
}

// Flush sends queued events. Called on shutdown.
func (c *LangfuseClient) Flush(ctx context.Context) {
	if c.IsEnabled() {
		c.client.Flush(ctx)
	}
}
