package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/llm"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/Conceptual-Machines/alpacka-api/internal/prompt"
)

// Config holds what the client needs to reach the generation endpoint.
// The credential is passed in explicitly and never read from the environment here.
type Config struct {
	APIKey   string
	Model    string
	Provider string
}

// ProviderBuilder constructs the endpoint adapter for one call
type ProviderBuilder func(ctx context.Context, providerName, apiKey string) (llm.Provider, error)

// Observation describes one generation attempt, successful or not
type Observation struct {
	Model        string
	Provider     string
	StartedAt    time.Time
	Duration     time.Duration
	Usage        llm.Usage
	SystemPrompt string
	UserMessage  string
	RawOutput    string
	Err          error
}

// Observer receives an Observation after every attempt that reached the endpoint
type Observer interface {
	ObserveGeneration(ctx context.Context, obs Observation)
}

// Option configures a Client
type Option func(*Client)

// WithProviderBuilder replaces the default llm.NewProvider
func WithProviderBuilder(builder ProviderBuilder) Option {
	return func(c *Client) {
		c.buildProvider = builder
	}
}

// WithClock sets the timestamp source for results
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithObserver registers an observer for generation attempts
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// Client turns a GenerationRequest into a GenerationResult with one endpoint call
type Client struct {
	cfg           Config
	providerName  string
	buildProvider ProviderBuilder
	promptBuilder *prompt.Builder
	clock         func() time.Time
	observer      Observer
}

// NewClient creates a generation client
func NewClient(cfg Config, promptBuilder *prompt.Builder, opts ...Option) *Client {
	c := &Client{
		cfg:           cfg,
		providerName:  llm.ResolveProviderName(cfg.Model, cfg.Provider),
		buildProvider: llm.NewProvider,
		promptBuilder: promptBuilder,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the generation model id
func (c *Client) Model() string {
	return c.cfg.Model
}

// HasCredential reports whether an API key is configured
func (c *Client) HasCredential() bool {
	return c.cfg.APIKey != ""
}

// optimizationPayload uses pointers so a missing field is distinguishable from an empty one
type optimizationPayload struct {
	OptimizedPrompt *string `json:"optimizedPrompt"`
	Explanation     *string `json:"explanation"`
}

// Optimize performs exactly one generation call for req
func (c *Client) Optimize(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error) {
	result, _, err := c.OptimizeObserved(ctx, req)
	return result, err
}

// OptimizeObserved is Optimize that also returns the attempt's Observation.
// The Observation is zero when the endpoint was never reached.
func (c *Client) OptimizeObserved(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, Observation, error) {
	if c.cfg.APIKey == "" {
		log.Printf("⚠️  Generation credential missing, skipping endpoint call")
		return nil, Observation{}, newError(KindMissingCredential, nil)
	}

	systemPrompt, err := c.promptBuilder.SystemInstruction(req)
	if err != nil {
		return nil, Observation{}, fmt.Errorf("failed to build system instruction: %w", err)
	}
	userMessage, err := c.promptBuilder.TaskMessage(req)
	if err != nil {
		return nil, Observation{}, fmt.Errorf("failed to build task message: %w", err)
	}

	provider, err := c.buildProvider(ctx, c.providerName, c.cfg.APIKey)
	if err != nil {
		return nil, Observation{}, newError(KindTransport, err)
	}

	obs := Observation{
		Model:        c.cfg.Model,
		Provider:     provider.Name(),
		StartedAt:    c.clock(),
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
	}
	start := time.Now()

	resp, err := provider.Generate(ctx, &llm.GenerationRequest{
		Model:        c.cfg.Model,
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
		OutputSchema: llm.NewOptimizationOutputSchema(),
	})
	obs.Duration = time.Since(start)

	if err != nil {
		optErr := newError(KindTransport, err)
		obs.Err = optErr
		c.observe(ctx, obs)
		return nil, obs, optErr
	}

	obs.Usage = resp.Usage
	obs.RawOutput = resp.RawOutput

	result, optErr := c.decode(req, resp.RawOutput)
	if optErr != nil {
		obs.Err = optErr
		c.observe(ctx, obs)
		return nil, obs, optErr
	}

	c.observe(ctx, obs)
	return result, obs, nil
}

func (c *Client) decode(req *models.GenerationRequest, raw string) (*models.GenerationResult, *Error) {
	if strings.TrimSpace(raw) == "" {
		return nil, newError(KindEmptyResponse, nil)
	}

	var payload optimizationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, newError(KindMalformedResponse, fmt.Errorf("decode payload: %w", err))
	}

	if err := requireField(llm.OptimizedPromptField, payload.OptimizedPrompt); err != nil {
		return nil, newError(KindMalformedResponse, err)
	}
	if err := requireField(llm.ExplanationField, payload.Explanation); err != nil {
		return nil, newError(KindMalformedResponse, err)
	}

	return &models.GenerationResult{
		Original:    req.OriginalText,
		Optimized:   *payload.OptimizedPrompt,
		Explanation: *payload.Explanation,
		Timestamp:   c.clock(),
	}, nil
}

var errFieldMissing = errors.New("field missing")

func requireField(name string, value *string) error {
	if value == nil {
		return fmt.Errorf("%s: %w", name, errFieldMissing)
	}
	if strings.TrimSpace(*value) == "" {
		return fmt.Errorf("%s: field empty", name)
	}
	return nil
}

func (c *Client) observe(ctx context.Context, obs Observation) {
	if c.observer != nil {
		c.observer.ObserveGeneration(ctx, obs)
	}
}
