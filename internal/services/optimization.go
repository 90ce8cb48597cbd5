package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/logger"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/Conceptual-Machines/alpacka-api/internal/optimizer"
	"github.com/Conceptual-Machines/alpacka-api/internal/prompt"
)

// Generator is the generation client as seen by the service
type Generator interface {
	OptimizeObserved(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, optimizer.Observation, error)
	Model() string
	HasCredential() bool
}

// UsageStore persists optimization attempts
type UsageStore interface {
	Record(ctx context.Context, entry *models.UsageLog) error
	RecentForUser(ctx context.Context, userID uint, limit int) ([]models.UsageLog, error)
}

// OptimizeInput is one raw submission from the API or the web form
type OptimizeInput struct {
	Text        string
	Tone        string
	Complexity  string
	TargetModel string
	UserID      uint
	RequestID   string
}

// OptimizationService validates a submission, runs the generation client and logs usage
type OptimizationService struct {
	generator Generator
	usage     UsageStore
}

// NewOptimizationService creates the service. usage may be nil when no database is configured.
func NewOptimizationService(generator Generator, usage UsageStore) *OptimizationService {
	return &OptimizationService{generator: generator, usage: usage}
}

// HasCredential reports whether the generation endpoint can be called at all
func (s *OptimizationService) HasCredential() bool {
	return s.generator.HasCredential()
}

// Optimize builds the request and performs one generation.
// prompt.ErrEmptyInput and prompt.ErrInvalidOption are returned before the generator is touched.
func (s *OptimizationService) Optimize(ctx context.Context, input OptimizeInput) (*models.GenerationResult, error) {
	tone, err := models.ParseTone(input.Tone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", prompt.ErrInvalidOption, err)
	}
	complexity, err := models.ParseComplexity(input.Complexity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", prompt.ErrInvalidOption, err)
	}

	req, err := prompt.BuildRequest(input.Text, tone, complexity, input.TargetModel)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, obs, err := s.generator.OptimizeObserved(ctx, req)
	s.recordUsage(ctx, input, req, result, obs, time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

// History returns the user's recent optimizations, newest first
func (s *OptimizationService) History(ctx context.Context, userID uint, limit int) ([]models.UsageLog, error) {
	if s.usage == nil {
		return []models.UsageLog{}, nil
	}
	return s.usage.RecentForUser(ctx, userID, limit)
}

// recordUsage is best effort; a failed insert never fails the optimization
func (s *OptimizationService) recordUsage(
	ctx context.Context,
	input OptimizeInput,
	req *models.GenerationRequest,
	result *models.GenerationResult,
	obs optimizer.Observation,
	duration time.Duration,
	genErr error,
) {
	if s.usage == nil {
		return
	}

	entry := &models.UsageLog{
		UserID:       input.UserID,
		Model:        s.generator.Model(),
		TargetModel:  req.TargetModelName,
		Tone:         string(req.Tone),
		Complexity:   string(req.Complexity),
		Original:     req.OriginalText,
		InputTokens:  obs.Usage.InputTokens,
		OutputTokens: obs.Usage.OutputTokens,
		TotalTokens:  obs.Usage.TotalTokens,
		DurationMS:   int(duration.Milliseconds()),
		RequestID:    input.RequestID,
	}
	if genErr != nil {
		entry.ErrorKind = string(optimizer.KindOf(genErr))
	} else {
		entry.Success = true
		entry.Optimized = result.Optimized
		entry.Explanation = result.Explanation
	}

	if err := s.usage.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record usage", logger.Fields{
			"request_id": input.RequestID,
			"error":      err.Error(),
		})
	}
}
