package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics records metrics as Sentry spans on the request transaction
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: sentry.CurrentHub().Client() != nil,
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))
	span.SetData("duration_ms", duration.Milliseconds())

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordGeneration tags the transaction with token usage and adds a generation span
func (m *SentryMetrics) RecordGeneration(ctx context.Context, generation Generation) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("generation.model", generation.Model)
		transaction.SetTag("generation.outcome", generation.Outcome)
		transaction.SetData("generation.total_tokens", generation.TotalTokens)
		transaction.SetData("generation.input_tokens", generation.InputTokens)
		transaction.SetData("generation.output_tokens", generation.OutputTokens)
	}

	span := sentry.StartSpan(ctx, "generation.request")
	defer span.Finish()

	span.SetTag("model", generation.Model)
	span.SetTag("provider", generation.Provider)
	span.SetTag("outcome", generation.Outcome)
	span.SetData("duration_ms", generation.Duration.Milliseconds())
	span.SetData("total_tokens", generation.TotalTokens)

	if generation.Success() {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("Generation: %s", generation.Model)
}
