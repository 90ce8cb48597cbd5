package metrics

import (
	"context"
	"time"
)

// Outcome values for generation metrics
const (
	OutcomeSuccess = "success"
)

// Generation describes one optimization attempt for metrics purposes
type Generation struct {
	Model        string
	Provider     string
	Outcome      string // "success" or the optimizer error kind
	Duration     time.Duration
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Success reports whether the attempt produced a result
func (g Generation) Success() bool {
	return g.Outcome == OutcomeSuccess
}

// Recorder is implemented by every metrics backend
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordGeneration(ctx context.Context, generation Generation)
}

// Multi fans out to several recorders. Nil entries are skipped.
type Multi []Recorder

// NewMulti builds a Multi from the non-nil recorders
func NewMulti(recorders ...Recorder) Multi {
	multi := make(Multi, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			multi = append(multi, r)
		}
	}
	return multi
}

func (m Multi) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range m {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

func (m Multi) RecordGeneration(ctx context.Context, generation Generation) {
	for _, r := range m {
		r.RecordGeneration(ctx, generation)
	}
}
