package flow

import (
	"context"

	"booking-flow/internal/models"
	"booking-flow/internal/pricing"
)

// Submission is the finished draft handed to the sink.
type Submission struct {
	Kind           models.Kind
	IdempotencyKey string
	Category       string
	Draft          any
	Quote          pricing.Quote
}

// Sink durably records a finished draft.
type Sink interface {
	Submit(ctx context.Context, sub Submission) (models.Confirmation, error)
}

type SinkFunc func(ctx context.Context, sub Submission) (models.Confirmation, error)

func (f SinkFunc) Submit(ctx context.Context, sub Submission) (models.Confirmation, error) {
	return f(ctx, sub)
}
