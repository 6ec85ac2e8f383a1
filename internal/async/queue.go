package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document to run through the intake pipeline.
type Job struct {
	Path        string
	UserID      uuid.UUID
	SubmittedAt time.Time
	TraceID     string
}

// Handler processes a single job. Its error is logged, not retried.
type Handler func(ctx context.Context, job Job) error

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
