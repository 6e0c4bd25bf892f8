package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feline-finder/internal/lifecycle"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RetryQueue is the producer side; it implements lifecycle.Retrier.
type RetryQueue struct {
	client   Enqueuer
	maxRetry int
	delay    time.Duration
	log      *zap.Logger
}

func NewRetryQueue(client Enqueuer, maxRetry int, log *zap.Logger) *RetryQueue {
	if maxRetry <= 0 {
		maxRetry = 5
	}
	return &RetryQueue{
		client:   client,
		maxRetry: maxRetry,
		delay:    30 * time.Second,
		log:      log.With(zap.String("worker", "retry_queue")),
	}
}

func (q *RetryQueue) Enqueue(ctx context.Context, rt lifecycle.RetryTask) error {
	task, err := NewRetryTask(rt, q.maxRetry)
	if err != nil {
		return fmt.Errorf("build retry task: %w", err)
	}

	info, err := q.client.EnqueueContext(ctx, task, asynq.ProcessIn(q.delay))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		q.log.Debug("Retry already queued",
			zap.String("booking_id", rt.BookingID.String()),
			zap.String("effect", rt.Effect.String()),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue retry task: %w", err)
	}

	q.log.Info("Side effect retry queued",
		zap.String("task_id", info.ID),
		zap.String("booking_id", rt.BookingID.String()),
		zap.String("effect", rt.Effect.String()),
	)
	return nil
}
