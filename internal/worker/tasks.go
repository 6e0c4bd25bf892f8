// Package worker moves failed booking side effects through an asynq queue so they are
// retried without a staff member pressing "resend".
package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"feline-finder/internal/lifecycle"

	"github.com/hibiken/asynq"
)

const (
	TypeSideEffectRetry = "booking:side-effect-retry"
	QueueSideEffects    = "side-effects"
)

// NewRetryTask encodes a lifecycle.RetryTask. The task id makes a second enqueue for the
// same booking and effect a no-op while the first is still pending.
func NewRetryTask(rt lifecycle.RetryTask, maxRetry int) (*asynq.Task, error) {
	b, err := json.Marshal(rt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSideEffectRetry, b,
		asynq.Queue(QueueSideEffects),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(30*time.Second),
		asynq.TaskID(taskID(rt)),
	), nil
}

func taskID(rt lifecycle.RetryTask) string {
	return fmt.Sprintf("%s:%s:%s", rt.BookingID, rt.Effect, rt.ExpectStatus)
}

func decodeRetryTask(t *asynq.Task) (lifecycle.RetryTask, error) {
	var rt lifecycle.RetryTask
	if err := json.Unmarshal(t.Payload(), &rt); err != nil {
		return rt, fmt.Errorf("decode %s payload: %w", t.Type(), err)
	}
	return rt, nil
}
