package worker

import (
	"context"
	"errors"
	"fmt"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/domain"
	"feline-finder/internal/lifecycle"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SideEffectRetrier is satisfied by *lifecycle.Engine.
type SideEffectRetrier interface {
	RetrySideEffect(ctx context.Context, orgID, bookingID uuid.UUID, effect lifecycle.Effect, expect entity.BookingStatus) (*lifecycle.Result, error)
}

// RetryHandler consumes TypeSideEffectRetry tasks.
type RetryHandler struct {
	engine SideEffectRetrier
	log    *zap.Logger
}

func NewRetryHandler(engine SideEffectRetrier, log *zap.Logger) *RetryHandler {
	return &RetryHandler{engine: engine, log: log.With(zap.String("worker", "retry_handler"))}
}

// ProcessTask returns an error while the side effect keeps failing so asynq schedules
// another attempt. Bad payloads and bookings that no longer exist are not retried.
func (h *RetryHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	rt, err := decodeRetryTask(t)
	if err != nil {
		h.log.Error("Invalid retry payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res, err := h.engine.RetrySideEffect(ctx, rt.OrgID, rt.BookingID, rt.Effect, rt.ExpectStatus)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			h.log.Warn("Dropping side effect retry",
				zap.String("booking_id", rt.BookingID.String()),
				zap.String("effect", rt.Effect.String()),
				zap.Error(err),
			)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	if res.Outcome.Skipped {
		h.log.Info("Side effect retry skipped, booking moved on",
			zap.String("booking_id", rt.BookingID.String()),
			zap.String("expected", string(rt.ExpectStatus)),
			zap.String("current", string(res.Booking.Status)),
		)
		return nil
	}
	if len(res.Outcome.Errors) > 0 {
		return errors.Join(sideEffectErrors(res.Outcome.Errors)...)
	}

	h.log.Info("Side effect retry succeeded",
		zap.String("booking_id", rt.BookingID.String()),
		zap.String("effect", rt.Effect.String()),
	)
	return nil
}

func sideEffectErrors(errs []domain.SideEffectError) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

type RetryServerConfig struct {
	Redis       asynq.RedisClientOpt
	Concurrency int
}

// RetryServer runs the consumer in the background.
type RetryServer struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log *zap.Logger
}

func NewRetryServer(cfg RetryServerConfig, handler *RetryHandler, log *zap.Logger) *RetryServer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	log = log.With(zap.String("worker", "retry_server"))

	srv := asynq.NewServer(cfg.Redis, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{QueueSideEffects: 1},
		Logger:      log.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Warn("Side effect retry attempt failed",
				zap.String("type", task.Type()),
				zap.Int("retried", retried),
				zap.Int("max_retry", maxRetry),
				zap.Error(err),
			)
		}),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeSideEffectRetry, handler)

	return &RetryServer{srv: srv, mux: mux, log: log}
}

// Start begins processing without blocking.
func (s *RetryServer) Start() error {
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("start retry worker: %w", err)
	}
	s.log.Info("Retry worker started")
	return nil
}

func (s *RetryServer) Shutdown() {
	s.srv.Shutdown()
	s.log.Info("Retry worker stopped")
}
