package calendar

import (
	"context"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/lifecycle"

	"go.uber.org/zap"
)

// LogSyncer records calendar actions without calling a provider. Used when
// CALENDAR_PROVIDER=log.
type LogSyncer struct {
	log *zap.Logger
}

func NewLogSyncer(log *zap.Logger) *LogSyncer {
	return &LogSyncer{log: log.With(zap.String("adapter", "log_calendar"))}
}

func (s *LogSyncer) Sync(_ context.Context, b *entity.Booking, action lifecycle.CalendarAction) error {
	s.log.Info("Calendar sync",
		zap.String("booking_id", b.ID.String()),
		zap.Int64("calendar_id", b.CalendarID),
		zap.String("action", string(action)),
		zap.Time("start", b.StartTime),
		zap.Time("end", b.EndTime),
	)
	return nil
}
