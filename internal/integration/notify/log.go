package notify

import (
	"context"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/lifecycle"

	"go.uber.org/zap"
)

// LogNotifier only logs. Used when NOTIFY_PROVIDER=log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("adapter", "log_notifier"))}
}

func (n *LogNotifier) Send(_ context.Context, b *entity.Booking, msg lifecycle.MessageType) error {
	n.log.Info("Notification",
		zap.String("booking_id", b.ID.String()),
		zap.String("message_type", string(msg)),
		zap.String("adopter", b.Adopter.Name),
		zap.String("volunteer", b.Volunteer.Name),
	)
	return nil
}
