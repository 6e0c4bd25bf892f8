package lifecycle

import (
	"context"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/domain"

	"github.com/google/uuid"
)

// Store is the booking persistence the engine needs. FindByID returns (nil, nil) for an
// unknown id or an id outside orgID. Mutate runs fn against the locked current row and
// persists it only when fn reports a change; it returns domain.NotFoundError when the row
// is missing and passes fn's error through untouched.
type Store interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*entity.Booking, error)
	Mutate(ctx context.Context, orgID, id uuid.UUID, action string, fn func(b *entity.Booking) (bool, error)) (*entity.Booking, error)
}

// CalendarSyncer mirrors a booking onto an external calendar event.
type CalendarSyncer interface {
	Sync(ctx context.Context, b *entity.Booking, action CalendarAction) error
}

// Notifier delivers one email of the given type about a booking.
type Notifier interface {
	Send(ctx context.Context, b *entity.Booking, msg MessageType) error
}

// Effect names a single side effect to run again.
type Effect struct {
	Kind     domain.SideEffect `json:"kind"`
	Calendar CalendarAction    `json:"calendar_action,omitempty"`
	Message  MessageType       `json:"message_type,omitempty"`
}

func (f Effect) Validate() error {
	switch f.Kind {
	case domain.SideEffectCalendar:
		if !f.Calendar.Valid() {
			return domain.NewValidationError("calendar_action", "must be one of: create, update, delete")
		}
	case domain.SideEffectNotification:
		if !f.Message.Valid() {
			return domain.NewValidationError("message_type", "unknown message type")
		}
	default:
		return domain.NewValidationError("kind", "must be one of: calendar, notification")
	}
	return nil
}

func (f Effect) String() string {
	if f.Kind == domain.SideEffectCalendar {
		return string(f.Kind) + ":" + string(f.Calendar)
	}
	return string(f.Kind) + ":" + string(f.Message)
}

// RetryTask is handed to a Retrier after a side effect failed. ExpectStatus is the
// booking status at the time of failure; a retry for a booking that has since moved on
// is dropped.
type RetryTask struct {
	OrgID        uuid.UUID            `json:"org_id"`
	BookingID    uuid.UUID            `json:"booking_id"`
	Effect       Effect               `json:"effect"`
	ExpectStatus entity.BookingStatus `json:"expect_status"`
}

// Retrier schedules a failed side effect for a later attempt.
type Retrier interface {
	Enqueue(ctx context.Context, task RetryTask) error
}
