package lifecycle

import (
	"context"
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/domain"
	"feline-finder/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Params carries the inputs some actions need beyond the booking itself.
type Params struct {
	Volunteer *entity.Ref
}

// Outcome reports which side effects ran and how they went.
type Outcome struct {
	CalendarAction CalendarAction           `json:"calendar_action,omitempty"`
	Notification   MessageType              `json:"notification,omitempty"`
	CalendarSynced bool                     `json:"calendar_synced"`
	Notified       bool                     `json:"notified"`
	Skipped        bool                     `json:"skipped,omitempty"`
	Errors         []domain.SideEffectError `json:"-"`
}

// ErrorMessages flattens Errors for transport.
func (o Outcome) ErrorMessages() []string {
	msgs := make([]string, 0, len(o.Errors))
	for _, err := range o.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

type Result struct {
	Booking  *entity.Booking
	Previous entity.BookingStatus
	Changed  bool
	Outcome  Outcome
}

// sideEffectTimeout bounds the calendar call, the notification and any retry enqueue of
// one action together.
const sideEffectTimeout = 30 * time.Second

type Engine struct {
	store    Store
	calendar CalendarSyncer
	notifier Notifier
	retrier  Retrier
	log      *zap.Logger
}

// NewEngine wires the engine. retrier may be nil, failed side effects are then only
// reported back to the caller.
func NewEngine(store Store, calendar CalendarSyncer, notifier Notifier, retrier Retrier, log *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		calendar: calendar,
		notifier: notifier,
		retrier:  retrier,
		log:      log.With(zap.String("service", "lifecycle")),
	}
}

// ApplyAction validates action against the booking's current status, writes the new
// status, then runs the action's side effects. Side-effect failures land in
// Result.Outcome and never fail the call.
func (e *Engine) ApplyAction(ctx context.Context, orgID, bookingID uuid.UUID, action Action, params Params) (*Result, error) {
	r, ok := rules[action]
	if !ok {
		return nil, domain.InvalidTransitionError{Action: string(action)}
	}

	var previous entity.BookingStatus
	var changed bool
	updated, err := e.store.Mutate(ctx, orgID, bookingID, string(action), func(b *entity.Booking) (bool, error) {
		previous = b.Status
		if !IsAllowed(b.Status, action) {
			return false, domain.InvalidTransitionError{From: string(b.Status), Action: string(action)}
		}

		if r.needsVolunteer {
			if params.Volunteer == nil {
				return false, domain.NewValidationError("volunteer", "required for "+string(action))
			}
			if errs := utils.ValidateStruct(params.Volunteer); len(errs) > 0 {
				return false, domain.ValidationError{Fields: errs}
			}
			if *params.Volunteer != b.Volunteer {
				b.Volunteer = *params.Volunteer
				changed = true
			}
		}

		if r.target != "" && b.Status != r.target {
			b.Status = r.target
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		if domain.IsInvalidTransition(err) || domain.IsValidation(err) {
			e.log.Info("Booking action rejected",
				zap.String("booking_id", bookingID.String()),
				zap.String("action", string(action)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	outcome := e.runSideEffects(ctx, updated, r.calendar, r.message, true)

	e.log.Info("Booking action applied",
		zap.String("booking_id", updated.ID.String()),
		zap.String("org_id", orgID.String()),
		zap.String("action", string(action)),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.Status)),
		zap.Bool("changed", changed),
		zap.Bool("calendar_synced", outcome.CalendarSynced),
		zap.Bool("notified", outcome.Notified),
		zap.Int("side_effect_errors", len(outcome.Errors)),
	)

	return &Result{
		Booking:  updated,
		Previous: previous,
		Changed:  changed,
		Outcome:  outcome,
	}, nil
}

// UpdateDetails applies a detail patch (notes, summary, time window). Status never moves
// here. A new summary or time window on a booking with a live calendar event triggers a
// calendar update.
func (e *Engine) UpdateDetails(ctx context.Context, orgID, bookingID uuid.UUID, patch entity.BookingPatch) (*Result, error) {
	var eventChanged bool
	var previous entity.BookingStatus
	updated, err := e.store.Mutate(ctx, orgID, bookingID, "update-details", func(b *entity.Booking) (bool, error) {
		previous = b.Status
		next := *b
		eventChanged = patch.Apply(&next)
		if !next.StartTime.Before(next.EndTime) {
			return false, domain.NewValidationError("end_time", "must be after start_time")
		}
		if errs := utils.ValidateStruct(next); len(errs) > 0 {
			return false, domain.ValidationError{Fields: errs}
		}
		*b = next
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	var outcome Outcome
	if eventChanged && HasCalendarEvent(updated.Status) {
		outcome = e.runSideEffects(ctx, updated, CalendarUpdate, MessageNone, true)
	}

	e.log.Info("Booking details updated",
		zap.String("booking_id", updated.ID.String()),
		zap.Bool("event_changed", eventChanged),
		zap.Bool("calendar_synced", outcome.CalendarSynced),
	)

	return &Result{Booking: updated, Previous: previous, Changed: true, Outcome: outcome}, nil
}

// RetrySideEffect re-runs one side effect against the current booking without touching
// its status. When expect is non-empty and the booking has moved to another status the
// effect is skipped.
func (e *Engine) RetrySideEffect(ctx context.Context, orgID, bookingID uuid.UUID, effect Effect, expect entity.BookingStatus) (*Result, error) {
	if err := effect.Validate(); err != nil {
		return nil, err
	}

	b, err := e.store.FindByID(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NotFoundError{Resource: "booking", ID: bookingID.String()}
	}

	if expect != "" && b.Status != expect {
		e.log.Info("Side effect retry skipped, booking moved on",
			zap.String("booking_id", b.ID.String()),
			zap.String("effect", effect.String()),
			zap.String("expected_status", string(expect)),
			zap.String("status", string(b.Status)),
		)
		return &Result{Booking: b, Previous: b.Status, Outcome: Outcome{Skipped: true}}, nil
	}

	var outcome Outcome
	switch effect.Kind {
	case domain.SideEffectCalendar:
		outcome = e.runSideEffects(ctx, b, effect.Calendar, MessageNone, false)
	case domain.SideEffectNotification:
		outcome = e.runSideEffects(ctx, b, CalendarNone, effect.Message, false)
	}

	return &Result{Booking: b, Previous: b.Status, Outcome: outcome}, nil
}

// runSideEffects calls the calendar first and the notifier second; neither failure stops
// the other. With enqueue set, each failure is handed to the retrier.
func (e *Engine) runSideEffects(ctx context.Context, b *entity.Booking, cal CalendarAction, msg MessageType, enqueue bool) Outcome {
	// effects outlive the caller once the status write has committed
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	out := Outcome{
		CalendarAction: cal,
		Notification:   msg,
		Errors:         []domain.SideEffectError{},
	}

	if cal != CalendarNone {
		if err := e.calendar.Sync(ctx, b, cal); err != nil {
			sideErr := domain.SideEffectError{Effect: domain.SideEffectCalendar, Detail: string(cal), Err: err}
			out.Errors = append(out.Errors, sideErr)
			e.reportFailure(ctx, b, Effect{Kind: domain.SideEffectCalendar, Calendar: cal}, sideErr, enqueue)
		} else {
			out.CalendarSynced = true
		}
	}

	if msg != MessageNone {
		if err := e.notifier.Send(ctx, b, msg); err != nil {
			sideErr := domain.SideEffectError{Effect: domain.SideEffectNotification, Detail: string(msg), Err: err}
			out.Errors = append(out.Errors, sideErr)
			e.reportFailure(ctx, b, Effect{Kind: domain.SideEffectNotification, Message: msg}, sideErr, enqueue)
		} else {
			out.Notified = true
		}
	}

	return out
}

func (e *Engine) reportFailure(ctx context.Context, b *entity.Booking, effect Effect, err domain.SideEffectError, enqueue bool) {
	e.log.Warn("Side effect failed after status write",
		zap.String("booking_id", b.ID.String()),
		zap.String("org_id", b.OrgID.String()),
		zap.String("status", string(b.Status)),
		zap.String("effect", effect.String()),
		zap.Error(err),
	)

	if !enqueue || e.retrier == nil {
		return
	}

	task := RetryTask{
		OrgID:        b.OrgID,
		BookingID:    b.ID,
		Effect:       effect,
		ExpectStatus: b.Status,
	}
	if qErr := e.retrier.Enqueue(ctx, task); qErr != nil {
		e.log.Error("Failed to enqueue side effect retry",
			zap.String("booking_id", b.ID.String()),
			zap.String("effect", effect.String()),
			zap.Error(qErr),
		)
	}
}
