// Package calendar holds the calendar sync adapters the lifecycle engine drives.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/lifecycle"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleSyncer keeps one Google Calendar event per booking. The event id is derived from
// the booking id so create, update and delete need no stored mapping.
type GoogleSyncer struct {
	events     *gcal.EventsService
	calendarID string
	log        *zap.Logger
}

// NewGoogleSyncer builds the calendar client. Callers pass auth through opts, usually
// option.WithCredentialsFile.
func NewGoogleSyncer(ctx context.Context, calendarID string, log *zap.Logger, opts ...option.ClientOption) (*GoogleSyncer, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleSyncer{
		events:     svc.Events,
		calendarID: calendarID,
		log:        log.With(zap.String("adapter", "google_calendar")),
	}, nil
}

// EventID maps a booking to its event id. Google accepts lowercase hex.
func EventID(b *entity.Booking) string {
	return strings.ReplaceAll(b.ID.String(), "-", "")
}

func (s *GoogleSyncer) Sync(ctx context.Context, b *entity.Booking, action lifecycle.CalendarAction) error {
	switch action {
	case lifecycle.CalendarCreate:
		return s.create(ctx, b)
	case lifecycle.CalendarUpdate:
		return s.update(ctx, b)
	case lifecycle.CalendarDelete:
		return s.delete(ctx, b)
	case lifecycle.CalendarNone:
		return nil
	}
	return fmt.Errorf("unsupported calendar action %q", action)
}

func (s *GoogleSyncer) create(ctx context.Context, b *entity.Booking) error {
	ev := toEvent(b)
	_, err := s.events.Insert(s.calendarID, ev).Context(ctx).Do()
	if hasStatus(err, http.StatusConflict) {
		// Event survives from an earlier cycle (reactivate); overwrite it.
		_, err = s.events.Update(s.calendarID, ev.Id, ev).Context(ctx).Do()
	}
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	s.log.Debug("Calendar event created", zap.String("event_id", ev.Id))
	return nil
}

func (s *GoogleSyncer) update(ctx context.Context, b *entity.Booking) error {
	ev := toEvent(b)
	_, err := s.events.Update(s.calendarID, ev.Id, ev).Context(ctx).Do()
	if hasStatus(err, http.StatusNotFound) {
		_, err = s.events.Insert(s.calendarID, ev).Context(ctx).Do()
	}
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	s.log.Debug("Calendar event updated", zap.String("event_id", ev.Id))
	return nil
}

func (s *GoogleSyncer) delete(ctx context.Context, b *entity.Booking) error {
	id := EventID(b)
	err := s.events.Delete(s.calendarID, id).Context(ctx).Do()
	if hasStatus(err, http.StatusNotFound) || hasStatus(err, http.StatusGone) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	s.log.Debug("Calendar event deleted", zap.String("event_id", id))
	return nil
}

func toEvent(b *entity.Booking) *gcal.Event {
	summary := b.Summary
	if summary == "" {
		summary = fmt.Sprintf("Adoption visit: %s meets %s", b.Adopter.Name, b.Cat.Name)
	}
	// deleted ids linger as cancelled; an update after a 409 revives them
	return &gcal.Event{
		Id:          EventID(b),
		Status:      "confirmed",
		Summary:     summary,
		Description: fmt.Sprintf("Adopter: %s\nCat: %s\nVolunteer: %s\nStatus: %s", b.Adopter.Name, b.Cat.Name, b.Volunteer.Name, b.Status),
		Start:       eventTime(b.StartTime, b.StartTZ),
		End:         eventTime(b.EndTime, b.EndTZ),
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				"bookingId":  b.ID.String(),
				"calendarId": strconv.FormatInt(b.CalendarID, 10),
			},
		},
	}
}

func eventTime(t time.Time, tz string) *gcal.EventDateTime {
	if loc, err := time.LoadLocation(tz); err == nil {
		t = t.In(loc)
	}
	return &gcal.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: tz}
}

func hasStatus(err error, code int) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
