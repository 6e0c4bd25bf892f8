package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPendingShelterSetup BookingStatus = "pending-shelter-setup"
	BookingStatusPendingConfirmation BookingStatus = "pending-confirmation"
	BookingStatusVolunteerAssigned   BookingStatus = "volunteer-assigned"
	BookingStatusConfirmed           BookingStatus = "confirmed"
	BookingStatusInProgress          BookingStatus = "in-progress"
	BookingStatusCompleted           BookingStatus = "completed"
	BookingStatusAdopted             BookingStatus = "adopted"
	BookingStatusCancelled           BookingStatus = "cancelled"
)

// AllBookingStatuses lists every status in default workflow order.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPendingShelterSetup,
	BookingStatusPendingConfirmation,
	BookingStatusVolunteerAssigned,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusAdopted,
	BookingStatusCancelled,
}

func (s BookingStatus) Valid() bool {
	for _, known := range AllBookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal statuses accept no forward progress.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusAdopted || s == BookingStatusCancelled
}

// Ref points at a record owned by an external registry (adopter, cat, volunteer).
type Ref struct {
	ID   string `json:"id" validate:"required,max=128"`
	Name string `json:"name" validate:"required,max=200"`
}

type Booking struct {
	BaseNoDelete
	OrgID      uuid.UUID     `db:"org_id"`
	Adopter    Ref           `db:"adopter"`
	Cat        Ref           `db:"cat"`
	Volunteer  Ref           `db:"volunteer"`
	StartTime  time.Time     `db:"start_time" validate:"required"`
	StartTZ    string        `db:"start_tz" validate:"required,timezone"`
	EndTime    time.Time     `db:"end_time" validate:"required,gtfield=StartTime"`
	EndTZ      string        `db:"end_tz" validate:"required,timezone"`
	CalendarID int64         `db:"calendar_id" validate:"min=0"`
	Summary    string        `db:"summary" validate:"max=500"`
	Status     BookingStatus `db:"status"`
	Notes      *string       `db:"notes" validate:"omitempty,max=4000"`
}

// BookingPatch carries the detail fields staff may edit outside the action flow.
// Nil fields are left untouched.
type BookingPatch struct {
	Notes     *string
	Summary   *string
	StartTime *time.Time
	StartTZ   *string
	EndTime   *time.Time
	EndTZ     *string
}

// Apply copies the non-nil fields onto b and reports whether anything mirrored on the
// calendar event (summary or time window) changed.
func (p BookingPatch) Apply(b *Booking) (eventChanged bool) {
	if p.Notes != nil {
		b.Notes = p.Notes
	}
	if p.Summary != nil && *p.Summary != b.Summary {
		b.Summary = *p.Summary
		eventChanged = true
	}
	if p.StartTime != nil && !p.StartTime.Equal(b.StartTime) {
		b.StartTime = *p.StartTime
		eventChanged = true
	}
	if p.StartTZ != nil && *p.StartTZ != b.StartTZ {
		b.StartTZ = *p.StartTZ
		eventChanged = true
	}
	if p.EndTime != nil && !p.EndTime.Equal(b.EndTime) {
		b.EndTime = *p.EndTime
		eventChanged = true
	}
	if p.EndTZ != nil && *p.EndTZ != b.EndTZ {
		b.EndTZ = *p.EndTZ
		eventChanged = true
	}
	return eventChanged
}
