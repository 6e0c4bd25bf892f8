package response

import (
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/lifecycle"
)

type RefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID             string               `json:"id"`
	Adopter        RefResponse          `json:"adopter"`
	Cat            RefResponse          `json:"cat"`
	Volunteer      RefResponse          `json:"volunteer"`
	StartTime      time.Time            `json:"start_time"`
	StartTZ        string               `json:"start_tz"`
	EndTime        time.Time            `json:"end_time"`
	EndTZ          string               `json:"end_tz"`
	CalendarID     int64                `json:"calendar_id"`
	Summary        string               `json:"summary,omitempty"`
	Status         entity.BookingStatus `json:"status"`
	Notes          *string              `json:"notes,omitempty"`
	AllowedActions []lifecycle.Action   `json:"allowed_actions"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type OutcomeResponse struct {
	CalendarAction lifecycle.CalendarAction `json:"calendar_action,omitempty"`
	Notification   lifecycle.MessageType    `json:"notification,omitempty"`
	CalendarSynced bool                     `json:"calendar_synced"`
	Notified       bool                     `json:"notified"`
	Skipped        bool                     `json:"skipped,omitempty"`
	Errors         []string                 `json:"errors"`
}

// ActionResponse is returned by every call that may run side effects. A non-empty
// outcome.errors means the booking was saved but a calendar or email call failed.
type ActionResponse struct {
	Booking  BookingResponse      `json:"booking"`
	Previous entity.BookingStatus `json:"previous_status"`
	Changed  bool                 `json:"changed"`
	Outcome  OutcomeResponse      `json:"outcome"`
}

type StatusEventResponse struct {
	From      entity.BookingStatus `json:"from"`
	To        entity.BookingStatus `json:"to"`
	Action    string               `json:"action"`
	ActorID   *string              `json:"actor_id,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID.String(),
		Adopter:        RefResponse(b.Adopter),
		Cat:            RefResponse(b.Cat),
		Volunteer:      RefResponse(b.Volunteer),
		StartTime:      b.StartTime,
		StartTZ:        b.StartTZ,
		EndTime:        b.EndTime,
		EndTZ:          b.EndTZ,
		CalendarID:     b.CalendarID,
		Summary:        b.Summary,
		Status:         b.Status,
		Notes:          b.Notes,
		AllowedActions: lifecycle.AllowedActions(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func ResultToResponse(res *lifecycle.Result) *ActionResponse {
	return &ActionResponse{
		Booking:  BookingToResponse(res.Booking),
		Previous: res.Previous,
		Changed:  res.Changed,
		Outcome: OutcomeResponse{
			CalendarAction: res.Outcome.CalendarAction,
			Notification:   res.Outcome.Notification,
			CalendarSynced: res.Outcome.CalendarSynced,
			Notified:       res.Outcome.Notified,
			Skipped:        res.Outcome.Skipped,
			Errors:         res.Outcome.ErrorMessages(),
		},
	}
}

func StatusEventToResponse(ev entity.StatusEvent) StatusEventResponse {
	resp := StatusEventResponse{
		From:      ev.FromStatus,
		To:        ev.ToStatus,
		Action:    ev.Action,
		CreatedAt: ev.CreatedAt,
	}
	if ev.ActorID != nil {
		actor := ev.ActorID.String()
		resp.ActorID = &actor
	}
	return resp
}
