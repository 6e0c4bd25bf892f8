package request

import "time"

type RefRequest struct {
	ID   string `json:"id" validate:"required,max=128"`
	Name string `json:"name" validate:"required,max=200"`
}

type CreateBookingRequest struct {
	Adopter    RefRequest `json:"adopter"`
	Cat        RefRequest `json:"cat"`
	Volunteer  RefRequest `json:"volunteer"`
	StartTime  time.Time  `json:"start_time" validate:"required"`
	StartTZ    string     `json:"start_tz" validate:"required,timezone"`
	EndTime    time.Time  `json:"end_time" validate:"required,gtfield=StartTime"`
	EndTZ      string     `json:"end_tz" validate:"required,timezone"`
	CalendarID int64      `json:"calendar_id" validate:"min=0"`
	Summary    string     `json:"summary" validate:"max=500"`
	Notes      *string    `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

// UpdateBookingRequest edits details only. Omitted fields stay as they are.
type UpdateBookingRequest struct {
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=4000"`
	Summary   *string    `json:"summary,omitempty" validate:"omitempty,max=500"`
	StartTime *time.Time `json:"start_time,omitempty"`
	StartTZ   *string    `json:"start_tz,omitempty" validate:"omitempty,timezone"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	EndTZ     *string    `json:"end_tz,omitempty" validate:"omitempty,timezone"`
}

type ApplyActionRequest struct {
	Action    string      `json:"action" validate:"required"`
	Volunteer *RefRequest `json:"volunteer,omitempty"`
}

type RetrySideEffectRequest struct {
	Kind           string `json:"kind" validate:"required,oneof=calendar notification"`
	CalendarAction string `json:"calendar_action,omitempty" validate:"omitempty,oneof=create update delete"`
	MessageType    string `json:"message_type,omitempty"`
}
