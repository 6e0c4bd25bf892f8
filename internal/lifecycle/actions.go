// Package lifecycle moves bookings through their statuses and fires the calendar and
// notification side effects each action calls for.
package lifecycle

import "feline-finder/internal/data/entity"

type Action string

const (
	ActionSendConfirmation  Action = "send-confirmation"
	ActionConfirm           Action = "confirm"
	ActionAssignVolunteer   Action = "assign-volunteer"
	ActionReassignVolunteer Action = "reassign-volunteer"
	ActionStartVisit        Action = "start-visit"
	ActionCompleteVisit     Action = "complete-visit"
	ActionMarkAdopted       Action = "mark-adopted"
	ActionCancel            Action = "cancel"
	ActionReactivate        Action = "reactivate"
)

// AllActions in the order they usually happen.
var AllActions = []Action{
	ActionSendConfirmation,
	ActionConfirm,
	ActionAssignVolunteer,
	ActionReassignVolunteer,
	ActionStartVisit,
	ActionCompleteVisit,
	ActionMarkAdopted,
	ActionCancel,
	ActionReactivate,
}

type CalendarAction string

const (
	CalendarNone   CalendarAction = ""
	CalendarCreate CalendarAction = "create"
	CalendarUpdate CalendarAction = "update"
	CalendarDelete CalendarAction = "delete"
)

func (a CalendarAction) Valid() bool {
	return a == CalendarCreate || a == CalendarUpdate || a == CalendarDelete
}

type MessageType string

const (
	MessageNone                MessageType = ""
	MessageConfirmationRequest MessageType = "confirmation-request"
	MessageBookingConfirmed    MessageType = "booking-confirmed"
	MessageVolunteerAssigned   MessageType = "volunteer-assigned"
	MessageVisitCompleted      MessageType = "visit-completed"
	MessageCongratulations     MessageType = "congratulations"
	MessageCancellation        MessageType = "cancellation"
)

func (m MessageType) Valid() bool {
	switch m {
	case MessageConfirmationRequest, MessageBookingConfirmed, MessageVolunteerAssigned,
		MessageVisitCompleted, MessageCongratulations, MessageCancellation:
		return true
	}
	return false
}

// rule describes what an action does once it is allowed. An empty target leaves the
// status alone.
type rule struct {
	target         entity.BookingStatus
	calendar       CalendarAction
	message        MessageType
	needsVolunteer bool
}

var rules = map[Action]rule{
	ActionSendConfirmation:  {target: entity.BookingStatusPendingConfirmation, calendar: CalendarCreate, message: MessageConfirmationRequest},
	ActionConfirm:           {target: entity.BookingStatusConfirmed, calendar: CalendarUpdate, message: MessageBookingConfirmed},
	ActionAssignVolunteer:   {target: entity.BookingStatusVolunteerAssigned, calendar: CalendarUpdate, message: MessageVolunteerAssigned, needsVolunteer: true},
	ActionReassignVolunteer: {calendar: CalendarUpdate, message: MessageVolunteerAssigned, needsVolunteer: true},
	ActionStartVisit:        {target: entity.BookingStatusInProgress},
	ActionCompleteVisit:     {target: entity.BookingStatusCompleted, message: MessageVisitCompleted},
	ActionMarkAdopted:       {target: entity.BookingStatusAdopted, message: MessageCongratulations},
	ActionCancel:            {target: entity.BookingStatusCancelled, calendar: CalendarDelete, message: MessageCancellation},
	ActionReactivate:        {target: entity.BookingStatusPendingConfirmation, calendar: CalendarCreate, message: MessageConfirmationRequest},
}

// allowedActions is the fixed per-status action set. An action listed under its own
// target status is the idempotent re-send path.
var allowedActions = map[entity.BookingStatus][]Action{
	entity.BookingStatusPendingShelterSetup: {
		ActionSendConfirmation, ActionCancel,
	},
	entity.BookingStatusPendingConfirmation: {
		ActionSendConfirmation, ActionConfirm, ActionAssignVolunteer, ActionCancel,
	},
	entity.BookingStatusVolunteerAssigned: {
		ActionConfirm, ActionAssignVolunteer, ActionReassignVolunteer, ActionStartVisit, ActionCancel,
	},
	entity.BookingStatusConfirmed: {
		ActionConfirm, ActionAssignVolunteer, ActionReassignVolunteer, ActionStartVisit, ActionCancel,
	},
	entity.BookingStatusInProgress: {
		ActionStartVisit, ActionCompleteVisit, ActionCancel,
	},
	entity.BookingStatusCompleted: {
		ActionCompleteVisit, ActionMarkAdopted, ActionCancel,
	},
	entity.BookingStatusAdopted: {
		ActionMarkAdopted,
	},
	entity.BookingStatusCancelled: {
		ActionCancel, ActionReactivate,
	},
}

// AllowedActions returns a copy of the actions permitted from status.
func AllowedActions(status entity.BookingStatus) []Action {
	actions := allowedActions[status]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

func IsAllowed(status entity.BookingStatus, action Action) bool {
	for _, a := range allowedActions[status] {
		if a == action {
			return true
		}
	}
	return false
}

func ParseAction(s string) (Action, bool) {
	a := Action(s)
	_, ok := rules[a]
	return a, ok
}

// Target is the status the action moves to, empty when it leaves status alone.
func (a Action) Target() entity.BookingStatus {
	return rules[a].target
}

// HasCalendarEvent reports whether a booking in status is expected to have a live
// external calendar event.
func HasCalendarEvent(status entity.BookingStatus) bool {
	switch status {
	case entity.BookingStatusPendingShelterSetup, entity.BookingStatusCancelled:
		return false
	}
	return status.Valid()
}
