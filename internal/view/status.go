// Package view turns an organization's bookings into the filtered, sorted, paginated
// and run-grouped sequence staff work from. Everything here is a pure function of its
// inputs.
package view

import "feline-finder/internal/data/entity"

// workflowRank orders statuses by typical progression. Kept as an explicit table so the
// order does not depend on declaration order anywhere else.
var workflowRank = map[entity.BookingStatus]int{
	entity.BookingStatusPendingShelterSetup: 1,
	entity.BookingStatusPendingConfirmation: 2,
	entity.BookingStatusVolunteerAssigned:   3,
	entity.BookingStatusConfirmed:           4,
	entity.BookingStatusInProgress:          5,
	entity.BookingStatusCompleted:           6,
	entity.BookingStatusAdopted:             7,
	entity.BookingStatusCancelled:           8,
}

const unknownRank = 99

// WorkflowRank returns the status's rank; unknown statuses sort after every known one.
func WorkflowRank(status entity.BookingStatus) int {
	if rank, ok := workflowRank[status]; ok {
		return rank
	}
	return unknownRank
}

type StatusGroup string

const (
	StatusGroupEarlyStage StatusGroup = "early-stage"
	StatusGroupAssigned   StatusGroup = "assigned"
	StatusGroupActive     StatusGroup = "active"
	StatusGroupFinished   StatusGroup = "finished"
)

var statusGroups = map[StatusGroup][]entity.BookingStatus{
	StatusGroupEarlyStage: {entity.BookingStatusPendingShelterSetup, entity.BookingStatusPendingConfirmation},
	StatusGroupAssigned:   {entity.BookingStatusVolunteerAssigned, entity.BookingStatusConfirmed},
	StatusGroupActive:     {entity.BookingStatusInProgress},
	StatusGroupFinished:   {entity.BookingStatusCompleted, entity.BookingStatusAdopted, entity.BookingStatusCancelled},
}

func (g StatusGroup) Valid() bool {
	_, ok := statusGroups[g]
	return ok
}

// Statuses returns a copy of the group's members.
func (g StatusGroup) Statuses() []entity.BookingStatus {
	members := statusGroups[g]
	out := make([]entity.BookingStatus, len(members))
	copy(out, members)
	return out
}

func (g StatusGroup) Contains(status entity.BookingStatus) bool {
	for _, s := range statusGroups[g] {
		if s == status {
			return true
		}
	}
	return false
}
