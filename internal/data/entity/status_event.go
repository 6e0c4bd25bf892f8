package entity

import "github.com/google/uuid"

// StatusEvent records one status change of a booking.
type StatusEvent struct {
	BaseSimple
	BookingID  uuid.UUID     `db:"booking_id"`
	OrgID      uuid.UUID     `db:"org_id"`
	FromStatus BookingStatus `db:"from_status"`
	ToStatus   BookingStatus `db:"to_status"`
	Action     string        `db:"action"`
	ActorID    *uuid.UUID    `db:"actor_id"`
}
