package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is issued by the identity provider; rows are read, never written, here.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	OrgID     uuid.UUID  `db:"org_id"`
	Role      string     `db:"role"`
	Token     uuid.UUID  `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
