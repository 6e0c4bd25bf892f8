package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	OrgIDKey  contextKey = "org_id"
	RoleKey   contextKey = "role"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return uuidFromContext(ctx, UserIDKey)
}

// GetOrgIDFromContext returns the organization the authenticated staff user acts for.
func GetOrgIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return uuidFromContext(ctx, OrgIDKey)
}

func uuidFromContext(ctx context.Context, key contextKey) (uuid.UUID, bool) {
	val := ctx.Value(key)
	if val == nil {
		return uuid.Nil, false
	}

	str, ok := val.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func SetUserContext(ctx context.Context, userID, orgID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, OrgIDKey, orgID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}
