package utils

import (
	"context"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	RoleKey    contextKey = "role"
	SessionKey contextKey = "session"
)

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func SetUserContext(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetSessionFromContext returns the session token (JWT jti) of the current request
func GetSessionFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionKey).(string)
	return token, ok && token != ""
}

func SetSessionContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, SessionKey, token)
}
