package middleware

import (
	"context"

	authservice "yookye/backend/internal/auth/service"
)

type contextKey string

const identityKey contextKey = "auth.identity"

// WithIdentity returns a context carrying the authorized caller.
func WithIdentity(ctx context.Context, id *authservice.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity returns the authorized caller set by the auth middleware.
func GetIdentity(ctx context.Context) (*authservice.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*authservice.Identity)
	return id, ok
}

// GetUserID returns the authorized user id, or "" when the request was not
// authenticated.
func GetUserID(ctx context.Context) string {
	if id, ok := GetIdentity(ctx); ok {
		return id.UserID
	}
	return ""
}
