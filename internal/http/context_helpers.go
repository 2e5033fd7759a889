package httpx

import (
	"context"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SetSessionInContext stores session claims in the request context.
func SetSessionInContext(ctx context.Context, claims domainauth.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionContextKey, claims)
}

// SessionFromContext retrieves session claims stored by RequireAuth.
func SessionFromContext(ctx context.Context) (domainauth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionContextKey).(domainauth.SessionClaims)
	return claims, ok
}
