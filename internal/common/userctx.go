package common

import (
	"context"
	"strings"
)

// DefaultUserID scopes holdings and watchlist rows when no user header is present.
const DefaultUserID = "default"

// UserContext holds per-request identity injected by the authentication layer
// in front of this service via the X-Quoteboard-User-ID header.
type UserContext struct {
	UserID string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or DefaultUserID when absent.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil {
		if id := strings.TrimSpace(uc.UserID); id != "" {
			return id
		}
	}
	return DefaultUserID
}
