package auth

import "context"

type contextKey string

const (
	tenantIDKey contextKey = "tenant_id"
	userIDKey   contextKey = "user_id"
)

// Identity is the resolved caller for a request. The session collaborator
// (HTTP middleware here) populates it; the core only reads it.
type Identity struct {
	TenantID string
	UserID   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey, id.TenantID)
	return context.WithValue(ctx, userIDKey, id.UserID)
}

// TenantID returns the tenant scope of the request, or "" if unauthenticated.
func TenantID(ctx context.Context) string {
	if val, ok := ctx.Value(tenantIDKey).(string); ok {
		return val
	}
	return ""
}

// UserID returns the acting user, or "" for system-originated calls.
func UserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}
