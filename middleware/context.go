package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/pet-house-api/internal/auth"
)

// Context key type to avoid collisions
type contextKey string

const (
	// IdentityKey is the context key for the verified caller identity
	IdentityKey contextKey = "identity"
)

// GetRequestIDFromContext returns the id assigned by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// IdentityFromContext returns the caller identity, or nil for anonymous requests
func IdentityFromContext(ctx context.Context) *auth.Identity {
	if val := ctx.Value(IdentityKey); val != nil {
		if identity, ok := val.(*auth.Identity); ok {
			return identity
		}
	}
	return nil
}

// WithIdentity adds the caller identity to the context
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
