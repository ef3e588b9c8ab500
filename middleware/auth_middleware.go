package middleware

import (
	"context"
	"net/http"

	"github.com/upb/pet-house-api/internal/auth"
	"github.com/upb/pet-house-api/utils"
	"go.uber.org/zap"
)

const (
	msgUnauthorized = "unauthorized access"
	msgNoAccess     = "no access"
	msgForbidden    = "forbidden access"
)

// TokenVerifier defines the interface for verifying bearer tokens
type TokenVerifier interface {
	// Verify checks signature and expiry and returns the signed identity
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// AdminChecker reports whether an email belongs to an administrator
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AuthMiddleware provides the authentication and admin guards
type AuthMiddleware struct {
	verifier TokenVerifier
	admins   AdminChecker
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, admins AdminChecker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		admins:   admins,
		logger:   logger,
	}
}

// Authenticate requires a valid bearer token and stores the identity in the context.
func (m *AuthMiddleware) Authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	ctx := r.Context()
	requestID := GetRequestIDFromContext(ctx)

	header := r.Header.Get("Authorization")
	if header == "" {
		m.logger.Warn("missing authorization header",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path))
		_ = utils.WriteUnauthorized(w, msgUnauthorized)
		return r, false
	}

	token, ok := auth.ParseBearer(header)
	if !ok {
		m.logger.Warn("malformed authorization header",
			zap.String("request_id", requestID))
		_ = utils.WriteUnauthorized(w, msgNoAccess)
		return r, false
	}

	identity, err := m.verifier.Verify(ctx, token)
	if err != nil {
		m.logger.Warn("token verification failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteUnauthorized(w, msgNoAccess)
		return r, false
	}

	m.logger.Debug("authentication successful",
		zap.String("request_id", requestID),
		zap.String("email", identity.Email))

	return r.WithContext(WithIdentity(ctx, identity)), true
}

// OptionalAuth lets requests without an Authorization header through
// anonymously. A header that is present must still verify.
func (m *AuthMiddleware) OptionalAuth(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	if r.Header.Get("Authorization") == "" {
		return r, true
	}
	return m.Authenticate(w, r)
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	ctx := r.Context()
	requestID := GetRequestIDFromContext(ctx)

	identity := IdentityFromContext(ctx)
	if identity == nil {
		m.logger.Error("identity not found in context",
			zap.String("request_id", requestID))
		_ = utils.WriteUnauthorized(w, msgUnauthorized)
		return r, false
	}

	isAdmin, err := m.admins.IsAdmin(ctx, identity.Email)
	if err != nil {
		m.logger.Error("failed to resolve role",
			zap.String("request_id", requestID),
			zap.String("email", identity.Email),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return r, false
	}

	if !isAdmin {
		m.logger.Warn("admin role required",
			zap.String("request_id", requestID),
			zap.String("email", identity.Email))
		_ = utils.WriteForbidden(w, msgForbidden)
		return r, false
	}

	return r, true
}

// RequireAuth wraps next with Authenticate
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return Chain(m.Authenticate)(next)
}

// RequireAuthAdmin wraps next with Authenticate then RequireAdmin
func (m *AuthMiddleware) RequireAuthAdmin(next http.Handler) http.Handler {
	return Chain(m.Authenticate, m.RequireAdmin)(next)
}

// AllowAnonymous wraps next with OptionalAuth
func (m *AuthMiddleware) AllowAnonymous(next http.Handler) http.Handler {
	return Chain(m.OptionalAuth)(next)
}
