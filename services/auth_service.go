package services

import (
	"context"
	"strings"

	"github.com/upb/pet-house-api/internal/auth"
	"go.uber.org/zap"
)

// TokenIssuer signs bearer tokens for an identity
type TokenIssuer interface {
	Issue(ctx context.Context, identity auth.Identity) (string, error)
}

// AuthService hands out bearer tokens. It trusts the claimed email: sign-in
// happens in the front end before a token is requested.
type AuthService struct {
	issuer TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(issuer TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		issuer: issuer,
		logger: logger,
	}
}

// IssueToken signs a token carrying email
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", NewDomainError(ErrorTypeValidation, "email is required", nil)
	}

	signed, err := s.issuer.Issue(ctx, auth.Identity{Email: email})
	if err != nil {
		return "", WrapInternal("failed to issue token", err)
	}

	s.logger.Debug("token issued")
	return signed, nil
}
