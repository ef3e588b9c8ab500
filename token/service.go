package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/upb/pet-house-api/internal/auth"
)

var (
	// ErrInvalidToken is returned when the token is malformed or its signature does not match
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token is past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrMissingIdentity is returned when asked to issue a token without an email
	ErrMissingIdentity = errors.New("identity email is required")
)

// TokenLifetime is the fixed lifetime of issued tokens.
const TokenLifetime = 100 * time.Hour

// Config holds configuration for Service
type Config struct {
	Secret string
	Issuer string // optional; checked on verify when set
}

// Service issues and verifies HS256-signed bearer tokens carrying an auth.Identity.
// Tokens are stateless: validity is signature plus expiry, there is no revocation.
type Service struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new token service
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	s := &Service{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the given identity.
// No check is made that the identity exists; trust is established by the caller.
func (s *Service) Issue(ctx context.Context, identity auth.Identity) (string, error) {
	if identity.Email == "" {
		return "", ErrMissingIdentity
	}

	now := s.now()
	claims := &Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the identity carried by the token.
// It returns ErrTokenExpired past expiry and ErrInvalidToken for anything else.
func (s *Service) Verify(ctx context.Context, tokenString string) (*auth.Identity, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims.Identity()
}
