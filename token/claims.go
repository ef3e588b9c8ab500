package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/pet-house-api/internal/auth"
)

// Claims is the JWT payload: the caller identity plus registered claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into an auth.Identity
func (c *Claims) Identity() (*auth.Identity, error) {
	if c.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return &auth.Identity{Email: c.Email}, nil
}
