package auth

import "strings"

// Identity is the minimal claim set signed into a bearer token.
type Identity struct {
	Email string `json:"email"`
}

// Owns reports whether the identity matches a record owner value.
// Comparison is exact: emails are stored as supplied.
func (i *Identity) Owns(owner string) bool {
	if i == nil || i.Email == "" {
		return false
	}
	return i.Email == owner
}

// bearerPrefix is matched case-insensitively
const bearerPrefix = "bearer"

// ParseBearer extracts the token from an Authorization header value of the
// form "Bearer <token>". ok is false when the scheme is wrong or the token is empty.
func ParseBearer(header string) (token string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != bearerPrefix {
		return "", false
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
