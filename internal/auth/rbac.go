package auth

import "fmt"

// Role is the closed set of roles a stored user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a stored role value into a Role.
// An empty value is treated as RoleUser since users are created without one.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, "":
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("unknown role %q", s)
	}
}

// IsAdmin reports whether the role grants administrative override.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

// String returns the stored representation of the role
func (r Role) String() string {
	return string(r)
}
