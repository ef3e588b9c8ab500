package models

import (
	"time"

	"github.com/upb/pet-house-api/internal/auth"
)

// UsersCollection is the collection holding user records
const UsersCollection = "users"

// User represents a marketplace user. Users are created on first sign-in and
// their role only ever moves from user to admin.
type User struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	PhotoURL  string    `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Role      auth.Role `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
