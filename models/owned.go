package models

import "time"

// OwnedRecord is a record whose mutation is restricted to its owner or an admin.
// The owner is identified by email, stored under a per-resource field name.
type OwnedRecord interface {
	GetID() string
	SetID(id string)
	Owner() string
	SetOwner(email string)
	GetCreatedAt() time.Time
	SetCreatedAt(t time.Time)
}
