package services

import "github.com/upb/pet-house-api/repositories"

// InsertResult is returned by create operations.
// Message is set instead of InsertedID when nothing was inserted.
type InsertResult struct {
	Acknowledged bool    `json:"acknowledged,omitempty"`
	InsertedID   *string `json:"insertedId"`
	Message      string  `json:"message,omitempty"`
}

// UpdateResult is returned by replace and role updates
type UpdateResult struct {
	Acknowledged bool `json:"acknowledged"`
	repositories.UpdateResult
}

// DeleteResult is returned by delete operations
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func inserted(id string) *InsertResult {
	return &InsertResult{Acknowledged: true, InsertedID: &id}
}
