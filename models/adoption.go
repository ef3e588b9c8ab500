package models

import "time"

const (
	// AdoptionsCollection is the collection holding adoption requests
	AdoptionsCollection = "adoptions"
	// AdoptionOwnerField is the document field naming the requesting user
	AdoptionOwnerField = "userEmail"
)

// AdoptionStatus is the review state of an adoption request: pending, accepted or rejected
type AdoptionStatus string

// Adoption is a request by a user to adopt a listed pet
type Adoption struct {
	ID        string         `json:"_id" bson:"_id"`
	PetID     string         `json:"petId" bson:"petId" validate:"required"`
	PetName   string         `json:"petName,omitempty" bson:"petName,omitempty"`
	PetImage  string         `json:"petImage,omitempty" bson:"petImage,omitempty"`
	UserName  string         `json:"userName,omitempty" bson:"userName,omitempty"`
	UserEmail string         `json:"userEmail,omitempty" bson:"userEmail,omitempty" validate:"omitempty,email"`
	Phone     string         `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   string         `json:"address,omitempty" bson:"address,omitempty"`
	Status    AdoptionStatus `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=pending accepted rejected"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

func (a *Adoption) GetID() string { return a.ID }
func (a *Adoption) SetID(id string) { a.ID = id }
func (a *Adoption) Owner() string { return a.UserEmail }
func (a *Adoption) SetOwner(email string) { a.UserEmail = email }
func (a *Adoption) GetCreatedAt() time.Time { return a.CreatedAt }
func (a *Adoption) SetCreatedAt(t time.Time) { a.CreatedAt = t }
