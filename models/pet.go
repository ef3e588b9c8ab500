package models

import "time"

const (
	// PetsCollection is the collection holding pet listings
	PetsCollection = "pets"
	// PetOwnerField is the document field naming the listing owner
	PetOwnerField = "email"
)

// Pet is a pet listed for adoption
type Pet struct {
	ID               string    `json:"_id" bson:"_id"`
	Name             string    `json:"name" bson:"name" validate:"required"`
	Age              int       `json:"age" bson:"age" validate:"gte=0"`
	Category         string    `json:"category,omitempty" bson:"category,omitempty"`
	Location         string    `json:"location,omitempty" bson:"location,omitempty"`
	ImageURL         string    `json:"image,omitempty" bson:"image,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	LongDescription  string    `json:"longDescription,omitempty" bson:"longDescription,omitempty"`
	Adopted          bool      `json:"adopted" bson:"adopted"`
	Email            string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

func (p *Pet) GetID() string { return p.ID }
func (p *Pet) SetID(id string) { p.ID = id }
func (p *Pet) Owner() string { return p.Email }
func (p *Pet) SetOwner(email string) { p.Email = email }
func (p *Pet) GetCreatedAt() time.Time { return p.CreatedAt }
func (p *Pet) SetCreatedAt(t time.Time) { p.CreatedAt = t }
