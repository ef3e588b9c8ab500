package models

import "time"

const (
	// CampaignsCollection is the collection holding donation campaigns
	CampaignsCollection = "campaigns"
	// CampaignOwnerField is the document field naming the campaign creator
	CampaignOwnerField = "createdBy"
)

// Campaign is a donation campaign raised for a pet
type Campaign struct {
	ID               string    `json:"_id" bson:"_id"`
	PetName          string    `json:"petName" bson:"petName" validate:"required"`
	PetImage         string    `json:"petImage,omitempty" bson:"petImage,omitempty"`
	MaxDonation      float64   `json:"maxDonation" bson:"maxDonation" validate:"gte=0"`
	DonatedAmount    float64   `json:"donatedAmount" bson:"donatedAmount" validate:"gte=0"`
	LastDate         string    `json:"lastDate,omitempty" bson:"lastDate,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	LongDescription  string    `json:"longDescription,omitempty" bson:"longDescription,omitempty"`
	Paused           bool      `json:"paused" bson:"paused"`
	CreatedBy        string    `json:"createdBy,omitempty" bson:"createdBy,omitempty" validate:"omitempty,email"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

func (c *Campaign) GetID() string { return c.ID }
func (c *Campaign) SetID(id string) { c.ID = id }
func (c *Campaign) Owner() string { return c.CreatedBy }
func (c *Campaign) SetOwner(email string) { c.CreatedBy = email }
func (c *Campaign) GetCreatedAt() time.Time { return c.CreatedAt }
func (c *Campaign) SetCreatedAt(t time.Time) { c.CreatedAt = t }
