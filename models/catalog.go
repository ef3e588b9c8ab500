package models

const (
	CategoriesCollection = "categories"
	ReviewsCollection    = "reviews"
)

// Category groups pets by kind (cats, dogs, rabbits, ...)
type Category struct {
	ID    string `json:"_id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}

// Review is a testimonial shown on the landing page
type Review struct {
	ID      string  `json:"_id" bson:"_id"`
	Name    string  `json:"name" bson:"name"`
	Image   string  `json:"image,omitempty" bson:"image,omitempty"`
	Rating  float64 `json:"rating" bson:"rating"`
	Details string  `json:"details,omitempty" bson:"details,omitempty"`
}
