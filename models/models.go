package models

import "time"

// User represents a registered account.
type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"password,omitempty" bson:"password"`
	EmailVerified bool      `json:"email_verified" bson:"email_verified"`
	Role          []string  `json:"role" bson:"role"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin     time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}

// DayPlan is one generated day of a trip. JSON keys follow the
// generation service's wire format; bson keys are our own.
type DayPlan struct {
	DayNum     int     `json:"day_num" bson:"day_num"`
	Narrative  string  `json:"itinerary" bson:"narrative"`
	ApproxCost float64 `json:"approx_total_cost" bson:"approx_cost"`
}

// Hotel is a scraped hotel recommendation from the generation service.
type Hotel struct {
	Name     string `json:"name" bson:"name"`
	Location string `json:"location" bson:"location"`
	Price    string `json:"price,omitempty" bson:"price,omitempty"`
	Rating   string `json:"rating" bson:"rating"`
	ImgURL   string `json:"imgUrl" bson:"img_url"`
}

// SavedItinerary is the persisted copy of a successful generation,
// owned by the signed-in user. Insert-only; never mutated.
type SavedItinerary struct {
	ItineraryID string    `json:"itineraryid" bson:"itineraryid"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Place       string    `json:"place" bson:"place"`
	Budget      float64   `json:"budget" bson:"budget"`
	Preferences []string  `json:"preferences" bson:"preferences"`
	Itinerary   []DayPlan `json:"itinerary" bson:"itinerary"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Index represents an observability event emitted over the message queue.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
