package models

import "time"

// Rating is a single burrito rating pinned to a map location.
// It is the only persistent entity in the system.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RestaurantName string  `json:"restaurantName" gorm:"not null"`
	BurritoTitle   string  `json:"burritoTitle" gorm:"not null"`
	Latitude       float64 `json:"latitude" gorm:"not null"`
	Longitude      float64 `json:"longitude" gorm:"not null"`
	Zipcode        *string `json:"zipcode"`

	Rating float64 `json:"rating" gorm:"not null"`
	Taste  float64 `json:"taste"`
	Value  float64 `json:"value"`
	Price  float64 `json:"price"`

	HasPotatoes   bool `json:"hasPotatoes"`
	HasCheese     bool `json:"hasCheese"`
	HasBacon      bool `json:"hasBacon"`
	HasChorizo    bool `json:"hasChorizo"`
	HasAvocado    bool `json:"hasAvocado"`
	HasVegetables bool `json:"hasVegetables"`

	Review           *string `json:"review"`
	ReviewerName     string  `json:"reviewerName" gorm:"default:'Anonymous'"`
	IdentityPassword *string `json:"identityPassword"`
	ReviewerEmoji    *string `json:"reviewerEmoji"`

	// Confirmed is the moderation gate: false until an admin approves the
	// rating, and only the confirm endpoints ever set it.
	Confirmed bool `json:"confirmed" gorm:"not null;default:false"`
}
