package receipt

import (
	"encoding/json"
	"time"

	"dishlog/internal/photo"
	"dishlog/internal/restaurant"
)

type Receipt struct {
	ID            string          `json:"id"`
	RestaurantID  string          `json:"restaurantId"`
	Datetime      time.Time       `json:"datetime"`
	TotalAmount   *string         `json:"totalAmount"`
	RawExtraction json.RawMessage `json:"rawExtraction,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// DishInstance is one ordered item on one receipt: the join between a
// Dish (the menu item identity) and a Receipt (one occurrence of
// ordering it). Position preserves the original line-item order.
type DishInstance struct {
	ID        string  `json:"id"`
	DishID    string  `json:"dishId"`
	ReceiptID string  `json:"receiptId"`
	Price     *string `json:"price"`
	Rating    *string `json:"rating"`
	Position  int     `json:"-"`
}

// --------------------------------------------------
// Ratings
// --------------------------------------------------

type Rating string

const (
	RatingElite         Rating = "Elite"
	RatingWouldOrder    Rating = "Would order again"
	RatingShouldTryOnce Rating = "Should try once"
	RatingNotForMe      Rating = "Not for me"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingElite, RatingWouldOrder, RatingShouldTryOnce, RatingNotForMe:
		return true
	}
	return false
}

// --------------------------------------------------
// Composite read shapes
// --------------------------------------------------

type InstanceWithDish struct {
	DishInstance
	Dish restaurant.Dish `json:"dish"`
}

type IngestResult struct {
	Receipt       Receipt            `json:"receipt"`
	DishInstances []InstanceWithDish `json:"dishInstances"`
}

type InstanceDetail struct {
	DishInstance
	Dish  restaurant.Dish  `json:"dish"`
	Photo *photo.DishPhoto `json:"photo,omitempty"`
}

type ReceiptWithDetails struct {
	Receipt
	Restaurant restaurant.Restaurant `json:"restaurant"`
	Instances  []InstanceDetail      `json:"dishInstances"`
}

// --------------------------------------------------
// Partial updates
// --------------------------------------------------

// ReceiptUpdate carries the correctable receipt fields. Nil means
// "leave unchanged".
type ReceiptUpdate struct {
	Datetime       *time.Time
	TotalAmount    *string
	RestaurantName *string
}

// InstanceUpdate carries the correctable instance fields. Nil means
// "leave unchanged".
type InstanceUpdate struct {
	Price    *string
	Rating   *string
	DishName *string
}
