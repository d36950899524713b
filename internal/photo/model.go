package photo

import "time"

// DishPhoto survives its linking context: deleting the linked dish instance
// unlinks the photo, it never deletes it.
type DishPhoto struct {
	ID             string    `json:"id"`
	DishInstanceID *string   `json:"dishInstanceId"`
	ImageURL       string    `json:"imageUrl"`
	PostedByUserID *string   `json:"postedByUserId"`
	CreatedAt      time.Time `json:"createdAt"`
}
