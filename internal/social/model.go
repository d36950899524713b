package social

import "time"

// TestUserID is the seeded development user. With authentication out of
// scope, requests without an X-User-ID header act as this user.
const TestUserID = "test-user-1"

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PhotoLike struct {
	ID          string    `json:"id"`
	DishPhotoID string    `json:"dishPhotoId"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DishBookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	DishID    string    `json:"dishId"`
	CreatedAt time.Time `json:"createdAt"`
}

type RestaurantBookmark struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RestaurantID string    `json:"restaurantId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Share is one inbox item: a dish, instance, restaurant, or user sent
// from one user to another. Exactly one of the target IDs is set,
// matching ShareType.
type Share struct {
	ID             string     `json:"id"`
	SenderID       string     `json:"senderId"`
	RecipientID    string     `json:"recipientId"`
	ShareType      string     `json:"shareType"`
	DishID         *string    `json:"dishId"`
	DishInstanceID *string    `json:"dishInstanceId"`
	RestaurantID   *string    `json:"restaurantId"`
	SharedUserID   *string    `json:"sharedUserId"`
	Message        *string    `json:"message"`
	ReadAt         *time.Time `json:"readAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type FollowStats struct {
	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
}

type ProfileStats struct {
	PhotoCount     int `json:"photoCount"`
	LikeCount      int `json:"likeCount"`
	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
}
