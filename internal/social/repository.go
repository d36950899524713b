package social

import "context"

// Repository owns users and the relationship tables. Like, follow, and
// bookmark creation is idempotent: the unique pair constraint decides a
// single row and repeat calls return it.
type Repository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context) ([]User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]User, error)

	Follow(ctx context.Context, followerID, followingID string) (*Follow, error)
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string) ([]Follow, error)
	ListFollowing(ctx context.Context, userID string) ([]Follow, error)
	GetFollowStats(ctx context.Context, userID string) (*FollowStats, error)

	LikePhoto(ctx context.Context, userID, photoID string) (*PhotoLike, error)
	UnlikePhoto(ctx context.Context, userID, photoID string) error
	IsPhotoLiked(ctx context.Context, userID, photoID string) (bool, error)
	ListPhotoLikes(ctx context.Context, photoID string) ([]PhotoLike, error)
	CountPhotoLikes(ctx context.Context, photoID string) (int, error)
	CountUserLikes(ctx context.Context, userID string) (int, error)

	BookmarkDish(ctx context.Context, userID, dishID string) (*DishBookmark, error)
	UnbookmarkDish(ctx context.Context, userID, dishID string) error
	ListDishBookmarks(ctx context.Context, userID string) ([]DishBookmark, error)

	BookmarkRestaurant(ctx context.Context, userID, restaurantID string) (*RestaurantBookmark, error)
	UnbookmarkRestaurant(ctx context.Context, userID, restaurantID string) error
	ListRestaurantBookmarks(ctx context.Context, userID string) ([]RestaurantBookmark, error)

	CreateShare(ctx context.Context, share *Share) error
	GetShare(ctx context.Context, id string) (*Share, error)
	ListInbox(ctx context.Context, userID string, unreadOnly bool) ([]Share, error)
	MarkShareRead(ctx context.Context, id string) (*Share, error)
	DeleteShare(ctx context.Context, id string) error
}
