package social

import (
	"context"
	"errors"
	"strings"

	"dishlog/internal/core"
	"dishlog/internal/photo"
)

// PhotoSource is the slice of the photo store the social features read:
// posted-photo counts for profiles and per-user photos for the feed.
type PhotoSource interface {
	ListByUsers(ctx context.Context, userIDs []string, limit, offset int) ([]photo.DishPhoto, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type Service struct {
	repo   Repository
	photos PhotoSource
}

func NewService(repo Repository, photos PhotoSource) *Service {
	return &Service{repo: repo, photos: photos}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

// EnsureTestUser seeds the development user. Safe to call on every
// startup.
func (s *Service) EnsureTestUser(ctx context.Context) error {
	displayName := "Test User"
	err := s.repo.CreateUser(ctx, &User{
		ID:          TestUserID,
		Username:    "testuser",
		DisplayName: &displayName,
	})
	if errors.Is(err, core.ErrConflict) {
		return nil
	}
	return err
}

func (s *Service) CreateUser(ctx context.Context, username string, displayName, avatarURL *string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, core.Invalid("username", "is required")
	}

	user := &User{Username: username, DisplayName: displayName, AvatarURL: avatarURL}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) SearchUsers(ctx context.Context, query string, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.SearchUsers(ctx, query, limit)
}

// GetProfileStats combines follow counts with the user's like and
// posted-photo counts.
func (s *Service) GetProfileStats(ctx context.Context, userID string) (*ProfileStats, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	follows, err := s.repo.GetFollowStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	likeCount, err := s.repo.CountUserLikes(ctx, userID)
	if err != nil {
		return nil, err
	}
	photoCount, err := s.photos.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileStats{
		PhotoCount:     photoCount,
		LikeCount:      likeCount,
		FollowerCount:  follows.FollowerCount,
		FollowingCount: follows.FollowingCount,
	}, nil
}

// --------------------------------------------------
// Follows
// --------------------------------------------------

func (s *Service) Follow(ctx context.Context, followerID, followingID string) (*Follow, error) {
	if followerID == followingID {
		return nil, core.Invalid("followingId", "cannot follow yourself")
	}
	if _, err := s.repo.GetUser(ctx, followingID); err != nil {
		return nil, err
	}
	return s.repo.Follow(ctx, followerID, followingID)
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) error {
	return s.repo.Unfollow(ctx, followerID, followingID)
}

func (s *Service) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followingID)
}

func (s *Service) ListFollowers(ctx context.Context, userID string) ([]Follow, error) {
	return s.repo.ListFollowers(ctx, userID)
}

func (s *Service) ListFollowing(ctx context.Context, userID string) ([]Follow, error) {
	return s.repo.ListFollowing(ctx, userID)
}

// --------------------------------------------------
// Likes
// --------------------------------------------------

func (s *Service) LikePhoto(ctx context.Context, userID, photoID string) (*PhotoLike, error) {
	return s.repo.LikePhoto(ctx, userID, photoID)
}

func (s *Service) UnlikePhoto(ctx context.Context, userID, photoID string) error {
	return s.repo.UnlikePhoto(ctx, userID, photoID)
}

func (s *Service) IsPhotoLiked(ctx context.Context, userID, photoID string) (bool, error) {
	return s.repo.IsPhotoLiked(ctx, userID, photoID)
}

func (s *Service) ListPhotoLikes(ctx context.Context, photoID string) ([]PhotoLike, error) {
	return s.repo.ListPhotoLikes(ctx, photoID)
}

func (s *Service) CountPhotoLikes(ctx context.Context, photoID string) (int, error) {
	return s.repo.CountPhotoLikes(ctx, photoID)
}

// --------------------------------------------------
// Bookmarks
// --------------------------------------------------

func (s *Service) BookmarkDish(ctx context.Context, userID, dishID string) (*DishBookmark, error) {
	return s.repo.BookmarkDish(ctx, userID, dishID)
}

func (s *Service) UnbookmarkDish(ctx context.Context, userID, dishID string) error {
	return s.repo.UnbookmarkDish(ctx, userID, dishID)
}

func (s *Service) ListDishBookmarks(ctx context.Context, userID string) ([]DishBookmark, error) {
	return s.repo.ListDishBookmarks(ctx, userID)
}

func (s *Service) BookmarkRestaurant(ctx context.Context, userID, restaurantID string) (*RestaurantBookmark, error) {
	return s.repo.BookmarkRestaurant(ctx, userID, restaurantID)
}

func (s *Service) UnbookmarkRestaurant(ctx context.Context, userID, restaurantID string) error {
	return s.repo.UnbookmarkRestaurant(ctx, userID, restaurantID)
}

func (s *Service) ListRestaurantBookmarks(ctx context.Context, userID string) ([]RestaurantBookmark, error) {
	return s.repo.ListRestaurantBookmarks(ctx, userID)
}

// --------------------------------------------------
// Shares
// --------------------------------------------------

var shareTypes = map[string]bool{
	"dish":          true,
	"dish_instance": true,
	"restaurant":    true,
	"user":          true,
}

type ShareInput struct {
	RecipientID    string
	ShareType      string
	DishID         *string
	DishInstanceID *string
	RestaurantID   *string
	SharedUserID   *string
	Message        *string
}

func (s *Service) CreateShare(ctx context.Context, senderID string, input ShareInput) (*Share, error) {
	if !shareTypes[input.ShareType] {
		return nil, core.Invalid("shareType", "is not a recognized share type")
	}
	if _, err := s.repo.GetUser(ctx, input.RecipientID); err != nil {
		return nil, err
	}

	share := &Share{
		SenderID:       senderID,
		RecipientID:    input.RecipientID,
		ShareType:      input.ShareType,
		DishID:         input.DishID,
		DishInstanceID: input.DishInstanceID,
		RestaurantID:   input.RestaurantID,
		SharedUserID:   input.SharedUserID,
		Message:        input.Message,
	}
	if err := s.repo.CreateShare(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

func (s *Service) ListInbox(ctx context.Context, userID string, unreadOnly bool) ([]Share, error) {
	return s.repo.ListInbox(ctx, userID, unreadOnly)
}

func (s *Service) MarkShareRead(ctx context.Context, id string) (*Share, error) {
	return s.repo.MarkShareRead(ctx, id)
}

func (s *Service) DeleteShare(ctx context.Context, id string) error {
	return s.repo.DeleteShare(ctx, id)
}

// --------------------------------------------------
// Feed
// --------------------------------------------------

// GetFeed returns recent photos posted by the user and everyone they
// follow, newest first.
func (s *Service) GetFeed(ctx context.Context, userID string, limit, offset int) ([]photo.DishPhoto, error) {
	if limit <= 0 {
		limit = 20
	}

	following, err := s.repo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(following)+1)
	userIDs = append(userIDs, userID)
	for _, f := range following {
		userIDs = append(userIDs, f.FollowingID)
	}

	return s.photos.ListByUsers(ctx, userIDs, limit, offset)
}
