package social

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dishlog/internal/core"
)

type MemoryRepository struct {
	mu                  sync.RWMutex
	users               map[string]*User
	follows             map[string]*Follow
	likes               map[string]*PhotoLike
	dishBookmarks       map[string]*DishBookmark
	restaurantBookmarks map[string]*RestaurantBookmark
	shares              map[string]*Share
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:               make(map[string]*User),
		follows:             make(map[string]*Follow),
		likes:               make(map[string]*PhotoLike),
		dishBookmarks:       make(map[string]*DishBookmark),
		restaurantBookmarks: make(map[string]*RestaurantBookmark),
		shares:              make(map[string]*Share),
	}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *MemoryRepository) GetUser(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) {
			return core.ErrConflict
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *MemoryRepository) ListUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []User
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *MemoryRepository) SearchUsers(ctx context.Context, query string, limit int) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var out []User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			(u.DisplayName != nil && strings.Contains(strings.ToLower(*u.DisplayName), q)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --------------------------------------------------
// Follows
// --------------------------------------------------

func (r *MemoryRepository) Follow(ctx context.Context, followerID, followingID string) (*Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			copied := *f
			return &copied, nil
		}
	}

	f := &Follow{
		ID:          uuid.New().String(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	r.follows[f.ID] = f

	copied := *f
	return &copied, nil
}

func (r *MemoryRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			delete(r.follows, id)
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *MemoryRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ListFollowers(ctx context.Context, userID string) ([]Follow, error) {
	return r.listFollows(func(f *Follow) bool { return f.FollowingID == userID }), nil
}

func (r *MemoryRepository) ListFollowing(ctx context.Context, userID string) ([]Follow, error) {
	return r.listFollows(func(f *Follow) bool { return f.FollowerID == userID }), nil
}

func (r *MemoryRepository) listFollows(keep func(*Follow) bool) []Follow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Follow
	for _, f := range r.follows {
		if keep(f) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *MemoryRepository) GetFollowStats(ctx context.Context, userID string) (*FollowStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats FollowStats
	for _, f := range r.follows {
		if f.FollowingID == userID {
			stats.FollowerCount++
		}
		if f.FollowerID == userID {
			stats.FollowingCount++
		}
	}
	return &stats, nil
}

// --------------------------------------------------
// Photo likes
// --------------------------------------------------

func (r *MemoryRepository) LikePhoto(ctx context.Context, userID, photoID string) (*PhotoLike, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.likes {
		if l.UserID == userID && l.DishPhotoID == photoID {
			copied := *l
			return &copied, nil
		}
	}

	l := &PhotoLike{
		ID:          uuid.New().String(),
		DishPhotoID: photoID,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}
	r.likes[l.ID] = l

	copied := *l
	return &copied, nil
}

func (r *MemoryRepository) UnlikePhoto(ctx context.Context, userID, photoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.likes {
		if l.UserID == userID && l.DishPhotoID == photoID {
			delete(r.likes, id)
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *MemoryRepository) IsPhotoLiked(ctx context.Context, userID, photoID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.likes {
		if l.UserID == userID && l.DishPhotoID == photoID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ListPhotoLikes(ctx context.Context, photoID string) ([]PhotoLike, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []PhotoLike
	for _, l := range r.likes {
		if l.DishPhotoID == photoID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) CountPhotoLikes(ctx context.Context, photoID string) (int, error) {
	likes, _ := r.ListPhotoLikes(ctx, photoID)
	return len(likes), nil
}

func (r *MemoryRepository) CountUserLikes(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, l := range r.likes {
		if l.UserID == userID {
			count++
		}
	}
	return count, nil
}

// --------------------------------------------------
// Bookmarks
// --------------------------------------------------

func (r *MemoryRepository) BookmarkDish(ctx context.Context, userID, dishID string) (*DishBookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.dishBookmarks {
		if b.UserID == userID && b.DishID == dishID {
			copied := *b
			return &copied, nil
		}
	}

	b := &DishBookmark{
		ID:        uuid.New().String(),
		UserID:    userID,
		DishID:    dishID,
		CreatedAt: time.Now(),
	}
	r.dishBookmarks[b.ID] = b

	copied := *b
	return &copied, nil
}

func (r *MemoryRepository) UnbookmarkDish(ctx context.Context, userID, dishID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, b := range r.dishBookmarks {
		if b.UserID == userID && b.DishID == dishID {
			delete(r.dishBookmarks, id)
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *MemoryRepository) ListDishBookmarks(ctx context.Context, userID string) ([]DishBookmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []DishBookmark
	for _, b := range r.dishBookmarks {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) BookmarkRestaurant(ctx context.Context, userID, restaurantID string) (*RestaurantBookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.restaurantBookmarks {
		if b.UserID == userID && b.RestaurantID == restaurantID {
			copied := *b
			return &copied, nil
		}
	}

	b := &RestaurantBookmark{
		ID:           uuid.New().String(),
		UserID:       userID,
		RestaurantID: restaurantID,
		CreatedAt:    time.Now(),
	}
	r.restaurantBookmarks[b.ID] = b

	copied := *b
	return &copied, nil
}

func (r *MemoryRepository) UnbookmarkRestaurant(ctx context.Context, userID, restaurantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, b := range r.restaurantBookmarks {
		if b.UserID == userID && b.RestaurantID == restaurantID {
			delete(r.restaurantBookmarks, id)
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *MemoryRepository) ListRestaurantBookmarks(ctx context.Context, userID string) ([]RestaurantBookmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []RestaurantBookmark
	for _, b := range r.restaurantBookmarks {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --------------------------------------------------
// Shares
// --------------------------------------------------

func (r *MemoryRepository) CreateShare(ctx context.Context, share *Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if share.ID == "" {
		share.ID = uuid.New().String()
	}
	share.CreatedAt = time.Now()

	copied := *share
	r.shares[share.ID] = &copied
	return nil
}

func (r *MemoryRepository) GetShare(ctx context.Context, id string) (*Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shares[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *MemoryRepository) ListInbox(ctx context.Context, userID string, unreadOnly bool) ([]Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Share
	for _, s := range r.shares {
		if s.RecipientID != userID {
			continue
		}
		if unreadOnly && s.ReadAt != nil {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) MarkShareRead(ctx context.Context, id string) (*Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	now := time.Now()
	s.ReadAt = &now

	copied := *s
	return &copied, nil
}

func (r *MemoryRepository) DeleteShare(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shares[id]; !ok {
		return core.ErrNotFound
	}
	delete(r.shares, id)
	return nil
}
