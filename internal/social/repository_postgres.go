package social

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dishlog/internal/core"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*User, error) {
	return r.getUserWhere(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUserWhere(ctx, `lower(username) = lower($1)`, username)
}

func (r *PostgresRepository) getUserWhere(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, `
		SELECT id, username, display_name, avatar_url, created_at
		FROM users
		WHERE `+where, arg).Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, display_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ((lower(username))) DO NOTHING
		RETURNING created_at
	`, user.ID, user.Username, user.DisplayName, user.AvatarURL).Scan(&user.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrConflict
	}
	return err
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, display_name, avatar_url, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *PostgresRepository) SearchUsers(ctx context.Context, query string, limit int) ([]User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, display_name, avatar_url, created_at
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		   OR display_name ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --------------------------------------------------
// Follows
// --------------------------------------------------

func (r *PostgresRepository) Follow(ctx context.Context, followerID, followingID string) (*Follow, error) {
	var f Follow
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_follows (id, follower_id, following_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, following_id) DO NOTHING
		RETURNING id, follower_id, following_id, created_at
	`, uuid.New().String(), followerID, followingID).Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Already following; return the existing row.
		err = r.db.QueryRow(ctx, `
			SELECT id, follower_id, following_id, created_at
			FROM user_follows
			WHERE follower_id = $1 AND following_id = $2
		`, followerID, followingID).Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM user_follows
		WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var following bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_follows
			WHERE follower_id = $1 AND following_id = $2
		)
	`, followerID, followingID).Scan(&following)
	return following, err
}

func (r *PostgresRepository) ListFollowers(ctx context.Context, userID string) ([]Follow, error) {
	return r.listFollowsWhere(ctx, `following_id = $1`, userID)
}

func (r *PostgresRepository) ListFollowing(ctx context.Context, userID string) ([]Follow, error) {
	return r.listFollowsWhere(ctx, `follower_id = $1`, userID)
}

func (r *PostgresRepository) listFollowsWhere(ctx context.Context, where string, arg any) ([]Follow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, follower_id, following_id, created_at
		FROM user_follows
		WHERE `+where+`
		ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var follows []Follow
	for rows.Next() {
		var f Follow
		if err := rows.Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt); err != nil {
			return nil, err
		}
		follows = append(follows, f)
	}
	return follows, rows.Err()
}

func (r *PostgresRepository) GetFollowStats(ctx context.Context, userID string) (*FollowStats, error) {
	var stats FollowStats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM user_follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM user_follows WHERE follower_id = $1)
	`, userID).Scan(&stats.FollowerCount, &stats.FollowingCount)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// --------------------------------------------------
// Photo likes
// --------------------------------------------------

func (r *PostgresRepository) LikePhoto(ctx context.Context, userID, photoID string) (*PhotoLike, error) {
	var l PhotoLike
	err := r.db.QueryRow(ctx, `
		INSERT INTO photo_likes (id, dish_photo_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (dish_photo_id, user_id) DO NOTHING
		RETURNING id, dish_photo_id, user_id, created_at
	`, uuid.New().String(), photoID, userID).Scan(&l.ID, &l.DishPhotoID, &l.UserID, &l.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		err = r.db.QueryRow(ctx, `
			SELECT id, dish_photo_id, user_id, created_at
			FROM photo_likes
			WHERE dish_photo_id = $1 AND user_id = $2
		`, photoID, userID).Scan(&l.ID, &l.DishPhotoID, &l.UserID, &l.CreatedAt)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresRepository) UnlikePhoto(ctx context.Context, userID, photoID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM photo_likes
		WHERE dish_photo_id = $1 AND user_id = $2
	`, photoID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) IsPhotoLiked(ctx context.Context, userID, photoID string) (bool, error) {
	var liked bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM photo_likes
			WHERE dish_photo_id = $1 AND user_id = $2
		)
	`, photoID, userID).Scan(&liked)
	return liked, err
}

func (r *PostgresRepository) ListPhotoLikes(ctx context.Context, photoID string) ([]PhotoLike, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, dish_photo_id, user_id, created_at
		FROM photo_likes
		WHERE dish_photo_id = $1
		ORDER BY created_at DESC
	`, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []PhotoLike
	for rows.Next() {
		var l PhotoLike
		if err := rows.Scan(&l.ID, &l.DishPhotoID, &l.UserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, l)
	}
	return likes, rows.Err()
}

func (r *PostgresRepository) CountPhotoLikes(ctx context.Context, photoID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM photo_likes WHERE dish_photo_id = $1
	`, photoID).Scan(&count)
	return count, err
}

func (r *PostgresRepository) CountUserLikes(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM photo_likes WHERE user_id = $1
	`, userID).Scan(&count)
	return count, err
}

// --------------------------------------------------
// Bookmarks
// --------------------------------------------------

func (r *PostgresRepository) BookmarkDish(ctx context.Context, userID, dishID string) (*DishBookmark, error) {
	var b DishBookmark
	err := r.db.QueryRow(ctx, `
		INSERT INTO dish_bookmarks (id, user_id, dish_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, dish_id) DO NOTHING
		RETURNING id, user_id, dish_id, created_at
	`, uuid.New().String(), userID, dishID).Scan(&b.ID, &b.UserID, &b.DishID, &b.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		err = r.db.QueryRow(ctx, `
			SELECT id, user_id, dish_id, created_at
			FROM dish_bookmarks
			WHERE user_id = $1 AND dish_id = $2
		`, userID, dishID).Scan(&b.ID, &b.UserID, &b.DishID, &b.CreatedAt)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) UnbookmarkDish(ctx context.Context, userID, dishID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM dish_bookmarks WHERE user_id = $1 AND dish_id = $2
	`, userID, dishID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListDishBookmarks(ctx context.Context, userID string) ([]DishBookmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, dish_id, created_at
		FROM dish_bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []DishBookmark
	for rows.Next() {
		var b DishBookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.DishID, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (r *PostgresRepository) BookmarkRestaurant(ctx context.Context, userID, restaurantID string) (*RestaurantBookmark, error) {
	var b RestaurantBookmark
	err := r.db.QueryRow(ctx, `
		INSERT INTO restaurant_bookmarks (id, user_id, restaurant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, restaurant_id) DO NOTHING
		RETURNING id, user_id, restaurant_id, created_at
	`, uuid.New().String(), userID, restaurantID).Scan(&b.ID, &b.UserID, &b.RestaurantID, &b.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		err = r.db.QueryRow(ctx, `
			SELECT id, user_id, restaurant_id, created_at
			FROM restaurant_bookmarks
			WHERE user_id = $1 AND restaurant_id = $2
		`, userID, restaurantID).Scan(&b.ID, &b.UserID, &b.RestaurantID, &b.CreatedAt)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) UnbookmarkRestaurant(ctx context.Context, userID, restaurantID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM restaurant_bookmarks WHERE user_id = $1 AND restaurant_id = $2
	`, userID, restaurantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListRestaurantBookmarks(ctx context.Context, userID string) ([]RestaurantBookmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, restaurant_id, created_at
		FROM restaurant_bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []RestaurantBookmark
	for rows.Next() {
		var b RestaurantBookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.RestaurantID, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// --------------------------------------------------
// Shares
// --------------------------------------------------

func (r *PostgresRepository) CreateShare(ctx context.Context, share *Share) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO shares (id, sender_id, recipient_id, share_type,
			dish_id, dish_instance_id, restaurant_id, shared_user_id, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, share.ID, share.SenderID, share.RecipientID, share.ShareType,
		share.DishID, share.DishInstanceID, share.RestaurantID,
		share.SharedUserID, share.Message).Scan(&share.CreatedAt)
}

func (r *PostgresRepository) GetShare(ctx context.Context, id string) (*Share, error) {
	var s Share
	err := r.db.QueryRow(ctx, `
		SELECT id, sender_id, recipient_id, share_type, dish_id,
			dish_instance_id, restaurant_id, shared_user_id, message,
			read_at, created_at
		FROM shares
		WHERE id = $1
	`, id).Scan(&s.ID, &s.SenderID, &s.RecipientID, &s.ShareType, &s.DishID,
		&s.DishInstanceID, &s.RestaurantID, &s.SharedUserID, &s.Message,
		&s.ReadAt, &s.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) ListInbox(ctx context.Context, userID string, unreadOnly bool) ([]Share, error) {
	query := `
		SELECT id, sender_id, recipient_id, share_type, dish_id,
			dish_instance_id, restaurant_id, shared_user_id, message,
			read_at, created_at
		FROM shares
		WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []Share
	for rows.Next() {
		var s Share
		if err := rows.Scan(&s.ID, &s.SenderID, &s.RecipientID, &s.ShareType,
			&s.DishID, &s.DishInstanceID, &s.RestaurantID, &s.SharedUserID,
			&s.Message, &s.ReadAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}

func (r *PostgresRepository) MarkShareRead(ctx context.Context, id string) (*Share, error) {
	var s Share
	err := r.db.QueryRow(ctx, `
		UPDATE shares
		SET read_at = now()
		WHERE id = $1
		RETURNING id, sender_id, recipient_id, share_type, dish_id,
			dish_instance_id, restaurant_id, shared_user_id, message,
			read_at, created_at
	`, id).Scan(&s.ID, &s.SenderID, &s.RecipientID, &s.ShareType, &s.DishID,
		&s.DishInstanceID, &s.RestaurantID, &s.SharedUserID, &s.Message,
		&s.ReadAt, &s.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) DeleteShare(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shares WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
