package photo

import (
	"context"
	"errors"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, photo *DishPhoto) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO dish_photos (id, dish_instance_id, image_url, posted_by_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, photo.ID, photo.DishInstanceID, photo.ImageURL, photo.PostedByUserID).Scan(&photo.CreatedAt)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*DishPhoto, error) {
	var p DishPhoto
	err := r.db.QueryRow(ctx, `
		SELECT id, dish_instance_id, image_url, posted_by_user_id, created_at
		FROM dish_photos
		WHERE id = $1
	`, id).Scan(&p.ID, &p.DishInstanceID, &p.ImageURL, &p.PostedByUserID, &p.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]DishPhoto, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, dish_instance_id, image_url, posted_by_user_id, created_at
		FROM dish_photos
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

func (r *PostgresRepository) ListUnlinked(ctx context.Context) ([]DishPhoto, error) {
	cutoff := time.Now().Add(-24 * time.Hour)

	rows, err := r.db.Query(ctx, `
		SELECT id, dish_instance_id, image_url, posted_by_user_id, created_at
		FROM dish_photos
		WHERE dish_instance_id IS NULL
		  AND created_at > $1
		ORDER BY created_at DESC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

func (r *PostgresRepository) ListByInstance(ctx context.Context, instanceID string) ([]DishPhoto, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, dish_instance_id, image_url, posted_by_user_id, created_at
		FROM dish_photos
		WHERE dish_instance_id = $1
		ORDER BY created_at
	`, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

func (r *PostgresRepository) ListByUsers(ctx context.Context, userIDs []string, limit, offset int) ([]DishPhoto, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, dish_instance_id, image_url, posted_by_user_id, created_at
		FROM dish_photos
		WHERE posted_by_user_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userIDs, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPhotos(rows)
}

func (r *PostgresRepository) UpdateLink(ctx context.Context, id string, instanceID *string) (*DishPhoto, error) {
	var p DishPhoto
	err := r.db.QueryRow(ctx, `
		UPDATE dish_photos
		SET dish_instance_id = $2
		WHERE id = $1
		RETURNING id, dish_instance_id, image_url, posted_by_user_id, created_at
	`, id, instanceID).Scan(&p.ID, &p.DishInstanceID, &p.ImageURL, &p.PostedByUserID, &p.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) UnlinkByInstanceIDs(ctx context.Context, instanceIDs []string) error {
	if len(instanceIDs) == 0 {
		return nil
	}

	_, err := r.db.Exec(ctx, `
		UPDATE dish_photos
		SET dish_instance_id = NULL
		WHERE dish_instance_id = ANY($1)
	`, instanceIDs)
	return err
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM dish_photos`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM dish_photos WHERE posted_by_user_id = $1
	`, userID).Scan(&count)
	return count, err
}

func scanPhotos(rows pgx.Rows) ([]DishPhoto, error) {
	var photos []DishPhoto
	for rows.Next() {
		var p DishPhoto
		if err := rows.Scan(&p.ID, &p.DishInstanceID, &p.ImageURL, &p.PostedByUserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
