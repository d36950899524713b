package receipt

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

// --------------------------------------------------
// Receipts
// --------------------------------------------------

func (r *PostgresRepository) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO receipts (id, restaurant_id, datetime, total_amount, raw_extraction)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, receipt.ID, receipt.RestaurantID, receipt.Datetime, receipt.TotalAmount,
		receipt.RawExtraction).Scan(&receipt.CreatedAt)
}

func (r *PostgresRepository) GetReceipt(ctx context.Context, id string) (*Receipt, error) {
	var rec Receipt
	err := r.db.QueryRow(ctx, `
		SELECT id, restaurant_id, datetime, total_amount, raw_extraction, created_at
		FROM receipts
		WHERE id = $1
	`, id).Scan(&rec.ID, &rec.RestaurantID, &rec.Datetime, &rec.TotalAmount,
		&rec.RawExtraction, &rec.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) ListReceipts(ctx context.Context) ([]Receipt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, datetime, total_amount, raw_extraction, created_at
		FROM receipts
		ORDER BY datetime DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReceipts(rows)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]Receipt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, datetime, total_amount, raw_extraction, created_at
		FROM receipts
		ORDER BY datetime DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReceipts(rows)
}

func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]Receipt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, datetime, total_amount, raw_extraction, created_at
		FROM receipts
		WHERE restaurant_id = $1
		ORDER BY datetime DESC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReceipts(rows)
}

func (r *PostgresRepository) UpdateReceipt(ctx context.Context, id string, datetime *time.Time, totalAmount, restaurantID *string) (*Receipt, error) {
	var rec Receipt
	err := r.db.QueryRow(ctx, `
		UPDATE receipts
		SET datetime      = COALESCE($2, datetime),
		    total_amount  = COALESCE($3, total_amount),
		    restaurant_id = COALESCE($4, restaurant_id)
		WHERE id = $1
		RETURNING id, restaurant_id, datetime, total_amount, raw_extraction, created_at
	`, id, datetime, totalAmount, restaurantID).Scan(&rec.ID, &rec.RestaurantID,
		&rec.Datetime, &rec.TotalAmount, &rec.RawExtraction, &rec.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteReceipt unlinks photos, deletes the instances, then the receipt,
// all in one transaction so the cascade is never partially visible.
func (r *PostgresRepository) DeleteReceipt(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE dish_photos
		SET dish_instance_id = NULL
		WHERE dish_instance_id IN (
			SELECT id FROM dish_instances WHERE receipt_id = $1
		)
	`, id)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM dish_instances WHERE receipt_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanReceipts(rows pgx.Rows) ([]Receipt, error) {
	var receipts []Receipt
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(&rec.ID, &rec.RestaurantID, &rec.Datetime,
			&rec.TotalAmount, &rec.RawExtraction, &rec.CreatedAt); err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}
	return receipts, rows.Err()
}

// --------------------------------------------------
// Dish instances
// --------------------------------------------------

func (r *PostgresRepository) CreateInstances(ctx context.Context, instances []DishInstance) error {
	if len(instances) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range instances {
		if instances[i].ID == "" {
			instances[i].ID = uuid.New().String()
		}
		batch.Queue(`
			INSERT INTO dish_instances (id, dish_id, receipt_id, price, rating, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, instances[i].ID, instances[i].DishID, instances[i].ReceiptID,
			instances[i].Price, instances[i].Rating, instances[i].Position)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range instances {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) GetInstance(ctx context.Context, id string) (*DishInstance, error) {
	var inst DishInstance
	err := r.db.QueryRow(ctx, `
		SELECT id, dish_id, receipt_id, price, rating, position
		FROM dish_instances
		WHERE id = $1
	`, id).Scan(&inst.ID, &inst.DishID, &inst.ReceiptID, &inst.Price,
		&inst.Rating, &inst.Position)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *PostgresRepository) ExistsInstance(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM dish_instances WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) ListInstances(ctx context.Context) ([]DishInstance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, dish_id, receipt_id, price, rating, position
		FROM dish_instances
		ORDER BY receipt_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInstances(rows)
}

func (r *PostgresRepository) ListInstancesByReceipt(ctx context.Context, receiptID string) ([]DishInstance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, dish_id, receipt_id, price, rating, position
		FROM dish_instances
		WHERE receipt_id = $1
		ORDER BY position
	`, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInstances(rows)
}

func (r *PostgresRepository) ListInstancesByDish(ctx context.Context, dishID string) ([]DishInstance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, dish_id, receipt_id, price, rating, position
		FROM dish_instances
		WHERE dish_id = $1
		ORDER BY receipt_id, position
	`, dishID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInstances(rows)
}

func (r *PostgresRepository) UpdateInstance(ctx context.Context, id string, dishID, price, rating *string) (*DishInstance, error) {
	var inst DishInstance
	err := r.db.QueryRow(ctx, `
		UPDATE dish_instances
		SET dish_id = COALESCE($2, dish_id),
		    price   = COALESCE($3, price),
		    rating  = COALESCE($4, rating)
		WHERE id = $1
		RETURNING id, dish_id, receipt_id, price, rating, position
	`, id, dishID, price, rating).Scan(&inst.ID, &inst.DishID, &inst.ReceiptID,
		&inst.Price, &inst.Rating, &inst.Position)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// DeleteInstance unlinks the instance's photos and deletes it in one
// transaction.
func (r *PostgresRepository) DeleteInstance(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE dish_photos
		SET dish_instance_id = NULL
		WHERE dish_instance_id = $1
	`, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM dish_instances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanInstances(rows pgx.Rows) ([]DishInstance, error) {
	var instances []DishInstance
	for rows.Next() {
		var inst DishInstance
		if err := rows.Scan(&inst.ID, &inst.DishID, &inst.ReceiptID,
			&inst.Price, &inst.Rating, &inst.Position); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// --------------------------------------------------
// Counts
// --------------------------------------------------

func (r *PostgresRepository) CountReceipts(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM receipts`).Scan(&count)
	return count, err
}
