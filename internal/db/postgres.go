package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	if err := initSchema(pool); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return pool
}

// initSchema creates the tables and the uniqueness constraints the
// resolve-or-create paths rely on. Natural keys (restaurant name, dish
// name per restaurant) are enforced here, not in application code.
func initSchema(pool *pgxpool.Pool) error {
	ctx := context.Background()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS restaurants_name_lower_key
			ON restaurants ((lower(name)))`,

		`CREATE TABLE IF NOT EXISTS receipts (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
			datetime TIMESTAMPTZ NOT NULL,
			total_amount TEXT,
			raw_extraction JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS dishes (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
			name TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS dishes_restaurant_name_lower_key
			ON dishes (restaurant_id, (lower(name)))`,

		`CREATE TABLE IF NOT EXISTS dish_instances (
			id TEXT PRIMARY KEY,
			dish_id TEXT NOT NULL REFERENCES dishes(id),
			receipt_id TEXT NOT NULL REFERENCES receipts(id),
			price TEXT,
			rating TEXT,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS dish_instances_receipt_idx
			ON dish_instances (receipt_id)`,

		`CREATE TABLE IF NOT EXISTS dish_photos (
			id TEXT PRIMARY KEY,
			dish_instance_id TEXT REFERENCES dish_instances(id),
			image_url TEXT NOT NULL,
			posted_by_user_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS dish_photos_instance_idx
			ON dish_photos (dish_instance_id)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			display_name TEXT,
			avatar_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_key
			ON users ((lower(username)))`,

		`CREATE TABLE IF NOT EXISTS user_follows (
			id TEXT PRIMARY KEY,
			follower_id TEXT NOT NULL REFERENCES users(id),
			following_id TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (follower_id, following_id)
		)`,

		`CREATE TABLE IF NOT EXISTS photo_likes (
			id TEXT PRIMARY KEY,
			dish_photo_id TEXT NOT NULL REFERENCES dish_photos(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (dish_photo_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS dish_bookmarks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			dish_id TEXT NOT NULL REFERENCES dishes(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, dish_id)
		)`,

		`CREATE TABLE IF NOT EXISTS restaurant_bookmarks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, restaurant_id)
		)`,

		`CREATE TABLE IF NOT EXISTS shares (
			id TEXT PRIMARY KEY,
			sender_id TEXT NOT NULL REFERENCES users(id),
			recipient_id TEXT NOT NULL REFERENCES users(id),
			share_type TEXT NOT NULL,
			dish_id TEXT,
			dish_instance_id TEXT,
			restaurant_id TEXT,
			shared_user_id TEXT,
			message TEXT,
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS shares_recipient_idx
			ON shares (recipient_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
