package restaurant

import (
	"context"
	"errors"
	"strings"

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
// Restaurants
// --------------------------------------------------

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Restaurant, error) {
	var res Restaurant
	err := r.db.QueryRow(ctx, `
		SELECT id, name, address
		FROM restaurants
		WHERE id = $1
	`, id).Scan(&res.ID, &res.Name, &res.Address)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*Restaurant, error) {
	var res Restaurant
	err := r.db.QueryRow(ctx, `
		SELECT id, name, address
		FROM restaurants
		WHERE lower(name) = lower($1)
	`, name).Scan(&res.ID, &res.Name, &res.Address)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ResolveByName returns the restaurant with this name (case-insensitive) or
// creates it. Concurrent first-writes race through the unique index on
// lower(name): the loser's insert is a no-op and the winner's row is
// re-fetched.
func (r *PostgresRepository) ResolveByName(ctx context.Context, name string, address *string) (*Restaurant, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	var res Restaurant
	err = r.db.QueryRow(ctx, `
		INSERT INTO restaurants (id, name, address)
		VALUES ($1, $2, $3)
		ON CONFLICT ((lower(name))) DO NOTHING
		RETURNING id, name, address
	`, uuid.New().String(), name, address).Scan(&res.ID, &res.Name, &res.Address)

	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race; use the winner.
		return r.GetByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Restaurant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, address
		FROM restaurants
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRestaurants(rows)
}

func (r *PostgresRepository) Search(ctx context.Context, query string, limit int) ([]Restaurant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, address
		FROM restaurants
		WHERE name ILIKE '%' || $1 || '%'
		   OR address ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRestaurants(rows)
}

func scanRestaurants(rows pgx.Rows) ([]Restaurant, error) {
	var restaurants []Restaurant
	for rows.Next() {
		var res Restaurant
		if err := rows.Scan(&res.ID, &res.Name, &res.Address); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, res)
	}
	return restaurants, rows.Err()
}

// --------------------------------------------------
// Dishes
// --------------------------------------------------

func (r *PostgresRepository) GetDish(ctx context.Context, id string) (*Dish, error) {
	var d Dish
	err := r.db.QueryRow(ctx, `
		SELECT id, restaurant_id, name
		FROM dishes
		WHERE id = $1
	`, id).Scan(&d.ID, &d.RestaurantID, &d.Name)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresRepository) ResolveDish(ctx context.Context, restaurantID, name string) (*Dish, error) {
	dishes, err := r.ResolveDishes(ctx, restaurantID, []string{name})
	if err != nil {
		return nil, err
	}
	d, ok := dishes[strings.ToLower(name)]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &d, nil
}

// ResolveDishes fetches every matching dish in one query, batch-inserts the
// missing names, then re-fetches so that racing creators converge on the
// same rows. Names are matched case-insensitively; the stored canonical
// name is whichever form was first persisted.
func (r *PostgresRepository) ResolveDishes(ctx context.Context, restaurantID string, names []string) (map[string]Dish, error) {
	wanted := dedupeLower(names)
	if len(wanted) == 0 {
		return map[string]Dish{}, nil
	}

	found, err := r.fetchDishesByNames(ctx, restaurantID, wanted)
	if err != nil {
		return nil, err
	}

	var missingIDs, missingNames []string
	seen := make(map[string]bool)
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := found[key]; ok || seen[key] {
			continue
		}
		seen[key] = true
		missingIDs = append(missingIDs, uuid.New().String())
		missingNames = append(missingNames, name)
	}

	if len(missingNames) == 0 {
		return found, nil
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO dishes (id, restaurant_id, name)
		SELECT ids.id, $2, ids.name
		FROM unnest($1::text[], $3::text[]) AS ids(id, name)
		ON CONFLICT (restaurant_id, (lower(name))) DO NOTHING
	`, missingIDs, restaurantID, missingNames)
	if err != nil {
		return nil, err
	}

	return r.fetchDishesByNames(ctx, restaurantID, wanted)
}

func (r *PostgresRepository) fetchDishesByNames(ctx context.Context, restaurantID string, lowerNames []string) (map[string]Dish, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, name
		FROM dishes
		WHERE restaurant_id = $1
		  AND lower(name) = ANY($2)
	`, restaurantID, lowerNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]Dish)
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.RestaurantID, &d.Name); err != nil {
			return nil, err
		}
		result[strings.ToLower(d.Name)] = d
	}
	return result, rows.Err()
}

func (r *PostgresRepository) ListDishes(ctx context.Context) ([]Dish, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, name
		FROM dishes
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDishes(rows)
}

func (r *PostgresRepository) ListDishesByRestaurant(ctx context.Context, restaurantID string) ([]Dish, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, name
		FROM dishes
		WHERE restaurant_id = $1
		ORDER BY name
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDishes(rows)
}

func (r *PostgresRepository) SearchDishes(ctx context.Context, query string, limit int) ([]Dish, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, restaurant_id, name
		FROM dishes
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDishes(rows)
}

func scanDishes(rows pgx.Rows) ([]Dish, error) {
	var dishes []Dish
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.RestaurantID, &d.Name); err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func dedupeLower(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}
