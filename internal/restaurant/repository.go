package restaurant

import "context"

// Repository owns restaurant and dish identity. Resolve methods are atomic
// per call: under concurrent creates of the same natural key the storage
// layer's uniqueness constraint decides a single winner and every caller
// gets that row.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Restaurant, error)
	GetByName(ctx context.Context, name string) (*Restaurant, error)
	ResolveByName(ctx context.Context, name string, address *string) (*Restaurant, error)
	List(ctx context.Context) ([]Restaurant, error)
	Search(ctx context.Context, query string, limit int) ([]Restaurant, error)

	GetDish(ctx context.Context, id string) (*Dish, error)
	ResolveDish(ctx context.Context, restaurantID, name string) (*Dish, error)
	// ResolveDishes resolves every name in one lookup plus one batch create.
	// The result is keyed by lower-cased name.
	ResolveDishes(ctx context.Context, restaurantID string, names []string) (map[string]Dish, error)
	ListDishes(ctx context.Context) ([]Dish, error)
	ListDishesByRestaurant(ctx context.Context, restaurantID string) ([]Dish, error)
	SearchDishes(ctx context.Context, query string, limit int) ([]Dish, error)
}
