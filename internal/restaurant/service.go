package restaurant

import (
	"context"
	"strings"

	"dishlog/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --------------------------------------------------
// Resolve-or-create primitives
// --------------------------------------------------

func (s *Service) ResolveByName(ctx context.Context, name string, address *string) (*Restaurant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, core.Invalid("restaurantName", "is required")
	}
	return s.repo.ResolveByName(ctx, name, address)
}

func (s *Service) ResolveDish(ctx context.Context, restaurantID, name string) (*Dish, error) {
	if strings.TrimSpace(name) == "" {
		return nil, core.Invalid("dishName", "is required")
	}
	return s.repo.ResolveDish(ctx, restaurantID, name)
}

func (s *Service) ResolveDishes(ctx context.Context, restaurantID string, names []string) (map[string]Dish, error) {
	return s.repo.ResolveDishes(ctx, restaurantID, names)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (s *Service) Get(ctx context.Context, id string) (*Restaurant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetDish(ctx context.Context, id string) (*Dish, error) {
	return s.repo.GetDish(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Restaurant, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListDishes(ctx context.Context) ([]Dish, error) {
	return s.repo.ListDishes(ctx)
}

func (s *Service) GetWithDishes(ctx context.Context, id string) (*RestaurantWithDishes, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dishes, err := s.repo.ListDishesByRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	return &RestaurantWithDishes{Restaurant: *res, Dishes: dishes}, nil
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]Restaurant, error) {
	return s.repo.Search(ctx, query, limit)
}

func (s *Service) SearchDishes(ctx context.Context, query string, limit int) ([]Dish, error) {
	return s.repo.SearchDishes(ctx, query, limit)
}
