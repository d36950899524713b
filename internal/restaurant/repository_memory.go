package restaurant

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dishlog/internal/core"
)

// MemoryRepository is a single-process store. Resolve methods do
// check-then-insert under one write lock, which is race-free only within
// this process; multi-instance deployments need the Postgres repository.
type MemoryRepository struct {
	mu          sync.RWMutex
	restaurants map[string]*Restaurant
	dishes      map[string]*Dish
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		restaurants: make(map[string]*Restaurant),
		dishes:      make(map[string]*Dish),
	}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.restaurants[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if res := r.findByName(name); res != nil {
		copied := *res
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (r *MemoryRepository) findByName(name string) *Restaurant {
	for _, res := range r.restaurants {
		if strings.EqualFold(res.Name, name) {
			return res
		}
	}
	return nil
}

func (r *MemoryRepository) ResolveByName(ctx context.Context, name string, address *string) (*Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res := r.findByName(name); res != nil {
		copied := *res
		return &copied, nil
	}

	res := &Restaurant{
		ID:      uuid.New().String(),
		Name:    name,
		Address: address,
	}
	r.restaurants[res.ID] = res

	copied := *res
	return &copied, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Restaurant
	for _, res := range r.restaurants {
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Search(ctx context.Context, query string, limit int) ([]Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []Restaurant
	for _, res := range r.restaurants {
		if strings.Contains(strings.ToLower(res.Name), needle) ||
			(res.Address != nil && strings.Contains(strings.ToLower(*res.Address), needle)) {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) GetDish(ctx context.Context, id string) (*Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dishes[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *MemoryRepository) ResolveDish(ctx context.Context, restaurantID, name string) (*Dish, error) {
	dishes, err := r.ResolveDishes(ctx, restaurantID, []string{name})
	if err != nil {
		return nil, err
	}
	d := dishes[strings.ToLower(name)]
	return &d, nil
}

func (r *MemoryRepository) ResolveDishes(ctx context.Context, restaurantID string, names []string) (map[string]Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[string]Dish)
	for _, d := range r.dishes {
		if d.RestaurantID != restaurantID {
			continue
		}
		result[strings.ToLower(d.Name)] = *d
	}

	resolved := make(map[string]Dish, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if d, ok := result[key]; ok {
			resolved[key] = d
			continue
		}
		d := &Dish{
			ID:           uuid.New().String(),
			RestaurantID: restaurantID,
			Name:         name,
		}
		r.dishes[d.ID] = d
		result[key] = *d
		resolved[key] = *d
	}
	return resolved, nil
}

func (r *MemoryRepository) ListDishes(ctx context.Context) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Dish
	for _, d := range r.dishes {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) ListDishesByRestaurant(ctx context.Context, restaurantID string) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Dish
	for _, d := range r.dishes {
		if d.RestaurantID == restaurantID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) SearchDishes(ctx context.Context, query string, limit int) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []Dish
	for _, d := range r.dishes {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
