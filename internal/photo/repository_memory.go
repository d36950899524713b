package photo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dishlog/internal/core"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	photos map[string]*DishPhoto
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{photos: make(map[string]*DishPhoto)}
}

func (r *MemoryRepository) Create(ctx context.Context, photo *DishPhoto) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	photo.CreatedAt = time.Now()

	copied := *photo
	r.photos[photo.ID] = &copied
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*DishPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.photos[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]DishPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []DishPhoto
	for _, p := range r.photos {
		out = append(out, *p)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) ListUnlinked(ctx context.Context) ([]DishPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().Add(-24 * time.Hour)
	var out []DishPhoto
	for _, p := range r.photos {
		if p.DishInstanceID == nil && p.CreatedAt.After(cutoff) {
			out = append(out, *p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) ListByInstance(ctx context.Context, instanceID string) ([]DishPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []DishPhoto
	for _, p := range r.photos {
		if p.DishInstanceID != nil && *p.DishInstanceID == instanceID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) ListByUsers(ctx context.Context, userIDs []string, limit, offset int) ([]DishPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	var out []DishPhoto
	for _, p := range r.photos {
		if p.PostedByUserID != nil && wanted[*p.PostedByUserID] {
			out = append(out, *p)
		}
	}
	sortNewestFirst(out)

	if offset >= len(out) {
		return []DishPhoto{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) UpdateLink(ctx context.Context, id string, instanceID *string) (*DishPhoto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	p.DishInstanceID = instanceID

	copied := *p
	return &copied, nil
}

func (r *MemoryRepository) UnlinkByInstanceIDs(ctx context.Context, instanceIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(instanceIDs))
	for _, id := range instanceIDs {
		wanted[id] = true
	}

	for _, p := range r.photos {
		if p.DishInstanceID != nil && wanted[*p.DishInstanceID] {
			p.DishInstanceID = nil
		}
	}
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.photos), nil
}

func (r *MemoryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.photos {
		if p.PostedByUserID != nil && *p.PostedByUserID == userID {
			count++
		}
	}
	return count, nil
}

func sortNewestFirst(photos []DishPhoto) {
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})
}
