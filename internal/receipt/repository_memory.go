package receipt

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dishlog/internal/core"
)

// MemoryRepository keeps receipts and instances in maps guarded by one
// RWMutex. Check-then-insert under the write lock is race-free only
// within a single process.
type MemoryRepository struct {
	mu        sync.RWMutex
	receipts  map[string]*Receipt
	instances map[string]*DishInstance
	photos    PhotoUnlinker
}

func NewMemoryRepository(photos PhotoUnlinker) *MemoryRepository {
	return &MemoryRepository{
		receipts:  make(map[string]*Receipt),
		instances: make(map[string]*DishInstance),
		photos:    photos,
	}
}

// --------------------------------------------------
// Receipts
// --------------------------------------------------

func (r *MemoryRepository) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	receipt.CreatedAt = time.Now()

	copied := *receipt
	r.receipts[receipt.ID] = &copied
	return nil
}

func (r *MemoryRepository) GetReceipt(ctx context.Context, id string) (*Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.receipts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *MemoryRepository) ListReceipts(ctx context.Context) ([]Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listReceiptsLocked(nil), nil
}

func (r *MemoryRepository) ListRecent(ctx context.Context, limit int) ([]Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.listReceiptsLocked(nil)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listReceiptsLocked(func(rec *Receipt) bool {
		return rec.RestaurantID == restaurantID
	}), nil
}

func (r *MemoryRepository) listReceiptsLocked(keep func(*Receipt) bool) []Receipt {
	var out []Receipt
	for _, rec := range r.receipts {
		if keep == nil || keep(rec) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Datetime.After(out[j].Datetime)
	})
	return out
}

func (r *MemoryRepository) UpdateReceipt(ctx context.Context, id string, datetime *time.Time, totalAmount, restaurantID *string) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.receipts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if datetime != nil {
		rec.Datetime = *datetime
	}
	if totalAmount != nil {
		rec.TotalAmount = totalAmount
	}
	if restaurantID != nil {
		rec.RestaurantID = *restaurantID
	}

	copied := *rec
	return &copied, nil
}

func (r *MemoryRepository) DeleteReceipt(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.receipts[id]; !ok {
		r.mu.Unlock()
		return core.ErrNotFound
	}

	var instanceIDs []string
	for instID, inst := range r.instances {
		if inst.ReceiptID == id {
			instanceIDs = append(instanceIDs, instID)
		}
	}
	for _, instID := range instanceIDs {
		delete(r.instances, instID)
	}
	delete(r.receipts, id)
	r.mu.Unlock()

	if len(instanceIDs) > 0 && r.photos != nil {
		return r.photos.UnlinkByInstanceIDs(ctx, instanceIDs)
	}
	return nil
}

// --------------------------------------------------
// Dish instances
// --------------------------------------------------

func (r *MemoryRepository) CreateInstances(ctx context.Context, instances []DishInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range instances {
		if instances[i].ID == "" {
			instances[i].ID = uuid.New().String()
		}
		copied := instances[i]
		r.instances[instances[i].ID] = &copied
	}
	return nil
}

func (r *MemoryRepository) GetInstance(ctx context.Context, id string) (*DishInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instances[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *inst
	return &copied, nil
}

func (r *MemoryRepository) ExistsInstance(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.instances[id]
	return ok, nil
}

func (r *MemoryRepository) ListInstances(ctx context.Context) ([]DishInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listInstancesLocked(nil), nil
}

func (r *MemoryRepository) ListInstancesByReceipt(ctx context.Context, receiptID string) ([]DishInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listInstancesLocked(func(inst *DishInstance) bool {
		return inst.ReceiptID == receiptID
	}), nil
}

func (r *MemoryRepository) ListInstancesByDish(ctx context.Context, dishID string) ([]DishInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listInstancesLocked(func(inst *DishInstance) bool {
		return inst.DishID == dishID
	}), nil
}

func (r *MemoryRepository) listInstancesLocked(keep func(*DishInstance) bool) []DishInstance {
	var out []DishInstance
	for _, inst := range r.instances {
		if keep == nil || keep(inst) {
			out = append(out, *inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceiptID != out[j].ReceiptID {
			return out[i].ReceiptID < out[j].ReceiptID
		}
		return out[i].Position < out[j].Position
	})
	return out
}

func (r *MemoryRepository) UpdateInstance(ctx context.Context, id string, dishID, price, rating *string) (*DishInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if dishID != nil {
		inst.DishID = *dishID
	}
	if price != nil {
		inst.Price = price
	}
	if rating != nil {
		inst.Rating = rating
	}

	copied := *inst
	return &copied, nil
}

func (r *MemoryRepository) DeleteInstance(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.instances[id]; !ok {
		r.mu.Unlock()
		return core.ErrNotFound
	}
	delete(r.instances, id)
	r.mu.Unlock()

	if r.photos != nil {
		return r.photos.UnlinkByInstanceIDs(ctx, []string{id})
	}
	return nil
}

// --------------------------------------------------
// Counts
// --------------------------------------------------

func (r *MemoryRepository) CountReceipts(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.receipts), nil
}
