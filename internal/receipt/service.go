package receipt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dishlog/internal/core"
	"dishlog/internal/llm"
	"dishlog/internal/photo"
	"dishlog/internal/restaurant"
)

type Service struct {
	repo        Repository
	restaurants *restaurant.Service
	photos      *photo.Service
}

func NewService(repo Repository, restaurants *restaurant.Service, photos *photo.Service) *Service {
	return &Service{repo: repo, restaurants: restaurants, photos: photos}
}

// --------------------------------------------------
// Ingestion
// --------------------------------------------------

// Ingest turns a parsed receipt into persisted rows: resolve the
// restaurant, create the receipt with the raw payload kept for audit,
// batch-resolve the dishes, then create one instance per line item in
// input order. Duplicate names on one receipt share a single dish.
func (s *Service) Ingest(ctx context.Context, parsed llm.ParsedReceipt) (*IngestResult, error) {
	if strings.TrimSpace(parsed.RestaurantName) == "" {
		return nil, core.Invalid("restaurantName", "is required")
	}
	for _, item := range parsed.LineItems {
		if strings.TrimSpace(item.DishName) == "" {
			return nil, core.Invalid("dishName", "is required")
		}
	}
	datetime, err := parseDatetime(parsed.Datetime)
	if err != nil {
		return nil, err
	}

	res, err := s.restaurants.ResolveByName(ctx, parsed.RestaurantName, parsed.RestaurantAddress)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(parsed)
	if err != nil {
		return nil, err
	}

	rec := &Receipt{
		RestaurantID:  res.ID,
		Datetime:      datetime,
		TotalAmount:   moneyPtr(parsed.Total),
		RawExtraction: raw,
	}
	if err := s.repo.CreateReceipt(ctx, rec); err != nil {
		return nil, err
	}

	names := make([]string, len(parsed.LineItems))
	for i, item := range parsed.LineItems {
		names[i] = item.DishName
	}
	dishes, err := s.restaurants.ResolveDishes(ctx, res.ID, names)
	if err != nil {
		return nil, err
	}

	instances := make([]DishInstance, len(parsed.LineItems))
	for i, item := range parsed.LineItems {
		dish := dishes[strings.ToLower(item.DishName)]
		instances[i] = DishInstance{
			DishID:    dish.ID,
			ReceiptID: rec.ID,
			Price:     moneyPtr(item.Price),
			Position:  i,
		}
	}
	if err := s.repo.CreateInstances(ctx, instances); err != nil {
		return nil, err
	}

	result := &IngestResult{Receipt: *rec, DishInstances: make([]InstanceWithDish, len(instances))}
	for i, inst := range instances {
		result.DishInstances[i] = InstanceWithDish{
			DishInstance: inst,
			Dish:         dishes[strings.ToLower(parsed.LineItems[i].DishName)],
		}
	}
	return result, nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (s *Service) GetReceipt(ctx context.Context, id string) (*Receipt, error) {
	return s.repo.GetReceipt(ctx, id)
}

func (s *Service) ListReceipts(ctx context.Context) ([]Receipt, error) {
	return s.repo.ListReceipts(ctx)
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]Receipt, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *Service) ListByRestaurant(ctx context.Context, restaurantID string) ([]Receipt, error) {
	return s.repo.ListByRestaurant(ctx, restaurantID)
}

// GetReceiptWithDetails assembles the full display shape: the receipt,
// its restaurant, and the ordered instances each carrying its dish and
// first photo.
func (s *Service) GetReceiptWithDetails(ctx context.Context, id string) (*ReceiptWithDetails, error) {
	rec, err := s.repo.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.restaurants.Get(ctx, rec.RestaurantID)
	if err != nil {
		return nil, err
	}

	instances, err := s.repo.ListInstancesByReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	details := make([]InstanceDetail, 0, len(instances))
	for _, inst := range instances {
		dish, err := s.restaurants.GetDish(ctx, inst.DishID)
		if err != nil {
			return nil, err
		}

		detail := InstanceDetail{DishInstance: inst, Dish: *dish}
		photos, err := s.photos.ListByInstance(ctx, inst.ID)
		if err != nil {
			return nil, err
		}
		if len(photos) > 0 {
			detail.Photo = &photos[0]
		}
		details = append(details, detail)
	}

	return &ReceiptWithDetails{Receipt: *rec, Restaurant: *res, Instances: details}, nil
}

func (s *Service) GetInstance(ctx context.Context, id string) (*DishInstance, error) {
	return s.repo.GetInstance(ctx, id)
}

func (s *Service) GetInstanceWithDish(ctx context.Context, id string) (*InstanceWithDish, error) {
	inst, err := s.repo.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	dish, err := s.restaurants.GetDish(ctx, inst.DishID)
	if err != nil {
		return nil, err
	}
	return &InstanceWithDish{DishInstance: *inst, Dish: *dish}, nil
}

func (s *Service) ListInstancesByDish(ctx context.Context, dishID string) ([]DishInstance, error) {
	return s.repo.ListInstancesByDish(ctx, dishID)
}

// --------------------------------------------------
// Corrections
// --------------------------------------------------

// UpdateReceipt applies a partial correction. Renaming the restaurant
// migrates every instance on this receipt to a same-named dish under the
// new restaurant; the old restaurant's dish rows are left untouched
// since other receipts may still reference them.
func (s *Service) UpdateReceipt(ctx context.Context, id string, update ReceiptUpdate) (*Receipt, error) {
	rec, err := s.repo.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	var restaurantID *string
	if update.RestaurantName != nil {
		res, err := s.restaurants.ResolveByName(ctx, *update.RestaurantName, nil)
		if err != nil {
			return nil, err
		}
		if res.ID != rec.RestaurantID {
			if err := s.migrateInstances(ctx, id, res.ID); err != nil {
				return nil, err
			}
			restaurantID = &res.ID
		}
	}

	return s.repo.UpdateReceipt(ctx, id, update.Datetime, update.TotalAmount, restaurantID)
}

// migrateInstances repoints every instance on the receipt to a dish with
// the same name under the new restaurant, resolving the dishes in one
// batch. Dish rows are never moved between restaurants.
func (s *Service) migrateInstances(ctx context.Context, receiptID, newRestaurantID string) error {
	instances, err := s.repo.ListInstancesByReceipt(ctx, receiptID)
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		return nil
	}

	names := make([]string, 0, len(instances))
	nameByDish := make(map[string]string)
	for _, inst := range instances {
		name, ok := nameByDish[inst.DishID]
		if !ok {
			dish, err := s.restaurants.GetDish(ctx, inst.DishID)
			if err != nil {
				return err
			}
			name = dish.Name
			nameByDish[inst.DishID] = name
		}
		names = append(names, name)
	}

	dishes, err := s.restaurants.ResolveDishes(ctx, newRestaurantID, names)
	if err != nil {
		return err
	}

	for _, inst := range instances {
		dish := dishes[strings.ToLower(nameByDish[inst.DishID])]
		if dish.ID == inst.DishID {
			continue
		}
		if _, err := s.repo.UpdateInstance(ctx, inst.ID, &dish.ID, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

// UpdateInstance applies a partial correction to one instance. A new
// dish name resolves under the instance's existing receipt's restaurant.
func (s *Service) UpdateInstance(ctx context.Context, id string, update InstanceUpdate) (*DishInstance, error) {
	inst, err := s.repo.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Rating != nil && !Rating(*update.Rating).Valid() {
		return nil, core.Invalid("rating", "is not a recognized rating")
	}

	var dishID *string
	if update.DishName != nil {
		rec, err := s.repo.GetReceipt(ctx, inst.ReceiptID)
		if err != nil {
			return nil, err
		}
		dish, err := s.restaurants.ResolveDish(ctx, rec.RestaurantID, *update.DishName)
		if err != nil {
			return nil, err
		}
		dishID = &dish.ID
	}

	return s.repo.UpdateInstance(ctx, id, dishID, update.Price, update.Rating)
}

func (s *Service) DeleteReceipt(ctx context.Context, id string) error {
	return s.repo.DeleteReceipt(ctx, id)
}

func (s *Service) DeleteInstance(ctx context.Context, id string) error {
	return s.repo.DeleteInstance(ctx, id)
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func parseDatetime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, core.Invalid("datetime", "is not a valid timestamp")
}

// moneyPtr renders an extracted amount as a stringified decimal with two
// places, or nil when the amount is absent.
func moneyPtr(amount *float64) *string {
	if amount == nil {
		return nil
	}
	s := decimal.NewFromFloat(*amount).StringFixed(2)
	return &s
}
