package stats

import (
	"context"
	"testing"

	"dishlog/internal/llm"
	"dishlog/internal/photo"
	"dishlog/internal/receipt"
	"dishlog/internal/restaurant"
)

type testEnv struct {
	stats    *Service
	receipts *receipt.Service
	photos   *photo.MemoryRepository
}

func newTestEnv() *testEnv {
	photoRepo := photo.NewMemoryRepository()
	receiptRepo := receipt.NewMemoryRepository(photoRepo)
	restaurantRepo := restaurant.NewMemoryRepository()
	restaurants := restaurant.NewService(restaurantRepo)
	receipts := receipt.NewService(receiptRepo, restaurants, photo.NewService(photoRepo, receiptRepo))

	return &testEnv{
		stats:    NewService(receiptRepo, restaurantRepo, photoRepo),
		receipts: receipts,
		photos:   photoRepo,
	}
}

func ingest(t *testing.T, env *testEnv, restaurantName, datetime string, total float64, dishes ...string) *receipt.IngestResult {
	t.Helper()

	items := make([]llm.LineItem, len(dishes))
	for i, d := range dishes {
		items[i] = llm.LineItem{DishName: d}
	}
	result, err := env.receipts.Ingest(context.Background(), llm.ParsedReceipt{
		RestaurantName: restaurantName,
		Datetime:       datetime,
		Total:          &total,
		LineItems:      items,
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	return result
}

func TestGetOverview_Empty(t *testing.T) {
	env := newTestEnv()

	overview, err := env.stats.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}
	if overview.TotalReceipts != 0 || overview.TotalRestaurants != 0 || overview.TotalDishes != 0 {
		t.Errorf("Expected zero totals, got %+v", overview)
	}
	if overview.TotalSpend != 0 {
		t.Errorf("Expected zero spend, got %v", overview.TotalSpend)
	}
	// The breakdown always carries every rating key.
	if len(overview.RatingBreakdown) != 4 {
		t.Errorf("Expected 4 rating keys, got %d", len(overview.RatingBreakdown))
	}
	if len(overview.DishesPerMonth) != 0 {
		t.Errorf("Expected empty monthly series, got %v", overview.DishesPerMonth)
	}
}

func TestGetOverview_Aggregates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first := ingest(t, env, "Joe's Diner", "2024-01-15T19:30:00Z", 24.50, "Burger", "Fries")
	ingest(t, env, "Maria's Kitchen", "2024-02-03T12:00:00Z", 18.25, "Tacos")

	rating := string(receipt.RatingElite)
	if _, err := env.receipts.UpdateInstance(ctx, first.DishInstances[0].ID, receipt.InstanceUpdate{Rating: &rating}); err != nil {
		t.Fatalf("UpdateInstance failed: %v", err)
	}

	userID := "someone"
	if err := env.photos.Create(ctx, &photo.DishPhoto{ImageURL: "url", PostedByUserID: &userID}); err != nil {
		t.Fatalf("photo create failed: %v", err)
	}

	overview, err := env.stats.GetOverview(ctx)
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}

	if overview.TotalReceipts != 2 {
		t.Errorf("Expected 2 receipts, got %d", overview.TotalReceipts)
	}
	if overview.TotalRestaurants != 2 {
		t.Errorf("Expected 2 restaurants, got %d", overview.TotalRestaurants)
	}
	if overview.TotalDishes != 1 {
		t.Errorf("Expected dish total to count photos, got %d", overview.TotalDishes)
	}
	if overview.TotalSpend != 42.75 {
		t.Errorf("Expected spend 42.75, got %v", overview.TotalSpend)
	}
	if overview.RatingBreakdown["Elite"] != 1 {
		t.Errorf("Expected 1 Elite rating, got %d", overview.RatingBreakdown["Elite"])
	}
	if overview.RatingBreakdown["Not for me"] != 0 {
		t.Errorf("Expected zero-count key present, got %d", overview.RatingBreakdown["Not for me"])
	}

	if len(overview.DishesPerMonth) != 2 {
		t.Fatalf("Expected 2 months, got %d", len(overview.DishesPerMonth))
	}
	if overview.DishesPerMonth[0].Month != "Jan 24" || overview.DishesPerMonth[0].Count != 2 {
		t.Errorf("Expected Jan 24 with 2 dishes first, got %+v", overview.DishesPerMonth[0])
	}
	if overview.DishesPerMonth[1].Month != "Feb 24" || overview.DishesPerMonth[1].Count != 1 {
		t.Errorf("Expected Feb 24 with 1 dish, got %+v", overview.DishesPerMonth[1])
	}
}
