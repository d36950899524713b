package receipt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dishlog/internal/core"
	"dishlog/internal/llm"
	"dishlog/internal/photo"
	"dishlog/internal/restaurant"
)

type testEnv struct {
	service     *Service
	restaurants *restaurant.Service
	photos      *photo.Service
	photoRepo   *photo.MemoryRepository
	repo        *MemoryRepository
}

func newTestEnv() *testEnv {
	photoRepo := photo.NewMemoryRepository()
	repo := NewMemoryRepository(photoRepo)
	restaurants := restaurant.NewService(restaurant.NewMemoryRepository())
	photos := photo.NewService(photoRepo, repo)
	return &testEnv{
		service:     NewService(repo, restaurants, photos),
		restaurants: restaurants,
		photos:      photos,
		photoRepo:   photoRepo,
		repo:        repo,
	}
}

func sampleReceipt() llm.ParsedReceipt {
	total := 24.50
	burger := 12.00
	fries := 5.00
	return llm.ParsedReceipt{
		RestaurantName: "Joe's Diner",
		Datetime:       "2024-01-15T19:30:00Z",
		Total:          &total,
		LineItems: []llm.LineItem{
			{DishName: "Burger", Price: &burger},
			{DishName: "Fries", Price: &fries},
		},
	}
}

// --------------------------------------------------
// Ingestion
// --------------------------------------------------

func TestIngest_EndToEnd(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.service.Ingest(ctx, sampleReceipt())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if first.Receipt.TotalAmount == nil || *first.Receipt.TotalAmount != "24.50" {
		t.Errorf("Expected total 24.50, got %v", first.Receipt.TotalAmount)
	}
	if len(first.DishInstances) != 2 {
		t.Fatalf("Expected 2 instances, got %d", len(first.DishInstances))
	}
	if first.DishInstances[0].Dish.Name != "Burger" || first.DishInstances[1].Dish.Name != "Fries" {
		t.Errorf("Expected input order preserved, got %q then %q",
			first.DishInstances[0].Dish.Name, first.DishInstances[1].Dish.Name)
	}
	if *first.DishInstances[0].Price != "12.00" || *first.DishInstances[1].Price != "5.00" {
		t.Errorf("Expected prices 12.00 and 5.00, got %v and %v",
			*first.DishInstances[0].Price, *first.DishInstances[1].Price)
	}

	res, err := env.restaurants.Get(ctx, first.Receipt.RestaurantID)
	if err != nil {
		t.Fatalf("Restaurant lookup failed: %v", err)
	}
	if res.Name != "Joe's Diner" {
		t.Errorf("Expected restaurant Joe's Diner, got %q", res.Name)
	}

	// Re-ingesting the same payload creates a second receipt but reuses
	// the restaurant and dish rows.
	second, err := env.service.Ingest(ctx, sampleReceipt())
	if err != nil {
		t.Fatalf("Second ingest failed: %v", err)
	}
	if second.Receipt.ID == first.Receipt.ID {
		t.Error("Expected a distinct receipt per ingest")
	}
	if second.Receipt.RestaurantID != first.Receipt.RestaurantID {
		t.Error("Expected restaurant reuse across ingests")
	}
	for i := range second.DishInstances {
		if second.DishInstances[i].Dish.ID != first.DishInstances[i].Dish.ID {
			t.Errorf("Expected dish reuse for %q", second.DishInstances[i].Dish.Name)
		}
		if second.DishInstances[i].ID == first.DishInstances[i].ID {
			t.Error("Expected distinct instances per ingest")
		}
	}
}

func TestIngest_BatchResolvesDuplicateNames(t *testing.T) {
	env := newTestEnv()
	parsed := sampleReceipt()
	parsed.LineItems = []llm.LineItem{
		{DishName: "Fries"},
		{DishName: "fries"},
		{DishName: "Burger"},
	}

	result, err := env.service.Ingest(context.Background(), parsed)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(result.DishInstances) != 3 {
		t.Fatalf("Expected 3 instances, got %d", len(result.DishInstances))
	}

	dishIDs := make(map[string]bool)
	for _, inst := range result.DishInstances {
		dishIDs[inst.Dish.ID] = true
	}
	if len(dishIDs) != 2 {
		t.Errorf("Expected 2 distinct dishes, got %d", len(dishIDs))
	}
	if result.DishInstances[0].Dish.ID != result.DishInstances[1].Dish.ID {
		t.Error("Expected Fries and fries to share one dish")
	}
	// Canonical name is the first-persisted form.
	if result.DishInstances[1].Dish.Name != "Fries" {
		t.Errorf("Expected canonical name Fries, got %q", result.DishInstances[1].Dish.Name)
	}
}

func TestIngest_Validation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*llm.ParsedReceipt)
		field  string
	}{
		{"empty restaurant name", func(p *llm.ParsedReceipt) { p.RestaurantName = "  " }, "restaurantName"},
		{"empty dish name", func(p *llm.ParsedReceipt) { p.LineItems[1].DishName = "" }, "dishName"},
		{"bad datetime", func(p *llm.ParsedReceipt) { p.Datetime = "yesterday evening" }, "datetime"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := sampleReceipt()
			tc.mutate(&parsed)

			_, err := env.service.Ingest(ctx, parsed)
			var verr core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("Expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestIngest_AcceptsFallbackDatetimes(t *testing.T) {
	env := newTestEnv()
	parsed := sampleReceipt()
	parsed.Datetime = "2024-01-15"

	result, err := env.service.Ingest(context.Background(), parsed)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Receipt.Datetime.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("Expected date preserved, got %v", result.Receipt.Datetime)
	}
}

// --------------------------------------------------
// Cascade deletes
// --------------------------------------------------

func TestDeleteReceipt_CascadeUnlinksPhotos(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.service.Ingest(ctx, sampleReceipt())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	instID := result.DishInstances[0].ID
	p, err := env.photos.Create(ctx, photo.CreateInput{ImageURL: "url", DishInstanceID: &instID})
	if err != nil {
		t.Fatalf("Photo create failed: %v", err)
	}

	if err := env.service.DeleteReceipt(ctx, result.Receipt.ID); err != nil {
		t.Fatalf("DeleteReceipt failed: %v", err)
	}

	if _, err := env.service.GetReceipt(ctx, result.Receipt.ID); !errors.Is(err, core.ErrNotFound) {
		t.Error("Expected receipt gone")
	}
	for _, inst := range result.DishInstances {
		exists, _ := env.repo.ExistsInstance(ctx, inst.ID)
		if exists {
			t.Errorf("Expected instance %s gone", inst.ID)
		}
	}

	// The photo survives, unlinked.
	got, err := env.photos.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Photo lookup after cascade failed: %v", err)
	}
	if got.DishInstanceID != nil {
		t.Error("Expected photo unlinked after cascade")
	}
}

func TestDeleteReceipt_NotFound(t *testing.T) {
	env := newTestEnv()
	if err := env.service.DeleteReceipt(context.Background(), "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteInstance_UnlinksPhotos(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, _ := env.service.Ingest(ctx, sampleReceipt())
	instID := result.DishInstances[0].ID
	p, _ := env.photos.Create(ctx, photo.CreateInput{ImageURL: "url", DishInstanceID: &instID})

	if err := env.service.DeleteInstance(ctx, instID); err != nil {
		t.Fatalf("DeleteInstance failed: %v", err)
	}

	got, _ := env.photos.Get(ctx, p.ID)
	if got.DishInstanceID != nil {
		t.Error("Expected photo unlinked after instance delete")
	}

	// The other instance is untouched.
	exists, _ := env.repo.ExistsInstance(ctx, result.DishInstances[1].ID)
	if !exists {
		t.Error("Expected sibling instance preserved")
	}
}

// --------------------------------------------------
// Corrections
// --------------------------------------------------

func TestUpdateReceipt_RestaurantRenameMigratesDishes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.service.Ingest(ctx, sampleReceipt())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	oldRestaurantID := result.Receipt.RestaurantID

	name := "Maria's Kitchen"
	updated, err := env.service.UpdateReceipt(ctx, result.Receipt.ID, ReceiptUpdate{RestaurantName: &name})
	if err != nil {
		t.Fatalf("UpdateReceipt failed: %v", err)
	}
	if updated.RestaurantID == oldRestaurantID {
		t.Fatal("Expected receipt repointed to the new restaurant")
	}

	instances, _ := env.repo.ListInstancesByReceipt(ctx, result.Receipt.ID)
	for i, inst := range instances {
		dish, err := env.restaurants.GetDish(ctx, inst.DishID)
		if err != nil {
			t.Fatalf("Dish lookup failed: %v", err)
		}
		if dish.RestaurantID != updated.RestaurantID {
			t.Errorf("Expected dish %q under new restaurant", dish.Name)
		}
		if !strings.EqualFold(dish.Name, result.DishInstances[i].Dish.Name) {
			t.Errorf("Expected same dish name after migration, got %q", dish.Name)
		}
		if dish.ID == result.DishInstances[i].Dish.ID {
			t.Errorf("Expected a new dish row for %q under the new restaurant", dish.Name)
		}
	}

	// The old restaurant's dish rows survive untouched.
	oldDishes, _ := env.restaurants.GetWithDishes(ctx, oldRestaurantID)
	if len(oldDishes.Dishes) != 2 {
		t.Errorf("Expected old restaurant to keep its 2 dishes, got %d", len(oldDishes.Dishes))
	}
}

func TestUpdateReceipt_RenameToSameRestaurantIsNoop(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, _ := env.service.Ingest(ctx, sampleReceipt())

	name := "joe's diner" // same identity, different case
	updated, err := env.service.UpdateReceipt(ctx, result.Receipt.ID, ReceiptUpdate{RestaurantName: &name})
	if err != nil {
		t.Fatalf("UpdateReceipt failed: %v", err)
	}
	if updated.RestaurantID != result.Receipt.RestaurantID {
		t.Error("Expected restaurant unchanged on case-variant rename")
	}

	instances, _ := env.repo.ListInstancesByReceipt(ctx, result.Receipt.ID)
	for i, inst := range instances {
		if inst.DishID != result.DishInstances[i].Dish.ID {
			t.Error("Expected dishes untouched on no-op rename")
		}
	}
}

func TestUpdateReceipt_PartialFields(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, _ := env.service.Ingest(ctx, sampleReceipt())

	total := "30.00"
	updated, err := env.service.UpdateReceipt(ctx, result.Receipt.ID, ReceiptUpdate{TotalAmount: &total})
	if err != nil {
		t.Fatalf("UpdateReceipt failed: %v", err)
	}
	if updated.TotalAmount == nil || *updated.TotalAmount != "30.00" {
		t.Errorf("Expected total 30.00, got %v", updated.TotalAmount)
	}
	if !updated.Datetime.Equal(result.Receipt.Datetime) {
		t.Error("Expected datetime unchanged")
	}
	if updated.RestaurantID != result.Receipt.RestaurantID {
		t.Error("Expected restaurant unchanged")
	}
}

func TestUpdateInstance_RatingAndPrice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, _ := env.service.Ingest(ctx, sampleReceipt())
	instID := result.DishInstances[0].ID

	rating := string(RatingElite)
	price := "13.50"
	updated, err := env.service.UpdateInstance(ctx, instID, InstanceUpdate{Rating: &rating, Price: &price})
	if err != nil {
		t.Fatalf("UpdateInstance failed: %v", err)
	}
	if updated.Rating == nil || *updated.Rating != "Elite" {
		t.Errorf("Expected rating Elite, got %v", updated.Rating)
	}
	if updated.Price == nil || *updated.Price != "13.50" {
		t.Errorf("Expected price 13.50, got %v", updated.Price)
	}
	if updated.DishID != result.DishInstances[0].Dish.ID {
		t.Error("Expected dish unchanged")
	}
}

func TestUpdateInstance_RejectsUnknownRating(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, _ := env.service.Ingest(ctx, sampleReceipt())

	rating := "Amazing"
	_, err := env.service.UpdateInstance(ctx, result.DishInstances[0].ID, InstanceUpdate{Rating: &rating})
	var verr core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if verr.Field != "rating" {
		t.Errorf("Expected rating field, got %q", verr.Field)
	}
}

func TestUpdateInstance_RenameResolvesUnderSameRestaurant(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, _ := env.service.Ingest(ctx, sampleReceipt())

	// Rename the Burger instance to an existing dish: it reuses the Fries
	// row instead of creating a duplicate.
	name := "fries"
	updated, err := env.service.UpdateInstance(ctx, result.DishInstances[0].ID, InstanceUpdate{DishName: &name})
	if err != nil {
		t.Fatalf("UpdateInstance failed: %v", err)
	}
	if updated.DishID != result.DishInstances[1].Dish.ID {
		t.Error("Expected rename to reuse the existing dish")
	}

	// Renaming to a brand-new name creates the dish under the receipt's
	// restaurant.
	newName := "Milkshake"
	updated, err = env.service.UpdateInstance(ctx, result.DishInstances[0].ID, InstanceUpdate{DishName: &newName})
	if err != nil {
		t.Fatalf("UpdateInstance rename failed: %v", err)
	}
	dish, _ := env.restaurants.GetDish(ctx, updated.DishID)
	if dish.RestaurantID != result.Receipt.RestaurantID {
		t.Error("Expected new dish under the receipt's restaurant")
	}
	if dish.Name != "Milkshake" {
		t.Errorf("Expected Milkshake, got %q", dish.Name)
	}
}

func TestUpdateInstance_NotFound(t *testing.T) {
	env := newTestEnv()

	rating := string(RatingNotForMe)
	_, err := env.service.UpdateInstance(context.Background(), "missing", InstanceUpdate{Rating: &rating})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// --------------------------------------------------
// Detail assembly
// --------------------------------------------------

func TestGetReceiptWithDetails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, _ := env.service.Ingest(ctx, sampleReceipt())
	instID := result.DishInstances[1].ID
	p, _ := env.photos.Create(ctx, photo.CreateInput{ImageURL: "url", DishInstanceID: &instID})

	details, err := env.service.GetReceiptWithDetails(ctx, result.Receipt.ID)
	if err != nil {
		t.Fatalf("GetReceiptWithDetails failed: %v", err)
	}
	if details.Restaurant.Name != "Joe's Diner" {
		t.Errorf("Expected restaurant embedded, got %q", details.Restaurant.Name)
	}
	if len(details.Instances) != 2 {
		t.Fatalf("Expected 2 instances, got %d", len(details.Instances))
	}
	if details.Instances[0].Photo != nil {
		t.Error("Expected no photo on first instance")
	}
	if details.Instances[1].Photo == nil || details.Instances[1].Photo.ID != p.ID {
		t.Error("Expected photo attached to second instance")
	}
}
