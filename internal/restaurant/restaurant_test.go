package restaurant

import (
	"context"
	"errors"
	"testing"

	"dishlog/internal/core"
)

func TestResolveByName_Idempotent(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	first, err := service.ResolveByName(ctx, "Joe's Diner", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := service.ResolveByName(ctx, "Joe's Diner", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same restaurant, got %s and %s", first.ID, second.ID)
	}
}

func TestResolveByName_CaseInsensitive(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	first, _ := service.ResolveByName(ctx, "Joe's Diner", nil)
	second, _ := service.ResolveByName(ctx, "JOE'S DINER", nil)

	if first.ID != second.ID {
		t.Error("expected case-insensitive match to resolve to one restaurant")
	}
	if second.Name != "Joe's Diner" {
		t.Errorf("canonical name must be the first persisted form, got %q", second.Name)
	}
}

func TestResolveByName_EmptyName(t *testing.T) {
	service := NewService(NewMemoryRepository())

	_, err := service.ResolveByName(context.Background(), "  ", nil)

	var ve core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Field != "restaurantName" {
		t.Errorf("expected restaurantName field, got %q", ve.Field)
	}
}

func TestResolveDish_Idempotent(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	rest, _ := service.ResolveByName(ctx, "Joe's Diner", nil)

	first, err := service.ResolveDish(ctx, rest.ID, "Fries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.ResolveDish(ctx, rest.ID, "Fries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same dish, got %s and %s", first.ID, second.ID)
	}
}

func TestResolveDish_CaseInsensitive(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	rest, _ := service.ResolveByName(ctx, "Joe's Diner", nil)

	first, _ := service.ResolveDish(ctx, rest.ID, "Fries")
	second, _ := service.ResolveDish(ctx, rest.ID, "fries")

	if first.ID != second.ID {
		t.Error("expected 'Fries' and 'fries' to resolve to one dish")
	}
}

func TestResolveDish_CrossRestaurantIndependence(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	a, _ := service.ResolveByName(ctx, "Joe's Diner", nil)
	b, _ := service.ResolveByName(ctx, "Burger Barn", nil)

	dishA, _ := service.ResolveDish(ctx, a.ID, "Fries")
	dishB, _ := service.ResolveDish(ctx, b.ID, "Fries")

	if dishA.ID == dishB.ID {
		t.Error("same dish name at two restaurants must yield two dishes")
	}
}

func TestResolveDishes_Batch(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	rest, _ := service.ResolveByName(ctx, "Joe's Diner", nil)

	dishes, err := service.ResolveDishes(ctx, rest.ID, []string{"Fries", "fries", "Burger"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dishes) != 2 {
		t.Fatalf("expected 2 distinct dishes, got %d", len(dishes))
	}
	if dishes["fries"].ID == dishes["burger"].ID {
		t.Error("expected distinct dish ids")
	}

	// A second batch with an overlapping name must reuse the existing dish.
	again, err := service.ResolveDishes(ctx, rest.ID, []string{"FRIES", "Shake"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again["fries"].ID != dishes["fries"].ID {
		t.Error("expected batch resolve to reuse the existing dish")
	}
}

func TestGetWithDishes(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	rest, _ := service.ResolveByName(ctx, "Joe's Diner", nil)
	_, _ = service.ResolveDishes(ctx, rest.ID, []string{"Fries", "Burger"})

	details, err := service.GetWithDishes(ctx, rest.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details.Dishes) != 2 {
		t.Errorf("expected 2 dishes, got %d", len(details.Dishes))
	}

	if _, err := service.GetWithDishes(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
