package llm

import (
	"context"
	"errors"
	"testing"
)

// Fake model client used only for tests.
type FakeClient struct {
	response string
	err      error
}

func (f *FakeClient) ParseReceipt(ctx context.Context, imageData string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestExtract_DegradesOnClientError(t *testing.T) {
	extractor := NewExtractor(&FakeClient{err: errors.New("model unavailable")})

	parsed, degraded := extractor.Extract(context.Background(), "base64image")

	if !degraded {
		t.Fatal("expected degraded result")
	}
	if parsed.RestaurantName != "" {
		t.Errorf("expected empty restaurant name, got %q", parsed.RestaurantName)
	}
	if parsed.Total != nil {
		t.Errorf("expected nil total, got %v", *parsed.Total)
	}
	if len(parsed.LineItems) != 0 {
		t.Errorf("expected no line items, got %d", len(parsed.LineItems))
	}
	if parsed.Datetime == "" {
		t.Error("expected datetime to be set")
	}
}

func TestExtract_DegradesOnInvalidJSON(t *testing.T) {
	extractor := NewExtractor(&FakeClient{response: "not json at all"})

	parsed, degraded := extractor.Extract(context.Background(), "base64image")

	if !degraded {
		t.Fatal("expected degraded result")
	}
	if len(parsed.LineItems) != 0 {
		t.Errorf("expected no line items, got %d", len(parsed.LineItems))
	}
}

func TestExtract_DegradesOnEmptyImage(t *testing.T) {
	extractor := NewExtractor(&FakeClient{response: "{}"})

	_, degraded := extractor.Extract(context.Background(), "")
	if !degraded {
		t.Fatal("expected degraded result for empty image")
	}
}

func TestExtract_CoercesWellFormedResponse(t *testing.T) {
	extractor := NewExtractor(&FakeClient{response: `{
		"restaurantName": "Joe's Diner",
		"restaurantAddress": "12 Main St",
		"datetime": "2024-01-15T19:30:00Z",
		"total": 24.50,
		"lineItems": [
			{"dishName": "Burger", "price": 12.00},
			{"dishName": "Fries", "price": null}
		]
	}`})

	parsed, degraded := extractor.Extract(context.Background(), "base64image")

	if degraded {
		t.Fatal("did not expect degraded result")
	}
	if parsed.RestaurantName != "Joe's Diner" {
		t.Errorf("restaurant name: got %q", parsed.RestaurantName)
	}
	if parsed.RestaurantAddress == nil || *parsed.RestaurantAddress != "12 Main St" {
		t.Error("expected address to be carried through")
	}
	if parsed.Total == nil || *parsed.Total != 24.50 {
		t.Error("expected total 24.50")
	}
	if len(parsed.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(parsed.LineItems))
	}
	if parsed.LineItems[0].Price == nil || *parsed.LineItems[0].Price != 12.00 {
		t.Error("expected first item price 12.00")
	}
	if parsed.LineItems[1].Price != nil {
		t.Error("expected second item price nil")
	}
}

func TestExtract_CoercesMalformedFields(t *testing.T) {
	extractor := NewExtractor(&FakeClient{response: `{
		"restaurantName": 42,
		"total": "twenty",
		"lineItems": [
			{"dishName": null, "price": "abc"},
			"garbage"
		]
	}`})

	parsed, degraded := extractor.Extract(context.Background(), "base64image")

	if degraded {
		t.Fatal("a parseable object must not degrade")
	}
	if parsed.RestaurantName != "Unknown Restaurant" {
		t.Errorf("expected default restaurant name, got %q", parsed.RestaurantName)
	}
	if parsed.Total != nil {
		t.Error("expected nil total for non-numeric value")
	}
	if len(parsed.LineItems) != 1 {
		t.Fatalf("expected 1 coerced line item, got %d", len(parsed.LineItems))
	}
	if parsed.LineItems[0].DishName != "Unknown Item" {
		t.Errorf("expected default dish name, got %q", parsed.LineItems[0].DishName)
	}
	if parsed.LineItems[0].Price != nil {
		t.Error("expected nil price for non-numeric value")
	}
}

func TestExtract_NonArrayLineItems(t *testing.T) {
	extractor := NewExtractor(&FakeClient{response: `{"restaurantName": "Cafe", "lineItems": {"oops": true}}`})

	parsed, _ := extractor.Extract(context.Background(), "base64image")

	if len(parsed.LineItems) != 0 {
		t.Errorf("expected empty line items, got %d", len(parsed.LineItems))
	}
}

func TestSplitDataURI(t *testing.T) {
	mime, data := splitDataURI("data:image/png;base64,AAAA")
	if mime != "image/png" || data != "AAAA" {
		t.Errorf("got mime=%q data=%q", mime, data)
	}

	mime, data = splitDataURI("AAAA")
	if mime != "image/jpeg" || data != "AAAA" {
		t.Errorf("bare base64: got mime=%q data=%q", mime, data)
	}
}
