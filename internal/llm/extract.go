package llm

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Extractor wraps the model client and enforces the response contract.
// Extract never fails: on any client or parse error it degrades to a valid
// empty receipt so the caller can route to manual completion.
type Extractor struct {
	client Client
}

func NewExtractor(client Client) *Extractor {
	return &Extractor{client: client}
}

// Extract returns the coerced parse result and whether the call degraded
// to the empty receipt.
func (e *Extractor) Extract(ctx context.Context, imageData string) (ParsedReceipt, bool) {
	if imageData == "" {
		return emptyReceipt(), true
	}

	raw, err := e.client.ParseReceipt(ctx, imageData)
	if err != nil {
		log.Printf("receipt extraction failed: %v", err)
		return emptyReceipt(), true
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Printf("receipt extraction returned invalid JSON: %v", err)
		return emptyReceipt(), true
	}

	return coerce(payload), false
}

func emptyReceipt() ParsedReceipt {
	return ParsedReceipt{
		RestaurantName: "",
		Datetime:       time.Now().UTC().Format(time.RFC3339),
		Total:          nil,
		LineItems:      []LineItem{},
	}
}

// coerce replaces any field of unexpected type with a safe default.
func coerce(payload map[string]any) ParsedReceipt {
	parsed := ParsedReceipt{
		RestaurantName: "Unknown Restaurant",
		Datetime:       time.Now().UTC().Format(time.RFC3339),
		LineItems:      []LineItem{},
	}

	if name, ok := payload["restaurantName"].(string); ok && name != "" {
		parsed.RestaurantName = name
	}
	if addr, ok := payload["restaurantAddress"].(string); ok && addr != "" {
		parsed.RestaurantAddress = &addr
	}
	if dt, ok := payload["datetime"].(string); ok && dt != "" {
		parsed.Datetime = dt
	}
	if total, ok := payload["total"].(float64); ok {
		parsed.Total = &total
	}

	items, ok := payload["lineItems"].([]any)
	if !ok {
		return parsed
	}

	for _, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		line := LineItem{DishName: "Unknown Item"}
		if name, ok := item["dishName"].(string); ok && name != "" {
			line.DishName = name
		}
		if price, ok := item["price"].(float64); ok {
			line.Price = &price
		}
		parsed.LineItems = append(parsed.LineItems, line)
	}

	return parsed
}
