package llm

// ParsedReceipt is the structured result of one extraction call.
// Every field is already type-coerced; callers never see a malformed shape.
type ParsedReceipt struct {
	RestaurantName    string     `json:"restaurantName"`
	RestaurantAddress *string    `json:"restaurantAddress,omitempty"`
	Datetime          string     `json:"datetime"`
	Total             *float64   `json:"total"`
	LineItems         []LineItem `json:"lineItems"`
}

type LineItem struct {
	DishName string   `json:"dishName"`
	Price    *float64 `json:"price"`
}
