package restaurant

type Restaurant struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
}

// Dish is a menu item identity scoped to one restaurant. Its RestaurantID
// never changes after creation; moving a dish is modeled by resolving a
// same-named dish under the target restaurant.
type Dish struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurantId"`
	Name         string `json:"name"`
}

type RestaurantWithDishes struct {
	Restaurant
	Dishes []Dish `json:"dishes"`
}
