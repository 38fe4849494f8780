package domain

// Product is a catalog entry as served by the back office. The cart copies
// the fields it needs at add time instead of referencing the catalog.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}
