package domain

// LineItem is one row of an in-progress order. Name, category and unit price
// are denormalized snapshots taken at add time; later catalog changes never
// touch existing rows.
type LineItem struct {
	ProductID     int64    `json:"productId"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	UnitPrice     float64  `json:"unitPrice"`
	PriceOverride *float64 `json:"priceOverride,omitempty"`
	Quantity      int      `json:"quantity"`
	Note          string   `json:"note"`
	Notified      bool     `json:"notified"`
}

// EffectivePrice is the override when one is set, the unit price otherwise.
func (li LineItem) EffectivePrice() float64 {
	if li.PriceOverride != nil {
		return *li.PriceOverride
	}
	return li.UnitPrice
}

// CartSnapshot is the persisted unit: one per order context key.
type CartSnapshot struct {
	Items            []LineItem `json:"items"`
	SurchargePercent float64    `json:"surchargePercent"`
	CashGiven        float64    `json:"cashGiven"`
}
