package domain

// PendingOrder is the server-held record of items already fired to the
// kitchen for one order context. It is the durable source of truth for what
// the kitchen has been told to prepare.
type PendingOrder struct {
	Items            []PendingItem `json:"items"`
	SurchargePercent *float64      `json:"surchargePercent,omitempty"`
	SurchargeName    string        `json:"surchargeName,omitempty"`
}

type PendingItem struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	UnitPrice     float64  `json:"unitPrice"`
	Quantity      int      `json:"quantity"`
	Note          string   `json:"note,omitempty"`
	PriceOverride *float64 `json:"priceOverride,omitempty"`
}

// OrderSubmission is the priced payload sent on checkout and, with the cash
// fields left null, as the pending-order snapshot after a kitchen fire.
type OrderSubmission struct {
	TableID          *int64                `json:"tableId"`
	TableNumber      string                `json:"tableNumber"`
	TotalAmount      float64               `json:"totalAmount"`
	SurchargePercent float64               `json:"surchargePercent"`
	SurchargeAmount  float64               `json:"surchargeAmount"`
	SurchargeName    string                `json:"surchargeName"`
	CustomerCash     *float64              `json:"customerCash"`
	ChangeAmount     *float64              `json:"changeAmount"`
	Items            []OrderItemSubmission `json:"items"`
}

type OrderItemSubmission struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Note      string  `json:"note"`
}

// OrderReceipt is returned by the order-submission collaborator on success.
type OrderReceipt struct {
	OrderID   int64  `json:"orderId"`
	CreatedAt string `json:"createdAt"`
}
