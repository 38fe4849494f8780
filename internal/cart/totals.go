package cart

import (
	"math"

	"pos-terminal/internal/domain"
)

// Totals is derived from the live cart on every mutation and never stored.
type Totals struct {
	Subtotal         float64 `json:"subtotal"`
	SurchargeAmount  float64 `json:"surchargeAmount"`
	Total            float64 `json:"total"`
	Change           float64 `json:"change"`
	SurchargePercent float64 `json:"surchargePercent"`
}

// ComputeTotals prices the cart. Values keep full precision; Round2 is
// applied only at presentation and submission boundaries so rounding error
// does not compound across mutations.
func ComputeTotals(items []domain.LineItem, surchargePercent, cashGiven float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.EffectivePrice() * float64(item.Quantity)
	}
	surcharge := subtotal * surchargePercent / 100
	total := subtotal + surcharge
	return Totals{
		Subtotal:         subtotal,
		SurchargeAmount:  surcharge,
		Total:            total,
		Change:           math.Max(0, cashGiven-total),
		SurchargePercent: surchargePercent,
	}
}

// Rounded returns a copy with every monetary field at currency precision.
func (t Totals) Rounded() Totals {
	t.Subtotal = Round2(t.Subtotal)
	t.SurchargeAmount = Round2(t.SurchargeAmount)
	t.Total = Round2(t.Total)
	t.Change = Round2(t.Change)
	return t
}

// Round2 rounds a monetary value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
