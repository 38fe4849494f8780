package cart

import (
	"testing"

	"pos-terminal/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestComputeTotalsScenario(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: 1, UnitPrice: 3.00, Quantity: 2},
		{ProductID: 2, UnitPrice: 5.50, Quantity: 1, PriceOverride: floatPtr(4.00)},
	}

	totals := ComputeTotals(items, 10, 15.00)

	if got := Round2(totals.Subtotal); got != 10.00 {
		t.Fatalf("subtotal: expected 10.00, got %v", got)
	}
	if got := Round2(totals.SurchargeAmount); got != 1.00 {
		t.Fatalf("surcharge: expected 1.00, got %v", got)
	}
	if got := Round2(totals.Total); got != 11.00 {
		t.Fatalf("total: expected 11.00, got %v", got)
	}
	if got := Round2(totals.Change); got != 4.00 {
		t.Fatalf("change: expected 4.00, got %v", got)
	}
}

func TestComputeTotalsChangeNeverNegative(t *testing.T) {
	items := []domain.LineItem{{UnitPrice: 5, Quantity: 1}}

	totals := ComputeTotals(items, 0, 2)
	if totals.Change != 0 {
		t.Fatalf("expected zero change when cash is short, got %v", totals.Change)
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, 10, 5)
	if totals.Subtotal != 0 || totals.Total != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
	if totals.Change != 5 {
		t.Fatalf("expected full cash back as change, got %v", totals.Change)
	}
}

func TestRoundedTrimsAccumulatedPrecision(t *testing.T) {
	// 0.1+0.2 style drift must disappear at the presentation boundary.
	totals := Totals{Subtotal: 0.1 + 0.2, SurchargeAmount: 0.03, Total: 0.33000000000000007, Change: 1.9999999999999998}
	r := totals.Rounded()
	if r.Subtotal != 0.3 || r.Total != 0.33 || r.Change != 2 {
		t.Fatalf("unexpected rounding: %+v", r)
	}
}
