package kitchen

import (
	"testing"
	"time"

	"pos-terminal/internal/domain"
)

func TestBuildTicket(t *testing.T) {
	firedAt := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	items := []domain.LineItem{
		{Name: "Espresso", Quantity: 2, Note: "less sugar"},
		{Name: "Latte", Quantity: 1},
	}

	ticket := BuildTicket("T1", items, firedAt)

	if ticket.TableLabel != "T1" || !ticket.FiredAt.Equal(firedAt) {
		t.Fatalf("unexpected header: %+v", ticket)
	}
	if len(ticket.Items) != 2 {
		t.Fatalf("expected two ticket items, got %d", len(ticket.Items))
	}
	if ticket.Items[0].Note != "less sugar" || ticket.Items[1].Note != "" {
		t.Fatalf("notes not carried over: %+v", ticket.Items)
	}
}

func TestBuildTicketEmpty(t *testing.T) {
	ticket := BuildTicket("Take away", nil, time.Now())
	if len(ticket.Items) != 0 {
		t.Fatalf("expected empty ticket, got %+v", ticket.Items)
	}
}
