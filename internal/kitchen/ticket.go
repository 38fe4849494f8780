package kitchen

import (
	"time"

	"pos-terminal/internal/domain"
)

// Ticket is the slip sent to the kitchen. It carries only items from the
// current fire, never lines the kitchen already knows about.
type Ticket struct {
	TableLabel string       `json:"tableLabel"`
	FiredAt    time.Time    `json:"firedAt"`
	Items      []TicketItem `json:"items"`
}

type TicketItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// BuildTicket renders the given lines into a kitchen slip.
func BuildTicket(tableLabel string, items []domain.LineItem, firedAt time.Time) Ticket {
	t := Ticket{TableLabel: tableLabel, FiredAt: firedAt}
	for _, item := range items {
		t.Items = append(t.Items, TicketItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}
	return t
}
