package domain

import (
	"fmt"
	"time"
)

type TableStatus string

const (
	TableFree     TableStatus = "FREE"
	TableOccupied TableStatus = "OCCUPIED"
	TableDisabled TableStatus = "DISABLED"
)

// Table is a physical destination an order can be assigned to. A nil *Table
// stands for the take-away context.
type Table struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Status     TableStatus `json:"status"`
	OccupiedAt *time.Time  `json:"occupiedAt,omitempty"`
}

// ContextKey returns the stable key identifying an order context, used for
// both local persistence and pending-order lookups.
func ContextKey(table *Table) string {
	if table == nil {
		return "TAKEAWAY"
	}
	return fmt.Sprintf("TABLE_%d", table.ID)
}
