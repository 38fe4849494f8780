package cart

import (
	"strconv"

	"pos-terminal/internal/domain"
)

// Cart holds the line items of the currently active order context. It is pure
// in-memory state: persistence and change notification are the caller's job.
type Cart struct {
	items []domain.LineItem
}

func New() *Cart {
	return &Cart{}
}

// Items returns a copy of the current line items in order.
func (c *Cart) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Replace swaps the entire item list, used when restoring a local snapshot or
// a server pending record.
func (c *Cart) Replace(items []domain.LineItem) {
	c.items = make([]domain.LineItem, len(items))
	copy(c.items, items)
}

// AddItem merges into an existing line only when the product matches and the
// line carries no note and has not been fired to the kitchen. Merging into a
// fired line would desync what the kitchen was told; merging into a noted
// line would lose its context.
func (c *Cart) AddItem(p domain.Product) {
	for i := range c.items {
		if c.items[i].ProductID == p.ID && c.items[i].Note == "" && !c.items[i].Notified {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, domain.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: p.Price,
		Quantity:  1,
	})
}

// AdjustQuantity adds delta to the line's quantity and removes the line when
// it drops to zero or below. Out-of-range indexes are ignored.
func (c *Cart) AdjustQuantity(index, delta int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items[index].Quantity += delta
	if c.items[index].Quantity <= 0 {
		c.items = append(c.items[:index], c.items[index+1:]...)
	}
}

// EditItem sets the line's note unconditionally and, for admin callers, its
// price override. A rawPrice that does not parse to a non-negative number
// leaves the existing override untouched; non-admin callers can never change
// the price.
func (c *Cart) EditItem(index int, note, rawPrice string, admin bool) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items[index].Note = note
	if !admin {
		return
	}
	override, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || override < 0 {
		return
	}
	c.items[index].PriceOverride = &override
}

func (c *Cart) RemoveItem(index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
}

// MarkAllNotified flags every line as fired to the kitchen.
func (c *Cart) MarkAllNotified() {
	for i := range c.items {
		c.items[i].Notified = true
	}
}

// Unnotified returns the lines not yet fired to the kitchen.
func (c *Cart) Unnotified() []domain.LineItem {
	var out []domain.LineItem
	for _, item := range c.items {
		if !item.Notified {
			out = append(out, item)
		}
	}
	return out
}

func (c *Cart) Clear() {
	c.items = nil
}
