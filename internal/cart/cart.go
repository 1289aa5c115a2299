package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem is one row in the cart: a product reference plus a quantity.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    *string         `json:"image,omitempty"`
	Quantity int             `json:"quantity"`
}

// Cart holds the line items a session intends to purchase, in insertion
// order. Never two line items share an ID; adding an existing ID merges
// into the existing row instead.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
}

// TotalItems sums the quantities across all line items. Recomputed on
// every call, never cached.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums price times quantity across all line items.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// add merges the item into the cart. An existing ID increments quantity
// and keeps the name/price/image the shopper originally saw; a new ID is
// appended with quantity 1.
func (c *Cart) add(item LineItem) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// remove drops the line item with the given ID. Absent IDs are a no-op.
func (c *Cart) remove(id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// setQuantity sets the quantity for the given ID. Quantities below one
// remove the line item.
func (c *Cart) setQuantity(id string, quantity int) {
	if quantity < 1 {
		c.remove(id)
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// clear drops every line item unconditionally.
func (c *Cart) clear() {
	c.Items = nil
}
