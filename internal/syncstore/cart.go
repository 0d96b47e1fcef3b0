package syncstore

import "storefront-sync/internal/domain"

// Cart is the shopping cart store. Adding the same product and variant
// twice grows one line's quantity; each add represents one unit.
type Cart struct {
	*Store
	policy domain.ShippingPolicy
}

func NewCart(deps Deps, policy domain.ShippingPolicy) *Cart {
	return &Cart{Store: newStore(domain.KindCart, deps), policy: policy}
}

// AddItem coalesces into an existing line for the same product and variant,
// or creates a new line with quantity 1.
func (c *Cart) AddItem(in NewItem) {
	c.add(in)
}

// RemoveItem deletes the line with the given id. Removing an absent line is
// a no-op.
func (c *Cart) RemoveItem(itemID string) {
	c.removeByID(itemID)
}

// UpdateQuantity sets the line's quantity to the given absolute value. A
// value at or below zero removes the line.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	c.setQuantity(itemID, quantity)
}

// ItemCount returns the sum of line quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

// Summary derives subtotal, shipping, total and item count from the current
// lines. It never mutates state.
func (c *Cart) Summary() domain.CartSummary {
	return domain.Summarize(c.Items(), c.policy)
}

// Open shows the cart drawer. The flag is UI state only and is never
// persisted.
func (c *Cart) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
}

// Close hides the cart drawer.
func (c *Cart) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// IsOpen reports whether the cart drawer is showing.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}
