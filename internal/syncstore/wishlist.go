package syncstore

import "storefront-sync/internal/domain"

// Wishlist is the saved-products store. Membership semantics: entries have
// no quantity, and adding an existing entry is a no-op.
type Wishlist struct {
	*Store
}

func NewWishlist(deps Deps) *Wishlist {
	return &Wishlist{Store: newStore(domain.KindWishlist, deps)}
}

// AddItem inserts an entry for the product and variant if none exists.
func (w *Wishlist) AddItem(in NewItem) {
	w.add(in)
}

// RemoveItem deletes the entry for the product and variant. Removing an
// absent entry is a no-op.
func (w *Wishlist) RemoveItem(productID, variant string) {
	w.removeByProduct(productID, variant)
}

// Contains reports whether the product and variant are saved.
func (w *Wishlist) Contains(productID, variant string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, it := range w.items {
		if it.Matches(productID, variant) {
			return true
		}
	}
	return false
}

// ItemCount returns the number of saved entries.
func (w *Wishlist) ItemCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
