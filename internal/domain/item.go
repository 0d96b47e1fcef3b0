package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StoreKind distinguishes the two synchronized containers.
type StoreKind string

const (
	KindCart     StoreKind = "cart"
	KindWishlist StoreKind = "wishlist"
)

// ProductType is the closed set of product categories the shop sells.
type ProductType string

const (
	ProductRing     ProductType = "ring"
	ProductNecklace ProductType = "necklace"
	ProductBracelet ProductType = "bracelet"
	ProductEarrings ProductType = "earrings"
)

// Item is one cart line or one wishlist entry. Display fields are
// denormalized onto the item at add time so the stores render without a
// catalog lookup.
type Item struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId"`
	Variant       string           `json:"variant,omitempty"`
	ProductType   ProductType      `json:"productType"`
	Name          string           `json:"name"`
	Image         string           `json:"image,omitempty"`
	Material      string           `json:"material,omitempty"`
	Stone         string           `json:"stone,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Currency      string           `json:"currency"`
	Quantity      int              `json:"quantity,omitempty"`
	AddedAt       time.Time        `json:"addedAt"`
}

// Matches reports whether the item is the line for the given product and
// variant. Two adds for the same pair coalesce into one line.
func (i Item) Matches(productID, variant string) bool {
	return i.ProductID == productID && i.Variant == variant
}

// CartLineID builds the synthetic id for a cart line. The timestamp keeps
// ids unique across remove/re-add cycles of the same product.
func CartLineID(productID, variant string, at time.Time) string {
	if variant == "" {
		return fmt.Sprintf("%s-%d", productID, at.UnixNano())
	}
	return fmt.Sprintf("%s-%s-%d", productID, variant, at.UnixNano())
}

// WishlistEntryID builds the synthetic id for a wishlist entry. Entries are
// membership-keyed, so the id carries no timestamp.
func WishlistEntryID(productID, variant string) string {
	if variant == "" {
		return productID
	}
	return productID + "-" + variant
}

// Equal compares two items field by field. Prices compare by value, not by
// decimal representation.
func (i Item) Equal(o Item) bool {
	if i.ID != o.ID || i.ProductID != o.ProductID || i.Variant != o.Variant {
		return false
	}
	if i.ProductType != o.ProductType || i.Name != o.Name || i.Image != o.Image {
		return false
	}
	if i.Material != o.Material || i.Stone != o.Stone || i.Currency != o.Currency {
		return false
	}
	if !i.Price.Equal(o.Price) {
		return false
	}
	if (i.OriginalPrice == nil) != (o.OriginalPrice == nil) {
		return false
	}
	if i.OriginalPrice != nil && !i.OriginalPrice.Equal(*o.OriginalPrice) {
		return false
	}
	if i.Quantity != o.Quantity {
		return false
	}
	return i.AddedAt.Equal(o.AddedAt)
}

// ItemsEqual is the structural equality used to decide whether an inbound
// notification actually changes anything.
func ItemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if !a[n].Equal(b[n]) {
			return false
		}
	}
	return true
}
