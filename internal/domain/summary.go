package domain

import "github.com/shopspring/decimal"

// ShippingPolicy is the threshold rule for the shipping charge: free at or
// above FreeThreshold, FlatFee below it.
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

// CartSummary is derived from the cart's items. It is never stored.
type CartSummary struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	ItemCount int             `json:"itemCount"`
}

// Summarize computes the cart summary. The currency is taken from the first
// item; nothing validates that all items share it.
func Summarize(items []Item, policy ShippingPolicy) CartSummary {
	var s CartSummary
	if len(items) == 0 {
		return s
	}
	s.Currency = items[0].Currency
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		s.Subtotal = s.Subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(qty))))
		s.ItemCount += qty
	}
	if s.Subtotal.LessThan(policy.FreeThreshold) {
		s.Shipping = policy.FlatFee
	}
	s.Total = s.Subtotal.Add(s.Shipping)
	return s
}
