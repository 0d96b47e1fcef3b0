// Package checkout turns the current cart into a payment request: it
// converts the total into the shopper's selected currency over a fixed
// rate table, hands the amount to an opaque payment provider under a
// generated order reference, and clears the cart once the provider
// confirms.
package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-sync/internal/domain"
)

// PaymentProvider is the external payment widget. The service only knows
// that a charge either confirms or fails.
type PaymentProvider interface {
	Charge(ctx context.Context, reference string, amount decimal.Decimal, currency string) error
}

// Cart is the slice of the cart store the checkout consumes.
type Cart interface {
	Items() []domain.Item
	Summary() domain.CartSummary
	Clear()
}

// Order is the outcome of a confirmed checkout.
type Order struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Items     []domain.Item   `json:"items"`
}

type Service struct {
	provider PaymentProvider
	rates    map[string]decimal.Decimal
	logger   *log.Logger
}

// New builds a checkout service over the given provider. The rate table is
// fixed per deployment; GBP is the base currency.
func New(provider PaymentProvider, logger *log.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
		rates: map[string]decimal.Decimal{
			"GBP": decimal.NewFromInt(1),
			"USD": decimal.RequireFromString("1.27"),
			"EUR": decimal.RequireFromString("1.17"),
		},
	}
}

// Checkout charges the cart's total in the selected currency and clears the
// cart on confirmation. A failed charge leaves the cart untouched.
func (s *Service) Checkout(ctx context.Context, cart Cart, currency string) (*Order, error) {
	items := cart.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}
	summary := cart.Summary()
	if currency == "" {
		currency = summary.Currency
	}
	amount, err := s.convert(summary.Total, summary.Currency, currency)
	if err != nil {
		return nil, err
	}

	reference := "ORD-" + strings.ToUpper(uuid.NewString()[:8])
	if err := s.provider.Charge(ctx, reference, amount, currency); err != nil {
		return nil, fmt.Errorf("charge %s: %w", reference, err)
	}

	cart.Clear()
	s.logger.Printf("checkout: order %s confirmed for %s %s", reference, amount, currency)
	return &Order{
		Reference: reference,
		Amount:    amount,
		Currency:  currency,
		Items:     items,
	}, nil
}

func (s *Service) convert(total decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if to == from {
		return total.Round(2), nil
	}
	fromRate, ok := s.rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for currency %q", from)
	}
	toRate, ok := s.rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for currency %q", to)
	}
	return total.Div(fromRate).Mul(toRate).Round(2), nil
}
