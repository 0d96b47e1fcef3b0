package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront-sync/internal/domain"
	"storefront-sync/internal/remotestore"
)

// Apply upserts demo records for a demo user so a running api instance can
// be exercised end to end: pushing these again from psql or a second run
// fires the change trigger and exercises the notification path. Idempotent
// via the store's upsert.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	store := remotestore.NewPostgres(pool)

	cartItems := []domain.Item{
		{
			ID:          "ring-aurora-52-seed",
			ProductID:   "ring-aurora",
			Variant:     "52",
			ProductType: domain.ProductRing,
			Name:        "Aurora Ring",
			Material:    "18k gold",
			Stone:       "sapphire",
			Price:       decimal.RequireFromString("149.99"),
			Currency:    "GBP",
			Quantity:    1,
		},
		{
			ID:          "necklace-luna-seed",
			ProductID:   "necklace-luna",
			ProductType: domain.ProductNecklace,
			Name:        "Luna Necklace",
			Material:    "sterling silver",
			Stone:       "moonstone",
			Price:       decimal.RequireFromString("89.00"),
			Currency:    "GBP",
			Quantity:    2,
		},
	}
	if err := store.Push(ctx, "demo-user", domain.KindCart, cartItems); err != nil {
		return fmt.Errorf("seed cart record: %w", err)
	}

	wishlistItems := []domain.Item{
		{
			ID:          "bracelet-iris",
			ProductID:   "bracelet-iris",
			ProductType: domain.ProductBracelet,
			Name:        "Iris Bracelet",
			Material:    "rose gold",
			Price:       decimal.RequireFromString("210.00"),
			Currency:    "GBP",
		},
	}
	if err := store.Push(ctx, "demo-user", domain.KindWishlist, wishlistItems); err != nil {
		return fmt.Errorf("seed wishlist record: %w", err)
	}

	return nil
}
