package remotestore

import (
	"context"

	"storefront-sync/internal/domain"
)

// Store is the remote durable record per authenticated user: the source of
// truth for a signed-in identity once it is reachable.
type Store interface {
	// Push upserts the user's record with the new item list. Transport and
	// service failures propagate; the caller decides whether to surface
	// them.
	Push(ctx context.Context, userID string, kind domain.StoreKind, items []domain.Item) error

	// Pull returns the user's stored item list. A missing row is not an
	// error: it comes back as an empty list. Transport failures propagate.
	Pull(ctx context.Context, userID string, kind domain.StoreKind) ([]domain.Item, error)
}
