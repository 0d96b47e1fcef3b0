package notify

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront-sync/internal/domain"
	"storefront-sync/internal/migrate"
	"storefront-sync/internal/remotestore"
)

func TestListenerDeliversRowChanges(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE store_records`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	store := remotestore.NewPostgres(pool)
	listener := NewListener(pool, store, log.New(io.Discard, "", 0))

	delivered := make(chan []domain.Item, 1)
	cancel, err := listener.Subscribe(ctx, "userA", domain.KindCart, func(items []domain.Item) {
		select {
		case delivered <- items:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	items := []domain.Item{{
		ID: "l1", ProductID: "ring-aurora", ProductType: domain.ProductRing,
		Name: "Aurora Ring", Price: decimal.NewFromInt(40), Currency: "GBP", Quantity: 1,
	}}
	if err := store.Push(ctx, "userA", domain.KindCart, items); err != nil {
		t.Fatalf("Push: %v", err)
	}

	select {
	case got := <-delivered:
		if !domain.ItemsEqual(got, items) {
			t.Fatalf("delivered list mismatch: %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no notification within 5s")
	}

	// A change for another user must not reach this subscriber.
	if err := store.Push(ctx, "userB", domain.KindCart, items); err != nil {
		t.Fatalf("Push userB: %v", err)
	}
	select {
	case got := <-delivered:
		t.Fatalf("unexpected delivery for another user: %+v", got)
	case <-time.After(500 * time.Millisecond):
	}
}
