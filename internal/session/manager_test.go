package session

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront-sync/internal/domain"
	"storefront-sync/internal/localcache"
	"storefront-sync/internal/syncstore"
)

func testManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	dir := t.TempDir()
	policy := domain.ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(150),
		FlatFee:       decimal.NewFromInt(10),
	}
	factory := func(token string) (*syncstore.Cart, *syncstore.Wishlist) {
		cache := localcache.New(dir+"/"+token, logger)
		deps := syncstore.Deps{Cache: cache, Logger: logger}
		return syncstore.NewCart(deps, policy), syncstore.NewWishlist(deps)
	}
	m := NewManager(factory, ttl, logger)
	t.Cleanup(m.Shutdown)
	return m
}

func TestCreateStartsAsGuest(t *testing.T) {
	m := testManager(t, time.Hour)
	sess, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Identity().IsUser() {
		t.Fatalf("new session should be guest, got %s", sess.Identity())
	}
	got, ok := m.Get(sess.Token)
	if !ok || got != sess {
		t.Fatalf("Get did not return the created session")
	}
}

func TestSignInSwitchesBothStores(t *testing.T) {
	m := testManager(t, time.Hour)
	sess, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.SignIn(context.Background(), sess.Token, "userA"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got := sess.Cart.Identity(); got != domain.User("userA") {
		t.Fatalf("cart identity = %s", got)
	}
	if got := sess.Wishlist.Identity(); got != domain.User("userA") {
		t.Fatalf("wishlist identity = %s", got)
	}

	if err := m.SignOut(context.Background(), sess.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if sess.Cart.Identity().IsUser() {
		t.Fatalf("expected guest after sign-out")
	}
}

func TestExpiredSessionDropped(t *testing.T) {
	m := testManager(t, -time.Minute)
	sess, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := m.Get(sess.Token); ok {
		t.Fatalf("expired session still resolvable")
	}
}

func TestUnknownTokenSignIn(t *testing.T) {
	m := testManager(t, time.Hour)
	if err := m.SignIn(context.Background(), "nope", "userA"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
