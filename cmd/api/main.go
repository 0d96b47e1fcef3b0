package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"storefront-sync/internal/checkout"
	"storefront-sync/internal/config"
	"storefront-sync/internal/db"
	"storefront-sync/internal/domain"
	"storefront-sync/internal/httpserver"
	"storefront-sync/internal/localcache"
	"storefront-sync/internal/notify"
	"storefront-sync/internal/remotestore"
	"storefront-sync/internal/session"
	"storefront-sync/internal/syncstore"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	remote := remotestore.NewPostgres(dbpool)
	listener := notify.NewListener(dbpool, remote, logger)
	policy := domain.ShippingPolicy{
		FreeThreshold: cfg.FreeShippingThreshold,
		FlatFee:       cfg.ShippingFee,
	}

	factory := func(token string) (*syncstore.Cart, *syncstore.Wishlist) {
		cache := localcache.New(filepath.Join(cfg.CacheDir, token), logger)
		deps := syncstore.Deps{
			Cache:    cache,
			Remote:   remote,
			Notifier: listener,
			Logger:   logger,
		}
		return syncstore.NewCart(deps, policy), syncstore.NewWishlist(deps)
	}
	sessions := session.NewManager(factory, cfg.SessionTTL, logger)
	checkoutSvc := checkout.New(loggingProvider{logger: logger}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions: sessions,
		Checkout: checkoutSvc,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
	sessions.Shutdown()
	logger.Printf("server stopped")
}
