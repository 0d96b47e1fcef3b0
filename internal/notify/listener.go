// Package notify delivers out-of-band record changes to subscribed stores
// over Postgres LISTEN/NOTIFY. The trigger installed by the migrations
// announces only the changed (user_id, kind) pair, because NOTIFY payloads
// are size-capped; the listener re-reads the row and hands the fresh item
// list to the subscriber.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-sync/internal/domain"
)

const channelName = "store_records_changed"

type recordPuller interface {
	Pull(ctx context.Context, userID string, kind domain.StoreKind) ([]domain.Item, error)
}

type changeEvent struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
}

type Listener struct {
	pool   *pgxpool.Pool
	store  recordPuller
	logger *log.Logger
}

func NewListener(pool *pgxpool.Pool, store recordPuller, logger *log.Logger) *Listener {
	return &Listener{pool: pool, store: store, logger: logger}
}

// Subscribe starts delivering the given user's record changes to fn until
// the returned cancel function is called or ctx ends. Each subscription
// holds one dedicated connection.
func (l *Listener) Subscribe(ctx context.Context, userID string, kind domain.StoreKind, fn func(items []domain.Item)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	conn, err := l.pool.Acquire(subCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	if _, err := conn.Exec(subCtx, "LISTEN "+channelName); err != nil {
		conn.Release()
		cancel()
		return nil, err
	}
	go l.run(subCtx, conn, userID, kind, fn)
	return cancel, nil
}

func (l *Listener) run(ctx context.Context, conn *pgxpool.Conn, userID string, kind domain.StoreKind, fn func(items []domain.Item)) {
	defer conn.Release()
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Printf("notify: wait on %s for user %s: %v", kind, userID, err)
			}
			return
		}
		var ev changeEvent
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			l.logger.Printf("notify: bad payload %q: %v", n.Payload, err)
			continue
		}
		if ev.UserID != userID || ev.Kind != string(kind) {
			continue
		}
		items, err := l.store.Pull(ctx, userID, kind)
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Printf("notify: pull %s for user %s: %v", kind, userID, err)
			}
			continue
		}
		fn(items)
	}
}
