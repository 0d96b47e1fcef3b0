package remotestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-sync/internal/domain"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Push(ctx context.Context, userID string, kind domain.StoreKind, items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	const q = `
INSERT INTO store_records (user_id, kind, items, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id, kind)
DO UPDATE SET items = EXCLUDED.items, updated_at = now()
`
	if _, err := s.pool.Exec(ctx, q, userID, string(kind), payload); err != nil {
		return fmt.Errorf("upsert %s record: %w", kind, err)
	}
	return nil
}

func (s *postgresStore) Pull(ctx context.Context, userID string, kind domain.StoreKind) ([]domain.Item, error) {
	const q = `
SELECT items
FROM store_records
WHERE user_id = $1 AND kind = $2
`
	var payload []byte
	err := s.pool.QueryRow(ctx, q, userID, string(kind)).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select %s record: %w", kind, err)
	}
	var items []domain.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return items, nil
}
