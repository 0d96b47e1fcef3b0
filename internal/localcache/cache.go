// Package localcache is the on-device persistent cache: one small JSON
// document per (identity, store kind), replaced wholesale on every write.
// Reads are a validation boundary: anything that fails to decode is treated
// as no data and logged, never returned as an error.
package localcache

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront-sync/internal/domain"
)

type Cache struct {
	dir    string
	logger *log.Logger
}

func New(dir string, logger *log.Logger) *Cache {
	return &Cache{dir: dir, logger: logger}
}

// Save writes the record for the identity's slot, creating it on first
// write.
func (c *Cache) Save(identity domain.Identity, kind domain.StoreKind, items []domain.Item) error {
	rec := domain.Record{Items: items, UpdatedAt: time.Now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path(identity, kind), data, 0o644)
}

// Load returns the identity's item list, or an empty list if the slot is
// absent or corrupt. It never fails: a cache miss and a broken cache look
// the same to the caller.
func (c *Cache) Load(identity domain.Identity, kind domain.StoreKind) []domain.Item {
	data, err := os.ReadFile(c.path(identity, kind))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Printf("localcache: read %s for %s: %v", kind, identity, err)
		}
		return nil
	}
	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger.Printf("localcache: discarding corrupt %s record for %s: %v", kind, identity, err)
		return nil
	}
	return rec.Items
}

// Clear deletes the identity's slot. Clearing an absent slot is a no-op.
func (c *Cache) Clear(identity domain.Identity, kind domain.StoreKind) error {
	err := os.Remove(c.path(identity, kind))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Cache) path(identity domain.Identity, kind domain.StoreKind) string {
	slot := "guest"
	if identity.IsUser() {
		slot = "user-" + sanitize(identity.UserID())
	}
	return filepath.Join(c.dir, string(kind)+"-"+slot+".json")
}

// sanitize keeps user ids filesystem-safe without collapsing distinct ids
// onto one slot for typical id alphabets.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
