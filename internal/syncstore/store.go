// Package syncstore holds the authoritative in-memory item list for the
// active identity and keeps it consistent with the local cache, the remote
// store, and other sessions of the same user. Mutations apply to memory and
// the local cache before the remote push is queued, so callers never wait
// on the network. Convergence across sessions is last-writer-wins at
// whole-list granularity.
package syncstore

import (
	"context"
	"log"
	"sync"
	"time"

	"storefront-sync/internal/domain"

	"github.com/shopspring/decimal"
)

// LocalCache is the per-identity on-device slot.
type LocalCache interface {
	Save(identity domain.Identity, kind domain.StoreKind, items []domain.Item) error
	Load(identity domain.Identity, kind domain.StoreKind) []domain.Item
	Clear(identity domain.Identity, kind domain.StoreKind) error
}

// RemoteStore is the durable record per authenticated user.
type RemoteStore interface {
	Push(ctx context.Context, userID string, kind domain.StoreKind, items []domain.Item) error
	Pull(ctx context.Context, userID string, kind domain.StoreKind) ([]domain.Item, error)
}

// Notifier delivers out-of-band changes to the subscribed user's remote
// record. The returned cancel tears the subscription down.
type Notifier interface {
	Subscribe(ctx context.Context, userID string, kind domain.StoreKind, fn func(items []domain.Item)) (func(), error)
}

// NewItem carries the caller-supplied fields of an add operation. The store
// assigns the synthetic id, the quantity, and the added-at time.
type NewItem struct {
	ProductID     string
	Variant       string
	ProductType   domain.ProductType
	Name          string
	Image         string
	Material      string
	Stone         string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Currency      string
}

// Deps are the collaborators a store is built from. Remote and Notifier may
// be nil, which degrades the store to local-only operation.
type Deps struct {
	Cache    LocalCache
	Remote   RemoteStore
	Notifier Notifier
	Logger   *log.Logger
}

const pushTimeout = 10 * time.Second

type pushRequest struct {
	userID string
	items  []domain.Item
}

// Store is the reconciliation engine shared by Cart and Wishlist. All
// mutations serialize on mu; the remote push leg runs on a single worker
// goroutine so pushes leave in mutation order without blocking callers.
type Store struct {
	kind     domain.StoreKind
	cache    LocalCache
	remote   RemoteStore
	notifier Notifier
	logger   *log.Logger

	mu          sync.Mutex
	identity    domain.Identity
	initialized bool
	items       []domain.Item
	gen         uint64
	loading     bool
	open        bool
	unsubscribe func()

	subCtx    context.Context
	subCancel context.CancelFunc

	pushMu     sync.Mutex
	pushCond   *sync.Cond
	pushQueue  []pushRequest
	pushing    bool
	closed     bool
	workerDone chan struct{}

	now func() time.Time
}

func newStore(kind domain.StoreKind, deps Deps) *Store {
	subCtx, subCancel := context.WithCancel(context.Background())
	s := &Store{
		kind:       kind,
		cache:      deps.Cache,
		remote:     deps.Remote,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		subCtx:     subCtx,
		subCancel:  subCancel,
		workerDone: make(chan struct{}),
		now:        time.Now,
	}
	s.pushCond = sync.NewCond(&s.pushMu)
	go s.pushWorker()
	return s
}

// SetIdentity switches the store to a new identity: it flushes the old
// identity's state, clears the view, repopulates from the best available
// source (remote first for users, local fallback), and re-subscribes.
// Switching to the already-active identity is a no-op.
func (s *Store) SetIdentity(ctx context.Context, identity domain.Identity) error {
	s.mu.Lock()
	if s.initialized && s.identity == identity {
		s.mu.Unlock()
		return nil
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	prev := s.identity
	prevItems := snapshot(s.items)
	if s.initialized && prev.IsUser() {
		// Last chance to persist state that is about to be orphaned.
		if err := s.cache.Save(prev, s.kind, prevItems); err != nil {
			s.logger.Printf("%s: flush cache for %s: %v", s.kind, prev, err)
		}
		s.enqueuePush(prev.UserID(), prevItems)
	}
	s.identity = identity
	s.initialized = true
	s.items = nil
	s.gen++
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	items := s.populate(ctx, identity)

	s.mu.Lock()
	if s.identity != identity {
		// A later switch superseded this one while we were loading.
		s.mu.Unlock()
		return nil
	}
	// A mutation that interleaved with the load is newer than the loaded
	// record and keeps the list.
	if s.gen == gen {
		s.items = items
	}
	s.mu.Unlock()

	if identity.IsUser() && s.notifier != nil {
		unsub, err := s.notifier.Subscribe(s.subCtx, identity.UserID(), s.kind, func(items []domain.Item) {
			s.adopt(identity, items)
		})
		if err != nil {
			s.logger.Printf("%s: subscribe for %s: %v", s.kind, identity, err)
		} else {
			s.mu.Lock()
			current := s.identity == identity
			if current {
				s.unsubscribe = unsub
			}
			s.mu.Unlock()
			if !current {
				unsub()
			}
		}
	}

	s.mu.Lock()
	if s.identity == identity {
		s.loading = false
	}
	s.mu.Unlock()
	return nil
}

// populate resolves the new identity's initial state. The remote record
// wins for an authenticated user when it is non-empty; an empty or
// unreachable remote falls back to the identity's local slot.
func (s *Store) populate(ctx context.Context, identity domain.Identity) []domain.Item {
	if identity.IsUser() && s.remote != nil {
		remoteItems, err := s.remote.Pull(ctx, identity.UserID(), s.kind)
		switch {
		case err != nil:
			s.logger.Printf("%s: pull for %s failed, using local cache: %v", s.kind, identity, err)
		case len(remoteItems) > 0:
			if err := s.cache.Save(identity, s.kind, remoteItems); err != nil {
				s.logger.Printf("%s: cache adopted record for %s: %v", s.kind, identity, err)
			}
			return remoteItems
		}
	}
	return s.cache.Load(identity, s.kind)
}

// adopt replaces the in-memory list with a notified remote state. The
// change did not originate here, so it is cached but never pushed back;
// re-pushing would loop the notification. identity is the user the
// subscription was created for: a delivery still in flight when the
// store switches identities must not land in the new identity's view.
func (s *Store) adopt(identity domain.Identity, items []domain.Item) {
	s.mu.Lock()
	if s.identity != identity || domain.ItemsEqual(s.items, items) {
		s.mu.Unlock()
		return
	}
	s.items = snapshot(items)
	s.gen++
	s.mu.Unlock()

	if err := s.cache.Save(identity, s.kind, items); err != nil {
		s.logger.Printf("%s: cache notified record for %s: %v", s.kind, identity, err)
	}
}

func (s *Store) add(in NewItem) {
	s.mu.Lock()
	found := false
	for n := range s.items {
		if s.items[n].Matches(in.ProductID, in.Variant) {
			found = true
			if s.kind == domain.KindCart {
				s.items[n].Quantity++
			}
			break
		}
	}
	if !found {
		now := s.now().UTC()
		item := domain.Item{
			ProductID:     in.ProductID,
			Variant:       in.Variant,
			ProductType:   in.ProductType,
			Name:          in.Name,
			Image:         in.Image,
			Material:      in.Material,
			Stone:         in.Stone,
			Price:         in.Price,
			OriginalPrice: in.OriginalPrice,
			Currency:      in.Currency,
			AddedAt:       now,
		}
		if s.kind == domain.KindCart {
			item.ID = domain.CartLineID(in.ProductID, in.Variant, now)
			item.Quantity = 1
		} else {
			item.ID = domain.WishlistEntryID(in.ProductID, in.Variant)
		}
		s.items = append(s.items, item)
	} else if s.kind == domain.KindWishlist {
		// Membership semantics: the entry is already present.
		s.mu.Unlock()
		return
	}
	s.persistLocked()
}

func (s *Store) removeByID(itemID string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(s.items) {
		s.mu.Unlock()
		return
	}
	s.items = kept
	s.persistLocked()
}

func (s *Store) removeByProduct(productID, variant string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if !it.Matches(productID, variant) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(s.items) {
		s.mu.Unlock()
		return
	}
	s.items = kept
	s.persistLocked()
}

func (s *Store) setQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.removeByID(itemID)
		return
	}
	s.mu.Lock()
	for n := range s.items {
		if s.items[n].ID == itemID {
			s.items[n].Quantity = quantity
			s.persistLocked()
			return
		}
	}
	s.mu.Unlock()
}

// Clear empties the store, deletes the identity's local slot, and pushes an
// empty list for an authenticated identity.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.gen++
	identity := s.identity
	s.mu.Unlock()

	if err := s.cache.Clear(identity, s.kind); err != nil {
		s.logger.Printf("%s: clear cache for %s: %v", s.kind, identity, err)
	}
	if identity.IsUser() && s.remote != nil {
		s.enqueuePush(identity.UserID(), nil)
	}
}

// Items returns a copy of the current list.
func (s *Store) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.items)
}

// Loading reports whether an identity switch is still populating.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Identity returns the currently active identity.
func (s *Store) Identity() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// persistLocked writes through to the local cache and queues the remote
// push. It is entered with mu held and releases it.
func (s *Store) persistLocked() {
	s.gen++
	identity := s.identity
	items := snapshot(s.items)
	s.mu.Unlock()

	if err := s.cache.Save(identity, s.kind, items); err != nil {
		s.logger.Printf("%s: write cache for %s: %v", s.kind, identity, err)
	}
	if identity.IsUser() && s.remote != nil {
		s.enqueuePush(identity.UserID(), items)
	}
}

func (s *Store) enqueuePush(userID string, items []domain.Item) {
	if s.remote == nil {
		return
	}
	s.pushMu.Lock()
	if s.closed {
		s.pushMu.Unlock()
		return
	}
	// Coalesce with a queued push for the same user: each push carries the
	// whole list, so only the newest state matters.
	if n := len(s.pushQueue); n > 0 && s.pushQueue[n-1].userID == userID {
		s.pushQueue[n-1].items = items
	} else {
		s.pushQueue = append(s.pushQueue, pushRequest{userID: userID, items: items})
	}
	s.pushMu.Unlock()
	s.pushCond.Broadcast()
}

func (s *Store) pushWorker() {
	defer close(s.workerDone)
	for {
		s.pushMu.Lock()
		for len(s.pushQueue) == 0 && !s.closed {
			s.pushCond.Wait()
		}
		if len(s.pushQueue) == 0 && s.closed {
			s.pushMu.Unlock()
			return
		}
		req := s.pushQueue[0]
		s.pushQueue = s.pushQueue[1:]
		s.pushing = true
		s.pushMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		if err := s.remote.Push(ctx, req.userID, s.kind, req.items); err != nil {
			// Local state already stands as the user's truth; the next
			// successful push or inbound notification reconciles.
			s.logger.Printf("%s: push for user %s: %v", s.kind, req.userID, err)
		}
		cancel()

		s.pushMu.Lock()
		s.pushing = false
		s.pushMu.Unlock()
		s.pushCond.Broadcast()
	}
}

// Flush blocks until every queued push has been attempted.
func (s *Store) Flush() {
	s.pushMu.Lock()
	for len(s.pushQueue) > 0 || s.pushing {
		s.pushCond.Wait()
	}
	s.pushMu.Unlock()
}

// Shutdown tears down the subscription and drains the push worker.
func (s *Store) Shutdown() {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.mu.Unlock()
	s.subCancel()

	s.pushMu.Lock()
	s.closed = true
	s.pushMu.Unlock()
	s.pushCond.Broadcast()
	<-s.workerDone
}

func snapshot(items []domain.Item) []domain.Item {
	if items == nil {
		return nil
	}
	out := make([]domain.Item, len(items))
	copy(out, items)
	return out
}
