// Package session ties browser sessions to store instances. A session
// plays the role of a device: it owns one cart and one wishlist and
// exactly one active identity, guest until sign-in binds a user id.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"storefront-sync/internal/domain"
	"storefront-sync/internal/syncstore"
)

// StoreFactory builds the cart/wishlist pair for a new session. The token
// lets the factory give each session its own local cache namespace.
type StoreFactory func(token string) (*syncstore.Cart, *syncstore.Wishlist)

type Session struct {
	Token     string
	Cart      *syncstore.Cart
	Wishlist  *syncstore.Wishlist
	expiresAt time.Time
}

// Identity returns the session's active identity. Both stores switch
// together, so the cart's view is authoritative.
func (s *Session) Identity() domain.Identity {
	return s.Cart.Identity()
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  StoreFactory
	ttl      time.Duration
	logger   *log.Logger
}

func NewManager(factory StoreFactory, ttl time.Duration, logger *log.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      ttl,
		logger:   logger,
	}
}

// Create opens a fresh guest session with both stores populated from the
// session's (empty) guest slots.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	cart, wishlist := m.factory(token)
	if err := cart.SetIdentity(ctx, domain.Guest()); err != nil {
		return nil, err
	}
	if err := wishlist.SetIdentity(ctx, domain.Guest()); err != nil {
		return nil, err
	}
	sess := &Session{
		Token:     token,
		Cart:      cart,
		Wishlist:  wishlist,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[token] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get resolves a session token. Expired sessions are torn down on access,
// the way expired anonymous tokens are dropped on validation.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	if ok && time.Now().After(sess.expiresAt) {
		delete(m.sessions, token)
		m.mu.Unlock()
		sess.Cart.Shutdown()
		sess.Wishlist.Shutdown()
		return nil, false
	}
	m.mu.Unlock()
	return sess, ok
}

// SignIn binds the session to an authenticated user id. Both stores run
// their identity switch before the call returns.
func (m *Manager) SignIn(ctx context.Context, token, userID string) error {
	sess, ok := m.Get(token)
	if !ok {
		return domain.ErrNotFound
	}
	identity := domain.User(userID)
	if err := sess.Cart.SetIdentity(ctx, identity); err != nil {
		return err
	}
	return sess.Wishlist.SetIdentity(ctx, identity)
}

// SignOut returns the session to its guest identity.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	sess, ok := m.Get(token)
	if !ok {
		return domain.ErrNotFound
	}
	if err := sess.Cart.SetIdentity(ctx, domain.Guest()); err != nil {
		return err
	}
	return sess.Wishlist.SetIdentity(ctx, domain.Guest())
}

// Shutdown tears down every session's stores, draining pending pushes.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Cart.Shutdown()
		sess.Wishlist.Shutdown()
	}
	if len(sessions) > 0 {
		m.logger.Printf("session: closed %d sessions", len(sessions))
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
