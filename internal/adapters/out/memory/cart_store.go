// Package memory provides the in-process CartStore used by a single instance deployment
// and by tests.
package memory

import (
	"context"
	"sync"
	"time"

	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

type entry struct {
	cart      *cart.Cart
	expiresAt time.Time
}

// CartStore keeps carts in a map guarded by a mutex. Expired carts are dropped on access
// and by PurgeExpired. Stored carts are copies, so callers never share state with the store.
type CartStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[kernel.UUID]entry
}

type Option func(*CartStore)

// WithClock replaces time.Now, for tests that exercise expiry.
func WithClock(now func() time.Time) Option {
	return func(s *CartStore) { s.now = now }
}

func NewCartStore(ttl time.Duration, opts ...Option) *CartStore {
	s := &CartStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[kernel.UUID]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CartStore) Save(_ context.Context, c *cart.Cart) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[c.ID()] = entry{cart: c.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *CartStore) Get(_ context.Context, id kernel.UUID) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	if !ok {
		return nil, errs.NewObjectNotFoundError("cart", id.String())
	}
	return e.cart.Clone(), nil
}

func (s *CartStore) Delete(_ context.Context, id kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// PurgeExpired drops every expired cart and reports how many were removed.
func (s *CartStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			purged++
		}
	}
	return purged, nil
}

// Len reports the number of entries, including expired ones not yet dropped.
func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
