// Package session keeps the signed-in identity on the client. The cached
// identity is trusted as-is: its membership tier is what the checkout
// discounts are computed from, without asking the server again.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/persist"
)

// Gateway is the remote side of login and registration.
type Gateway interface {
	Login(ctx context.Context, email, password string) (user.Identity, error)
	Register(ctx context.Context, reg user.Registration) (user.Identity, error)
}

type Store struct {
	mu       sync.RWMutex
	identity *user.Identity
	loading  bool

	gw        Gateway
	persister persist.Store
	key       string
	log       *zap.Logger
}

// New reads any saved identity before returning, so the store is never
// observed half-initialised. A corrupt snapshot is an error.
func New(ctx context.Context, gw Gateway, p persist.Store, namespace string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		gw:        gw,
		persister: p,
		key:       persist.Key(namespace, persist.IdentityKey),
		log:       log,
		loading:   true,
	}
	defer s.setLoading(false)

	b, err := p.Load(ctx, s.key)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load identity: %w", err)
	}
	var id user.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return nil, fmt.Errorf("decode identity snapshot %s: %w", s.key, err)
	}
	s.identity = &id
	return s, nil
}

// Login reports whether the server accepted the credentials. Failures are
// logged, never returned.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	id, err := s.gw.Login(ctx, email, password)
	if err != nil {
		s.log.Warn("login failed", zap.String("email", email), zap.Error(err))
		return false
	}
	// The identity is cached in memory even when the snapshot fails, so the
	// sign-in holds for this process.
	if err := s.adopt(ctx, id); err != nil {
		s.log.Warn("identity snapshot not saved", zap.String("key", s.key), zap.Error(err))
	}
	return true
}

// Register creates the account and signs it in.
func (s *Store) Register(ctx context.Context, reg user.Registration) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	id, err := s.gw.Register(ctx, reg)
	if err != nil {
		s.log.Warn("registration failed", zap.String("email", reg.Email), zap.Error(err))
		return false
	}
	if err := s.adopt(ctx, id); err != nil {
		s.log.Warn("identity snapshot not saved", zap.String("key", s.key), zap.Error(err))
	}
	return true
}

// Adopt replaces the cached identity, e.g. after a subscription upgraded it.
func (s *Store) Adopt(ctx context.Context, id user.Identity) error {
	return s.adopt(ctx, id)
}

func (s *Store) adopt(ctx context.Context, id user.Identity) error {
	s.mu.Lock()
	s.identity = &id
	s.mu.Unlock()

	b, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.persister.Save(ctx, s.key, b); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// Logout forgets the identity in memory first, then drops the snapshot.
// The cart is untouched.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.persister.Delete(ctx, s.key); err != nil {
		s.log.Warn("identity snapshot not removed", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("remove identity: %w", err)
	}
	return nil
}

// Identity returns a copy of the signed-in identity.
func (s *Store) Identity() (user.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return user.Identity{}, false
	}
	return *s.identity, true
}

// CurrentMembership is the only accessor the checkout reads the tier from.
func (s *Store) CurrentMembership() membership.Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.CurrentMembership()
}

// Loading is true while a login or registration call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
