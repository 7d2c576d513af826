package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore issues and validates the opaque bearer tokens the auth
// gate checks. Sessions live only in process memory; a restart logs
// everyone out.
type SessionStore interface {
	Issue(identity string) string
	IsValid(token string) bool
}

// MemorySessionStore maps each issued token to its expiry instant.
// The clock is injectable so tests can control time.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates a session store with the given token TTL.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a new session token expiring one TTL from now. The
// identity is not retained; validation is purely token-based.
func (s *MemorySessionStore) Issue(identity string) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = s.now().Add(s.ttl)
	s.mu.Unlock()

	slog.Info("session issued", "identity", identity)
	return token
}

// IsValid reports whether the token is known and unexpired. Expired
// tokens are removed on lookup.
func (s *MemorySessionStore) IsValid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Sweep removes all expired sessions and returns how many were dropped.
// Lazy removal in IsValid only reclaims tokens that are looked up again;
// the sweep covers the rest.
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions currently held, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SessionJanitor periodically sweeps expired sessions out of the store.
type SessionJanitor struct {
	store    *MemorySessionStore
	interval time.Duration
	done     chan struct{}
}

// NewSessionJanitor creates a janitor for the given store.
func NewSessionJanitor(store *MemorySessionStore, interval time.Duration) *SessionJanitor {
	return &SessionJanitor{
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine.
func (j *SessionJanitor) Start(ctx context.Context) {
	slog.Info("session janitor started", "interval", j.interval)

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := j.store.Sweep(); removed > 0 {
					slog.Info("swept expired sessions", "removed", removed)
				}
			case <-ctx.Done():
				slog.Info("session janitor stopping")
				close(j.done)
				return
			}
		}
	}()
}

// Wait blocks until the janitor has fully stopped.
func (j *SessionJanitor) Wait() {
	<-j.done
}
