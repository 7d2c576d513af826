package service

import (
	"testing"
	"time"
)

func TestMemorySessionStore(t *testing.T) {
	t.Run("issued token is immediately valid", func(t *testing.T) {
		store := NewMemorySessionStore(24 * time.Hour)
		token := store.Issue("admin")
		if token == "" {
			t.Fatal("expected a non-empty token")
		}
		if !store.IsValid(token) {
			t.Error("freshly issued token should be valid")
		}
	})

	t.Run("blank token is never valid", func(t *testing.T) {
		store := NewMemorySessionStore(24 * time.Hour)
		if store.IsValid("") {
			t.Error("empty token should be invalid")
		}
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		store := NewMemorySessionStore(24 * time.Hour)
		if store.IsValid("not-a-token") {
			t.Error("unknown token should be invalid")
		}
	})

	t.Run("tokens are unique per issue", func(t *testing.T) {
		store := NewMemorySessionStore(24 * time.Hour)
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token := store.Issue("admin")
			if seen[token] {
				t.Fatalf("duplicate session token: %s", token)
			}
			seen[token] = true
		}
	})

	t.Run("token valid within window, invalid and removed after", func(t *testing.T) {
		store := NewMemorySessionStore(24 * time.Hour)
		current := time.Now()
		store.now = func() time.Time { return current }

		token := store.Issue("admin")

		current = current.Add(23 * time.Hour)
		if !store.IsValid(token) {
			t.Error("token should remain valid inside the 24h window")
		}

		current = current.Add(2 * time.Hour)
		if store.IsValid(token) {
			t.Error("token should be invalid after the window elapses")
		}
		if store.Len() != 0 {
			t.Error("expired token should be removed on lookup")
		}
	})

	t.Run("sweep removes only expired sessions", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)
		current := time.Now()
		store.now = func() time.Time { return current }

		stale := store.Issue("admin")
		current = current.Add(2 * time.Hour)
		fresh := store.Issue("admin")

		if removed := store.Sweep(); removed != 1 {
			t.Errorf("expected 1 swept session, got %d", removed)
		}
		if store.IsValid(stale) {
			t.Error("stale token should be gone")
		}
		if !store.IsValid(fresh) {
			t.Error("fresh token should survive the sweep")
		}
	})
}
