package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCartStore implements cart.Store in process memory.
// Carts are not shared across instances; use it for tests and demos.
type MemoryCartStore struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryCartStore creates the store and starts its expiry loop
func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	store := &MemoryCartStore{
		entries:  make(map[string]memoryEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(cleanupInterval(ttl))

	return store
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

// Load returns a copy of the stored cart, or an empty cart
func (s *MemoryCartStore) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return cart.New(sessionID), nil
	}

	// Stored as JSON so callers never share slices with the store
	c := cart.New(sessionID)
	if err := json.Unmarshal(e.data, c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return c, nil
}

// Save stores the cart and refreshes its expiry
func (s *MemoryCartStore) Save(_ context.Context, c *cart.Cart) error {
	c.UpdatedAt = time.Now()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	s.mu.Lock()
	s.entries[c.SessionID] = memoryEntry{data: data, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Delete removes the cart for a session
func (s *MemoryCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *MemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored carts, expired ones included
func (s *MemoryCartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryCartStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryCartStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

var _ cart.Store = (*MemoryCartStore)(nil)
