// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package ephemeral

import (
	"context"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

type entry struct {
	value    string
	deadline time.Time
}

// MemoryStore is an in-process store for development and tests.
// Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an empty store. A nil now uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]entry), now: now}
}

// Set writes value under key, replacing any previous value and TTL.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return oops.Code("EPHEMERAL_INVALID_TTL").With("key", key).Errorf("ttl must be positive, got %s", ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, deadline: s.now().Add(ttl)}
	return nil
}

// Get returns ok=false when key is absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(e.deadline) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

var _ auth.ResetTokenStore = (*MemoryStore)(nil)
