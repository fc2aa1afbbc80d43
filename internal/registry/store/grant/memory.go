// Package grant persists the access matrix: per-(record, principal) read
// authorization flags. Absence of an entry means not authorized. Entries for
// eliminated records are left in place; identifiers are never reused, so the
// orphans are inert.
package grant

import (
	"context"
	"sync"
)

type key struct {
	recordID uint64
	accessor string
}

// InMemory is a guarded set of authorized (record, principal) pairs.
type InMemory struct {
	mu     sync.RWMutex
	grants map[key]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{grants: make(map[key]struct{})}
}

// Grant inserts or overwrites the authorization flag. Idempotent.
func (s *InMemory) Grant(_ context.Context, recordID uint64, accessor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[key{recordID, accessor}] = struct{}{}
	return nil
}

// Revoke deletes the entry if present. Revoking an absent grant is not an
// error.
func (s *InMemory) Revoke(_ context.Context, recordID uint64, accessor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, key{recordID, accessor})
	return nil
}

// Authorized reports whether the pair holds an active grant.
func (s *InMemory) Authorized(_ context.Context, recordID uint64, accessor string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[key{recordID, accessor}]
	return ok, nil
}
