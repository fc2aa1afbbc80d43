// Package record persists ProvenanceRecords and owns the identifier
// sequence. Identifiers are allocated strictly increasing and never reused,
// even after a record is eliminated.
package record

import (
	"context"
	"sync"

	"provreg/internal/registry/models"
	"provreg/pkg/platform/sentinel"
)

// InMemory is the default store: a guarded map plus the sequence counter.
// The mutex makes each operation atomic, matching the single-writer-at-a-time
// discipline the registry requires.
type InMemory struct {
	mu      sync.RWMutex
	seq     uint64
	records map[uint64]*models.ProvenanceRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[uint64]*models.ProvenanceRecord)}
}

// Register allocates the next identifier, assigns it to rec, and inserts a
// copy. The sequence advances only on success.
func (s *InMemory) Register(_ context.Context, rec *models.ProvenanceRecord) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.seq + 1
	if _, exists := s.records[id]; exists {
		return 0, sentinel.ErrConflict
	}
	rec.ID = id
	s.records[id] = rec.Clone()
	s.seq = id
	return id, nil
}

// FindByID returns a copy of the record so callers can never mutate store
// state through the result.
func (s *InMemory) FindByID(_ context.Context, id uint64) (*models.ProvenanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

// Execute runs validate then mutate against the record while holding the
// write lock, so authorization checks and the mutation they guard cannot be
// interleaved with other writers. The record is untouched when validate
// fails. Returns a copy of the final state.
func (s *InMemory) Execute(
	_ context.Context,
	id uint64,
	validate func(*models.ProvenanceRecord) error,
	mutate func(*models.ProvenanceRecord),
) (*models.ProvenanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	// Validate against a copy so a misbehaving callback cannot leak partial writes.
	probe := rec.Clone()
	if err := validate(probe); err != nil {
		return nil, err
	}
	mutate(rec)
	return rec.Clone(), nil
}

// Delete removes the record after validate passes. The sequence is not
// decremented; the identifier is permanently retired.
func (s *InMemory) Delete(
	_ context.Context,
	id uint64,
	validate func(*models.ProvenanceRecord) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if err := validate(rec.Clone()); err != nil {
		return err
	}
	delete(s.records, id)
	return nil
}

// Sequence returns the current sequence value: the count of identifiers ever
// allocated.
func (s *InMemory) Sequence(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq, nil
}
