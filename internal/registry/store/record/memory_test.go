package record

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"provreg/internal/registry/models"
	"provreg/pkg/platform/sentinel"
)

type RecordStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *RecordStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestRecordStoreSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreSuite))
}

func (s *RecordStoreSuite) newRecord(custodian string) *models.ProvenanceRecord {
	return &models.ProvenanceRecord{
		AssetDesignation:     "dataset-v1",
		Custodian:            custodian,
		BinaryFootprint:      500,
		GenesisTimestamp:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DescriptiveSummary:   "x",
		ClassificationLabels: []string{"a"},
	}
}

// TestSequenceAllocation verifies identifiers come from a strictly increasing
// sequence starting at 1.
func (s *RecordStoreSuite) TestSequenceAllocation() {
	s.Run("first registration gets id 1", func() {
		id, err := s.store.Register(s.ctx, s.newRecord("alice"))
		s.Require().NoError(err)
		s.Equal(uint64(1), id)

		seq, err := s.store.Sequence(s.ctx)
		s.Require().NoError(err)
		s.Equal(id, seq)
	})

	s.Run("each registration advances the sequence by one", func() {
		for want := uint64(2); want <= 4; want++ {
			id, err := s.store.Register(s.ctx, s.newRecord("alice"))
			s.Require().NoError(err)
			s.Equal(want, id)
		}
	})
}

// TestNoIdentifierReuse verifies deletion retires the identifier permanently.
func (s *RecordStoreSuite) TestNoIdentifierReuse() {
	noValidate := func(*models.ProvenanceRecord) error { return nil }

	id, err := s.store.Register(s.ctx, s.newRecord("alice"))
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, id, noValidate))

	seq, err := s.store.Sequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(id, seq, "delete must not rewind the sequence")

	next, err := s.store.Register(s.ctx, s.newRecord("bob"))
	s.Require().NoError(err)
	s.Equal(id+1, next, "retired identifier must not be handed out again")

	_, err = s.store.FindByID(s.ctx, id)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestFindReturnsCopies verifies callers cannot mutate store state through
// lookup results.
func (s *RecordStoreSuite) TestFindReturnsCopies() {
	id, err := s.store.Register(s.ctx, s.newRecord("alice"))
	s.Require().NoError(err)

	found, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	found.Custodian = "mallory"
	found.ClassificationLabels[0] = "tampered"

	again, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("alice", again.Custodian)
	s.Equal([]string{"a"}, again.ClassificationLabels)
}

// TestExecute verifies the validate-then-mutate callback contract.
func (s *RecordStoreSuite) TestExecute() {
	s.Run("mutates after validation passes", func() {
		id, err := s.store.Register(s.ctx, s.newRecord("alice"))
		s.Require().NoError(err)

		updated, err := s.store.Execute(s.ctx, id,
			func(*models.ProvenanceRecord) error { return nil },
			func(r *models.ProvenanceRecord) { r.Custodian = "bob" })
		s.Require().NoError(err)
		s.Equal("bob", updated.Custodian)

		found, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("bob", found.Custodian)
	})

	s.Run("leaves record untouched when validation fails", func() {
		id, err := s.store.Register(s.ctx, s.newRecord("alice"))
		s.Require().NoError(err)

		_, err = s.store.Execute(s.ctx, id,
			func(*models.ProvenanceRecord) error { return sentinel.ErrInvalidState },
			func(r *models.ProvenanceRecord) { r.Custodian = "mallory" })
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)

		found, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("alice", found.Custodian)
	})

	s.Run("missing record", func() {
		_, err := s.store.Execute(s.ctx, 999,
			func(*models.ProvenanceRecord) error { return nil },
			func(*models.ProvenanceRecord) {})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestDelete verifies validation gates removal.
func (s *RecordStoreSuite) TestDelete() {
	s.Run("validation failure keeps the record", func() {
		id, err := s.store.Register(s.ctx, s.newRecord("alice"))
		s.Require().NoError(err)

		err = s.store.Delete(s.ctx, id,
			func(*models.ProvenanceRecord) error { return sentinel.ErrInvalidState })
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)

		_, err = s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
	})

	s.Run("missing record", func() {
		err := s.store.Delete(s.ctx, 999, func(*models.ProvenanceRecord) error { return nil })
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
