//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"provreg/internal/registry/models"
	"provreg/internal/registry/store/record"
	"provreg/pkg/platform/sentinel"
	"provreg/pkg/testutil/containers"
)

type PostgresRecordSuite struct {
	suite.Suite
	store *record.Postgres
	ctx   context.Context
}

func TestPostgresRecordSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.NewPostgresContainer(t)
	s := &PostgresRecordSuite{store: record.NewPostgres(pg.Pool), ctx: context.Background()}
	suite.Run(t, s)
}

func (s *PostgresRecordSuite) SetupSuite() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *PostgresRecordSuite) newRecord(custodian string) *models.ProvenanceRecord {
	return &models.ProvenanceRecord{
		AssetDesignation:     "dataset-v1",
		Custodian:            custodian,
		BinaryFootprint:      500,
		GenesisTimestamp:     time.Now().UTC().Truncate(time.Microsecond),
		DescriptiveSummary:   "x",
		ClassificationLabels: []string{"a", "b"},
	}
}

func (s *PostgresRecordSuite) TestRegisterAndFind() {
	rec := s.newRecord("alice")
	id, err := s.store.Register(s.ctx, rec)
	s.Require().NoError(err)
	s.Positive(id)

	found, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("alice", found.Custodian)
	s.Equal([]string{"a", "b"}, found.ClassificationLabels)
	s.WithinDuration(rec.GenesisTimestamp, found.GenesisTimestamp, time.Millisecond)
}

func (s *PostgresRecordSuite) TestSequenceNeverReusesIdentifiers() {
	id, err := s.store.Register(s.ctx, s.newRecord("alice"))
	s.Require().NoError(err)

	err = s.store.Delete(s.ctx, id, func(*models.ProvenanceRecord) error { return nil })
	s.Require().NoError(err)

	next, err := s.store.Register(s.ctx, s.newRecord("bob"))
	s.Require().NoError(err)
	s.Greater(next, id)

	seq, err := s.store.Sequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(next, seq)
}

func (s *PostgresRecordSuite) TestExecuteValidateThenMutate() {
	id, err := s.store.Register(s.ctx, s.newRecord("alice"))
	s.Require().NoError(err)

	updated, err := s.store.Execute(s.ctx, id,
		func(*models.ProvenanceRecord) error { return nil },
		func(r *models.ProvenanceRecord) { r.Custodian = "bob" })
	s.Require().NoError(err)
	s.Equal("bob", updated.Custodian)

	_, err = s.store.Execute(s.ctx, id,
		func(*models.ProvenanceRecord) error { return sentinel.ErrInvalidState },
		func(r *models.ProvenanceRecord) { r.Custodian = "mallory" })
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	found, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("bob", found.Custodian, "failed validation must not mutate")
}

func (s *PostgresRecordSuite) TestMissingRecord() {
	_, err := s.store.FindByID(s.ctx, 999999)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
