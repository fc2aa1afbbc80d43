package grant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type GrantStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *GrantStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestGrantStoreSuite(t *testing.T) {
	suite.Run(t, new(GrantStoreSuite))
}

func (s *GrantStoreSuite) TestGrantAndCheck() {
	s.Run("absent entry means not authorized", func() {
		ok, err := s.store.Authorized(s.ctx, 1, "bob")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("granted entry authorizes exactly that pair", func() {
		s.Require().NoError(s.store.Grant(s.ctx, 1, "bob"))

		ok, err := s.store.Authorized(s.ctx, 1, "bob")
		s.Require().NoError(err)
		s.True(ok)

		ok, err = s.store.Authorized(s.ctx, 2, "bob")
		s.Require().NoError(err)
		s.False(ok, "grant must be scoped to the record")

		ok, err = s.store.Authorized(s.ctx, 1, "carol")
		s.Require().NoError(err)
		s.False(ok, "grant must be scoped to the principal")
	})

	s.Run("granting twice is idempotent", func() {
		s.Require().NoError(s.store.Grant(s.ctx, 3, "bob"))
		s.Require().NoError(s.store.Grant(s.ctx, 3, "bob"))

		ok, err := s.store.Authorized(s.ctx, 3, "bob")
		s.Require().NoError(err)
		s.True(ok)
	})
}

func (s *GrantStoreSuite) TestRevoke() {
	s.Run("removes an existing grant", func() {
		s.Require().NoError(s.store.Grant(s.ctx, 1, "bob"))
		s.Require().NoError(s.store.Revoke(s.ctx, 1, "bob"))

		ok, err := s.store.Authorized(s.ctx, 1, "bob")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("revoking an absent grant is not an error", func() {
		s.Require().NoError(s.store.Revoke(s.ctx, 42, "nobody"))
	})
}
