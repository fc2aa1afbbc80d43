package service

import (
	"context"
	"fmt"

	"provreg/internal/audit"
	dErrors "provreg/pkg/domain-errors"
)

// GrantAccess persists (id, accessor) -> authorized in the access matrix.
// Only the custodian may grant. Granting twice is idempotent.
func (s *Service) GrantAccess(ctx context.Context, id uint64, accessor string) error {
	ctx, span := s.tracer.Start(ctx, "registry.GrantAccess")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return translateLookup(err)
	}
	if rec.Custodian != caller {
		err := dErrors.New(dErrors.CodeOwnershipMismatch, "caller is not the record custodian")
		s.countAuthzFailure(err)
		return err
	}

	if err := s.grants.Grant(ctx, id, accessor); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist access grant")
	}

	if s.metrics != nil {
		s.metrics.AccessGrants.Inc()
	}
	s.emitAudit(ctx, audit.ActionAccessGranted, id, fmt.Sprintf("accessor=%s", accessor))
	return nil
}

// RevokeAccess deletes the (id, accessor) entry if present; revoking an
// absent grant is not an error. Self-revocation is rejected before any state
// is consulted: the custodian's implicit standing cannot be surrendered.
func (s *Service) RevokeAccess(ctx context.Context, id uint64, accessor string) error {
	ctx, span := s.tracer.Start(ctx, "registry.RevokeAccess")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if accessor == caller {
		err := dErrors.New(dErrors.CodeAdminRequired, "custodian cannot revoke their own standing")
		s.countAuthzFailure(err)
		return err
	}

	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return translateLookup(err)
	}
	if rec.Custodian != caller {
		err := dErrors.New(dErrors.CodeOwnershipMismatch, "caller is not the record custodian")
		s.countAuthzFailure(err)
		return err
	}

	if err := s.grants.Revoke(ctx, id, accessor); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke access grant")
	}

	if s.metrics != nil {
		s.metrics.AccessRevocations.Inc()
	}
	s.emitAudit(ctx, audit.ActionAccessRevoked, id, fmt.Sprintf("accessor=%s", accessor))
	return nil
}
