package service

import (
	"context"

	"provreg/internal/audit"
	"provreg/internal/registry/models"
	dErrors "provreg/pkg/domain-errors"
	"provreg/pkg/requestcontext"
)

// GetAnalytics returns the read-only record summary to the custodian, any
// principal holding an active grant, or the administrator.
func (s *Service) GetAnalytics(ctx context.Context, id uint64) (*models.Analytics, error) {
	ctx, span := s.tracer.Start(ctx, "registry.GetAnalytics")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookup(err)
	}

	ok, err := s.canRead(ctx, rec, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		err := dErrors.New(dErrors.CodeUnauthorized, "caller has no read standing for this record")
		s.countAuthzFailure(err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	return &models.Analytics{
		Age:        int64(now.Sub(rec.GenesisTimestamp).Seconds()),
		Footprint:  rec.BinaryFootprint,
		LabelCount: len(rec.ClassificationLabels),
	}, nil
}

// VerifyAuthenticity reports whether the claimed custodian matches the actual
// one. A mismatch is a normal successful outcome; only absence and missing
// authorization produce errors.
func (s *Service) VerifyAuthenticity(ctx context.Context, id uint64, claimed string) (*models.Verification, error) {
	ctx, span := s.tracer.Start(ctx, "registry.VerifyAuthenticity")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookup(err)
	}

	ok, err := s.canRead(ctx, rec, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		err := dErrors.New(dErrors.CodeUnauthorized, "caller has no read standing for this record")
		s.countAuthzFailure(err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	matches := rec.Custodian == claimed
	return &models.Verification{
		Matches:   matches,
		CheckedAt: now,
		Age:       int64(now.Sub(rec.GenesisTimestamp).Seconds()),
		Confirmed: matches,
	}, nil
}

// Diagnostics is administrator-only. TotalRecords reports the sequence value:
// every identifier ever allocated, deletions included.
func (s *Service) Diagnostics(ctx context.Context) (*models.Diagnostics, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Diagnostics")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if caller != s.admin {
		err := dErrors.New(dErrors.CodeAdminRequired, "diagnostics require administrator standing")
		s.countAuthzFailure(err)
		return nil, err
	}

	seq, err := s.records.Sequence(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read identifier sequence")
	}

	return &models.Diagnostics{
		TotalRecords: seq,
		Healthy:      true,
		Timestamp:    requestcontext.Now(ctx),
	}, nil
}

// SecurityProtocol is the administrator-or-custodian gate. Beyond the
// authorization check it has no effect yet; it reserves the entry point for
// restricted-access marking.
func (s *Service) SecurityProtocol(ctx context.Context, id uint64) error {
	ctx, span := s.tracer.Start(ctx, "registry.SecurityProtocol")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return translateLookup(err)
	}
	if caller != s.admin && rec.Custodian != caller {
		err := dErrors.New(dErrors.CodeAdminRequired, "security protocol requires administrator or custodian standing")
		s.countAuthzFailure(err)
		return err
	}

	s.emitAudit(ctx, audit.ActionSecurityProtocol, id, "")
	return nil
}
