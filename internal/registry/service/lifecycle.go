package service

import (
	"context"
	"fmt"

	"provreg/internal/audit"
	"provreg/internal/registry/models"
	dErrors "provreg/pkg/domain-errors"
	"provreg/pkg/requestcontext"
)

// Register validates all metadata, allocates the next identifier, stores the
// record with the caller as custodian, and seeds the caller's access grant.
// The sequence advances only when registration succeeds.
func (s *Service) Register(
	ctx context.Context,
	designation string,
	footprint uint64,
	summary string,
	labels []string,
) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Register")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return 0, err
	}
	if err := models.ValidateMetadata(designation, footprint, summary, labels); err != nil {
		return 0, err
	}

	rec := &models.ProvenanceRecord{
		AssetDesignation:     designation,
		Custodian:            caller,
		BinaryFootprint:      footprint,
		GenesisTimestamp:     requestcontext.Now(ctx),
		DescriptiveSummary:   summary,
		ClassificationLabels: append([]string(nil), labels...),
	}

	id, err := s.records.Register(ctx, rec)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register record")
	}

	// The custodian's standing never depends on the matrix (canRead checks
	// the custodian field first), so a failure here degrades nothing the
	// caller can observe; it is still logged as an internal fault.
	if err := s.grants.Grant(ctx, id, caller); err != nil {
		s.logger.ErrorContext(ctx, "failed to seed custodian grant",
			"record_id", id,
			"error", err,
		)
	}

	if s.metrics != nil {
		s.metrics.RecordsRegistered.Inc()
	}
	s.emitAudit(ctx, audit.ActionRecordRegistered, id, designation)
	return id, nil
}

// Revise overwrites the four mutable fields in place. Custodian and genesis
// timestamp are untouched. Existence and ownership are checked before field
// validation, so a non-custodian always sees OwnershipMismatch.
func (s *Service) Revise(
	ctx context.Context,
	id uint64,
	designation string,
	footprint uint64,
	summary string,
	labels []string,
) error {
	ctx, span := s.tracer.Start(ctx, "registry.Revise")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	guard := custodianOnly(caller)
	_, err = s.records.Execute(ctx, id,
		func(rec *models.ProvenanceRecord) error {
			if err := guard(rec); err != nil {
				return err
			}
			return models.ValidateMetadata(designation, footprint, summary, labels)
		},
		func(rec *models.ProvenanceRecord) {
			rec.AssetDesignation = designation
			rec.BinaryFootprint = footprint
			rec.DescriptiveSummary = summary
			rec.ClassificationLabels = append([]string(nil), labels...)
		})
	if err != nil {
		err = translateLookup(err)
		s.countAuthzFailure(err)
		return err
	}

	s.emitAudit(ctx, audit.ActionRecordRevised, id, designation)
	return nil
}

// TransferCustody reassigns the custodian unconditionally: the successor is
// not validated and may equal the caller. Identifier and genesis timestamp
// are stable across the transfer.
func (s *Service) TransferCustody(ctx context.Context, id uint64, successor string) error {
	ctx, span := s.tracer.Start(ctx, "registry.TransferCustody")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	_, err = s.records.Execute(ctx, id,
		custodianOnly(caller),
		func(rec *models.ProvenanceRecord) {
			rec.Custodian = successor
		})
	if err != nil {
		err = translateLookup(err)
		s.countAuthzFailure(err)
		return err
	}

	if s.metrics != nil {
		s.metrics.CustodyTransfers.Inc()
	}
	s.emitAudit(ctx, audit.ActionCustodyTransfer, id, fmt.Sprintf("successor=%s", successor))
	return nil
}

// Eliminate permanently removes the record. Access matrix entries for the
// identifier are left in place: the identifier can never be reassigned, so
// the orphaned grants are dead but harmless.
func (s *Service) Eliminate(ctx context.Context, id uint64) error {
	ctx, span := s.tracer.Start(ctx, "registry.Eliminate")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	if err := s.records.Delete(ctx, id, custodianOnly(caller)); err != nil {
		err = translateLookup(err)
		s.countAuthzFailure(err)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordsEliminated.Inc()
	}
	s.emitAudit(ctx, audit.ActionRecordEliminated, id, "")
	return nil
}
