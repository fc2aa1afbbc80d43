package service

import (
	"context"
	"fmt"
	"strings"

	"provreg/internal/audit"
	"provreg/internal/registry/models"
)

// AugmentLabels appends extra labels to the record's classification labels,
// preserving order. The merged list must stay within capacity; on overflow
// the original labels are untouched. Returns the merged list.
func (s *Service) AugmentLabels(ctx context.Context, id uint64, extra []string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "registry.AugmentLabels")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	guard := custodianOnly(caller)
	var merged []string
	_, err = s.records.Execute(ctx, id,
		func(rec *models.ProvenanceRecord) error {
			if err := guard(rec); err != nil {
				return err
			}
			if err := models.ValidateLabels(extra); err != nil {
				return err
			}
			merged, err = models.MergeLabels(rec.ClassificationLabels, extra)
			return err
		},
		func(rec *models.ProvenanceRecord) {
			rec.ClassificationLabels = merged
		})
	if err != nil {
		err = translateLookup(err)
		s.countAuthzFailure(err)
		return nil, err
	}

	s.emitAudit(ctx, audit.ActionLabelsAugmented, id, strings.Join(extra, ","))
	return merged, nil
}

// MarkArchival appends the fixed archival label. Overflow past capacity fails
// the same way as any other label merge.
func (s *Service) MarkArchival(ctx context.Context, id uint64) error {
	ctx, span := s.tracer.Start(ctx, "registry.MarkArchival")
	defer span.End()

	caller, err := s.caller(ctx)
	if err != nil {
		return err
	}

	guard := custodianOnly(caller)
	var merged []string
	_, err = s.records.Execute(ctx, id,
		func(rec *models.ProvenanceRecord) error {
			if err := guard(rec); err != nil {
				return err
			}
			merged, err = models.MergeLabels(rec.ClassificationLabels, []string{models.ArchivalLabel})
			return err
		},
		func(rec *models.ProvenanceRecord) {
			rec.ClassificationLabels = merged
		})
	if err != nil {
		err = translateLookup(err)
		s.countAuthzFailure(err)
		return err
	}

	s.emitAudit(ctx, audit.ActionArchivalMarked, id, fmt.Sprintf("label=%s", models.ArchivalLabel))
	return nil
}
